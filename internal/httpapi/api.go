// Package httpapi exposes the read-only REST surface: health, room listing,
// per-room detail, and the agent registration stub. It shares the registry
// and session store with the realtime side but never mutates them.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emberdragonc/ember-tower/internal/tower/catalog"
	"github.com/emberdragonc/ember-tower/internal/tower/room"
	"github.com/emberdragonc/ember-tower/internal/tower/session"
)

// API serves the REST endpoints.
type API struct {
	logger   *zap.Logger
	rooms    *room.Registry
	sessions *session.Store
}

// NewAPI creates an API over the given registry and session store.
//
// Precondition: logger, rooms, and sessions must be non-nil.
func NewAPI(logger *zap.Logger, rooms *room.Registry, sessions *session.Store) *API {
	return &API{logger: logger, rooms: rooms, sessions: sessions}
}

// Register installs the API routes on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.HandleFunc("GET /api/rooms", a.handleListRooms)
	mux.HandleFunc("GET /api/rooms/{roomID}", a.handleGetRoom)
	mux.HandleFunc("POST /api/v1/ai/register", a.handleRegisterAgent)
}

type healthResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
	Rooms  int    `json:"rooms"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Users:  a.sessions.Count(),
		Rooms:  a.rooms.RoomCount(),
	})
}

func (a *API) handleListRooms(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.rooms.List())
}

type roomDetail struct {
	Name      string       `json:"name"`
	Floor     int          `json:"floor"`
	Size      catalog.Size `json:"size"`
	UserCount int          `json:"userCount"`
	MaxUsers  int          `json:"maxUsers"`
}

func (a *API) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.rooms.GetSnapshot(r.PathValue("roomID"))
	if !ok {
		a.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Room not found"})
		return
	}
	a.writeJSON(w, http.StatusOK, roomDetail{
		Name:      snap.Name,
		Floor:     snap.Floor,
		Size:      snap.Size,
		UserCount: snap.UserCount,
		MaxUsers:  snap.MaxOccupants,
	})
}

type registerAgentRequest struct {
	Wallet    string `json:"wallet"`
	AgentID   string `json:"agentId"`
	Signature string `json:"signature"`
}

type agentPerks struct {
	Discount        float64 `json:"discount"`
	ExclusiveLounge bool    `json:"exclusiveLounge"`
	DragonColor     string  `json:"dragonColor"`
}

type registerAgentResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	APIKey  string     `json:"apiKey"`
	Perks   agentPerks `json:"perks"`
}

// handleRegisterAgent issues an API key for a claimed agent identity. The
// wallet and signature are not verified; registration always succeeds.
func (a *API) handleRegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req registerAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	a.logger.Info("agent registered",
		zap.String("agent_id", req.AgentID),
		zap.String("wallet", req.Wallet),
	)

	a.writeJSON(w, http.StatusOK, registerAgentResponse{
		Success: true,
		Message: "Agent registered",
		APIKey:  "agent_" + req.AgentID + "_" + uuid.NewString(),
		Perks: agentPerks{
			Discount:        0.1,
			ExclusiveLounge: true,
			DragonColor:     "agent_gold",
		},
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Error("encoding response", zap.Error(err))
	}
}
