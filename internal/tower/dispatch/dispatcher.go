// Package dispatch implements the per-connection protocol state machine.
// Each connection progresses Connected -> Authenticated (roomless) ->
// InRoom; the transport invokes one handler at a time per connection, in
// arrival order, so a connection's effects are applied strictly in the
// order its events arrived.
package dispatch

import (
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/emberdragonc/ember-tower/internal/tower/protocol"
	"github.com/emberdragonc/ember-tower/internal/tower/room"
	"github.com/emberdragonc/ember-tower/internal/tower/session"
)

// Wire error strings, reported to the acting connection only.
const (
	msgNotAuthenticated = "Not authenticated"
	msgRoomNotFound     = "Room not found"
	msgAgentsOnly       = "This room is for verified AI agents only"
	msgRoomFull         = "Room is full"
)

// Sender delivers outbound messages. Implementations must never block.
type Sender interface {
	// Unicast delivers a message to exactly one connection.
	Unicast(connID string, msg any)
	// RoomCast delivers a message to every listed connection.
	RoomCast(connIDs []string, msg any)
}

// Dispatcher validates and applies inbound events against the session store
// and room registry, and emits the resulting broadcasts.
type Dispatcher struct {
	logger     *zap.Logger
	sessions   *session.Store
	rooms      *room.Registry
	sender     Sender
	maxChatLen int
	now        func() time.Time
}

// NewDispatcher creates a Dispatcher.
//
// Precondition: logger, sessions, rooms, and sender must be non-nil;
// maxChatLen must be >= 1.
func NewDispatcher(logger *zap.Logger, sessions *session.Store, rooms *room.Registry, sender Sender, maxChatLen int) *Dispatcher {
	return &Dispatcher{
		logger:     logger,
		sessions:   sessions,
		rooms:      rooms,
		sender:     sender,
		maxChatLen: maxChatLen,
		now:        time.Now,
	}
}

// HandleFrame decodes an inbound frame and routes it to the matching
// handler. Malformed frames and unknown event types are dropped without an
// error reply; they carry no usable intent to answer.
func (d *Dispatcher) HandleFrame(connID string, frame []byte) {
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		d.logger.Debug("dropping malformed frame",
			zap.String("conn_id", connID),
			zap.Error(err),
		)
		return
	}

	switch env.Type {
	case protocol.EventAuth:
		var p protocol.AuthPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			d.dropPayload(connID, env.Type, err)
			return
		}
		d.HandleAuth(connID, p)
	case protocol.EventJoinRoom:
		var p protocol.JoinRoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			d.dropPayload(connID, env.Type, err)
			return
		}
		d.HandleJoinRoom(connID, p.RoomID)
	case protocol.EventMove:
		var p protocol.MovePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			d.dropPayload(connID, env.Type, err)
			return
		}
		d.HandleMove(connID, p)
	case protocol.EventChat:
		var p protocol.ChatPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			d.dropPayload(connID, env.Type, err)
			return
		}
		d.HandleChat(connID, p.Text)
	default:
		d.logger.Debug("dropping unknown event type",
			zap.String("conn_id", connID),
			zap.String("event", env.Type),
		)
	}
}

func (d *Dispatcher) dropPayload(connID, event string, err error) {
	d.logger.Debug("dropping event with malformed payload",
		zap.String("conn_id", connID),
		zap.String("event", event),
		zap.Error(err),
	)
}

// HandleAuth creates a session from the claimed identity and acknowledges
// it to the originating connection. Authentication always succeeds; nothing
// is verified. Re-authenticating overwrites the existing session; if that
// session was in a room, it leaves first and the room is notified, so the
// old membership cannot outlive the identity it belonged to.
func (d *Dispatcher) HandleAuth(connID string, claimed protocol.AuthPayload) {
	if prev, ok := d.sessions.Get(connID); ok {
		if res, left := d.rooms.Leave(connID); left {
			d.sender.RoomCast(res.Remaining, protocol.NewUserLeft(connID, prev.Username()))
		}
	}

	sess := d.sessions.Authenticate(connID, session.Identity{
		Wallet:   claimed.Wallet,
		Username: claimed.Username,
		Sprite:   claimed.Sprite,
		IsAgent:  claimed.IsAgent,
		AgentID:  claimed.AgentID,
	})

	d.sender.Unicast(connID, protocol.NewAuthSuccess(sess.User()))
	d.logger.Info("session authenticated",
		zap.String("conn_id", connID),
		zap.String("username", sess.Username()),
		zap.Bool("is_agent", sess.IsAgent()),
	)
}

// HandleJoinRoom moves the session into the requested room. Joining while
// already in a room is a switch, not an error. On failure the acting
// connection gets an error message and no state changes.
func (d *Dispatcher) HandleJoinRoom(connID, roomID string) {
	sess, ok := d.sessions.Get(connID)
	if !ok {
		d.sender.Unicast(connID, protocol.NewError(msgNotAuthenticated))
		return
	}

	res, err := d.rooms.Join(roomID, sess)
	if err != nil {
		d.sender.Unicast(connID, protocol.NewError(joinErrorMessage(err)))
		d.logger.Debug("join rejected",
			zap.String("conn_id", connID),
			zap.String("room_id", roomID),
			zap.Error(err),
		)
		return
	}

	if res.PrevRoomID != "" {
		d.sender.RoomCast(res.PrevRemaining, protocol.NewUserLeft(connID, sess.Username()))
	}

	// The snapshot reply is computed after insertion, so the joiner sees
	// itself in the member list. The join notification goes to the other
	// members only.
	d.sender.Unicast(connID, protocol.NewRoomJoined(roomID, res.Room.Info(), res.Users, res.Position))
	d.sender.RoomCast(res.OtherIDs, protocol.NewUserJoined(sess.User()))

	d.logger.Info("user joined room",
		zap.String("conn_id", connID),
		zap.String("username", sess.Username()),
		zap.String("room_id", roomID),
	)
}

// HandleMove applies a movement to the session's current room. Roomless
// sessions and out-of-bounds targets are silent no-ops: stale client
// prediction produces both legitimately, so they are dropped rather than
// answered with an error.
func (d *Dispatcher) HandleMove(connID string, target protocol.MovePayload) {
	sess, ok := d.sessions.Get(connID)
	if !ok {
		return
	}
	roomID := sess.RoomID()
	if roomID == "" {
		return
	}
	r, ok := d.rooms.Get(roomID)
	if !ok {
		return
	}
	if !r.Contains(target.X, target.Y) {
		return
	}

	pos := protocol.Position{X: target.X, Y: target.Y}
	if f, ok := r.FurnitureAt(target.X, target.Y); ok && f.Sittable {
		pos.Sitting = true
		pos.FurnitureID = f.ID
	}
	sess.SetPosition(pos)

	d.sender.RoomCast(d.rooms.MemberIDs(roomID), protocol.NewUserMoved(connID, pos))
}

// HandleChat broadcasts a chat message to the session's room, sender
// included. Roomless sessions are a silent no-op. The text is truncated to
// the configured maximum before broadcast; nothing else is validated.
func (d *Dispatcher) HandleChat(connID, text string) {
	sess, ok := d.sessions.Get(connID)
	if !ok {
		return
	}
	roomID := sess.RoomID()
	if roomID == "" {
		return
	}

	msg := protocol.NewChatMessage(
		connID,
		sess.Username(),
		truncate(text, d.maxChatLen),
		sess.IsAgent(),
		d.now().UnixMilli(),
	)
	d.sender.RoomCast(d.rooms.MemberIDs(roomID), msg)
}

// HandleDisconnect performs unconditional cleanup for a closed connection:
// leave the current room (notifying the remaining members) and delete the
// session. Safe to call for connections that never authenticated; it
// reports nothing and cannot fail.
func (d *Dispatcher) HandleDisconnect(connID string) {
	if sess, ok := d.sessions.Get(connID); ok {
		if res, left := d.rooms.Leave(connID); left {
			d.sender.RoomCast(res.Remaining, protocol.NewUserLeft(connID, sess.Username()))
		}
		d.logger.Info("session disconnected",
			zap.String("conn_id", connID),
			zap.String("username", sess.Username()),
		)
	}
	d.sessions.Remove(connID)
}

func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return msgRoomNotFound
	case errors.Is(err, room.ErrAccessDenied):
		return msgAgentsOnly
	case errors.Is(err, room.ErrRoomFull):
		return msgRoomFull
	default:
		return "Unable to join room"
	}
}

// truncate limits s to max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
