package room

import (
	"fmt"
	"sync"

	"github.com/emberdragonc/ember-tower/internal/tower/catalog"
	"github.com/emberdragonc/ember-tower/internal/tower/protocol"
	"github.com/emberdragonc/ember-tower/internal/tower/session"
)

// Registry owns the live set of rooms and all membership state. Rooms are
// created once from the catalog and never destroyed.
//
// A single mutex guards membership across all rooms. Room switches touch
// two rooms at once; one lock domain makes the leave-then-join transition
// atomic with no lock ordering concerns, and the room set is small and
// fixed. The rooms map itself is immutable after construction.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	order      []string          // catalog order, for stable listings
	memberRoom map[string]string // session id -> room id
}

// NewRegistry validates the catalog and builds the registry from it.
//
// Precondition: Called once at startup, before any traffic.
// Postcondition: Returns a registry with one empty room per catalog entry,
// or a non-nil error on an inconsistent catalog.
func NewRegistry(entries []catalog.Entry) (*Registry, error) {
	if err := catalog.Validate(entries); err != nil {
		return nil, fmt.Errorf("seeding room registry: %w", err)
	}

	g := &Registry{
		rooms:      make(map[string]*Room, len(entries)),
		order:      make([]string, 0, len(entries)),
		memberRoom: make(map[string]string),
	}
	for _, e := range entries {
		g.rooms[e.ID] = newRoom(e)
		g.order = append(g.order, e.ID)
	}
	return g, nil
}

// Get returns the room with the given id. The returned room's static fields
// may be read freely; its membership is only accessible through registry
// methods.
func (g *Registry) Get(roomID string) (*Room, bool) {
	r, ok := g.rooms[roomID]
	return r, ok
}

// RoomCount returns the number of rooms.
func (g *Registry) RoomCount() int {
	return len(g.rooms)
}

// JoinResult describes the state changes of a successful join.
type JoinResult struct {
	// Room is the joined room.
	Room *Room
	// Position is the assigned center-tile position.
	Position protocol.Position
	// Users is the member list after insertion, including the joiner.
	Users []protocol.User
	// OtherIDs are the connection ids of the other members, for the
	// user_joined notification.
	OtherIDs []string
	// PrevRoomID is the room the session was removed from, or "" if the
	// session was roomless.
	PrevRoomID string
	// PrevRemaining are the connection ids still in the previous room, for
	// the user_left notification.
	PrevRemaining []string
}

// Join atomically checks existence, access restriction, and capacity, then
// moves the session into the room: it is removed from its previous room (if
// any), its position is reset to the new room's center tile with sitting
// cleared, and it is inserted into the new membership set.
//
// The capacity check and the insertion happen in one critical section, so
// concurrent joins can never overshoot MaxOccupants. The capacity check
// precedes the removal from the previous room, so re-joining a full room the
// session already occupies reports ErrRoomFull, matching production
// behavior.
//
// Postcondition: On error, no state has changed. On success, the session's
// room field and the membership sets agree.
func (g *Registry) Join(roomID string, sess *session.Session) (JoinResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}
	if r.AgentOnly && !sess.IsAgent() {
		return JoinResult{}, ErrAccessDenied
	}
	if len(r.members) >= r.MaxOccupants {
		return JoinResult{}, ErrRoomFull
	}

	res := JoinResult{Room: r}

	if prev, ok := g.memberRoom[sess.ID()]; ok {
		pr := g.rooms[prev]
		delete(pr.members, sess.ID())
		res.PrevRoomID = prev
		res.PrevRemaining = memberIDs(pr.members, "")
	}

	pos := r.Center()
	sess.SetPlacement(roomID, pos)
	r.members[sess.ID()] = sess
	g.memberRoom[sess.ID()] = roomID

	res.Position = pos
	res.Users = memberUsers(r.members)
	res.OtherIDs = memberIDs(r.members, sess.ID())
	return res, nil
}

// LeaveResult describes the state changes of a leave.
type LeaveResult struct {
	// RoomID is the room the session was removed from.
	RoomID string
	// Remaining are the connection ids still in the room, for the
	// user_left notification.
	Remaining []string
}

// Leave removes the session from whatever room it occupies and clears its
// room field. It is a no-op, not an error, if the session is not a member
// of any room, so cleanup paths can call it unconditionally.
//
// Postcondition: Returns (result, true) if the session was removed, or
// (zero, false) if it was roomless.
func (g *Registry) Leave(sessID string) (LeaveResult, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	roomID, ok := g.memberRoom[sessID]
	if !ok {
		return LeaveResult{}, false
	}

	r := g.rooms[roomID]
	if sess, ok := r.members[sessID]; ok {
		sess.ClearRoom()
	}
	delete(r.members, sessID)
	delete(g.memberRoom, sessID)

	return LeaveResult{RoomID: roomID, Remaining: memberIDs(r.members, "")}, true
}

// MemberIDs returns a snapshot of the connection ids currently in the room,
// for room-cast targeting. The snapshot is taken under the membership lock,
// so a concurrent switch never yields a half-updated set.
func (g *Registry) MemberIDs(roomID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return nil
	}
	return memberIDs(r.members, "")
}

// Summary is one row of the room listing.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Floor        int    `json:"floor"`
	Kind         string `json:"type"`
	UserCount    int    `json:"userCount"`
	MaxOccupants int    `json:"maxUsers"`
	AgentOnly    bool   `json:"agentOnly"`
}

// List returns per-room occupancy summaries in catalog order.
func (g *Registry) List() []Summary {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Summary, 0, len(g.order))
	for _, id := range g.order {
		r := g.rooms[id]
		out = append(out, Summary{
			ID:           r.ID,
			Name:         r.Name,
			Floor:        r.Floor,
			Kind:         r.Kind,
			UserCount:    len(r.members),
			MaxOccupants: r.MaxOccupants,
			AgentOnly:    r.AgentOnly,
		})
	}
	return out
}

// Snapshot is a read-only view of one room for the query surface. All
// slices are copies; mutating them does not affect registry state.
type Snapshot struct {
	ID           string
	Name         string
	Floor        int
	Kind         string
	Size         catalog.Size
	UserCount    int
	MaxOccupants int
	AgentOnly    bool
	Furniture    []catalog.Furniture
	Users        []protocol.User
}

// GetSnapshot returns a read-only view of the room.
//
// Postcondition: Returns (snapshot, true) if the room exists, (zero, false)
// otherwise.
func (g *Registry) GetSnapshot(roomID string) (Snapshot, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		ID:           r.ID,
		Name:         r.Name,
		Floor:        r.Floor,
		Kind:         r.Kind,
		Size:         r.Size,
		UserCount:    len(r.members),
		MaxOccupants: r.MaxOccupants,
		AgentOnly:    r.AgentOnly,
		Furniture:    append([]catalog.Furniture{}, r.Furniture...),
		Users:        memberUsers(r.members),
	}, true
}

// memberIDs returns the connection ids in the set, excluding except (when
// non-empty).
func memberIDs(members map[string]*session.Session, except string) []string {
	ids := make([]string, 0, len(members))
	for id := range members {
		if except != "" && id == except {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// memberUsers returns the wire users for the set.
func memberUsers(members map[string]*session.Session) []protocol.User {
	users := make([]protocol.User, 0, len(members))
	for _, sess := range members {
		users = append(users, sess.User())
	}
	return users
}
