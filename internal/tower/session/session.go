// Package session provides per-connection session state and the store that
// maps connection ids to authenticated users.
package session

import (
	"sync"

	"github.com/emberdragonc/ember-tower/internal/tower/protocol"
)

// Default spawn tile assigned at authentication, before any room is joined.
const (
	defaultSpawnX = 32
	defaultSpawnY = 32
)

// Default sprites when the client claims none.
const (
	spriteHuman = "human_male"
	spriteAgent = "lobster"
)

// usernameIDLen is how much of the connection id seeds a default username.
const usernameIDLen = 6

// Identity is the claimed identity supplied with an auth event. Nothing is
// verified; the server trusts what the client sends.
type Identity struct {
	Wallet   string
	Username string
	Sprite   string
	IsAgent  bool
	AgentID  string
}

// Session is the server-side record of one authenticated connection.
// Identity fields are fixed at creation. Placement fields are guarded by a
// mutex: only the owning connection (or its disconnect path) writes them,
// but room snapshots read peers' placements concurrently.
type Session struct {
	id      string
	wallet  string
	username string
	sprite  string
	isAgent bool
	agentID string

	mu     sync.RWMutex
	roomID string
	pos    protocol.Position
}

// New creates a session for the given connection id, applying defaults for
// missing identity fields.
//
// Precondition: connID must be non-empty.
// Postcondition: Returns a roomless session at the default spawn tile.
func New(connID string, ident Identity) *Session {
	username := ident.Username
	if username == "" {
		short := connID
		if len(short) > usernameIDLen {
			short = short[:usernameIDLen]
		}
		username = "User_" + short
	}

	sprite := ident.Sprite
	if sprite == "" {
		if ident.IsAgent {
			sprite = spriteAgent
		} else {
			sprite = spriteHuman
		}
	}

	return &Session{
		id:       connID,
		wallet:   ident.Wallet,
		username: username,
		sprite:   sprite,
		isAgent:  ident.IsAgent,
		agentID:  ident.AgentID,
		pos:      protocol.Position{X: defaultSpawnX, Y: defaultSpawnY},
	}
}

// ID returns the transport-assigned connection id.
func (s *Session) ID() string { return s.id }

// Username returns the display name.
func (s *Session) Username() string { return s.username }

// IsAgent reports whether the session claimed the agent flag.
func (s *Session) IsAgent() bool { return s.isAgent }

// RoomID returns the current room id, or "" when roomless.
func (s *Session) RoomID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomID
}

// Position returns the current grid position.
func (s *Session) Position() protocol.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

// SetPosition updates the grid position (and sitting state) in place.
//
// Precondition: The caller is the owning connection's handler.
func (s *Session) SetPosition(pos protocol.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = pos
}

// SetPlacement moves the session into a room at the given position. Called
// only by the room registry while it holds the membership lock, so room id
// and membership cannot diverge.
func (s *Session) SetPlacement(roomID string, pos protocol.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomID = roomID
	s.pos = pos
}

// ClearRoom marks the session roomless. The last position is retained.
func (s *Session) ClearRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomID = ""
}

// User returns the wire representation of the session.
func (s *Session) User() protocol.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return protocol.User{
		ID:       s.id,
		Wallet:   s.wallet,
		Username: s.username,
		Sprite:   s.sprite,
		Position: s.pos,
		Room:     s.roomID,
		IsAgent:  s.isAgent,
		AgentID:  s.agentID,
	}
}
