// Package room provides the live room registry: membership tracking,
// capacity and access enforcement, and read-only snapshots.
package room

import (
	"errors"

	"github.com/emberdragonc/ember-tower/internal/tower/catalog"
	"github.com/emberdragonc/ember-tower/internal/tower/protocol"
	"github.com/emberdragonc/ember-tower/internal/tower/session"
)

// Join failure taxonomy. Reported to the acting connection only; a failed
// join leaves all state unchanged.
var (
	// ErrRoomNotFound indicates the room id is not in the catalog.
	ErrRoomNotFound = errors.New("room not found")
	// ErrAccessDenied indicates the room is restricted and the session is
	// not eligible (non-agent session, agent-only room).
	ErrAccessDenied = errors.New("access denied")
	// ErrRoomFull indicates the room is at its occupant limit.
	ErrRoomFull = errors.New("room full")
)

// Room is one common area. Static attributes are fixed at startup; the
// membership map is guarded by the owning Registry's lock.
type Room struct {
	ID           string
	Name         string
	Floor        int
	Kind         string
	Size         catalog.Size
	MaxOccupants int
	AgentOnly    bool
	Furniture    []catalog.Furniture

	members map[string]*session.Session
}

func newRoom(e catalog.Entry) *Room {
	return &Room{
		ID:           e.ID,
		Name:         e.Name,
		Floor:        e.Floor,
		Kind:         e.Kind,
		Size:         e.Size,
		MaxOccupants: e.MaxOccupants,
		AgentOnly:    e.AgentOnly,
		Furniture:    append([]catalog.Furniture(nil), e.Furniture...),
		members:      make(map[string]*session.Session),
	}
}

// Center returns the spawn tile assigned on join.
func (r *Room) Center() protocol.Position {
	return protocol.Position{X: r.Size.W / 2, Y: r.Size.H / 2}
}

// Contains reports whether the tile lies within [0,w) x [0,h).
func (r *Room) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Size.W && y < r.Size.H
}

// FurnitureAt returns the first furniture item whose rectangle contains the
// tile. Rectangles are assumed non-overlapping; if they do overlap, the
// first match in stored order wins and no particular precedence is
// guaranteed.
func (r *Room) FurnitureAt(x, y int) (catalog.Furniture, bool) {
	for _, f := range r.Furniture {
		if f.Contains(x, y) {
			return f, true
		}
	}
	return catalog.Furniture{}, false
}

// Info returns the wire description of the room for a room_joined reply.
func (r *Room) Info() protocol.RoomInfo {
	return protocol.RoomInfo{
		Name:      r.Name,
		Size:      r.Size,
		Furniture: append([]catalog.Furniture{}, r.Furniture...),
		Type:      r.Kind,
	}
}
