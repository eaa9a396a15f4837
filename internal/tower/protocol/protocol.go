// Package protocol defines the JSON wire format spoken between the tower
// server and its clients: inbound event envelopes and outbound broadcast
// payloads. The package holds no state; every message carries its type
// inline so clients can route on a single field.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Inbound event types (client → server).
const (
	EventAuth     = "auth"
	EventJoinRoom = "join_room"
	EventMove     = "move"
	EventChat     = "chat"
)

// Outbound message types (server → client).
const (
	TypeAuthSuccess = "auth_success"
	TypeRoomJoined  = "room_joined"
	TypeUserJoined  = "user_joined"
	TypeUserMoved   = "user_moved"
	TypeChatMessage = "chat_message"
	TypeUserLeft    = "user_left"
	TypeError       = "error"
)

// Envelope is the inbound event wrapper. Data is decoded by the dispatcher
// according to Type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// DecodeEnvelope parses an inbound frame into an Envelope.
//
// Postcondition: Returns an Envelope with a non-empty Type, or a non-nil error.
func DecodeEnvelope(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding event envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("event envelope missing type")
	}
	return env, nil
}

// AuthPayload is the claimed identity carried by an auth event. All fields
// are optional; the server fills defaults and performs no verification.
type AuthPayload struct {
	Wallet   string `json:"wallet,omitempty"`
	Username string `json:"username,omitempty"`
	Sprite   string `json:"sprite,omitempty"`
	IsAgent  bool   `json:"isAgent,omitempty"`
	AgentID  string `json:"agentId,omitempty"`
}

// JoinRoomPayload carries the target room of a join_room event.
type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

// MovePayload carries the target tile of a move event.
type MovePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ChatPayload carries the free text of a chat event.
type ChatPayload struct {
	Text string `json:"text"`
}

// Position is a placement within a room grid. FurnitureID is set only while
// sitting.
type Position struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Sitting     bool   `json:"sitting"`
	FurnitureID string `json:"furnitureId,omitempty"`
}

// User is the wire representation of a session.
type User struct {
	ID       string   `json:"id"`
	Wallet   string   `json:"wallet,omitempty"`
	Username string   `json:"username"`
	Sprite   string   `json:"sprite"`
	Position Position `json:"position"`
	Room     string   `json:"room,omitempty"`
	IsAgent  bool     `json:"isAgent"`
	AgentID  string   `json:"agentId,omitempty"`
}
