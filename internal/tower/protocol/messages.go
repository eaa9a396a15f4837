package protocol

import "github.com/emberdragonc/ember-tower/internal/tower/catalog"

// RoomInfo is the room description embedded in a RoomJoined reply.
type RoomInfo struct {
	Name      string              `json:"name"`
	Size      catalog.Size        `json:"size"`
	Furniture []catalog.Furniture `json:"furniture"`
	Type      string              `json:"type"`
}

// AuthSuccess acknowledges an auth event. Unicast to the authenticating
// connection only.
type AuthSuccess struct {
	Type string `json:"type"`
	User User   `json:"user"`
}

// NewAuthSuccess builds an AuthSuccess for the given user.
func NewAuthSuccess(u User) AuthSuccess {
	return AuthSuccess{Type: TypeAuthSuccess, User: u}
}

// RoomJoined is the full room snapshot sent to a joining connection. Users
// includes the joiner itself.
type RoomJoined struct {
	Type     string   `json:"type"`
	RoomID   string   `json:"roomId"`
	Room     RoomInfo `json:"room"`
	Users    []User   `json:"users"`
	Position Position `json:"position"`
}

// NewRoomJoined builds a RoomJoined snapshot reply.
func NewRoomJoined(roomID string, room RoomInfo, users []User, pos Position) RoomJoined {
	if room.Furniture == nil {
		room.Furniture = []catalog.Furniture{}
	}
	if users == nil {
		users = []User{}
	}
	return RoomJoined{Type: TypeRoomJoined, RoomID: roomID, Room: room, Users: users, Position: pos}
}

// UserJoined announces a new member to the other members of a room.
type UserJoined struct {
	Type     string   `json:"type"`
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Sprite   string   `json:"sprite"`
	Position Position `json:"position"`
	IsAgent  bool     `json:"isAgent"`
}

// NewUserJoined builds a UserJoined notification for the given user.
func NewUserJoined(u User) UserJoined {
	return UserJoined{
		Type:     TypeUserJoined,
		UserID:   u.ID,
		Username: u.Username,
		Sprite:   u.Sprite,
		Position: u.Position,
		IsAgent:  u.IsAgent,
	}
}

// UserMoved announces a position change to every member of a room,
// including the mover.
type UserMoved struct {
	Type     string   `json:"type"`
	UserID   string   `json:"userId"`
	Position Position `json:"position"`
}

// NewUserMoved builds a UserMoved notification.
func NewUserMoved(userID string, pos Position) UserMoved {
	return UserMoved{Type: TypeUserMoved, UserID: userID, Position: pos}
}

// ChatMessage is a broadcast chat record. Timestamp is server-assigned Unix
// milliseconds; Message is truncated server-side.
type ChatMessage struct {
	Type      string `json:"type"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	IsAgent   bool   `json:"isAgent"`
	Timestamp int64  `json:"timestamp"`
}

// NewChatMessage builds a ChatMessage broadcast.
func NewChatMessage(userID, username, message string, isAgent bool, timestamp int64) ChatMessage {
	return ChatMessage{
		Type:      TypeChatMessage,
		UserID:    userID,
		Username:  username,
		Message:   message,
		IsAgent:   isAgent,
		Timestamp: timestamp,
	}
}

// UserLeft announces a departure to the remaining members of a room.
type UserLeft struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// NewUserLeft builds a UserLeft notification.
func NewUserLeft(userID, username string) UserLeft {
	return UserLeft{Type: TypeUserLeft, UserID: userID, Username: username}
}

// ErrorMessage reports a failed operation to the acting connection only.
// The connection remains usable afterwards.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewError builds an ErrorMessage with the given text.
func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}
