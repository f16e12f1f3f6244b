package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Event names of the connection-layer protocol.
const (
	EventCreateRoom  = "createRoom"
	EventRoomCreated = "roomCreated"
	EventJoinRoom    = "joinRoom"
	EventRoomJoined  = "roomJoined"
	EventUserJoined  = "userJoined"
	EventSendMessage = "sendMessage"
	EventNewMessage  = "newMessage"
	EventError       = "error"
)

// Event is the JSON envelope every frame on the wire uses, in both
// directions: a name plus an event-specific payload.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEvent wraps payload into an Event envelope under the given name.
func NewEvent(name string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: name, Data: data}, nil
}

// RoomCode is a six-digit join code. Clients send it either as a JSON
// number or as a numeric string; both decode to the same value.
type RoomCode int

func (c *RoomCode) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid room code %q", s)
	}
	*c = RoomCode(n)
	return nil
}

// CreateRoomPayload is the inbound createRoom payload.
type CreateRoomPayload struct {
	RoomName string `json:"roomName"`
	UserID   string `json:"userID"`
}

// JoinRoomPayload is the inbound joinRoom payload.
type JoinRoomPayload struct {
	RoomCode RoomCode `json:"roomCode"`
	UserID   string   `json:"userID"`
}

// SendMessagePayload is the inbound sendMessage payload. RoomID is the
// room's internal id, not its shareable code.
type SendMessagePayload struct {
	RoomID string `json:"roomId"`
	Msg    string `json:"msg"`
	UserID string `json:"userId"`
}

// UserJoinedPayload is broadcast to existing members when someone new
// joins their room.
type UserJoinedPayload struct {
	UserID string `json:"userId"`
}
