package models

// SystemSender is the reserved sender value for messages the server
// generates to narrate room lifecycle events.
const SystemSender = "system"

// Message is a single entry in a room's history. Sender is either a user
// identifier or SystemSender.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
}

// Room is a named chat channel. The ID is the internal broadcast-group key,
// the RoomCode is the human-shareable join key. Users and Messages only ever
// grow; rooms are never deleted while the process runs.
type Room struct {
	ID        string    `json:"id"`
	RoomName  string    `json:"roomName"`
	RoomCode  int       `json:"roomCode"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt string    `json:"createdAt"`
	Users     []string  `json:"users"`
	Messages  []Message `json:"messages"`
}

// HasUser reports whether userID is already a member of the room.
func (r *Room) HasUser(userID string) bool {
	for _, u := range r.Users {
		if u == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the room, safe to serialize or hand to
// another goroutine while the original keeps being mutated.
func (r *Room) Clone() Room {
	c := *r
	c.Users = append([]string(nil), r.Users...)
	c.Messages = append([]Message(nil), r.Messages...)
	return c
}
