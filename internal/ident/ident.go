// Package ident generates the identifiers the chat protocol hands out:
// opaque room and message IDs, six-digit shareable room codes, and the
// human-readable timestamps stored on rooms and messages.
package ident

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Bounds of the shareable room code range.
const (
	RoomCodeMin = 100000
	RoomCodeMax = 999999
)

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.New().String()
}

// NewRoomCode returns a join code in [RoomCodeMin, RoomCodeMax]. Codes are
// not checked for uniqueness; lookups tie-break on the most recently
// created room.
func NewRoomCode() int {
	return RoomCodeMin + rand.Intn(RoomCodeMax-RoomCodeMin+1)
}

// NowTime returns the current wall-clock time in the HH:MM display format
// rooms and messages carry.
func NowTime() string {
	return time.Now().Format("15:04")
}
