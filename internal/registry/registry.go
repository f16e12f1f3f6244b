// Package registry holds the in-memory collection of chat rooms, the
// single source of truth while the process runs.
package registry

import (
	"sync"

	"roomchat/backend/internal/models"
)

// Registry is the ordered collection of every room created during the
// process lifetime, most recently created first. Rooms are never removed;
// the contents are only replaced wholesale when state is restored from
// persistence.
//
// The mutex makes individual reads and writes safe from any goroutine, but
// room contents must only be mutated from the hub goroutine that owns them.
type Registry struct {
	mu    sync.RWMutex
	rooms []*models.Room
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// FindByID returns the room with the given internal id.
func (r *Registry) FindByID(id string) (*models.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, room := range r.rooms {
		if room.ID == id {
			return room, true
		}
	}
	return nil, false
}

// FindByCode returns the first room with the given join code in registry
// order. Codes are not unique; on a collision the most recently created
// room wins.
func (r *Registry) FindByCode(code int) (*models.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, room := range r.rooms {
		if room.RoomCode == code {
			return room, true
		}
	}
	return nil, false
}

// InsertFront adds a newly created room at the head of the ordering.
func (r *Registry) InsertFront(room *models.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = append([]*models.Room{room}, r.rooms...)
}

// ReplaceAll swaps the entire contents for the given rooms, preserving
// their order. Used only when restoring from persistence.
func (r *Registry) ReplaceAll(rooms []models.Room) {
	next := make([]*models.Room, len(rooms))
	for i := range rooms {
		room := rooms[i].Clone()
		next[i] = &room
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = next
}

// Snapshot returns a deep copy of every room in registry order, safe to
// serialize or inspect while the registry keeps changing.
func (r *Registry) Snapshot() []models.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]models.Room, len(r.rooms))
	for i, room := range r.rooms {
		rooms[i] = room.Clone()
	}
	return rooms
}

// Len returns the number of rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
