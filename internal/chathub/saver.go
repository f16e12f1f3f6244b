package chathub

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"roomchat/backend/internal/models"
	"roomchat/backend/internal/storage"
)

type saveReq struct {
	rooms []models.Room
	// done, when non-nil, is closed once every snapshot enqueued before
	// this request has been written or failed.
	done chan struct{}
}

// Saver serializes snapshot writes behind one goroutine, so a later
// snapshot can never be overwritten by an earlier save still in flight.
// Write failures are logged and swallowed; the in-memory registry stays
// the source of truth until a later save succeeds.
type Saver struct {
	store storage.Store
	queue chan saveReq
	log   zerolog.Logger
}

// NewSaver builds a Saver around the given store. Run must be started
// before the first Enqueue or Flush.
func NewSaver(store storage.Store) *Saver {
	return &Saver{
		store: store,
		queue: make(chan saveReq, 64),
		log:   log.With().Str("component", "saver").Logger(),
	}
}

// Enqueue hands a snapshot to the save queue without blocking the caller.
func (s *Saver) Enqueue(rooms []models.Room) {
	select {
	case s.queue <- saveReq{rooms: rooms}:
	default:
		s.log.Warn().Msg("save queue full, dropping snapshot")
	}
}

// Flush blocks until every snapshot enqueued before the call has been
// written out (or failed and been logged).
func (s *Saver) Flush() {
	done := make(chan struct{})
	s.queue <- saveReq{done: done}
	<-done
}

// Run drains the queue until Stop is called. Consecutive pending snapshots
// coalesce: only the newest one is written.
func (s *Saver) Run() {
	for req := range s.queue {
		rooms := req.rooms
		var dones []chan struct{}
		if req.done != nil {
			dones = append(dones, req.done)
		}
	drain:
		for {
			select {
			case next := <-s.queue:
				if next.rooms != nil {
					rooms = next.rooms
				}
				if next.done != nil {
					dones = append(dones, next.done)
				}
			default:
				break drain
			}
		}

		if rooms != nil {
			if err := s.store.SaveRooms(context.Background(), rooms); err != nil {
				s.log.Error().Err(err).Msg("failed to persist room snapshot")
			}
		}
		for _, done := range dones {
			close(done)
		}
	}
}

// Stop closes the queue, letting Run return once drained.
func (s *Saver) Stop() {
	close(s.queue)
}
