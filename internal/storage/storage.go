// Package storage persists the room registry as a single JSON snapshot in
// a durable key-value store.
package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"roomchat/backend/internal/models"
)

// Store is the persistence boundary for chat state. The whole registry is
// written and read as one ordered snapshot; there is no partial or delta
// persistence.
type Store interface {
	SaveRooms(ctx context.Context, rooms []models.Room) error
	LoadRooms(ctx context.Context) ([]models.Room, error)
}

// roomsKey is the fixed key the snapshot lives under.
const roomsKey = "chat:rooms"

// Service implements Store on top of Redis.
type Service struct {
	Redis *redis.Client
	log   zerolog.Logger
}

// NewService wraps an established Redis client.
func NewService(rdb *redis.Client) *Service {
	return &Service{
		Redis: rdb,
		log:   log.With().Str("component", "storage").Logger(),
	}
}

// SaveRooms overwrites the persisted snapshot with the given rooms.
func (s *Service) SaveRooms(ctx context.Context, rooms []models.Room) error {
	data, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, roomsKey, data, 0).Err(); err != nil {
		return err
	}
	s.log.Debug().Int("rooms", len(rooms)).Msg("persisted room snapshot")
	return nil
}

// LoadRooms reads the persisted snapshot. A missing key yields an empty
// registry; so does a snapshot that no longer decodes, which is logged and
// otherwise treated as absent.
func (s *Service) LoadRooms(ctx context.Context) ([]models.Room, error) {
	data, err := s.Redis.Get(ctx, roomsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rooms []models.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		s.log.Error().Err(err).Msg("corrupt room snapshot, treating as empty")
		return nil, nil
	}
	return rooms, nil
}

// ClearRooms deletes the persisted snapshot. Used by the admin CLI only;
// the server itself never deletes rooms.
func (s *Service) ClearRooms(ctx context.Context) error {
	return s.Redis.Del(ctx, roomsKey).Err()
}
