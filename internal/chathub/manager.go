// Package chathub coordinates rooms, membership, and message broadcast for
// all connected clients. A single hub goroutine owns every mutation of the
// room registry and the broadcast groups, so protocol handlers never race
// with each other.
package chathub

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"roomchat/backend/internal/models"
	"roomchat/backend/internal/registry"
	"roomchat/backend/internal/storage"
)

// Command is one inbound protocol event together with the connection that
// sent it.
type Command struct {
	Client Client
	Event  models.Event
}

// ManagerService is the hub. Clients register on connect, unregister on
// disconnect, and deliver protocol events through CommandCh. All three
// channels are drained by the single Run goroutine.
type ManagerService struct {
	Clients map[string]Client
	// groups maps a room id to the connections subscribed to its
	// broadcasts, keyed by connection id.
	groups map[string]map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	CommandCh    chan Command

	Registry *registry.Registry
	Storage  storage.Store

	saver *Saver
	log   zerolog.Logger
}

// NewManagerService creates a hub around the given registry and store.
func NewManagerService(reg *registry.Registry, store storage.Store) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		groups:       make(map[string]map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		CommandCh:    make(chan Command),
		Registry:     reg,
		Storage:      store,
		saver:        NewSaver(store),
		log:          log.With().Str("component", "chathub").Logger(),
	}
}

// Run is the hub's main loop. It starts the save queue and then drains the
// register, unregister, and command channels forever. Call it in its own
// goroutine.
func (m *ManagerService) Run() {
	go m.saver.Run()

	for {
		select {
		case client := <-m.RegisterCh:
			m.registerClient(client)
		case client := <-m.UnregisterCh:
			m.unregisterClient(client)
		case cmd := <-m.CommandCh:
			m.dispatch(cmd)
		}
	}
}

// registerClient tracks a new connection and refreshes the registry from
// persistence before the connection's first operation. Pending saves are
// flushed first so the reload can never resurrect a stale snapshot over
// newer in-memory state.
func (m *ManagerService) registerClient(c Client) {
	m.Clients[c.GetConnID()] = c

	m.saver.Flush()
	rooms, err := m.Storage.LoadRooms(context.Background())
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load persisted rooms, keeping in-memory state")
	} else {
		m.Registry.ReplaceAll(rooms)
	}

	m.log.Info().Str("conn", c.GetConnID()).Int("rooms", m.Registry.Len()).Msg("client connected")
}

// unregisterClient drops a connection from the hub and from every broadcast
// group it subscribed to. Room state is untouched: membership outlives the
// connection.
func (m *ManagerService) unregisterClient(c Client) {
	id := c.GetConnID()
	if _, ok := m.Clients[id]; !ok {
		return
	}
	delete(m.Clients, id)
	for roomID, group := range m.groups {
		delete(group, id)
		if len(group) == 0 {
			delete(m.groups, roomID)
		}
	}
	c.Close()
	m.log.Info().Str("conn", id).Msg("client disconnected")
}

// dispatch routes one protocol event to its operation handler. A payload
// that does not decode is treated like any other internal failure of that
// operation: logged, reported generically, never fatal.
func (m *ManagerService) dispatch(cmd Command) {
	switch cmd.Event.Event {
	case models.EventCreateRoom:
		var p models.CreateRoomPayload
		if err := json.Unmarshal(cmd.Event.Data, &p); err != nil {
			m.log.Error().Err(err).Msg("bad createRoom payload")
			m.sendError(cmd.Client, "Failed to create room")
			return
		}
		m.handleCreateRoom(cmd.Client, p)

	case models.EventJoinRoom:
		var p models.JoinRoomPayload
		if err := json.Unmarshal(cmd.Event.Data, &p); err != nil {
			m.log.Error().Err(err).Msg("bad joinRoom payload")
			m.sendError(cmd.Client, "Failed to join room")
			return
		}
		m.handleJoinRoom(cmd.Client, p)

	case models.EventSendMessage:
		var p models.SendMessagePayload
		if err := json.Unmarshal(cmd.Event.Data, &p); err != nil {
			m.log.Error().Err(err).Msg("bad sendMessage payload")
			m.sendError(cmd.Client, "Failed to send message")
			return
		}
		m.handleSendMessage(cmd.Client, p)

	default:
		m.log.Warn().Str("event", cmd.Event.Event).Msg("unknown event, ignoring")
	}
}

// joinGroup subscribes a connection to a room's broadcasts.
func (m *ManagerService) joinGroup(roomID string, c Client) {
	group, ok := m.groups[roomID]
	if !ok {
		group = make(map[string]Client)
		m.groups[roomID] = group
	}
	group[c.GetConnID()] = c
}

// send delivers one event to one connection without blocking the hub. A
// client whose buffer is full misses the event; delivery is best effort.
func (m *ManagerService) send(c Client, ev models.Event) {
	select {
	case c.GetSendChannel() <- ev:
	default:
		m.log.Warn().Str("conn", c.GetConnID()).Str("event", ev.Event).Msg("send buffer full, dropping event")
	}
}

// sendError reports a failure to a single connection.
func (m *ManagerService) sendError(c Client, reason string) {
	ev, err := models.NewEvent(models.EventError, reason)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to encode error event")
		return
	}
	m.send(c, ev)
}

// broadcast fans an event out to every member of a room's group. A non-nil
// except connection is skipped.
func (m *ManagerService) broadcast(roomID string, except Client, ev models.Event) {
	for _, member := range m.groups[roomID] {
		if except != nil && member.GetConnID() == except.GetConnID() {
			continue
		}
		m.send(member, ev)
	}
}
