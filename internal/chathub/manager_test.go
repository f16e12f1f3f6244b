package chathub_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomchat/backend/internal/models"
)

func TestManager_RegisterUnregister(t *testing.T) {
	store := newFakeStore()
	hub, _ := newTestHub(store)

	alice := newMockClient("conn-alice")

	hub.RegisterCh <- alice
	time.Sleep(100 * time.Millisecond)
	assert.Contains(t, hub.Clients, "conn-alice")

	hub.UnregisterCh <- alice
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, hub.Clients, "conn-alice")
}

func TestManager_RegisterRestoresPersistedRooms(t *testing.T) {
	store := newFakeStore()
	store.setCurrent([]models.Room{{
		ID:       "r1",
		RoomName: "Trivia",
		RoomCode: 123456,
		Users:    []string{"alice"},
		Messages: []models.Message{{ID: "m1", Text: "hi", Sender: "alice", Timestamp: "10:00"}},
	}})

	hub, reg := newTestHub(store)

	bob := newMockClient("conn-bob")
	hub.RegisterCh <- bob
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, reg.Len())

	// The restored room is joinable by its code.
	hub.CommandCh <- command(t, bob, models.EventJoinRoom, models.JoinRoomPayload{RoomCode: 123456, UserID: "bob"})
	ev := recvEvent(t, bob)
	require.Equal(t, models.EventRoomJoined, ev.Event)
	room := decodeData[models.Room](t, ev)
	assert.Equal(t, []string{"alice", "bob"}, room.Users)
}

func TestManager_RegisterLoadFailureKeepsInMemoryState(t *testing.T) {
	store := newFakeStore()
	hub, reg := newTestHub(store)

	alice := newMockClient("conn-alice")
	hub.RegisterCh <- alice
	createRoom(t, hub, alice, "Trivia", "alice")
	require.Equal(t, 1, reg.Len())

	store.setLoadErr(errors.New("store down"))

	bob := newMockClient("conn-bob")
	hub.RegisterCh <- bob
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, reg.Len(), "a failed load must not wipe the registry")
}

func TestManager_ReloadDoesNotLoseFreshMutations(t *testing.T) {
	store := newFakeStore()
	hub, reg := newTestHub(store)

	alice := newMockClient("conn-alice")
	hub.RegisterCh <- alice
	created := createRoom(t, hub, alice, "Trivia", "alice")

	// A new connection arrives immediately after the mutation. The pending
	// save is flushed before the reload, so the just-created room survives.
	bob := newMockClient("conn-bob")
	hub.RegisterCh <- bob
	time.Sleep(100 * time.Millisecond)

	got, ok := reg.FindByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Trivia", got.RoomName)
}

func TestManager_UnregisterLeavesRoomStateIntact(t *testing.T) {
	store := newFakeStore()
	hub, reg := newTestHub(store)

	alice := newMockClient("conn-alice")
	bob := newMockClient("conn-bob")
	hub.RegisterCh <- alice
	hub.RegisterCh <- bob

	created := createRoom(t, hub, alice, "Trivia", "alice")
	hub.CommandCh <- command(t, bob, models.EventJoinRoom, models.JoinRoomPayload{RoomCode: models.RoomCode(created.RoomCode), UserID: "bob"})
	recvEvent(t, alice) // userJoined
	recvEvent(t, bob)   // roomJoined

	hub.UnregisterCh <- alice
	time.Sleep(100 * time.Millisecond)

	// Membership outlives the connection; only the broadcast reach shrinks.
	got, ok := reg.FindByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"alice", "bob"}, got.Users)

	hub.CommandCh <- command(t, bob, models.EventSendMessage, models.SendMessagePayload{RoomID: created.ID, Msg: "anyone?", UserID: "bob"})
	ev := recvEvent(t, bob)
	assert.Equal(t, models.EventNewMessage, ev.Event)
	expectNoEvent(t, alice)
}

func TestManager_UnknownEventIsIgnored(t *testing.T) {
	store := newFakeStore()
	hub, _ := newTestHub(store)

	alice := newMockClient("conn-alice")
	hub.RegisterCh <- alice

	hub.CommandCh <- command(t, alice, "selfDestruct", struct{}{})
	expectNoEvent(t, alice)
}
