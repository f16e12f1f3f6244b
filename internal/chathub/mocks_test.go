package chathub_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomchat/backend/internal/chathub"
	"roomchat/backend/internal/models"
)

// mockClient is a channel-backed test double for the chathub.Client
// interface. Events the hub sends land in Recv.
type mockClient struct {
	connID string
	Recv   chan models.Event
}

func newMockClient(connID string) *mockClient {
	return &mockClient{
		connID: connID,
		Recv:   make(chan models.Event, 16), // buffered so the hub never drops in tests
	}
}

func (c *mockClient) GetConnID() string                   { return c.connID }
func (c *mockClient) GetSendChannel() chan<- models.Event { return c.Recv }
func (c *mockClient) Run()                                {}
func (c *mockClient) Close()                              {}

// fakeStore is an in-memory storage.Store. Like the real adapter it hands
// back whatever snapshot was written last; it additionally records every
// save for assertions.
type fakeStore struct {
	mu      sync.Mutex
	saved   [][]models.Room
	current []models.Room
	saveErr error
	loadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) SaveRooms(_ context.Context, rooms []models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rooms)
	f.current = rooms
	return nil
}

func (f *fakeStore) LoadRooms(_ context.Context) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.current, nil
}

func (f *fakeStore) setCurrent(rooms []models.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = rooms
}

func (f *fakeStore) setLoadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr = err
}

func (f *fakeStore) setSaveErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeStore) lastSaved() []models.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

// command wraps a payload into the Command the hub's dispatch loop expects.
func command(t *testing.T, c chathub.Client, name string, payload any) chathub.Command {
	t.Helper()
	ev, err := models.NewEvent(name, payload)
	require.NoError(t, err)
	return chathub.Command{Client: c, Event: ev}
}

// recvEvent waits for the next event delivered to a mock client.
func recvEvent(t *testing.T, c *mockClient) models.Event {
	t.Helper()
	select {
	case ev := <-c.Recv:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.Event{}
	}
}

// expectNoEvent asserts that nothing reaches the client for a short while.
func expectNoEvent(t *testing.T, c *mockClient) {
	t.Helper()
	select {
	case ev := <-c.Recv:
		t.Fatalf("unexpected event %q", ev.Event)
	case <-time.After(100 * time.Millisecond):
	}
}

// decodeData unpacks an event payload into T.
func decodeData[T any](t *testing.T, ev models.Event) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(ev.Data, &v))
	return v
}
