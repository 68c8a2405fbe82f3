package app

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wordrace/internal/domain"
	"wordrace/internal/store"
	"wordrace/internal/words"
)

// received is a decoded server event as a client would see it
type received struct {
	Type    domain.EventType `json:"type"`
	RoomID  string           `json:"roomId"`
	Payload json.RawMessage  `json:"payload"`
}

// fakeConn records everything sent to it
type fakeConn struct {
	id string

	mu     sync.Mutex
	events []received
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(data []byte) error {
	var ev received
	if err := json.Unmarshal(data, &ev); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("closed")
	}
	c.events = append(c.events, ev)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) types() []domain.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.EventType, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Type
	}
	return out
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// last decodes the payload of the most recent event of the given type
func (c *fakeConn) last(t *testing.T, typ domain.EventType, v interface{}) bool {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == typ {
			require.NoError(t, json.Unmarshal(c.events[i].Payload, v))
			return true
		}
	}
	return false
}

func (c *fakeConn) lastRoom(t *testing.T) *domain.RoomSnapshot {
	t.Helper()
	var snap domain.RoomSnapshot
	require.True(t, c.last(t, domain.EventRoomUpdate, &snap), "no room_update received")
	return &snap
}

// mockConn is a testify mock of Conn
type mockConn struct {
	mock.Mock
}

func (m *mockConn) ID() string {
	return m.Called().String(0)
}

func (m *mockConn) Send(data []byte) error {
	return m.Called(data).Error(0)
}

func (m *mockConn) Close() error {
	return m.Called().Error(0)
}

type fixture struct {
	engine *Engine
	store  *store.Store
	oracle *words.Oracle
}

// fixedWords keeps the dictionary small so secrets are predictable enough
var fixedWords = []string{"CRANE", "LLAMA", "SPEED", "ERASE", "ALARM", "BUILD", "TRAIN"}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	oracle, err := words.New(fixedWords, rand.NewSource(42))
	require.NoError(t, err)

	st := store.New(oracle, store.Options{
		Settings:    domain.DefaultRoomSettings(),
		GracePeriod: time.Minute,
	}, zerolog.Nop())
	t.Cleanup(st.Close)

	return &fixture{
		engine: NewEngine(st, oracle, zerolog.Nop()),
		store:  st,
		oracle: oracle,
	}
}

// join connects a fresh fake connection as playerID in roomID
func (f *fixture) join(t *testing.T, roomID, playerID, name string) *fakeConn {
	t.Helper()
	conn := newFakeConn("conn-" + playerID + "-" + roomID)
	_, err := f.engine.Join(conn, JoinRequest{PlayerID: playerID, PlayerName: name, RoomID: roomID})
	require.NoError(t, err)
	return conn
}

func (f *fixture) ready(t *testing.T, conn *fakeConn) {
	t.Helper()
	yes := true
	require.NoError(t, f.engine.UpdatePlayer(conn.ID(), PlayerUpdate{Patch: domain.PlayerPatch{IsReady: &yes}}))
}

// started joins host and guest, readies both and starts the first round
func (f *fixture) started(t *testing.T, roomID string) (host, guest *fakeConn, secret string) {
	t.Helper()
	host = f.join(t, roomID, "host", "Host")
	guest = f.join(t, roomID, "guest", "Guest")
	f.ready(t, host)
	f.ready(t, guest)
	require.NoError(t, f.engine.StartGame(host.ID(), roomID))

	snap, err := f.store.Snapshot(roomID)
	require.NoError(t, err)
	return host, guest, snap.SecretWord
}

// wrongWord returns a dictionary word different from secret
func wrongWord(secret string) string {
	for _, w := range fixedWords {
		if w != secret {
			return w
		}
	}
	return ""
}
