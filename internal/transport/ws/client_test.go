package ws

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordrace/internal/app"
	"wordrace/internal/domain"
	"wordrace/internal/store"
	"wordrace/internal/words"
)

type serverEvent struct {
	Type    domain.EventType `json:"type"`
	RoomID  string           `json:"roomId"`
	Payload json.RawMessage  `json:"payload"`
}

func newTestServer(t *testing.T, opts Options) string {
	t.Helper()

	oracle, err := words.New([]string{"CRANE", "LLAMA", "SPEED"}, rand.NewSource(1))
	require.NoError(t, err)
	st := store.New(oracle, store.Options{GracePeriod: time.Minute}, zerolog.Nop())
	t.Cleanup(st.Close)

	engine := app.NewEngine(st, oracle, zerolog.Nop())
	srv := httptest.NewServer(NewHandler(engine, opts, zerolog.Nop()))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ MessageType, payload interface{}) {
	t.Helper()
	msg := map[string]interface{}{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	require.NoError(t, conn.WriteJSON(msg))
}

// expect reads events until one of type typ arrives
func expect(t *testing.T, conn *websocket.Conn, typ domain.EventType) serverEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var ev serverEvent
		require.NoError(t, conn.ReadJSON(&ev))
		if ev.Type == typ {
			return ev
		}
	}
}

func TestJoinOverWebsocket(t *testing.T) {
	url := newTestServer(t, DefaultOptions())
	conn := dial(t, url)

	send(t, conn, MsgJoinRoom, JoinRoomPayload{PlayerID: "p1", PlayerName: "Alice", RoomID: "room1"})

	ev := expect(t, conn, domain.EventConnected)
	assert.Equal(t, "room1", ev.RoomID)

	ev = expect(t, conn, domain.EventRoomUpdate)
	var snap domain.RoomSnapshot
	require.NoError(t, json.Unmarshal(ev.Payload, &snap))
	assert.Equal(t, domain.PhaseLobby, snap.Phase)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Alice", snap.Players[0].Name)
	assert.Equal(t, "p1", snap.HostID)
}

func TestRejectionOverWebsocket(t *testing.T) {
	url := newTestServer(t, DefaultOptions())
	host := dial(t, url)
	guest := dial(t, url)

	send(t, host, MsgJoinRoom, JoinRoomPayload{PlayerID: "host", PlayerName: "Host", RoomID: "room1"})
	expect(t, host, domain.EventConnected)
	send(t, guest, MsgJoinRoom, JoinRoomPayload{PlayerID: "guest", PlayerName: "Guest", RoomID: "room1"})
	expect(t, guest, domain.EventConnected)

	send(t, guest, MsgStartGame, StartGamePayload{RoomID: "room1"})

	ev := expect(t, guest, domain.EventRejected)
	var rejected domain.RejectedPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &rejected))
	assert.Equal(t, string(MsgStartGame), rejected.Action)
	assert.Equal(t, ErrCodeNotHost, rejected.Code)
}

func TestGameFlowOverWebsocket(t *testing.T) {
	url := newTestServer(t, DefaultOptions())
	host := dial(t, url)
	guest := dial(t, url)

	send(t, host, MsgJoinRoom, JoinRoomPayload{PlayerID: "host", PlayerName: "Host", RoomID: "room1"})
	expect(t, host, domain.EventConnected)
	send(t, guest, MsgJoinRoom, JoinRoomPayload{PlayerID: "guest", PlayerName: "Guest", RoomID: "room1"})
	expect(t, guest, domain.EventConnected)

	send(t, host, MsgPlayerUpdate, map[string]interface{}{"playerId": "host", "isReady": true})
	send(t, guest, MsgPlayerUpdate, map[string]interface{}{"playerId": "guest", "isReady": true})

	// Each connection is handled in order, so a pong means the update was applied.
	send(t, host, MsgPing, nil)
	expect(t, host, domain.EventPong)
	send(t, guest, MsgPing, nil)
	expect(t, guest, domain.EventPong)

	send(t, host, MsgStartGame, StartGamePayload{RoomID: "room1"})
	ev := expect(t, guest, domain.EventGameStarted)
	var started domain.GameStartedPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &started))
	assert.Equal(t, 1, started.Round)

	send(t, guest, MsgSubmitGuess, SubmitGuessPayload{PlayerID: "guest", RoomID: "room1", Guess: strings.ToLower(started.SecretWord)})
	ev = expect(t, guest, domain.EventGuessResult)
	var result domain.GuessResultPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &result))
	assert.True(t, result.Solved)
	assert.Equal(t, started.SecretWord, result.Guess)

	for {
		ev = expect(t, host, domain.EventRoomUpdate)
		var snap domain.RoomSnapshot
		require.NoError(t, json.Unmarshal(ev.Payload, &snap))
		if snap.Phase != domain.PhasePlaying || len(snap.Players[1].Guesses) == 0 {
			continue
		}
		assert.True(t, snap.Players[1].IsFinished)
		assert.False(t, snap.Players[0].IsFinished)
		break
	}
}

func TestMalformedMessages(t *testing.T) {
	url := newTestServer(t, DefaultOptions())
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	ev := expect(t, conn, domain.EventError)
	var payload domain.ErrorPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, ErrCodeInvalidMessage, payload.Code)

	send(t, conn, "dance", nil)
	ev = expect(t, conn, domain.EventError)
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, ErrCodeInvalidMessage, payload.Code)

	send(t, conn, MsgSubmitGuess, SubmitGuessPayload{Guess: "CRANE"})
	ev = expect(t, conn, domain.EventError)
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, ErrCodeNotJoined, payload.Code)
}

func TestRateLimit(t *testing.T) {
	url := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 1, ReadLimit: 8192})
	conn := dial(t, url)

	send(t, conn, MsgPing, nil)
	expect(t, conn, domain.EventPong)

	send(t, conn, MsgPing, nil)
	ev := expect(t, conn, domain.EventError)
	var payload domain.ErrorPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, ErrCodeRateLimited, payload.Code)
}

func TestCodeFor(t *testing.T) {
	assert.Equal(t, ErrCodeUnknownWord, CodeFor(domain.ErrUnknownWord))
	assert.Equal(t, ErrCodeInvalidPatch, CodeFor(errors.Join(errors.New("context"), domain.ErrInvalidPatch)))
	assert.Equal(t, ErrCodeUnavailable, CodeFor(store.ErrClosed))
	assert.Equal(t, ErrCodeInternalError, CodeFor(errors.New("boom")))
}
