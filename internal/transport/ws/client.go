package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"wordrace/internal/app"
	"wordrace/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Size of the send channel buffer
	sendBufferSize = 256
)

// ErrSendBufferFull is returned by Send when the peer is not reading fast enough
var ErrSendBufferFull = errors.New("send buffer full")

// Engine is the protocol engine a client forwards its actions to
type Engine interface {
	Join(conn app.Conn, req app.JoinRequest) (app.Binding, error)
	UpdatePlayer(connID string, req app.PlayerUpdate) error
	StartGame(connID, roomID string) error
	SubmitGuess(connID string, req app.GuessRequest) (*domain.GuessResultPayload, error)
	Disconnect(connID string)
}

// Client represents a WebSocket client connection
type Client struct {
	id      string
	conn    *websocket.Conn
	engine  Engine
	limiter *rate.Limiter
	opts    Options
	send    chan []byte
	done    chan struct{}
	logger  zerolog.Logger

	mu     sync.Mutex
	closed bool
	roomID string
}

// NewClient creates a new WebSocket client
func NewClient(id string, conn *websocket.Conn, engine Engine, opts Options, logger zerolog.Logger) *Client {
	return &Client{
		id:      id,
		conn:    conn,
		engine:  engine,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		opts:    opts,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		logger:  logger.With().Str("connId", id).Logger(),
	}
}

// ID implements app.Conn
func (c *Client) ID() string {
	return c.id
}

// Send implements app.Conn. It never blocks; a full buffer is reported so
// the caller can drop the connection.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close implements app.Conn
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps and blocks until the
// connection is gone
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.engine.Disconnect(c.id)
		c.Close()
		c.logger.Debug().Msg("websocket disconnected")
	}()

	c.conn.SetReadLimit(c.opts.ReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket read error")
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
// Each event goes out as its own text frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	if !c.limiter.Allow() {
		c.sendError(ErrCodeRateLimited, "Too many messages")
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoinRoom:
		c.handleJoinRoom(msg)
	case MsgPlayerUpdate:
		c.handlePlayerUpdate(msg)
	case MsgStartGame:
		c.handleStartGame(msg)
	case MsgSubmitGuess:
		c.handleSubmitGuess(msg)
	case MsgPing:
		c.sendEvent(domain.NewEvent(domain.EventPong, c.room(), nil))
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoinRoom handles a join_room message
func (c *Client) handleJoinRoom(msg ClientMessage) {
	var payload JoinRoomPayload
	if !c.decode(msg, &payload) {
		return
	}

	b, err := c.engine.Join(c, app.JoinRequest{
		PlayerID:   payload.PlayerID,
		PlayerName: payload.PlayerName,
		RoomID:     payload.RoomID,
	})
	if err != nil {
		c.fail(msg.Type, err)
		return
	}

	c.mu.Lock()
	c.roomID = b.RoomID
	c.mu.Unlock()

	c.logger.Info().Str("roomId", b.RoomID).Str("playerId", b.PlayerID).Msg("joined room")
}

// handlePlayerUpdate handles a player_update message
func (c *Client) handlePlayerUpdate(msg ClientMessage) {
	var payload PlayerUpdatePayload
	if !c.decode(msg, &payload) {
		return
	}

	err := c.engine.UpdatePlayer(c.id, app.PlayerUpdate{
		PlayerID: payload.PlayerID,
		Patch:    payload.PlayerPatch,
	})
	if err != nil {
		c.fail(msg.Type, err)
	}
}

// handleStartGame handles a start_game message
func (c *Client) handleStartGame(msg ClientMessage) {
	var payload StartGamePayload
	if len(msg.Payload) > 0 && !c.decode(msg, &payload) {
		return
	}

	if err := c.engine.StartGame(c.id, payload.RoomID); err != nil {
		c.fail(msg.Type, err)
	}
}

// handleSubmitGuess handles a submit_guess message
func (c *Client) handleSubmitGuess(msg ClientMessage) {
	var payload SubmitGuessPayload
	if !c.decode(msg, &payload) {
		return
	}

	_, err := c.engine.SubmitGuess(c.id, app.GuessRequest{
		PlayerID: payload.PlayerID,
		RoomID:   payload.RoomID,
		Guess:    payload.Guess,
	})
	if err != nil {
		c.fail(msg.Type, err)
	}
}

// decode unmarshals the payload of msg, replying with an error on failure
func (c *Client) decode(msg ClientMessage, v interface{}) bool {
	if len(msg.Payload) == 0 {
		c.sendError(ErrCodeInvalidMessage, "Payload is required")
		return false
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return false
	}
	return true
}

// fail reports an engine error to this client only. Validation failures are
// rejections; anything else is an error.
func (c *Client) fail(action MessageType, err error) {
	code := CodeFor(err)
	if domain.IsRejection(err) {
		c.logger.Debug().Err(err).Str("action", string(action)).Msg("action rejected")
		c.sendEvent(domain.NewEvent(domain.EventRejected, c.room(), &domain.RejectedPayload{
			Action:  string(action),
			Code:    code,
			Message: err.Error(),
		}))
		return
	}

	c.logger.Warn().Err(err).Str("action", string(action)).Msg("action failed")
	c.sendError(code, err.Error())
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.sendEvent(domain.NewEvent(domain.EventError, c.room(), &domain.ErrorPayload{
		Code:    code,
		Message: message,
	}))
}

func (c *Client) sendEvent(event *domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode event")
		return
	}
	if err := c.Send(data); err != nil {
		c.logger.Warn().Err(err).Msg("failed to send to client, closing")
		c.Close()
	}
}

func (c *Client) room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}
