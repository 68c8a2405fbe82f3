package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Options tunes each client connection
type Options struct {
	RateLimit float64 // messages per second
	RateBurst int
	ReadLimit int64 // bytes per message
}

// DefaultOptions returns the default client options
func DefaultOptions() Options {
	return Options{
		RateLimit: 10,
		RateBurst: 20,
		ReadLimit: 8192,
	}
}

// Handler handles WebSocket connections
type Handler struct {
	engine   Engine
	upgrader websocket.Upgrader
	opts     Options
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(engine Engine, opts Options, logger zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		opts:   opts,
		logger: logger.With().Str("component", "ws").Logger(),
	}
}

// ServeHTTP upgrades the request. The connection joins a room with its
// first join_room message.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(uuid.NewString(), conn, h.engine, h.opts, h.logger)

	h.logger.Info().
		Str("connId", client.ID()).
		Str("remote", r.RemoteAddr).
		Msg("websocket connected")

	client.Run()
}
