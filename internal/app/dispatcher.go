package app

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"wordrace/internal/domain"
)

// Dispatcher pushes events to the connections bound to a room
type Dispatcher struct {
	sessions *Sessions
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given binding table
func NewDispatcher(sessions *Sessions, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// BroadcastRoom sends the full room snapshot to every bound connection.
// Callers hold the room's lock so snapshots go out in mutation order.
func (d *Dispatcher) BroadcastRoom(room *domain.Room) {
	d.Broadcast(room.ID, domain.NewEvent(domain.EventRoomUpdate, room.ID, room.Snapshot()))
}

// Broadcast serializes event once and delivers it to every connection in the room
func (d *Dispatcher) Broadcast(roomID string, event *domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		d.logger.Error().Err(err).Str("type", string(event.Type)).Msg("failed to encode event")
		return
	}

	for _, conn := range d.sessions.Members(roomID) {
		d.deliver(conn, data, event.Type)
	}
}

// SendTo delivers an event to a single connection
func (d *Dispatcher) SendTo(conn Conn, event *domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		d.logger.Error().Err(err).Str("type", string(event.Type)).Msg("failed to encode event")
		return
	}
	d.deliver(conn, data, event.Type)
}

// deliver drops a connection that cannot keep up; it will rejoin and get a
// fresh snapshot instead of silently missing one.
func (d *Dispatcher) deliver(conn Conn, data []byte, eventType domain.EventType) {
	if err := conn.Send(data); err != nil {
		d.logger.Warn().
			Err(err).
			Str("connId", conn.ID()).
			Str("type", string(eventType)).
			Msg("failed to send to client, closing")
		conn.Close()
	}
}
