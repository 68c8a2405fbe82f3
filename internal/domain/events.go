package domain

import "time"

// EventType represents the type of server to client event
type EventType string

const (
	EventConnected    EventType = "connected"
	EventRoomUpdate   EventType = "room_update"
	EventGameStarted  EventType = "game_started"
	EventGameFinished EventType = "game_finished"
	EventGuessResult  EventType = "guess_result"
	EventRejected     EventType = "rejected"
	EventError        EventType = "error"
	EventPong         EventType = "pong"
)

// Event is the envelope every server message is sent in
type Event struct {
	Type      EventType   `json:"type"`
	RoomID    string      `json:"roomId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event
func NewEvent(eventType EventType, roomID string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		RoomID:    roomID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// RoomSnapshot is the full authoritative room state sent in room_update.
// Clients replace their local view with it wholesale.
type RoomSnapshot struct {
	ID         string    `json:"id"`
	Phase      Phase     `json:"phase"`
	Players    []*Player `json:"players"`
	HostID     string    `json:"hostId"`
	SecretWord string    `json:"secretWord,omitempty"`
	StartTime  int64     `json:"startTime,omitempty"` // unix millis
	Round      int       `json:"round"`
}

// ConnectedPayload is sent to a connection once it joined a room
type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
}

// GameStartedPayload is sent when a round begins
type GameStartedPayload struct {
	SecretWord string `json:"secretWord"`
	Round      int    `json:"round"`
	StartTime  int64  `json:"startTime"`
}

// GameFinishedPayload is sent when every player finished the round
type GameFinishedPayload struct {
	Round      int        `json:"round"`
	SecretWord string     `json:"secretWord"`
	Standings  []Standing `json:"standings"`
}

// GuessResultPayload is sent to the submitter of an accepted guess
type GuessResultPayload struct {
	Guess      string   `json:"guess"`
	Letters    []Letter `json:"letters"`
	IsFinished bool     `json:"isFinished"`
	Solved     bool     `json:"solved"`
	Attempts   int      `json:"attempts"`
}

// RejectedPayload is sent to the originator of an action that failed validation
type RejectedPayload struct {
	Action  string `json:"action"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorPayload is sent when a message cannot be processed at all
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
