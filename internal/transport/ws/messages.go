package ws

import (
	"encoding/json"
	"errors"

	"wordrace/internal/domain"
	"wordrace/internal/store"
)

// MessageType represents the type of client to server message
type MessageType string

// Client → Server message types
const (
	MsgJoinRoom     MessageType = "join_room"
	MsgPlayerUpdate MessageType = "player_update"
	MsgStartGame    MessageType = "start_game"
	MsgSubmitGuess  MessageType = "submit_guess"
	MsgPing         MessageType = "ping"
)

// ClientMessage represents a message from client to server. The payload is
// decoded once the type is known.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client message payloads

// JoinRoomPayload is the payload for join_room message
type JoinRoomPayload struct {
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName"`
	RoomID     string `json:"roomId"`
}

// PlayerUpdatePayload is the payload for player_update message
type PlayerUpdatePayload struct {
	PlayerID string `json:"playerId"`
	domain.PlayerPatch
}

// StartGamePayload is the payload for start_game message
type StartGamePayload struct {
	RoomID string `json:"roomId"`
}

// SubmitGuessPayload is the payload for submit_guess message
type SubmitGuessPayload struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
	Guess    string `json:"guess"`
}

// Error codes
const (
	ErrCodeInvalidMessage     = "INVALID_MESSAGE"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInvalidGuessLength = "INVALID_GUESS_LENGTH"
	ErrCodeInvalidCharacters  = "INVALID_CHARACTERS"
	ErrCodeUnknownWord        = "UNKNOWN_WORD"
	ErrCodeTooManyGuesses     = "TOO_MANY_GUESSES"
	ErrCodePlayerFinished     = "PLAYER_FINISHED"
	ErrCodeNotHost            = "NOT_HOST"
	ErrCodeNotEnoughPlayers   = "NOT_ENOUGH_PLAYERS"
	ErrCodePlayersNotReady    = "PLAYERS_NOT_READY"
	ErrCodeInvalidPhase       = "INVALID_PHASE"
	ErrCodeInvalidPatch       = "INVALID_PATCH"
	ErrCodeRoomFull           = "ROOM_FULL"
	ErrCodePlayerMismatch     = "PLAYER_MISMATCH"
	ErrCodeRoomNotFound       = "ROOM_NOT_FOUND"
	ErrCodePlayerNotFound     = "PLAYER_NOT_FOUND"
	ErrCodeNotJoined          = "NOT_JOINED"
	ErrCodeUnavailable        = "UNAVAILABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrInvalidGuessLength, ErrCodeInvalidGuessLength},
	{domain.ErrInvalidCharacters, ErrCodeInvalidCharacters},
	{domain.ErrUnknownWord, ErrCodeUnknownWord},
	{domain.ErrTooManyGuesses, ErrCodeTooManyGuesses},
	{domain.ErrPlayerFinished, ErrCodePlayerFinished},
	{domain.ErrNotHost, ErrCodeNotHost},
	{domain.ErrNotEnoughPlayers, ErrCodeNotEnoughPlayers},
	{domain.ErrPlayersNotReady, ErrCodePlayersNotReady},
	{domain.ErrInvalidPhase, ErrCodeInvalidPhase},
	{domain.ErrInvalidTransition, ErrCodeInvalidPhase},
	{domain.ErrInvalidPatch, ErrCodeInvalidPatch},
	{domain.ErrRoomFull, ErrCodeRoomFull},
	{domain.ErrPlayerMismatch, ErrCodePlayerMismatch},
	{domain.ErrEmptyName, ErrCodeInvalidMessage},
	{domain.ErrEmptyRoomID, ErrCodeInvalidMessage},
	{domain.ErrRoomNotFound, ErrCodeRoomNotFound},
	{domain.ErrPlayerNotFound, ErrCodePlayerNotFound},
	{domain.ErrNotJoined, ErrCodeNotJoined},
	{store.ErrClosed, ErrCodeUnavailable},
}

// CodeFor maps an engine error to its wire code
func CodeFor(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ErrCodeInternalError
}
