package domain

import "errors"

// Rejections: the action is refused and nothing is mutated
var (
	ErrInvalidGuessLength = errors.New("guess must be exactly 5 letters")
	ErrInvalidCharacters  = errors.New("guess must contain only letters")
	ErrUnknownWord        = errors.New("word is not in the dictionary")
	ErrTooManyGuesses     = errors.New("no attempts left this round")
	ErrPlayerFinished     = errors.New("player already finished this round")
	ErrNotHost            = errors.New("only host can perform this action")
	ErrNotEnoughPlayers   = errors.New("not enough players to start")
	ErrPlayersNotReady    = errors.New("not every player is ready")
	ErrInvalidPhase       = errors.New("invalid action for current phase")
	ErrInvalidTransition  = errors.New("invalid phase transition")
	ErrInvalidPatch       = errors.New("invalid player update")
	ErrRoomFull           = errors.New("room is full")
	ErrPlayerMismatch     = errors.New("connection is bound to a different player or room")
	ErrEmptyName          = errors.New("player name cannot be empty")
	ErrEmptyRoomID        = errors.New("room id cannot be empty")
)

// Consistency errors: the event references state that does not exist
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotJoined      = errors.New("connection has not joined a room")
)

var rejections = []error{
	ErrInvalidGuessLength,
	ErrInvalidCharacters,
	ErrUnknownWord,
	ErrTooManyGuesses,
	ErrPlayerFinished,
	ErrNotHost,
	ErrNotEnoughPlayers,
	ErrPlayersNotReady,
	ErrInvalidPhase,
	ErrInvalidTransition,
	ErrInvalidPatch,
	ErrRoomFull,
	ErrPlayerMismatch,
	ErrEmptyName,
	ErrEmptyRoomID,
}

// IsRejection reports whether err is a validation failure that should be
// surfaced to the originating client as a rejection.
func IsRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
