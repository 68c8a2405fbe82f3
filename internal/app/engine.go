package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wordrace/internal/domain"
	"wordrace/internal/store"
	"wordrace/internal/words"
)

// Oracle validates raw guesses against the dictionary
type Oracle interface {
	Validate(guess string) (string, error)
}

// JoinRequest is the join_room action
type JoinRequest struct {
	PlayerID   string
	PlayerName string
	RoomID     string
}

// PlayerUpdate is the player_update action
type PlayerUpdate struct {
	PlayerID string
	Patch    domain.PlayerPatch
}

// GuessRequest is the submit_guess action
type GuessRequest struct {
	PlayerID string
	RoomID   string
	Guess    string
}

// Engine validates player actions and applies them to the store. Each action
// is one read-validate-mutate-broadcast transaction under the room's lock.
type Engine struct {
	store      *store.Store
	oracle     Oracle
	sessions   *Sessions
	dispatcher *Dispatcher
	logger     zerolog.Logger
	now        func() time.Time
	newID      func() string
}

// NewEngine creates an engine over st
func NewEngine(st *store.Store, oracle Oracle, logger zerolog.Logger) *Engine {
	sessions := NewSessions()
	return &Engine{
		store:      st,
		oracle:     oracle,
		sessions:   sessions,
		dispatcher: NewDispatcher(sessions, logger),
		logger:     logger.With().Str("component", "engine").Logger(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Sessions exposes the binding table
func (e *Engine) Sessions() *Sessions {
	return e.sessions
}

// Join creates or joins a room and binds conn to the player. A connection
// already bound elsewhere is released from its old binding only once the new
// one is accepted, so a rejected join changes nothing.
func (e *Engine) Join(conn Conn, req JoinRequest) (Binding, error) {
	roomID := strings.TrimSpace(req.RoomID)
	if roomID == "" {
		return Binding{}, domain.ErrEmptyRoomID
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		return Binding{}, domain.ErrEmptyName
	}

	playerID := strings.TrimSpace(req.PlayerID)
	if playerID == "" {
		playerID = e.newID()
	}
	b := Binding{RoomID: roomID, PlayerID: playerID}

	var (
		prev    Binding
		hadPrev bool
	)
	err := e.store.DoOrCreate(roomID, func(tx *store.Tx) error {
		if _, err := tx.UpsertPlayer(playerID, req.PlayerName); err != nil {
			return err
		}
		prev, hadPrev = e.sessions.Bind(conn, b)

		// Switching players within the same room releases the old one here,
		// under the lock already held.
		if hadPrev && prev.RoomID == roomID && prev.PlayerID != playerID {
			if _, err := e.release(tx, prev); err != nil {
				e.logger.Warn().Err(err).Str("roomId", roomID).Str("playerId", prev.PlayerID).Msg("release previous player")
			}
		}

		e.dispatcher.SendTo(conn, domain.NewEvent(domain.EventConnected, roomID, &domain.ConnectedPayload{
			PlayerID: playerID,
			RoomID:   roomID,
		}))
		e.dispatcher.BroadcastRoom(tx.Room())
		return nil
	})
	if err != nil {
		return Binding{}, err
	}

	if hadPrev && prev.RoomID != roomID {
		err := e.store.Do(prev.RoomID, func(tx *store.Tx) error {
			changed, err := e.release(tx, prev)
			if err != nil {
				return err
			}
			if changed {
				e.dispatcher.BroadcastRoom(tx.Room())
			}
			return nil
		})
		if err != nil && !errors.Is(err, domain.ErrRoomNotFound) {
			e.logger.Warn().Err(err).Str("roomId", prev.RoomID).Str("playerId", prev.PlayerID).Msg("release previous room")
		}
	}
	return b, nil
}

// release flags a player offline unless another connection is still bound
// to them. Caller holds the lock of b's room.
func (e *Engine) release(tx *store.Tx, b Binding) (bool, error) {
	if e.sessions.Bound(b) {
		return false, nil
	}
	return tx.MarkOffline(b.PlayerID)
}

// UpdatePlayer applies a partial patch to the connection's own player
func (e *Engine) UpdatePlayer(connID string, req PlayerUpdate) error {
	b, err := e.binding(connID, req.PlayerID, "")
	if err != nil {
		return err
	}
	if req.Patch.Empty() {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidPatch)
	}

	return e.store.Do(b.RoomID, func(tx *store.Tx) error {
		if _, err := tx.ApplyPlayerPatch(b.PlayerID, req.Patch); err != nil {
			return err
		}
		e.finishIfDone(tx.Room())
		e.dispatcher.BroadcastRoom(tx.Room())
		return nil
	})
}

// StartGame starts the first round from the lobby, or a new round later on.
// Only the host may do it. The lobby start needs every player ready; a
// restart from playing or finished does not re-check readiness.
func (e *Engine) StartGame(connID, roomID string) error {
	b, err := e.binding(connID, "", roomID)
	if err != nil {
		return err
	}

	return e.store.Do(b.RoomID, func(tx *store.Tx) error {
		room := tx.Room()
		if !room.IsHost(b.PlayerID) {
			return domain.ErrNotHost
		}
		if room.Phase == domain.PhaseLobby {
			if err := room.CanStart(); err != nil {
				return err
			}
		}

		secret, err := tx.StartRound()
		if err != nil {
			return err
		}

		e.dispatcher.Broadcast(room.ID, domain.NewEvent(domain.EventGameStarted, room.ID, &domain.GameStartedPayload{
			SecretWord: secret,
			Round:      room.Round,
			StartTime:  room.StartTime.UnixMilli(),
		}))
		e.dispatcher.BroadcastRoom(room)
		return nil
	})
}

// SubmitGuess validates, scores and records a guess for the connection's player
func (e *Engine) SubmitGuess(connID string, req GuessRequest) (*domain.GuessResultPayload, error) {
	b, err := e.binding(connID, req.PlayerID, req.RoomID)
	if err != nil {
		return nil, err
	}

	word, err := e.oracle.Validate(req.Guess)
	if err != nil {
		return nil, err
	}

	var result *domain.GuessResultPayload
	err = e.store.Do(b.RoomID, func(tx *store.Tx) error {
		room := tx.Room()
		if _, err := room.CheckCanGuess(b.PlayerID); err != nil {
			return err
		}

		guess := words.Evaluate(word, room.SecretWord)
		player, err := room.AppendGuess(b.PlayerID, guess, e.now())
		if err != nil {
			return err
		}

		result = &domain.GuessResultPayload{
			Guess:      word,
			Letters:    guess.Letters,
			IsFinished: player.IsFinished,
			Solved:     guess.Solved(),
			Attempts:   len(player.Guesses),
		}
		e.logger.Debug().
			Str("roomId", room.ID).
			Str("playerId", b.PlayerID).
			Int("attempt", result.Attempts).
			Bool("solved", result.Solved).
			Msg("guess accepted")

		if conn, ok := e.sessions.Conn(connID); ok {
			e.dispatcher.SendTo(conn, domain.NewEvent(domain.EventGuessResult, room.ID, result))
		}
		e.finishIfDone(room)
		e.dispatcher.BroadcastRoom(room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Disconnect releases a connection. The player stays in the roster and is
// only flagged offline once their last connection is gone. Safe to repeat.
func (e *Engine) Disconnect(connID string) {
	b, ok := e.sessions.Lookup(connID)
	if !ok {
		return
	}

	err := e.store.Do(b.RoomID, func(tx *store.Tx) error {
		_, last, ok := e.sessions.Unbind(connID)
		if !ok || !last {
			return nil
		}
		changed, err := tx.MarkOffline(b.PlayerID)
		if err != nil {
			return err
		}
		if changed {
			e.dispatcher.BroadcastRoom(tx.Room())
		}
		return nil
	})
	if err != nil {
		e.sessions.Unbind(connID)
		if !errors.Is(err, domain.ErrRoomNotFound) {
			e.logger.Warn().Err(err).Str("roomId", b.RoomID).Str("playerId", b.PlayerID).Msg("disconnect")
		}
	}
}

// finishIfDone moves the room to finished once every player is done and
// announces the standings. Caller holds the room's lock.
func (e *Engine) finishIfDone(room *domain.Room) {
	if !room.FinishIfDone() {
		return
	}
	e.logger.Info().Str("roomId", room.ID).Int("round", room.Round).Msg("round finished")
	e.dispatcher.Broadcast(room.ID, domain.NewEvent(domain.EventGameFinished, room.ID, &domain.GameFinishedPayload{
		Round:      room.Round,
		SecretWord: room.SecretWord,
		Standings:  room.Standings(),
	}))
}

// binding resolves the connection's binding and checks that any ids the
// client asserted agree with it
func (e *Engine) binding(connID, playerID, roomID string) (Binding, error) {
	b, ok := e.sessions.Lookup(connID)
	if !ok {
		return Binding{}, domain.ErrNotJoined
	}
	if playerID != "" && playerID != b.PlayerID {
		return Binding{}, domain.ErrPlayerMismatch
	}
	if roomID != "" && roomID != b.RoomID {
		return Binding{}, domain.ErrPlayerMismatch
	}
	return b, nil
}
