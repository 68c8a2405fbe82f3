// Package store is the in-memory registry of rooms. It is the single owner of
// every Room and Player; callers mutate state only inside a transaction,
// which holds that room's lock for its whole duration.
package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wordrace/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for generated room codes
	DefaultRoomCodeLength = 6

	// DefaultGracePeriod is how long a room with nobody online survives
	DefaultGracePeriod = 5 * time.Minute
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ErrClosed is returned once the store has been closed
var ErrClosed = errors.New("store is closed")

// WordPicker draws secret words for new rounds
type WordPicker interface {
	PickExcluding(excluded ...string) string
}

// Options configures a Store
type Options struct {
	Settings       domain.RoomSettings
	GracePeriod    time.Duration
	RoomCodeLength int
}

// Stats is a point-in-time count over all rooms
type Stats struct {
	Rooms         int `json:"rooms"`
	Players       int `json:"players"`
	OnlinePlayers int `json:"onlinePlayers"`
}

// Store manages all rooms
type Store struct {
	mu     sync.RWMutex
	rooms  map[string]*entry
	closed bool

	picker   WordPicker
	settings domain.RoomSettings
	grace    time.Duration
	codeLen  int
	logger   zerolog.Logger
	now      func() time.Time
}

type entry struct {
	mu      sync.Mutex
	room    *domain.Room
	deleted bool

	sweep    *time.Timer
	sweepGen uint64
}

// New creates an empty store
func New(picker WordPicker, opts Options, logger zerolog.Logger) *Store {
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.RoomCodeLength <= 0 {
		opts.RoomCodeLength = DefaultRoomCodeLength
	}
	return &Store{
		rooms:    make(map[string]*entry),
		picker:   picker,
		settings: opts.Settings,
		grace:    opts.GracePeriod,
		codeLen:  opts.RoomCodeLength,
		logger:   logger.With().Str("component", "store").Logger(),
		now:      time.Now,
	}
}

// Do runs fn against an existing room while holding its lock
func (s *Store) Do(roomID string, fn func(*Tx) error) error {
	return s.transact(roomID, false, fn)
}

// DoOrCreate is Do, creating a lobby room first when roomID is unseen
func (s *Store) DoOrCreate(roomID string, fn func(*Tx) error) error {
	return s.transact(roomID, true, fn)
}

func (s *Store) transact(roomID string, create bool, fn func(*Tx) error) error {
	if roomID == "" {
		return domain.ErrEmptyRoomID
	}

	for {
		e, err := s.lookup(roomID, create)
		if err != nil {
			return err
		}

		e.mu.Lock()
		if e.deleted {
			// Lost a race with the sweep; look again.
			e.mu.Unlock()
			continue
		}

		err = fn(&Tx{store: s, room: e.room})
		s.reschedule(roomID, e)
		e.mu.Unlock()
		return err
	}
}

func (s *Store) lookup(roomID string, create bool) (*entry, error) {
	s.mu.RLock()
	e, ok := s.rooms[roomID]
	closed := s.closed
	s.mu.RUnlock()

	if closed {
		return nil, ErrClosed
	}
	if ok {
		return e, nil
	}
	if !create {
		return nil, domain.ErrRoomNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if e, ok := s.rooms[roomID]; ok {
		return e, nil
	}

	e = &entry{room: domain.NewRoom(roomID, s.settings)}
	s.rooms[roomID] = e
	s.logger.Info().Str("roomId", roomID).Msg("room created")
	return e, nil
}

// reschedule keeps the sweep in line with presence. Caller holds e.mu.
func (s *Store) reschedule(roomID string, e *entry) {
	if e.room.OnlineCount() > 0 {
		if e.sweep != nil {
			e.sweep.Stop()
			e.sweep = nil
			e.sweepGen++
			s.logger.Debug().Str("roomId", roomID).Msg("room sweep cancelled")
		}
		return
	}

	if e.sweep != nil {
		return
	}

	e.sweepGen++
	gen := e.sweepGen
	e.sweep = time.AfterFunc(s.grace, func() {
		s.sweepRoom(roomID, e, gen)
	})
	s.logger.Debug().Str("roomId", roomID).Dur("grace", s.grace).Msg("room sweep scheduled")
}

// sweepRoom deletes the room if it is still abandoned when the timer fires
func (s *Store) sweepRoom(roomID string, e *entry, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.deleted || e.sweepGen != gen {
		return
	}
	e.sweep = nil

	if e.room.OnlineCount() > 0 {
		return
	}

	if s.rooms[roomID] == e {
		delete(s.rooms, roomID)
	}
	e.deleted = true
	s.logger.Info().Str("roomId", roomID).Msg("room deleted due to inactivity")
}

// GetOrCreate returns a snapshot of the room, creating it if needed
func (s *Store) GetOrCreate(roomID string) (*domain.RoomSnapshot, error) {
	var snap *domain.RoomSnapshot
	err := s.DoOrCreate(roomID, func(tx *Tx) error {
		snap = tx.Snapshot()
		return nil
	})
	return snap, err
}

// Snapshot returns a copy of an existing room's state
func (s *Store) Snapshot(roomID string) (*domain.RoomSnapshot, error) {
	var snap *domain.RoomSnapshot
	err := s.Do(roomID, func(tx *Tx) error {
		snap = tx.Snapshot()
		return nil
	})
	return snap, err
}

// UpsertPlayer adds a player to the room or brings them back online
func (s *Store) UpsertPlayer(roomID, playerID, name string) (*domain.Player, error) {
	var player *domain.Player
	err := s.DoOrCreate(roomID, func(tx *Tx) error {
		p, err := tx.UpsertPlayer(playerID, name)
		if err != nil {
			return err
		}
		player = p.Clone()
		return nil
	})
	return player, err
}

// ApplyPlayerPatch merges a partial update into an existing player
func (s *Store) ApplyPlayerPatch(roomID, playerID string, patch domain.PlayerPatch) (*domain.Player, error) {
	var player *domain.Player
	err := s.Do(roomID, func(tx *Tx) error {
		p, err := tx.ApplyPlayerPatch(playerID, patch)
		if err != nil {
			return err
		}
		player = p.Clone()
		return nil
	})
	return player, err
}

// MarkOffline flags a player as disconnected; repeated calls are no-ops
func (s *Store) MarkOffline(roomID, playerID string) error {
	return s.Do(roomID, func(tx *Tx) error {
		_, err := tx.MarkOffline(playerID)
		return err
	})
}

// StartRound begins a new round in the room and returns its secret
func (s *Store) StartRound(roomID string) (string, error) {
	var secret string
	err := s.Do(roomID, func(tx *Tx) error {
		w, err := tx.StartRound()
		secret = w
		return err
	})
	return secret, err
}

// CreateRoom creates an empty lobby room under a freshly generated code.
// Nobody is online in it, so it is swept unless someone joins in time.
func (s *Store) CreateRoom() (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		code := s.generateRoomCode()
		if s.Exists(code) {
			continue
		}
		if err := s.DoOrCreate(code, func(*Tx) error { return nil }); err != nil {
			return "", err
		}
		return code, nil
	}
	return "", fmt.Errorf("failed to generate unique room code")
}

// Exists reports whether a room is registered
func (s *Store) Exists(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[roomID]
	return ok
}

// RoomCount returns the number of live rooms
func (s *Store) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Stats counts rooms and players across the store
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Rooms: len(s.rooms)}
	for _, e := range s.rooms {
		e.mu.Lock()
		st.Players += len(e.room.Players)
		st.OnlinePlayers += e.room.OnlineCount()
		e.mu.Unlock()
	}
	return st
}

// Close drops every room and stops pending sweeps
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	for _, e := range s.rooms {
		e.mu.Lock()
		if e.sweep != nil {
			e.sweep.Stop()
			e.sweep = nil
		}
		e.sweepGen++
		e.deleted = true
		e.mu.Unlock()
	}
	s.rooms = make(map[string]*entry)
}

// generateRoomCode generates a random room code
func (s *Store) generateRoomCode() string {
	b := make([]byte, s.codeLen)
	rand.Read(b)

	code := make([]byte, s.codeLen)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}
