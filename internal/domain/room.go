package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// RoomSettings holds configurable room parameters
type RoomSettings struct {
	MinPlayers int `json:"minPlayers"`
	MaxPlayers int `json:"maxPlayers"` // 0 means unlimited
}

// DefaultRoomSettings returns the default room settings
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		MinPlayers: 2,
		MaxPlayers: 8,
	}
}

// Room represents a game room
type Room struct {
	ID         string
	Phase      Phase
	Players    []*Player // join order, Players[0] is the host
	SecretWord string
	StartTime  time.Time
	Round      int
	Settings   RoomSettings
	CreatedAt  time.Time

	usedWords []string
}

// NewRoom creates a new lobby room with the given ID
func NewRoom(id string, settings RoomSettings) *Room {
	if settings.MinPlayers < 2 {
		settings.MinPlayers = 2
	}
	return &Room{
		ID:        id,
		Phase:     PhaseLobby,
		Players:   make([]*Player, 0),
		Settings:  settings,
		CreatedAt: time.Now(),
	}
}

// GetPlayer returns a player by ID
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// HostID returns the ID of the first player to join, or "" for an empty room
func (r *Room) HostID() string {
	if len(r.Players) == 0 {
		return ""
	}
	return r.Players[0].ID
}

// IsHost checks if the given player is the host
func (r *Room) IsHost(playerID string) bool {
	return playerID != "" && r.HostID() == playerID
}

// UpsertPlayer adds a new player or brings an existing one back online.
// The returned bool is true when the player was created.
func (r *Room) UpsertPlayer(playerID, name string) (*Player, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	if player, err := r.GetPlayer(playerID); err == nil {
		player.IsOnline = true
		player.Name = name
		return player, false, nil
	}

	if r.Settings.MaxPlayers > 0 && len(r.Players) >= r.Settings.MaxPlayers {
		return nil, false, ErrRoomFull
	}

	player := NewPlayer(playerID, name)
	r.Players = append(r.Players, player)
	return player, true, nil
}

// ApplyPlayerPatch merges a partial update into an existing player
func (r *Room) ApplyPlayerPatch(playerID string, patch PlayerPatch) (*Player, error) {
	player, err := r.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	patch.Apply(player)
	return player, nil
}

// MarkOffline flags a player as disconnected. It reports whether anything changed.
func (r *Room) MarkOffline(playerID string) (bool, error) {
	player, err := r.GetPlayer(playerID)
	if err != nil {
		return false, err
	}
	if !player.IsOnline {
		return false, nil
	}
	player.IsOnline = false
	return true, nil
}

// OnlineCount returns the number of connected players
func (r *Room) OnlineCount() int {
	count := 0
	for _, p := range r.Players {
		if p.IsOnline {
			count++
		}
	}
	return count
}

// CanStart checks the lobby quorum: enough players and all of them ready
func (r *Room) CanStart() error {
	if len(r.Players) < r.Settings.MinPlayers {
		return ErrNotEnoughPlayers
	}
	for _, p := range r.Players {
		if !p.IsReady {
			return ErrPlayersNotReady
		}
	}
	return nil
}

// StartRound starts a new round with the given secret word
func (r *Room) StartRound(secretWord string, now time.Time) error {
	if !r.Phase.CanTransitionTo(PhasePlaying) {
		return ErrInvalidTransition
	}
	if len(secretWord) != WordLength {
		return fmt.Errorf("%w: secret %q", ErrInvalidGuessLength, secretWord)
	}

	for _, player := range r.Players {
		player.ResetForNewRound()
	}

	r.SecretWord = secretWord
	r.usedWords = append(r.usedWords, secretWord)
	r.StartTime = now
	r.Round++
	r.Phase = PhasePlaying

	return nil
}

// UsedWords returns the secrets of every round played in this room
func (r *Room) UsedWords() []string {
	out := make([]string, len(r.usedWords))
	copy(out, r.usedWords)
	return out
}

// CheckCanGuess returns the player if they may submit another guess
func (r *Room) CheckCanGuess(playerID string) (*Player, error) {
	if r.Phase != PhasePlaying {
		return nil, ErrInvalidPhase
	}
	player, err := r.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if player.AttemptsLeft() <= 0 {
		return nil, ErrTooManyGuesses
	}
	if player.IsFinished || player.Solved() {
		return nil, ErrPlayerFinished
	}
	return player, nil
}

// AppendGuess records a scored guess. The player finishes on a solve or on
// their last attempt.
func (r *Room) AppendGuess(playerID string, guess Guess, now time.Time) (*Player, error) {
	player, err := r.CheckCanGuess(playerID)
	if err != nil {
		return nil, err
	}
	if len(guess.Letters) != WordLength {
		return nil, ErrInvalidGuessLength
	}

	player.Guesses = append(player.Guesses, guess.clone())
	if guess.Solved() || len(player.Guesses) >= MaxGuesses {
		player.IsFinished = true
		player.FinishedAt = now
	}
	return player, nil
}

// AllFinished reports whether every player in the room finished the round
func (r *Room) AllFinished() bool {
	if len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		if !p.IsFinished {
			return false
		}
	}
	return true
}

// FinishIfDone moves a playing room to finished once every player is done.
// It reports whether the transition happened.
func (r *Room) FinishIfDone() bool {
	if r.Phase != PhasePlaying || !r.AllFinished() {
		return false
	}
	r.Phase = PhaseFinished
	return true
}

// Standing is one row of a round's final ranking
type Standing struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Solved    bool   `json:"solved"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int64  `json:"elapsedMs,omitempty"`
}

// Standings ranks players: solvers first, then fewer attempts, then faster,
// then join order. A solver without a finish time ranks as the slowest.
func (r *Room) Standings() []Standing {
	type ranked struct {
		Standing
		elapsed int64
	}

	rows := make([]ranked, 0, len(r.Players))
	for _, p := range r.Players {
		row := ranked{
			Standing: Standing{
				PlayerID: p.ID,
				Name:     p.Name,
				Solved:   p.Solved(),
				Attempts: len(p.Guesses),
			},
			elapsed: math.MaxInt64,
		}
		if !p.FinishedAt.IsZero() && !r.StartTime.IsZero() {
			row.ElapsedMs = p.FinishedAt.Sub(r.StartTime).Milliseconds()
			row.elapsed = row.ElapsedMs
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Solved != b.Solved {
			return a.Solved
		}
		if !a.Solved {
			return false
		}
		if a.Attempts != b.Attempts {
			return a.Attempts < b.Attempts
		}
		return a.elapsed < b.elapsed
	})

	out := make([]Standing, len(rows))
	for i, row := range rows {
		out[i] = row.Standing
	}
	return out
}

// Snapshot returns a deep copy of the client-visible room state
func (r *Room) Snapshot() *RoomSnapshot {
	players := make([]*Player, len(r.Players))
	for i, p := range r.Players {
		players[i] = p.Clone()
	}

	snap := &RoomSnapshot{
		ID:      r.ID,
		Phase:   r.Phase,
		Players: players,
		HostID:  r.HostID(),
		Round:   r.Round,
	}
	if r.Phase.Started() {
		snap.SecretWord = r.SecretWord
		snap.StartTime = r.StartTime.UnixMilli()
	}
	return snap
}
