package domain

import (
	"fmt"
	"time"
)

const (
	// WordLength is the number of letters in every guess and secret
	WordLength = 5

	// MaxGuesses is the number of attempts a player gets per round
	MaxGuesses = 6
)

// LetterState is the evaluation of one letter of a guess
type LetterState string

const (
	LetterCorrect LetterState = "correct" // Right letter, right position
	LetterPresent LetterState = "present" // In the word, wrong position
	LetterAbsent  LetterState = "absent"  // Not in the word (after duplicates are accounted for)
	LetterEmpty   LetterState = "empty"   // UI placeholder, never stored
)

// Scored reports whether the state is one the server stores
func (s LetterState) Scored() bool {
	return s == LetterCorrect || s == LetterPresent || s == LetterAbsent
}

// Letter pairs a character with its evaluation
type Letter struct {
	Char  string      `json:"char"`
	State LetterState `json:"state"`
}

// Guess is one scored submission
type Guess struct {
	Letters []Letter `json:"letters"`
}

// Word returns the guessed word
func (g Guess) Word() string {
	b := make([]byte, 0, len(g.Letters))
	for _, l := range g.Letters {
		b = append(b, l.Char...)
	}
	return string(b)
}

// Solved reports whether every letter is correct
func (g Guess) Solved() bool {
	if len(g.Letters) != WordLength {
		return false
	}
	for _, l := range g.Letters {
		if l.State != LetterCorrect {
			return false
		}
	}
	return true
}

// Validate checks that the guess is a fully scored five letter entry
func (g Guess) Validate() error {
	if len(g.Letters) != WordLength {
		return fmt.Errorf("%w: guess has %d letters", ErrInvalidPatch, len(g.Letters))
	}
	for i, l := range g.Letters {
		if len(l.Char) != 1 || !IsLetter(l.Char[0]) {
			return fmt.Errorf("%w: letter %d is %q, want one upper case letter", ErrInvalidPatch, i, l.Char)
		}
		if !l.State.Scored() {
			return fmt.Errorf("%w: letter %d has state %q", ErrInvalidPatch, i, l.State)
		}
	}
	return nil
}

func (g Guess) clone() Guess {
	letters := make([]Letter, len(g.Letters))
	copy(letters, g.Letters)
	return Guess{Letters: letters}
}

// Player represents a player in a room
type Player struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Guesses    []Guess   `json:"guesses"`
	IsReady    bool      `json:"isReady"`
	IsFinished bool      `json:"isFinished"`
	IsOnline   bool      `json:"isOnline"`
	JoinedAt   time.Time `json:"-"`
	FinishedAt time.Time `json:"-"`
}

// NewPlayer creates a new online player with the given ID and name
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Guesses:  make([]Guess, 0, MaxGuesses),
		IsOnline: true,
		JoinedAt: time.Now(),
	}
}

// ResetForNewRound clears the per-round game fields
func (p *Player) ResetForNewRound() {
	p.Guesses = make([]Guess, 0, MaxGuesses)
	p.IsFinished = false
	p.FinishedAt = time.Time{}
}

// Solved reports whether the latest guess matched the secret
func (p *Player) Solved() bool {
	if len(p.Guesses) == 0 {
		return false
	}
	return p.Guesses[len(p.Guesses)-1].Solved()
}

// AttemptsLeft returns how many guesses the player may still submit
func (p *Player) AttemptsLeft() int {
	return MaxGuesses - len(p.Guesses)
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	c := *p
	c.Guesses = make([]Guess, len(p.Guesses))
	for i, g := range p.Guesses {
		c.Guesses[i] = g.clone()
	}
	return &c
}

// PlayerPatch is a partial player update; nil fields are left untouched
type PlayerPatch struct {
	IsReady    *bool    `json:"isReady,omitempty"`
	IsFinished *bool    `json:"isFinished,omitempty"`
	Guesses    *[]Guess `json:"guesses,omitempty"`
}

// Empty reports whether the patch carries no field at all
func (pp PlayerPatch) Empty() bool {
	return pp.IsReady == nil && pp.IsFinished == nil && pp.Guesses == nil
}

// Validate checks the patch before it is applied
func (pp PlayerPatch) Validate() error {
	if pp.Guesses == nil {
		return nil
	}
	guesses := *pp.Guesses
	if len(guesses) > MaxGuesses {
		return fmt.Errorf("%w: %d guesses exceeds %d", ErrInvalidPatch, len(guesses), MaxGuesses)
	}
	for _, g := range guesses {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the provided fields into the player
func (pp PlayerPatch) Apply(p *Player) {
	if pp.IsReady != nil {
		p.IsReady = *pp.IsReady
	}
	if pp.IsFinished != nil {
		p.IsFinished = *pp.IsFinished
		if p.IsFinished && p.FinishedAt.IsZero() {
			p.FinishedAt = time.Now()
		}
		if !p.IsFinished {
			p.FinishedAt = time.Time{}
		}
	}
	if pp.Guesses != nil {
		guesses := make([]Guess, len(*pp.Guesses))
		for i, g := range *pp.Guesses {
			guesses[i] = g.clone()
		}
		p.Guesses = guesses

		// A solved or exhausted board is finished whatever the patch says.
		if p.Solved() || len(p.Guesses) >= MaxGuesses {
			p.IsFinished = true
			if p.FinishedAt.IsZero() {
				p.FinishedAt = time.Now()
			}
		}
	}
}

// IsLetter reports whether c is an upper case ASCII letter, the only
// alphabet guesses and secrets are written in
func IsLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
