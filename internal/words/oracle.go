// Package words picks secret words and scores guesses against them.
//
// Guesses and secrets share one vocabulary: whatever Pick returns is also
// accepted by Contains. Words are normalized to upper case.
package words

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"wordrace/internal/domain"
)

// ErrEmptyDictionary is returned when no valid word survives normalization
var ErrEmptyDictionary = errors.New("words: dictionary is empty")

// Oracle holds the dictionary and the random source used to draw secrets
type Oracle struct {
	words []string
	set   map[string]struct{}

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an oracle over list. Entries that are not five ASCII letters
// are dropped and duplicates collapsed. A nil src seeds from the clock.
func New(list []string, src rand.Source) (*Oracle, error) {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}

	o := &Oracle{
		set: make(map[string]struct{}, len(list)),
		rng: rand.New(src),
	}
	for _, w := range list {
		w = Normalize(w)
		if !isWord(w) {
			continue
		}
		if _, dup := o.set[w]; dup {
			continue
		}
		o.set[w] = struct{}{}
		o.words = append(o.words, w)
	}

	if len(o.words) == 0 {
		return nil, ErrEmptyDictionary
	}
	return o, nil
}

// Default returns an oracle over the built-in word list
func Default() *Oracle {
	o, err := New(DefaultWords, nil)
	if err != nil {
		panic(err)
	}
	return o
}

// Load reads one word per line from path
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return out, nil
}

// Size returns the number of words in the dictionary
func (o *Oracle) Size() int {
	return len(o.words)
}

// Pick returns a uniformly random word from the dictionary
func (o *Oracle) Pick() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.words[o.rng.Intn(len(o.words))]
}

// PickExcluding returns a random word that's not in the excluded list.
// It falls back to any word once every word has been excluded.
func (o *Oracle) PickExcluding(excluded ...string) string {
	if len(excluded) == 0 {
		return o.Pick()
	}

	skip := make(map[string]bool, len(excluded))
	for _, w := range excluded {
		skip[Normalize(w)] = true
	}

	candidates := make([]string, 0, len(o.words))
	for _, w := range o.words {
		if !skip[w] {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return o.Pick()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return candidates[o.rng.Intn(len(candidates))]
}

// Contains reports whether w is a valid guess
func (o *Oracle) Contains(w string) bool {
	_, ok := o.set[Normalize(w)]
	return ok
}

// Validate checks a raw guess and returns it normalized
func (o *Oracle) Validate(guess string) (string, error) {
	guess = Normalize(guess)
	if len(guess) != domain.WordLength {
		return "", domain.ErrInvalidGuessLength
	}
	if !isAlpha(guess) {
		return "", domain.ErrInvalidCharacters
	}
	if !o.Contains(guess) {
		return "", domain.ErrUnknownWord
	}
	return guess, nil
}

// Score evaluates guess against secret with the two-pass rule. Exact
// matches consume their secret slot first; every other guess letter then
// consumes the leftmost unused secret slot holding the same letter, if any.
// Both words must have the same length.
func Score(guess, secret string) []domain.LetterState {
	n := len(guess)
	res := make([]domain.LetterState, n)
	used := make([]bool, len(secret))

	for i := 0; i < n && i < len(secret); i++ {
		if guess[i] == secret[i] {
			res[i] = domain.LetterCorrect
			used[i] = true
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == domain.LetterCorrect {
			continue
		}
		res[i] = domain.LetterAbsent
		for j := 0; j < len(secret); j++ {
			if !used[j] && secret[j] == guess[i] {
				res[i] = domain.LetterPresent
				used[j] = true
				break
			}
		}
	}
	return res
}

// Evaluate scores guess against secret and pairs each state with its letter
func Evaluate(guess, secret string) domain.Guess {
	guess, secret = Normalize(guess), Normalize(secret)
	states := Score(guess, secret)
	letters := make([]domain.Letter, len(states))
	for i, s := range states {
		letters[i] = domain.Letter{Char: string(guess[i]), State: s}
	}
	return domain.Guess{Letters: letters}
}

// Normalize trims and upper-cases a word
func Normalize(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

func isWord(w string) bool {
	return len(w) == domain.WordLength && isAlpha(w)
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if !domain.IsLetter(s[i]) {
			return false
		}
	}
	return true
}
