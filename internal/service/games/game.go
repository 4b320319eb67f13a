// Package games implements the sign mini-games as round-based sessions
// driven by explicit moves and, for the timed variants, a ticking clock.
package games

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// Kind names a game variant.
type Kind string

const (
	KindMatching  Kind = "matching"
	KindGuess     Kind = "guess"
	KindSpeed     Kind = "speed"
	KindSequence  Kind = "sequence"
	KindTrueFalse Kind = "true_false"
)

// IsValid reports whether k names a known variant.
func (k Kind) IsValid() bool {
	switch k {
	case KindMatching, KindGuess, KindSpeed, KindSequence, KindTrueFalse:
		return true
	}
	return false
}

// Answer is a player move. Each variant reads the field that applies to it.
type Answer struct {
	CardID string `json:"cardId,omitempty"` // matching
	Option string `json:"option,omitempty"` // guess, speed
	SignID string `json:"signId,omitempty"` // sequence
	Value  *bool  `json:"value,omitempty"`  // true/false
}

// Outcome describes the effect of one move or timer event.
type Outcome struct {
	Accepted bool     `json:"accepted"`
	Correct  bool     `json:"correct"`
	Points   int      `json:"points,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Reveal   []string `json:"reveal,omitempty"`
	Message  string   `json:"message,omitempty"`
	TimedOut bool     `json:"timedOut,omitempty"`
	Terminal bool     `json:"terminal"`
}

// Summary is the running or final score of a game.
type Summary struct {
	Kind     Kind   `json:"kind"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore,omitempty"`
	Rounds   int    `json:"rounds,omitempty"`
	Moves    int    `json:"moves,omitempty"`
	Level    int    `json:"level,omitempty"`
	Percent  int    `json:"percent"`
	Feedback string `json:"feedback,omitempty"`
	Terminal bool   `json:"terminal"`
}

// SignCard is the visual part of a sign shown to the player.
type SignCard struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name,omitempty"`
	IconURLs []string `json:"iconUrls"`
	Color    string   `json:"color,omitempty"`
	Shape    string   `json:"shape,omitempty"`
}

// Round is the player-facing state of the current round. Fields are filled
// per variant.
type Round struct {
	Number    int        `json:"number,omitempty"`
	Total     int        `json:"total,omitempty"`
	Sign      *SignCard  `json:"sign,omitempty"`
	Options   []string   `json:"options,omitempty"`
	Statement string     `json:"statement,omitempty"`
	TimeLeft  *int       `json:"timeLeft,omitempty"`
	Cards     []CardView `json:"cards,omitempty"`
	Level     int        `json:"level,omitempty"`
	Length    int        `json:"length,omitempty"`
	Phase     string     `json:"phase,omitempty"`
	Showing   *SignCard  `json:"showing,omitempty"`
	Pool      []SignCard `json:"pool,omitempty"`
	Entered   int        `json:"entered,omitempty"`
}

// Game is the shared shape of every variant. Implementations are not safe
// for concurrent use; the Manager serialises access per session.
type Game interface {
	Kind() Kind
	// Start (re)initialises the game from its sign pool.
	Start() error
	CurrentRound() Round
	Submit(a Answer) (Outcome, error)
	IsTerminal() bool
	Summary() Summary
	// Schedule reports whether the game is waiting on time and how long
	// until Tick should run.
	Schedule() (time.Duration, bool)
	// Tick applies one timer event. The returned outcome is non-nil when
	// the event changed the result of a round.
	Tick() *Outcome
}

// Feedback returns the summary message for a percentage.
func Feedback(percent int) string {
	switch {
	case percent >= 100:
		return "Perfect! Outstanding! 🌟"
	case percent >= 80:
		return "Excellent work! 🎉"
	case percent >= 60:
		return "Good job! Keep practicing! 👍"
	case percent >= 40:
		return "Not bad! You can do better! 💪"
	default:
		return "Keep learning! Practice makes perfect! 📚"
	}
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

// sampler draws distinct signs from a fixed pool.
type sampler struct {
	pool []domain.TrafficSign
	rng  *rand.Rand
}

// sample returns n distinct signs in random order.
func (s sampler) sample(n int) ([]domain.TrafficSign, error) {
	if len(s.pool) < n {
		return nil, &domain.InsufficientDataError{Pool: "signs", Need: n, Have: len(s.pool)}
	}
	out := make([]domain.TrafficSign, n)
	for i, j := range s.rng.Perm(len(s.pool))[:n] {
		out[i] = s.pool[j]
	}
	return out, nil
}

func (s sampler) shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

func cardOf(sign domain.TrafficSign, withIdentity bool) *SignCard {
	c := &SignCard{IconURLs: sign.IconURLs, Color: sign.Color, Shape: sign.Shape}
	if c.IconURLs == nil {
		c.IconURLs = []string{}
	}
	if withIdentity {
		c.ID = sign.ID
		c.Name = sign.NameEnglish
	}
	return c
}
