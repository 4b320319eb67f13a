package games

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// Sequence phases.
const (
	PhaseReveal  = "reveal"
	PhaseInput   = "input"
	PhaseFailed  = "failed"
	PhaseCleared = "cleared"
)

const sequenceBase = 2

// Sequence reveals signs one at a time and asks the player to tap them back
// in order from a shuffled pool.
type Sequence struct {
	sampler
	reveal    time.Duration
	gap       time.Duration
	maxLength int
	distract  int
	level     int
	score     int
	seq       []domain.TrafficSign
	pool      []domain.TrafficSign
	phase     string
	revealed  int
	entered   int
}

// NewSequence creates a sequence-recall game.
func NewSequence(s sampler, cfg config.GamesConfig) *Sequence {
	return &Sequence{
		sampler:   s,
		reveal:    cfg.SequenceReveal,
		gap:       cfg.SequenceGap,
		maxLength: cfg.SequenceMaxLength,
		distract:  cfg.SequenceDistract,
	}
}

func (g *Sequence) Kind() Kind { return KindSequence }

func (g *Sequence) Start() error {
	g.level, g.score = 1, 0
	return g.load()
}

// Length is the sequence length at the current level.
func (g *Sequence) Length() int {
	return min(g.level+sequenceBase, g.maxLength)
}

// Level reports the current level, starting at 1.
func (g *Sequence) Level() int { return g.level }

// Phase reports the current phase.
func (g *Sequence) Phase() string { return g.phase }

func (g *Sequence) load() error {
	n := g.Length()
	signs, err := g.sample(n + g.distract)
	if err != nil {
		return err
	}
	g.seq = signs[:n:n]
	g.pool = append([]domain.TrafficSign(nil), signs...)
	g.shuffle(len(g.pool), func(i, j int) { g.pool[i], g.pool[j] = g.pool[j], g.pool[i] })
	g.phase = PhaseReveal
	g.revealed, g.entered = 0, 0
	return nil
}

func (g *Sequence) CurrentRound() Round {
	r := Round{Level: g.level, Length: len(g.seq), Phase: g.phase, Entered: g.entered}
	if g.phase == PhaseReveal && g.revealed < len(g.seq) {
		r.Showing = cardOf(g.seq[g.revealed], true)
	}
	if g.phase != PhaseReveal {
		r.Pool = make([]SignCard, len(g.pool))
		for i, s := range g.pool {
			r.Pool[i] = *cardOf(s, true)
		}
	}
	return r
}

// Submit taps the sign a.SignID. A wrong tap at any position fails the
// attempt and reveals the full sequence.
func (g *Sequence) Submit(a Answer) (Outcome, error) {
	switch g.phase {
	case PhaseInput:
	case PhaseReveal:
		return Outcome{}, fmt.Errorf("sequence still revealing: %w", domain.ErrConflict)
	default:
		return Outcome{}, domain.ErrSessionClosed
	}

	id := strings.TrimSpace(a.SignID)
	if !g.inPool(id) {
		return Outcome{}, domain.NewValidationError("signId", "not one of the offered signs")
	}

	if id != g.seq[g.entered].ID {
		g.phase = PhaseFailed
		names := g.names()
		return Outcome{
			Accepted: true,
			Reveal:   names,
			Answer:   strings.Join(names, " → "),
			Message:  "The correct sequence was: " + strings.Join(names, " → "),
			Terminal: true,
		}, nil
	}

	g.entered++
	if g.entered < len(g.seq) {
		return Outcome{Accepted: true, Correct: true}, nil
	}

	points := g.level * 10
	g.score += points
	g.phase = PhaseCleared
	return Outcome{
		Accepted: true,
		Correct:  true,
		Points:   points,
		Message:  fmt.Sprintf("Level %d complete! +%d points", g.level, points),
	}, nil
}

// NextLevel moves past a cleared level, or replays the same level after a
// failed attempt.
func (g *Sequence) NextLevel() error {
	switch g.phase {
	case PhaseCleared:
		g.level++
	case PhaseFailed:
	default:
		return fmt.Errorf("level in progress: %w", domain.ErrConflict)
	}
	return g.load()
}

func (g *Sequence) IsTerminal() bool { return g.phase == PhaseFailed }

func (g *Sequence) Summary() Summary {
	return Summary{Kind: KindSequence, Score: g.score, Level: g.level, Terminal: g.IsTerminal()}
}

// Schedule reports the reveal cadence: each sign stays for the reveal
// duration, then a short gap precedes input.
func (g *Sequence) Schedule() (time.Duration, bool) {
	if g.phase != PhaseReveal {
		return 0, false
	}
	if g.revealed < len(g.seq) {
		return g.reveal, true
	}
	return g.gap, true
}

func (g *Sequence) Tick() *Outcome {
	if g.phase != PhaseReveal {
		return nil
	}
	if g.revealed < len(g.seq) {
		g.revealed++
		return nil
	}
	g.phase = PhaseInput
	return nil
}

func (g *Sequence) names() []string {
	out := make([]string, len(g.seq))
	for i, s := range g.seq {
		out[i] = s.NameEnglish
	}
	return out
}

func (g *Sequence) inPool(id string) bool {
	for _, s := range g.pool {
		if s.ID == id {
			return true
		}
	}
	return false
}
