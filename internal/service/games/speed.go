package games

import (
	"time"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
)

// Speed is Guess against a per-round countdown. Running out of time loses
// the round and ends the game.
type Speed struct {
	rounds
	tick     time.Duration
	ticks    int // per round
	left     int
	timedOut bool
}

// NewSpeed creates a speed challenge.
func NewSpeed(s sampler, cfg config.GamesConfig) *Speed {
	ticks := 1
	if cfg.SpeedTick > 0 {
		ticks = max(1, int(cfg.SpeedRoundTime/cfg.SpeedTick))
	}
	return &Speed{
		rounds: rounds{sampler: s, total: cfg.Rounds, options: cfg.Options},
		tick:   cfg.SpeedTick,
		ticks:  ticks,
	}
}

func (g *Speed) Kind() Kind { return KindSpeed }

func (g *Speed) Start() error {
	g.left, g.timedOut = g.ticks, false
	return g.reset()
}

func (g *Speed) CurrentRound() Round {
	r := g.view()
	left := g.left
	r.TimeLeft = &left
	return r
}

func (g *Speed) Submit(a Answer) (Outcome, error) {
	out, err := g.answer(a.Option)
	if err != nil {
		return out, err
	}
	g.left = g.ticks
	return out, nil
}

func (g *Speed) IsTerminal() bool { return g.done }

func (g *Speed) Summary() Summary { return g.summary(KindSpeed) }

// TimedOut reports whether the game ended on the clock.
func (g *Speed) TimedOut() bool { return g.timedOut }

func (g *Speed) Schedule() (time.Duration, bool) {
	if g.done {
		return 0, false
	}
	return g.tick, true
}

// Tick counts one interval down. At zero the round is lost and the game
// is over.
func (g *Speed) Tick() *Outcome {
	if g.done {
		return nil
	}
	g.left--
	if g.left > 0 {
		return nil
	}
	g.done, g.timedOut = true, true
	return &Outcome{
		Accepted: true,
		Answer:   g.sign.NameEnglish,
		Message:  "Time's up! The correct answer is: " + g.sign.NameEnglish,
		TimedOut: true,
		Terminal: true,
	}
}
