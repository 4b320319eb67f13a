package games

import (
	"time"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// TrueFalse shows a sign with a name and asks whether the name fits.
// Half of the time the name belongs to a different sign.
type TrueFalse struct {
	sampler
	total     int
	round     int
	score     int
	done      bool
	sign      domain.TrafficSign
	statement string
	truthful  bool
}

// NewTrueFalse creates a true/false game.
func NewTrueFalse(s sampler, cfg config.GamesConfig) *TrueFalse {
	return &TrueFalse{sampler: s, total: cfg.Rounds}
}

func (g *TrueFalse) Kind() Kind { return KindTrueFalse }

func (g *TrueFalse) Start() error {
	g.round, g.score, g.done = 0, 0, false
	return g.load()
}

func (g *TrueFalse) load() error {
	signs, err := g.sample(2)
	if err != nil {
		return err
	}
	g.sign = signs[0]
	g.truthful = g.rng.Float64() < 0.5
	if g.truthful {
		g.statement = signs[0].NameEnglish
	} else {
		g.statement = signs[1].NameEnglish
	}
	return nil
}

func (g *TrueFalse) CurrentRound() Round {
	return Round{Number: g.round + 1, Total: g.total, Sign: cardOf(g.sign, false), Statement: g.statement}
}

func (g *TrueFalse) Submit(a Answer) (Outcome, error) {
	if g.done {
		return Outcome{}, domain.ErrSessionClosed
	}
	if a.Value == nil {
		return Outcome{}, domain.NewValidationError("value", "required")
	}

	out := Outcome{Accepted: true, Answer: g.sign.NameEnglish}
	if *a.Value == g.truthful {
		g.score++
		out.Correct = true
		out.Points = 1
	}
	if g.truthful {
		out.Message = "The description was correct!"
	} else {
		out.Message = "The description was incorrect! This sign is: " + g.sign.NameEnglish
	}

	if g.round+1 >= g.total {
		g.done = true
	} else {
		g.round++
		if err := g.load(); err != nil {
			return Outcome{}, err
		}
	}
	out.Terminal = g.done
	return out, nil
}

func (g *TrueFalse) IsTerminal() bool { return g.done }

func (g *TrueFalse) Summary() Summary {
	p := percent(g.score, g.total)
	s := Summary{Kind: KindTrueFalse, Score: g.score, MaxScore: g.total, Rounds: g.total, Percent: p, Terminal: g.done}
	if g.done {
		s.Feedback = Feedback(p)
	}
	return s
}

func (g *TrueFalse) Schedule() (time.Duration, bool) { return 0, false }
func (g *TrueFalse) Tick() *Outcome                  { return nil }
