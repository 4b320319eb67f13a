package games

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// rounds holds the state shared by the name-the-sign variants.
type rounds struct {
	sampler
	total   int
	options int
	round   int // zero-based index of the current round
	score   int
	done    bool
	sign    domain.TrafficSign
	choices []string
}

func (r *rounds) reset() error {
	r.round, r.score, r.done = 0, 0, false
	return r.load()
}

// load draws the options for the current round. The first drawn sign is
// the one shown to the player.
func (r *rounds) load() error {
	signs, err := r.sample(r.options)
	if err != nil {
		return err
	}
	r.sign = signs[0]
	r.choices = make([]string, len(signs))
	for i, s := range signs {
		r.choices[i] = s.NameEnglish
	}
	r.shuffle(len(r.choices), func(i, j int) { r.choices[i], r.choices[j] = r.choices[j], r.choices[i] })
	return nil
}

func (r *rounds) view() Round {
	return Round{
		Number:  r.round + 1,
		Total:   r.total,
		Sign:    cardOf(r.sign, false),
		Options: slices.Clone(r.choices),
	}
}

// answer scores option against the current round and moves on.
func (r *rounds) answer(option string) (Outcome, error) {
	if r.done {
		return Outcome{}, domain.ErrSessionClosed
	}
	option = strings.TrimSpace(option)
	if option == "" {
		return Outcome{}, domain.NewValidationError("option", "required")
	}
	if !slices.Contains(r.choices, option) {
		return Outcome{}, domain.NewValidationError("option", "not one of the offered options")
	}

	out := Outcome{Accepted: true, Answer: r.sign.NameEnglish}
	if option == r.sign.NameEnglish {
		r.score++
		out.Correct = true
		out.Points = 1
		out.Message = fmt.Sprintf("Correct! That's %s!", r.sign.NameEnglish)
	} else {
		out.Message = "The correct answer is: " + r.sign.NameEnglish
	}

	if err := r.next(); err != nil {
		return Outcome{}, err
	}
	out.Terminal = r.done
	return out, nil
}

func (r *rounds) next() error {
	if r.round+1 >= r.total {
		r.done = true
		return nil
	}
	r.round++
	return r.load()
}

func (r *rounds) summary(kind Kind) Summary {
	p := percent(r.score, r.total)
	s := Summary{
		Kind:     kind,
		Score:    r.score,
		MaxScore: r.total,
		Rounds:   r.total,
		Percent:  p,
		Terminal: r.done,
	}
	if r.done {
		s.Feedback = Feedback(p)
	}
	return s
}

// Guess shows one sign per round and asks for its name among the options.
type Guess struct {
	rounds
}

// NewGuess creates a guess game.
func NewGuess(s sampler, cfg config.GamesConfig) *Guess {
	return &Guess{rounds: rounds{sampler: s, total: cfg.Rounds, options: cfg.Options}}
}

func (g *Guess) Kind() Kind                       { return KindGuess }
func (g *Guess) Start() error                     { return g.reset() }
func (g *Guess) CurrentRound() Round              { return g.view() }
func (g *Guess) Submit(a Answer) (Outcome, error) { return g.answer(a.Option) }
func (g *Guess) IsTerminal() bool                 { return g.done }
func (g *Guess) Summary() Summary                 { return g.summary(KindGuess) }
func (g *Guess) Schedule() (time.Duration, bool)  { return 0, false }
func (g *Guess) Tick() *Outcome                   { return nil }
