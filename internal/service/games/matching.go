package games

import (
	"strings"
	"time"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

const (
	faceIcon    = "icon"
	faceMeaning = "meaning"
)

type card struct {
	id      string
	signID  string
	face    string
	content string
	icons   []string
	flipped bool
	matched bool
}

// CardView is a card as the player sees it. Content is hidden until the
// card is face up.
type CardView struct {
	ID       string   `json:"id"`
	Face     string   `json:"face"`
	Content  string   `json:"content,omitempty"`
	IconURLs []string `json:"iconUrls,omitempty"`
	Flipped  bool     `json:"flipped"`
	Matched  bool     `json:"matched"`
}

// Matching pairs each sign's icon card with its name card. A turn is two
// picks; a mismatch stays face up until Tick flips it back.
type Matching struct {
	sampler
	pairs   int
	points  int
	delay   time.Duration
	cards   []card
	picked  []int
	moves   int
	matches int
	score   int
}

// NewMatching creates a matching game over pool.
func NewMatching(s sampler, cfg config.GamesConfig) *Matching {
	return &Matching{sampler: s, pairs: cfg.MatchingPairs, points: cfg.MatchPoints, delay: cfg.MismatchDelay}
}

func (g *Matching) Kind() Kind { return KindMatching }

func (g *Matching) Start() error {
	signs, err := g.sample(g.pairs)
	if err != nil {
		return err
	}

	cards := make([]card, 0, 2*len(signs))
	for _, s := range signs {
		cards = append(cards,
			card{id: s.ID + "-" + faceIcon, signID: s.ID, face: faceIcon, icons: s.IconURLs},
			card{id: s.ID + "-" + faceMeaning, signID: s.ID, face: faceMeaning, content: s.NameEnglish},
		)
	}
	g.shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	g.cards = cards
	g.picked = nil
	g.moves, g.matches, g.score = 0, 0, 0
	return nil
}

func (g *Matching) CurrentRound() Round {
	views := make([]CardView, len(g.cards))
	for i, c := range g.cards {
		v := CardView{ID: c.id, Face: c.face, Flipped: c.flipped, Matched: c.matched}
		if c.flipped || c.matched {
			v.Content = c.content
			v.IconURLs = c.icons
		}
		views[i] = v
	}
	return Round{Number: g.moves + 1, Total: g.pairs, Cards: views}
}

// Submit flips the card named by a.CardID. The pick is ignored while two
// cards are already face up, or when the card is flipped or matched.
func (g *Matching) Submit(a Answer) (Outcome, error) {
	if g.IsTerminal() {
		return Outcome{}, domain.ErrSessionClosed
	}

	idx := g.indexOf(a.CardID)
	if idx < 0 {
		return Outcome{}, domain.NewValidationError("cardId", "unknown card")
	}
	c := &g.cards[idx]
	if len(g.picked) >= 2 || c.flipped || c.matched {
		return Outcome{Accepted: false}, nil
	}

	c.flipped = true
	g.picked = append(g.picked, idx)
	if len(g.picked) < 2 {
		return Outcome{Accepted: true}, nil
	}

	g.moves++
	first, second := &g.cards[g.picked[0]], &g.cards[g.picked[1]]
	if first.signID != second.signID {
		return Outcome{Accepted: true, Correct: false}, nil
	}

	first.matched, second.matched = true, true
	g.picked = nil
	g.matches++
	g.score += g.points
	out := Outcome{Accepted: true, Correct: true, Points: g.points, Terminal: g.IsTerminal()}
	if out.Terminal {
		out.Message = Feedback(100)
	}
	return out, nil
}

// Resolve flips a pending mismatch face down.
func (g *Matching) Resolve() {
	if len(g.picked) < 2 {
		return
	}
	for _, i := range g.picked {
		g.cards[i].flipped = false
	}
	g.picked = nil
}

func (g *Matching) IsTerminal() bool {
	return len(g.cards) > 0 && g.matches == g.pairs
}

func (g *Matching) Summary() Summary {
	p := percent(g.matches, g.pairs)
	return Summary{
		Kind:     KindMatching,
		Score:    g.score,
		MaxScore: g.pairs * g.points,
		Moves:    g.moves,
		Percent:  p,
		Feedback: Feedback(p),
		Terminal: g.IsTerminal(),
	}
}

func (g *Matching) Schedule() (time.Duration, bool) {
	if len(g.picked) == 2 {
		return g.delay, true
	}
	return 0, false
}

func (g *Matching) Tick() *Outcome {
	g.Resolve()
	return nil
}

func (g *Matching) indexOf(id string) int {
	id = strings.TrimSpace(id)
	for i, c := range g.cards {
		if c.id == id {
			return i
		}
	}
	return -1
}
