package games

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/internal/service/registry"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

type signSource interface {
	ListSigns(ctx context.Context) ([]domain.TrafficSign, error)
}

// session is one live game owned by a user.
type session struct {
	mu         sync.Mutex
	id         uuid.UUID
	userID     uuid.UUID
	game       Game
	generation uint64
	timer      clockwork.Timer
	closed     bool
	last       *Outcome
}

// View is a snapshot of a game session.
type View struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	Round   Round     `json:"round"`
	Summary Summary   `json:"summary"`
	Last    *Outcome  `json:"last,omitempty"`
}

func (s *session) view() *View {
	return &View{
		ID:      s.id,
		Kind:    s.game.Kind(),
		Round:   s.game.CurrentRound(),
		Summary: s.game.Summary(),
		Last:    s.last,
	}
}

func (s *session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Manager owns the live game sessions and drives their timers.
type Manager struct {
	signs   signSource
	clock   clockwork.Clock
	log     *slog.Logger
	cfg     config.GamesConfig
	newRand func() *rand.Rand

	sessions *registry.Registry[*session]
}

// Option customises a Manager.
type Option func(*Manager)

// WithRand sets the per-session random source factory.
func WithRand(fn func() *rand.Rand) Option {
	return func(m *Manager) { m.newRand = fn }
}

// NewManager creates a game manager.
func NewManager(log *slog.Logger, signs signSource, clock clockwork.Clock, cfg config.GamesConfig, opts ...Option) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	m := &Manager{
		signs: signs,
		clock: clock,
		log:   log.With("service", "games"),
		cfg:   cfg,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, o := range opts {
		o(m)
	}

	m.sessions = registry.New(cfg.MaxSessions, cfg.MaxPerUser, cfg.SessionTTL, func(_ uuid.UUID, s *session) {
		s.mu.Lock()
		s.closed = true
		s.generation++
		s.stopTimer()
		s.mu.Unlock()
	})
	return m
}

// NewGame builds an unstarted game of kind over pool.
func NewGame(kind Kind, pool []domain.TrafficSign, rng *rand.Rand, cfg config.GamesConfig) (Game, error) {
	s := sampler{pool: pool, rng: rng}
	switch kind {
	case KindMatching:
		return NewMatching(s, cfg), nil
	case KindGuess:
		return NewGuess(s, cfg), nil
	case KindSpeed:
		return NewSpeed(s, cfg), nil
	case KindSequence:
		return NewSequence(s, cfg), nil
	case KindTrueFalse:
		return NewTrueFalse(s, cfg), nil
	}
	return nil, domain.NewValidationError("kind", "unknown game")
}

// Start draws the sign pool and begins a game of kind.
func (m *Manager) Start(ctx context.Context, kind Kind) (*View, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !kind.IsValid() {
		return nil, domain.NewValidationError("kind", "unknown game")
	}

	pool, err := m.signs.ListSigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list signs: %w", err)
	}

	game, err := NewGame(kind, pool, m.newRand(), m.cfg)
	if err != nil {
		return nil, err
	}
	if err := game.Start(); err != nil {
		return nil, err
	}

	s := &session{id: uuid.New(), userID: userID, game: game}
	s.mu.Lock()
	defer s.mu.Unlock()

	m.sessions.Add(userID, s.id, s)
	m.schedule(s)

	m.log.InfoContext(ctx, "game started",
		slog.String("session_id", s.id.String()),
		slog.String("kind", string(kind)),
	)
	return s.view(), nil
}

// Submit applies a move to the session's game.
func (m *Manager) Submit(ctx context.Context, id uuid.UUID, a Answer) (*View, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.game.Submit(a)
	if err != nil {
		return nil, err
	}
	if out.Accepted {
		s.last = &out
		m.schedule(s)
	}
	if out.Terminal {
		m.logFinished(ctx, s)
	}

	v := s.view()
	v.Last = &out
	return v, nil
}

// NextLevel continues a sequence game after a cleared or failed level.
func (m *Manager) NextLevel(ctx context.Context, id uuid.UUID) (*View, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.game.(*Sequence)
	if !ok {
		return nil, domain.NewValidationError("kind", "only sequence games have levels")
	}
	if err := seq.NextLevel(); err != nil {
		return nil, err
	}
	s.last = nil
	m.schedule(s)
	return s.view(), nil
}

// Restart begins the same kind of game again in place. Pending timers of
// the previous run become stale.
func (m *Manager) Restart(ctx context.Context, id uuid.UUID) (*View, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Start(); err != nil {
		return nil, err
	}
	s.last = nil
	m.schedule(s)
	return s.view(), nil
}

// Get returns the session's current view.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// Close ends the session and cancels its timers.
func (m *Manager) Close(ctx context.Context, id uuid.UUID) error {
	if _, err := m.lookup(ctx, id); err != nil {
		return err
	}
	m.sessions.Remove(id)
	return nil
}

// Shutdown ends every live session.
func (m *Manager) Shutdown() {
	m.sessions.Purge()
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

func (m *Manager) lookup(ctx context.Context, id uuid.UUID) (*session, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	s, ok := m.sessions.Get(id)
	if !ok || s.userID != userID {
		return nil, fmt.Errorf("game session %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// schedule replaces the session's pending timer with the one its game asks
// for. Callers hold s.mu.
func (m *Manager) schedule(s *session) {
	s.stopTimer()
	s.generation++
	if s.closed {
		return
	}
	d, ok := s.game.Schedule()
	if !ok {
		return
	}
	gen := s.generation
	s.timer = m.clock.AfterFunc(d, func() { m.fire(s, gen) })
}

// fire runs a game timer. It only touches the session and does nothing once
// the timer went stale.
func (m *Manager) fire(s *session, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.generation != gen {
		return
	}
	s.timer = nil

	if out := s.game.Tick(); out != nil {
		s.last = out
		if out.Terminal {
			m.logFinished(context.Background(), s)
		}
	}
	m.schedule(s)
}

func (m *Manager) logFinished(ctx context.Context, s *session) {
	sum := s.game.Summary()
	m.log.InfoContext(ctx, "game finished",
		slog.String("session_id", s.id.String()),
		slog.String("kind", string(sum.Kind)),
		slog.Int("score", sum.Score),
		slog.Int("percent", sum.Percent),
	)
}
