// Package quiz runs practice-test sessions: sampling, answering with timed
// feedback, scoring and recording the result.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/internal/service/progress"
	"github.com/heartmarshall/roadsigns-backend/internal/service/registry"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

const recordTimeout = 10 * time.Second

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type questionRepo interface {
	List(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuizQuestion, error)
}

type categoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type resultRecorder interface {
	RecordTestResult(ctx context.Context, correct, denominator int) (*progress.TestResult, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service owns the live quiz sessions.
type Service struct {
	questions  questionRepo
	categories categoryRepo
	recorder   resultRecorder
	clock      clockwork.Clock
	log        *slog.Logger
	cfg        config.QuizConfig
	newRand    func() *rand.Rand

	sessions *registry.Registry[*Session]
}

// Option customises a Service.
type Option func(*Service)

// WithRand sets the per-session random source factory.
func WithRand(fn func() *rand.Rand) Option {
	return func(s *Service) { s.newRand = fn }
}

// NewService creates a quiz service.
func NewService(
	log *slog.Logger,
	questions questionRepo,
	categories categoryRepo,
	recorder resultRecorder,
	clock clockwork.Clock,
	cfg config.QuizConfig,
	opts ...Option,
) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Service{
		questions:  questions,
		categories: categories,
		recorder:   recorder,
		clock:      clock,
		log:        log.With("service", "quiz"),
		cfg:        cfg,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, o := range opts {
		o(s)
	}

	s.sessions = registry.New(cfg.MaxSessions, cfg.MaxPerUser, cfg.SessionTTL, func(_ uuid.UUID, sess *Session) {
		sess.mu.Lock()
		sess.teardown()
		sess.mu.Unlock()
	})
	return s
}

// Start creates a session. Practice mode samples immediately; category mode
// waits for SelectCategory.
func (s *Service) Start(ctx context.Context, mode Mode) (*View, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if mode == "" {
		mode = ModePractice
	}
	if !mode.IsValid() {
		return nil, domain.NewValidationError("mode", "must be practice or category")
	}

	sess := newSession(uuid.New(), userID, mode, s.cfg.QuestionsPerSession, s.cfg.MinPool, s.newRand())

	switch mode {
	case ModePractice:
		pool, err := s.questions.List(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		if err := sess.begin(pool); err != nil {
			return nil, err
		}
	case ModeCategory:
		cats, err := s.categories.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		sess.categories = cats
	}

	s.sessions.Add(userID, sess.id, sess)
	s.log.InfoContext(ctx, "quiz started",
		slog.String("session_id", sess.id.String()),
		slog.String("mode", string(mode)),
		slog.Int("questions", len(sess.questions)),
	)

	v := sess.view()
	return &v, nil
}

// SelectCategory samples the questions of categoryID into a category-mode
// session.
func (s *Service) SelectCategory(ctx context.Context, id, categoryID uuid.UUID) (*View, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	pool, err := s.questions.List(ctx, &categoryID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.selectCategory(categoryID, pool); err != nil {
		return nil, err
	}
	v := sess.view()
	return &v, nil
}

// Answer submits an answer for the current question. Feedback is shown for
// the configured dwell time, after which the session advances by itself.
func (s *Service) Answer(ctx context.Context, id uuid.UUID, answer domain.Answer) (*View, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, err := sess.submit(answer, s.clock.Now(), s.cfg.FeedbackDwell); err != nil {
		return nil, err
	}

	gen := sess.generation
	sess.dwell = s.clock.AfterFunc(s.cfg.FeedbackDwell, func() {
		s.autoAdvance(sess, gen)
	})

	v := sess.view()
	return &v, nil
}

// Next skips the remaining feedback dwell and advances.
func (s *Service) Next(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	done, err := sess.advance()
	if err != nil {
		return nil, err
	}
	if done {
		s.record(ctx, sess)
	}
	v := sess.view()
	return &v, nil
}

// Finish ends the session early and records the result.
func (s *Service) Finish(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.finish(); err != nil {
		return nil, err
	}
	s.record(ctx, sess)
	v := sess.view()
	return &v, nil
}

// Get returns the session's current view.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	v := sess.view()
	return &v, nil
}

// Close tears the session down and cancels its timers.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	if _, err := s.lookup(ctx, id); err != nil {
		return err
	}
	s.sessions.Remove(id)
	return nil
}

// Shutdown tears down every live session.
func (s *Service) Shutdown() {
	s.sessions.Purge()
}

// Len reports the number of live sessions.
func (s *Service) Len() int {
	return s.sessions.Len()
}

// lookup returns a live session owned by the caller and refreshes its TTL.
// Another user's session is reported as not found.
func (s *Service) lookup(ctx context.Context, id uuid.UUID) (*Session, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	sess, ok := s.sessions.Get(id)
	if !ok || sess.userID != userID {
		return nil, fmt.Errorf("quiz session %s: %w", id, domain.ErrNotFound)
	}
	return sess, nil
}

// autoAdvance runs on the dwell timer. It only touches the session, and does
// nothing once the session moved on or was torn down.
func (s *Service) autoAdvance(sess *Session, gen uint64) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed || sess.generation != gen || sess.phase != PhaseShowingFeedback {
		return
	}
	sess.dwell = nil

	done, err := sess.advance()
	if err != nil {
		return
	}
	if done {
		ctx, cancel := context.WithTimeout(ctxutil.WithUserID(context.Background(), sess.userID), recordTimeout)
		defer cancel()
		s.record(ctx, sess)
	}
}

// record persists a completed session once. A session with no answers
// records nothing. Failures are logged and kept on the session.
func (s *Service) record(ctx context.Context, sess *Session) {
	if sess.saved || sess.saveErr != nil {
		return
	}
	res := sess.result()
	if res.Answered == 0 {
		return
	}

	ctx = ctxutil.WithUserID(context.WithoutCancel(ctx), sess.userID)
	_, err := s.recorder.RecordTestResult(ctx, res.Correct, res.Denominator)
	if err != nil {
		sess.saveErr = err
		s.log.ErrorContext(ctx, "record quiz result",
			slog.String("session_id", sess.id.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	sess.saved = true
	s.log.InfoContext(ctx, "quiz completed",
		slog.String("session_id", sess.id.String()),
		slog.Int("correct", res.Correct),
		slog.Int("denominator", res.Denominator),
		slog.Int("percent", res.Percent),
	)
}
