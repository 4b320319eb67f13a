package quiz

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/internal/service/progress"
)

// Mode selects how questions are drawn.
type Mode string

const (
	// ModePractice samples from the whole bank.
	ModePractice Mode = "practice"
	// ModeCategory asks for a category first and samples within it.
	ModeCategory Mode = "category"
)

func (m Mode) IsValid() bool {
	return m == ModePractice || m == ModeCategory
}

// State of a session.
type State string

const (
	StateSelectingCategory State = "selecting_category"
	StateInProgress        State = "in_progress"
	StateCompleted         State = "completed"
)

// Phase of the current question while in progress.
type Phase string

const (
	PhaseAwaitingAnswer  Phase = "awaiting_answer"
	PhaseShowingFeedback Phase = "showing_feedback"
)

const msgSelectAnswer = "Please select an answer."

// Result summarises a session. Percent is computed against Denominator.
type Result struct {
	Correct     int `json:"correct"`
	Answered    int `json:"answered"`
	Total       int `json:"total"`
	Denominator int `json:"denominator"`
	Percent     int `json:"percent"`
}

// Feedback is revealed after an answer is submitted.
type Feedback struct {
	QuestionID    uuid.UUID     `json:"questionId"`
	Selected      domain.Answer `json:"selected"`
	Correct       bool          `json:"correct"`
	CorrectAnswer domain.Answer `json:"correctAnswer"`
	Explanation   *string       `json:"explanation,omitempty"`
}

// Session is one play-through of a practice test. All methods assume the
// caller holds mu.
type Session struct {
	mu sync.Mutex

	id         uuid.UUID
	userID     uuid.UUID
	generation uint64
	closed     bool

	mode       Mode
	state      State
	categories []domain.Category
	categoryID *uuid.UUID

	questions []domain.QuizQuestion
	answers   []domain.Answer
	index     int
	score     int

	phase         Phase
	feedbackUntil time.Time
	dwell         clockwork.Timer

	size    int
	minPool int
	rng     *rand.Rand

	saved   bool
	saveErr error
}

func newSession(id, userID uuid.UUID, mode Mode, size, minPool int, rng *rand.Rand) *Session {
	s := &Session{
		id:      id,
		userID:  userID,
		mode:    mode,
		size:    size,
		minPool: minPool,
		rng:     rng,
		phase:   PhaseAwaitingAnswer,
	}
	if mode == ModeCategory {
		s.state = StateSelectingCategory
	} else {
		s.state = StateInProgress
	}
	return s
}

// begin samples the session's questions from pool without replacement, in
// an order shuffled once.
func (s *Session) begin(pool []domain.QuizQuestion) error {
	need := 1
	if s.mode == ModePractice {
		need = max(s.minPool, 1)
	}
	if len(pool) < need {
		return &domain.InsufficientDataError{Pool: "questions", Need: need, Have: len(pool)}
	}

	shuffled := make([]domain.QuizQuestion, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	s.questions = shuffled[:min(s.size, len(shuffled))]
	s.answers = make([]domain.Answer, len(s.questions))
	s.index = 0
	s.score = 0
	s.phase = PhaseAwaitingAnswer
	s.state = StateInProgress
	return nil
}

// selectCategory starts a category-mode session with the category's pool.
func (s *Session) selectCategory(categoryID uuid.UUID, pool []domain.QuizQuestion) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.state != StateSelectingCategory {
		return domain.ErrConflict
	}
	if err := s.begin(pool); err != nil {
		return err
	}
	s.categoryID = &categoryID
	s.generation++
	return nil
}

// submit records the answer to the current question. An answer cannot be
// changed once given.
func (s *Session) submit(answer domain.Answer, now time.Time, dwell time.Duration) (*Feedback, error) {
	if err := s.checkInProgress(); err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, domain.NewValidationError("answer", msgSelectAnswer)
	}
	if !answer.IsValid() {
		return nil, domain.NewValidationError("answer", "must be A or B")
	}
	if s.answers[s.index] != "" {
		return nil, domain.ErrConflict
	}

	q := s.questions[s.index]
	s.answers[s.index] = answer
	if answer == q.CorrectAnswer {
		s.score++
	}
	s.phase = PhaseShowingFeedback
	s.feedbackUntil = now.Add(dwell)

	return s.feedbackAt(s.index), nil
}

// advance moves past the answered current question. It reports whether the
// session completed.
func (s *Session) advance() (bool, error) {
	if err := s.checkInProgress(); err != nil {
		return false, err
	}
	if s.answers[s.index] == "" {
		return false, domain.NewValidationError("answer", msgSelectAnswer)
	}

	s.stopDwell()
	s.generation++
	s.index++
	s.phase = PhaseAwaitingAnswer
	s.feedbackUntil = time.Time{}
	if s.index >= len(s.questions) {
		s.index = len(s.questions) - 1
		s.state = StateCompleted
		return true, nil
	}
	return false, nil
}

// finish ends the session early. Unanswered questions do not count.
func (s *Session) finish() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.state == StateCompleted {
		return domain.ErrSessionClosed
	}
	s.stopDwell()
	s.generation++
	s.state = StateCompleted
	return nil
}

// teardown cancels timers and makes the session reject further use.
func (s *Session) teardown() {
	s.stopDwell()
	s.generation++
	s.closed = true
}

func (s *Session) stopDwell() {
	if s.dwell != nil {
		s.dwell.Stop()
		s.dwell = nil
	}
}

func (s *Session) result() Result {
	answered := 0
	for _, a := range s.answers {
		if a != "" {
			answered++
		}
	}

	denominator := answered
	if s.mode == ModeCategory {
		denominator = roundUpTen(len(s.questions))
	}

	return Result{
		Correct:     s.score,
		Answered:    answered,
		Total:       len(s.questions),
		Denominator: denominator,
		Percent:     progress.Percent(s.score, denominator),
	}
}

func (s *Session) feedbackAt(i int) *Feedback {
	q := s.questions[i]
	return &Feedback{
		QuestionID:    q.ID,
		Selected:      s.answers[i],
		Correct:       s.answers[i] == q.CorrectAnswer,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
}

func (s *Session) checkOpen() error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	return nil
}

func (s *Session) checkInProgress() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	switch s.state {
	case StateCompleted:
		return domain.ErrSessionClosed
	case StateSelectingCategory:
		return domain.NewValidationError("category_id", "select a category first")
	}
	return nil
}

func roundUpTen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 9) / 10 * 10
}
