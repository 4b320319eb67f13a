package quiz

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

func makeQuestions(n int) []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, n)
	for i := range out {
		correct := domain.AnswerA
		if i%2 == 1 {
			correct = domain.AnswerB
		}
		out[i] = domain.QuizQuestion{
			ID:            uuid.New(),
			Prompt:        fmt.Sprintf("Question %d", i),
			OptionA:       "A",
			OptionB:       "B",
			CorrectAnswer: correct,
		}
	}
	return out
}

func testRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func wrong(a domain.Answer) domain.Answer {
	if a == domain.AnswerA {
		return domain.AnswerB
	}
	return domain.AnswerA
}

func newPractice(t *testing.T, pool []domain.QuizQuestion) *Session {
	t.Helper()
	s := newSession(uuid.New(), uuid.New(), ModePractice, 10, 10, testRand())
	require.NoError(t, s.begin(pool))
	return s
}

func TestSession_SevenOfTen(t *testing.T) {
	t.Parallel()

	s := newPractice(t, makeQuestions(25))
	now := time.Now()

	for i := range 10 {
		q := s.questions[s.index]
		answer := q.CorrectAnswer
		if i >= 7 {
			answer = wrong(answer)
		}
		fb, err := s.submit(answer, now, 4*time.Second)
		require.NoError(t, err)
		assert.Equal(t, i < 7, fb.Correct)

		done, err := s.advance()
		require.NoError(t, err)
		assert.Equal(t, i == 9, done)
	}

	assert.Equal(t, StateCompleted, s.state)
	assert.Equal(t, Result{Correct: 7, Answered: 10, Total: 10, Denominator: 10, Percent: 70}, s.result())
}

func TestSession_SamplesWithoutReplacement(t *testing.T) {
	t.Parallel()

	pool := makeQuestions(30)
	s := newPractice(t, pool)

	require.Len(t, s.questions, 10)
	seen := make(map[uuid.UUID]bool)
	for _, q := range s.questions {
		assert.False(t, seen[q.ID], "question %s sampled twice", q.ID)
		seen[q.ID] = true
	}

	// The caller's pool is left untouched.
	assert.Equal(t, "Question 0", pool[0].Prompt)
}

func TestSession_InsufficientPool(t *testing.T) {
	t.Parallel()

	s := newSession(uuid.New(), uuid.New(), ModePractice, 10, 10, testRand())
	err := s.begin(makeQuestions(9))

	require.ErrorIs(t, err, domain.ErrInsufficientData)
	var ide *domain.InsufficientDataError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, 10, ide.Need)
	assert.Equal(t, 9, ide.Have)
}

func TestSession_AnswerIsImmutable(t *testing.T) {
	t.Parallel()

	s := newPractice(t, makeQuestions(10))
	q := s.questions[0]

	_, err := s.submit(q.CorrectAnswer, time.Now(), time.Second)
	require.NoError(t, err)

	_, err = s.submit(wrong(q.CorrectAnswer), time.Now(), time.Second)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, s.score)
	assert.Equal(t, q.CorrectAnswer, s.answers[0])
}

func TestSession_SubmitValidation(t *testing.T) {
	t.Parallel()

	s := newPractice(t, makeQuestions(10))

	_, err := s.submit("", time.Now(), time.Second)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please select an answer.", ve.Errors[0].Message)

	_, err = s.submit("C", time.Now(), time.Second)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.advance()
	assert.ErrorIs(t, err, domain.ErrValidation, "cannot advance past an unanswered question")
	assert.Equal(t, 0, s.index)
}

func TestSession_FinishEarly(t *testing.T) {
	t.Parallel()

	s := newPractice(t, makeQuestions(10))
	for i := range 3 {
		q := s.questions[s.index]
		answer := q.CorrectAnswer
		if i == 2 {
			answer = wrong(answer)
		}
		_, err := s.submit(answer, time.Now(), time.Second)
		require.NoError(t, err)
		_, err = s.advance()
		require.NoError(t, err)
	}

	require.NoError(t, s.finish())
	assert.Equal(t, Result{Correct: 2, Answered: 3, Total: 10, Denominator: 3, Percent: 67}, s.result())

	assert.ErrorIs(t, s.finish(), domain.ErrSessionClosed)
	_, err := s.submit(domain.AnswerA, time.Now(), time.Second)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestSession_CategoryDenominator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pool            int
		wantTotal       int
		wantDenominator int
		wantPercent     int
	}{
		{pool: 4, wantTotal: 4, wantDenominator: 10, wantPercent: 40},
		{pool: 10, wantTotal: 10, wantDenominator: 10, wantPercent: 100},
		{pool: 15, wantTotal: 10, wantDenominator: 10, wantPercent: 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("pool_%d", tt.pool), func(t *testing.T) {
			t.Parallel()

			s := newSession(uuid.New(), uuid.New(), ModeCategory, 10, 10, testRand())
			assert.Equal(t, StateSelectingCategory, s.state)

			_, err := s.submit(domain.AnswerA, time.Now(), time.Second)
			assert.ErrorIs(t, err, domain.ErrValidation)

			require.NoError(t, s.selectCategory(uuid.New(), makeQuestions(tt.pool)))
			assert.ErrorIs(t, s.selectCategory(uuid.New(), makeQuestions(tt.pool)), domain.ErrConflict)

			for range s.questions {
				_, err := s.submit(s.questions[s.index].CorrectAnswer, time.Now(), time.Second)
				require.NoError(t, err)
				_, err = s.advance()
				require.NoError(t, err)
			}

			res := s.result()
			assert.Equal(t, tt.wantTotal, res.Total)
			assert.Equal(t, tt.wantDenominator, res.Denominator)
			assert.Equal(t, tt.wantPercent, res.Percent)
		})
	}
}

func TestSession_EmptyCategory(t *testing.T) {
	t.Parallel()

	s := newSession(uuid.New(), uuid.New(), ModeCategory, 10, 10, testRand())
	assert.ErrorIs(t, s.selectCategory(uuid.New(), nil), domain.ErrInsufficientData)
	assert.Equal(t, StateSelectingCategory, s.state)
}

func TestSession_TeardownRejectsUse(t *testing.T) {
	t.Parallel()

	s := newPractice(t, makeQuestions(10))
	gen := s.generation
	s.teardown()

	assert.Greater(t, s.generation, gen)
	_, err := s.submit(domain.AnswerA, time.Now(), time.Second)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestSession_View_HidesAnswerUntilSubmitted(t *testing.T) {
	t.Parallel()

	s := newPractice(t, makeQuestions(10))
	v := s.view()
	require.NotNil(t, v.Current)
	assert.Equal(t, 1, v.Current.Number)
	assert.Nil(t, v.Feedback)

	_, err := s.submit(domain.AnswerA, time.Unix(100, 0), 4*time.Second)
	require.NoError(t, err)

	v = s.view()
	require.NotNil(t, v.Feedback)
	assert.Equal(t, s.questions[0].CorrectAnswer, v.Feedback.CorrectAnswer)
	assert.Equal(t, PhaseShowingFeedback, v.Phase)
	require.NotNil(t, v.FeedbackUntil)
	assert.Equal(t, time.Unix(104, 0), *v.FeedbackUntil)
}
