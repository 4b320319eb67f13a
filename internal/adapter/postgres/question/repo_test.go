package question_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/question"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

func TestRepo_List_ByCategory(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := question.New(pool)
	ctx := context.Background()

	signsCat := testhelper.SeedCategory(t, pool)
	rulesCat := testhelper.SeedCategory(t, pool)
	for range 3 {
		testhelper.SeedQuestion(t, pool, &signsCat.ID)
	}
	testhelper.SeedQuestion(t, pool, &rulesCat.ID)
	testhelper.SeedQuestion(t, pool, nil)

	got, err := repo.List(ctx, &signsCat.ID)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, q := range got {
		require.NotNil(t, q.CategoryID)
		assert.Equal(t, signsCat.ID, *q.CategoryID)
		assert.Equal(t, domain.AnswerA, q.CorrectAnswer)
	}

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 5)
}

func TestRepo_UpsertBatch(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := question.New(pool)
	ctx := context.Background()
	cat := testhelper.SeedCategory(t, pool)

	media := domain.MediaImage
	url := "https://cdn.example/q.png"
	expl := "Stop fully before the line."
	q := domain.QuizQuestion{
		ID:            uuid.New(),
		CategoryID:    &cat.ID,
		Prompt:        "What does an octagonal red sign mean?",
		OptionA:       "Give way",
		OptionB:       "Stop",
		CorrectAnswer: domain.AnswerB,
		Explanation:   &expl,
		MediaType:     &media,
		MediaURL:      &url,
	}
	n, err := repo.UpsertBatch(ctx, []domain.QuizQuestion{q})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	q.OptionA = "Yield"
	_, err = repo.UpsertBatch(ctx, []domain.QuizQuestion{q})
	require.NoError(t, err)

	got, err := repo.List(ctx, &cat.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Yield", got[0].OptionA)
	assert.Equal(t, domain.AnswerB, got[0].CorrectAnswer)
	require.NotNil(t, got[0].MediaType)
	assert.Equal(t, domain.MediaImage, *got[0].MediaType)
	assert.Equal(t, expl, *got[0].Explanation)
}

func TestRepo_UpsertBatch_RejectsBadAnswer(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)

	_, err := question.New(pool).UpsertBatch(context.Background(), []domain.QuizQuestion{{
		ID: uuid.New(), Prompt: "?", OptionA: "a", OptionB: "b", CorrectAnswer: "C",
	}})
	assert.True(t, errors.Is(err, domain.ErrValidation), "err = %v", err)
}
