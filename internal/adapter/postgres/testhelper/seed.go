package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with a dummy password hash and UTC timezone.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Email:        "driver-" + suffix + "@example.com",
		Name:         "Driver " + suffix,
		PasswordHash: "$2a$04$placeholderplaceholderplaceholderplaceholderpla",
		Timezone:     "UTC",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, name, password_hash, timezone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Timezone, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return user
}

// SeedSign creates a traffic sign with a unique id and the given English name.
func SeedSign(t *testing.T, pool *pgxpool.Pool, nameEnglish string) domain.TrafficSign {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	sign := domain.TrafficSign{
		ID:          "sign_" + uniqueSuffix(),
		NameEnglish: nameEnglish,
		NameHindi:   "संकेत",
		Meaning:     "Meaning of " + nameEnglish,
		Category:    domain.SignCategoryWarning,
		Color:       "#FF0000",
		Shape:       "Triangle",
		IconURLs:    []string{"https://cdn.example/" + nameEnglish + ".png"},
		CreatedAt:   now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO traffic_signs (id, name_english, name_hindi, meaning, category, color, shape, icon_urls, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sign.ID, sign.NameEnglish, sign.NameHindi, sign.Meaning, string(sign.Category),
		sign.Color, sign.Shape, sign.IconURLs, sign.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSign: %v", err)
	}

	return sign
}

// SeedCategory creates a question category with a unique name.
func SeedCategory(t *testing.T, pool *pgxpool.Pool) domain.Category {
	t.Helper()

	c := domain.Category{ID: uuid.New(), Name: "Category " + uniqueSuffix()}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO categories (id, name) VALUES ($1, $2)`, c.ID, c.Name,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory: %v", err)
	}
	return c
}

// SeedQuestion creates a question whose correct answer is A.
func SeedQuestion(t *testing.T, pool *pgxpool.Pool, categoryID *uuid.UUID) domain.QuizQuestion {
	t.Helper()

	q := domain.QuizQuestion{
		ID:            uuid.New(),
		CategoryID:    categoryID,
		Prompt:        "What does sign " + uniqueSuffix() + " mean?",
		OptionA:       "Stop",
		OptionB:       "Go",
		CorrectAnswer: domain.AnswerA,
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO questions (id, category_id, question, option_a, option_b, correct_answer)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		q.ID, q.CategoryID, q.Prompt, q.OptionA, q.OptionB, string(q.CorrectAnswer),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedQuestion: %v", err)
	}
	return q
}

// SeedActivity inserts an activity event with an explicit timestamp.
func SeedActivity(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, typ domain.ActivityType, details string, at time.Time) domain.ActivityEvent {
	t.Helper()

	ev := domain.ActivityEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Details:   &details,
		CreatedAt: at.UTC().Truncate(time.Microsecond),
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO user_activity (id, user_id, type, details, created_at) VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, ev.UserID, string(ev.Type), ev.Details, ev.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity: %v", err)
	}
	return ev
}
