package domain

import (
	"time"

	"github.com/google/uuid"
)

// Counters are the five aggregates badges are evaluated against.
type Counters struct {
	LearnedSigns   int `json:"learnedSigns"`
	TestsCompleted int `json:"testsCompleted"`
	BestScore      int `json:"bestScore"`
	StreakDays     int `json:"streakDays"`
	Favorites      int `json:"favorites"`
}

// Merge returns next with the best score never below the one in c.
func (c Counters) Merge(next Counters) Counters {
	next.BestScore = max(c.BestScore, next.BestScore)
	return next
}

// ProgressSnapshot is the cached per-user summary stored in user_progress.
// It is recomputed from activity on every load and written last-write-wins.
type ProgressSnapshot struct {
	UserID uuid.UUID
	Counters
	UpdatedAt time.Time
}

// Badge is an entry in the static achievement catalogue.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// BadgeStatus pairs a badge with its derived unlock state.
type BadgeStatus struct {
	Badge
	Unlocked bool `json:"unlocked"`
}
