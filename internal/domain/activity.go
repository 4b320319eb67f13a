package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType tags an ActivityEvent. The set is open: unknown types are
// stored and counted toward streaks but ignored by the counters.
type ActivityType string

const (
	ActivityLearnedSign   ActivityType = "learned_sign"
	ActivityTestCompleted ActivityType = "test_completed"
)

func (t ActivityType) String() string { return string(t) }

// IsValid reports whether the type is a non-empty tag of reasonable length.
func (t ActivityType) IsValid() bool {
	return t != "" && len(t) <= 64
}

// ActivityEvent is an immutable record of a user action.
type ActivityEvent struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      ActivityType
	Details   *string
	CreatedAt time.Time
}

// DetailsOrEmpty returns the details payload or "" when absent.
func (e ActivityEvent) DetailsOrEmpty() string {
	if e.Details == nil {
		return ""
	}
	return *e.Details
}

// ActivityFilter narrows a selectActivity query. Zero values mean "no filter".
type ActivityFilter struct {
	Type   *ActivityType
	From   *time.Time // inclusive
	To     *time.Time // exclusive
	Limit  int
	Newest bool // order by created_at desc
}
