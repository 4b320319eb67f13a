package progress

import (
	"time"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// DefaultStreakCap bounds the backward scan.
const DefaultStreakCap = 30

// CalculateStreak counts consecutive days with activity, starting at today
// and walking backward. A missing today yields 0. The result never exceeds
// limit.
func CalculateStreak(days map[string]struct{}, today time.Time, loc *time.Location, limit int) int {
	if limit <= 0 {
		limit = DefaultStreakCap
	}

	local := today.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)

	streak := 0
	for range limit {
		if _, ok := days[day.Format(dayKeyLayout)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// collectDayKeys adds the local day-key of every event to days.
func collectDayKeys(days map[string]struct{}, events []domain.ActivityEvent, loc *time.Location) {
	for _, ev := range events {
		days[DayKey(ev.CreatedAt, loc)] = struct{}{}
	}
}
