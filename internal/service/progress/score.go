package progress

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var scorePattern = regexp.MustCompile(`(?i)Score:\s*([0-9]+)\s*/\s*([0-9]+)`)

// FormatScore renders the details payload of a test_completed event.
func FormatScore(correct, total int) string {
	return fmt.Sprintf("Score: %d/%d", correct, total)
}

// Percent returns round(correct/total*100), or 0 for an empty total.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// ParseScorePercent extracts the percentage from a "Score: N/M" payload,
// clamped to 100. It reports false when the payload does not match or M is
// zero.
func ParseScorePercent(details string) (int, bool) {
	m := scorePattern.FindStringSubmatch(details)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	total, err := strconv.Atoi(m[2])
	if err != nil || total == 0 {
		return 0, false
	}
	return min(Percent(n, total), 100), true
}

// BestScore returns the highest parseable percentage, or 0.
func BestScore(details []string) int {
	best := 0
	for _, d := range details {
		if p, ok := ParseScorePercent(d); ok && p > best {
			best = p
		}
	}
	return best
}
