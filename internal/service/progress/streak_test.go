package progress

import (
	"math/rand/v2"
	"testing"
	"time"
)

func days(today time.Time, offsets ...int) map[string]struct{} {
	out := make(map[string]struct{}, len(offsets))
	for _, off := range offsets {
		out[today.AddDate(0, 0, -off).Format(dayKeyLayout)] = struct{}{}
	}
	return out
}

func TestCalculateStreak(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days map[string]struct{}
		want int
	}{
		{name: "today and two before", days: days(today, 0, 1, 2), want: 3},
		{name: "today missing", days: days(today, 1, 2), want: 0},
		{name: "only today", days: days(today, 0), want: 1},
		{name: "no dates", days: map[string]struct{}{}, want: 0},
		{name: "gap stops the walk", days: days(today, 0, 1, 3, 4), want: 2},
		{name: "future day ignored", days: days(today, -1, 0), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CalculateStreak(tt.days, today, time.UTC, DefaultStreakCap); got != tt.want {
				t.Errorf("CalculateStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateStreak_Capped(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	offsets := make([]int, 45)
	for i := range offsets {
		offsets[i] = i
	}

	if got := CalculateStreak(days(today, offsets...), today, time.UTC, 30); got != 30 {
		t.Errorf("CalculateStreak() = %d, want cap 30", got)
	}
}

func TestCalculateStreak_Bounded(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewPCG(7, 11))

	for range 200 {
		set := make(map[string]struct{})
		for range rng.IntN(60) {
			set[today.AddDate(0, 0, -rng.IntN(50)).Format(dayKeyLayout)] = struct{}{}
		}
		got := CalculateStreak(set, today, time.UTC, DefaultStreakCap)
		if got < 0 || got > DefaultStreakCap {
			t.Fatalf("streak %d out of [0,%d]", got, DefaultStreakCap)
		}
	}
}

func TestCalculateStreak_UsesLocalDay(t *testing.T) {
	t.Parallel()

	tokyo := ParseTimezone("Asia/Tokyo")
	// 23:30 UTC on the 14th is already the 15th in Tokyo.
	now := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	set := map[string]struct{}{"2026-03-15": {}, "2026-03-14": {}}

	if got := CalculateStreak(set, now, tokyo, DefaultStreakCap); got != 2 {
		t.Errorf("Tokyo streak = %d, want 2", got)
	}
	if got := CalculateStreak(set, now, time.UTC, DefaultStreakCap); got != 1 {
		t.Errorf("UTC streak = %d, want 1", got)
	}
}

func TestCalculateStreak_AcrossDST(t *testing.T) {
	t.Parallel()

	ny := ParseTimezone("America/New_York")
	// DST started on 2026-03-08 in New York.
	now := time.Date(2026, 3, 9, 15, 0, 0, 0, ny)
	set := map[string]struct{}{"2026-03-09": {}, "2026-03-08": {}, "2026-03-07": {}}

	if got := CalculateStreak(set, now, ny, DefaultStreakCap); got != 3 {
		t.Errorf("streak across DST = %d, want 3", got)
	}
}
