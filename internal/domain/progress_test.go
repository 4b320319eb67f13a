package domain

import "testing"

func TestCounters_Merge(t *testing.T) {
	t.Parallel()

	prev := Counters{LearnedSigns: 9, TestsCompleted: 4, BestScore: 85, StreakDays: 3, Favorites: 2}

	got := prev.Merge(Counters{LearnedSigns: 10, TestsCompleted: 5, BestScore: 60, StreakDays: 0, Favorites: 1})
	want := Counters{LearnedSigns: 10, TestsCompleted: 5, BestScore: 85, StreakDays: 0, Favorites: 1}
	if got != want {
		t.Fatalf("Merge() = %+v, want %+v", got, want)
	}

	got = prev.Merge(Counters{BestScore: 90})
	if got.BestScore != 90 {
		t.Errorf("BestScore = %d, want 90", got.BestScore)
	}
}

func TestCounters_MergeSequence(t *testing.T) {
	t.Parallel()

	var c Counters
	for _, pct := range []int{40, 85, 60} {
		c = c.Merge(Counters{BestScore: pct})
	}
	if c.BestScore != 85 {
		t.Fatalf("BestScore = %d, want 85", c.BestScore)
	}
}
