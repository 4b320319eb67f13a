package progress

import "github.com/heartmarshall/roadsigns-backend/internal/domain"

type badgeRule struct {
	badge  domain.Badge
	unlock func(c domain.Counters) bool
}

var badgeRules = []badgeRule{
	{
		badge:  domain.Badge{ID: "first_sign", Name: "First Step", Icon: "🎯", Description: "Learned your first sign", Color: "#10B981"},
		unlock: func(c domain.Counters) bool { return c.LearnedSigns >= 1 },
	},
	{
		badge:  domain.Badge{ID: "five_signs", Name: "Getting Started", Icon: "🌟", Description: "Learned 5 signs", Color: "#3B82F6"},
		unlock: func(c domain.Counters) bool { return c.LearnedSigns >= 5 },
	},
	{
		badge:  domain.Badge{ID: "ten_signs", Name: "Road Scholar", Icon: "📚", Description: "Learned 10 signs", Color: "#A855F7"},
		unlock: func(c domain.Counters) bool { return c.LearnedSigns >= 10 },
	},
	{
		badge:  domain.Badge{ID: "twenty_signs", Name: "Sign Expert", Icon: "🎓", Description: "Learned 20 signs", Color: "#8B5CF6"},
		unlock: func(c domain.Counters) bool { return c.LearnedSigns >= 20 },
	},
	{
		badge:  domain.Badge{ID: "first_test", Name: "Test Taker", Icon: "✏️", Description: "Completed your first test", Color: "#F59E0B"},
		unlock: func(c domain.Counters) bool { return c.TestsCompleted >= 1 },
	},
	{
		badge:  domain.Badge{ID: "five_tests", Name: "Test Master", Icon: "📝", Description: "Completed 5 tests", Color: "#F97316"},
		unlock: func(c domain.Counters) bool { return c.TestsCompleted >= 5 },
	},
	{
		badge:  domain.Badge{ID: "perfect_score", Name: "Perfect Score", Icon: "💯", Description: "Scored 100% on a test", Color: "#EF4444"},
		unlock: func(c domain.Counters) bool { return c.BestScore == 100 },
	},
	{
		badge:  domain.Badge{ID: "high_scorer", Name: "High Scorer", Icon: "⭐", Description: "Scored 90% or higher", Color: "#DC2626"},
		unlock: func(c domain.Counters) bool { return c.BestScore >= 90 },
	},
	{
		badge:  domain.Badge{ID: "week_streak", Name: "Dedicated", Icon: "🔥", Description: "7-day learning streak", Color: "#F59E0B"},
		unlock: func(c domain.Counters) bool { return c.StreakDays >= 7 },
	},
	{
		badge:  domain.Badge{ID: "month_streak", Name: "Unstoppable", Icon: "💪", Description: "30-day learning streak", Color: "#DC2626"},
		unlock: func(c domain.Counters) bool { return c.StreakDays >= 30 },
	},
	{
		badge:  domain.Badge{ID: "favorite_collector", Name: "Favorites Fan", Icon: "❤️", Description: "Added 5 signs to favorites", Color: "#EF4444"},
		unlock: func(c domain.Counters) bool { return c.Favorites >= 5 },
	},
	{
		badge:  domain.Badge{ID: "favorite_master", Name: "Favorite Master", Icon: "💖", Description: "Added 10 signs to favorites", Color: "#EC4899"},
		unlock: func(c domain.Counters) bool { return c.Favorites >= 10 },
	},
}

// Catalogue returns the fixed badge list in display order.
func Catalogue() []domain.Badge {
	out := make([]domain.Badge, len(badgeRules))
	for i, r := range badgeRules {
		out[i] = r.badge
	}
	return out
}

// EvaluateBadges derives the unlock state of every badge from c. Nothing is
// remembered between calls, so a badge relocks if its counter drops.
func EvaluateBadges(c domain.Counters) []domain.BadgeStatus {
	out := make([]domain.BadgeStatus, len(badgeRules))
	for i, r := range badgeRules {
		out[i] = domain.BadgeStatus{Badge: r.badge, Unlocked: r.unlock(c)}
	}
	return out
}
