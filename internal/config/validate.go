package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be in [4, 31] (got %d)", c.Auth.BcryptCost)
	}

	switch c.KV.Driver {
	case KVDriverRedis, KVDriverMemory:
	default:
		return fmt.Errorf("kv.driver must be %q or %q (got %q)", KVDriverRedis, KVDriverMemory, c.KV.Driver)
	}

	if c.RateLimit.Enabled && c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate_limit.per_minute must be > 0 when enabled (got %d)", c.RateLimit.PerMinute)
	}

	if err := c.Progress.validate(); err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	if err := c.Quiz.validate(); err != nil {
		return fmt.Errorf("quiz: %w", err)
	}
	if err := c.Games.validate(); err != nil {
		return fmt.Errorf("games: %w", err)
	}

	return nil
}

func (p *ProgressConfig) validate() error {
	if p.RecentWindow <= 0 {
		return fmt.Errorf("recent_window must be > 0 (got %d)", p.RecentWindow)
	}
	if p.WidenLimit < p.RecentWindow {
		return fmt.Errorf("widen_limit must be >= recent_window (got %d < %d)", p.WidenLimit, p.RecentWindow)
	}
	if p.StreakCap <= 0 {
		return fmt.Errorf("streak_cap must be > 0 (got %d)", p.StreakCap)
	}
	if p.DailyGoal <= 0 {
		return fmt.Errorf("daily_goal must be > 0 (got %d)", p.DailyGoal)
	}
	return nil
}

func (q *QuizConfig) validate() error {
	if q.QuestionsPerSession <= 0 {
		return fmt.Errorf("questions_per_session must be > 0 (got %d)", q.QuestionsPerSession)
	}
	if q.MinPool < q.QuestionsPerSession {
		return fmt.Errorf("min_pool must be >= questions_per_session (got %d < %d)", q.MinPool, q.QuestionsPerSession)
	}
	if q.FeedbackDwell < 0 {
		return fmt.Errorf("feedback_dwell must be >= 0 (got %v)", q.FeedbackDwell)
	}
	if q.MaxPerUser < 0 {
		return fmt.Errorf("max_sessions_per_user must be >= 0 (got %d)", q.MaxPerUser)
	}
	return nil
}

func (g *GamesConfig) validate() error {
	if g.MatchingPairs <= 0 {
		return fmt.Errorf("matching_pairs must be > 0 (got %d)", g.MatchingPairs)
	}
	if g.Rounds <= 0 {
		return fmt.Errorf("rounds must be > 0 (got %d)", g.Rounds)
	}
	if g.Options < 2 {
		return fmt.Errorf("options must be >= 2 (got %d)", g.Options)
	}
	if g.SpeedTick <= 0 || g.SpeedRoundTime < g.SpeedTick {
		return fmt.Errorf("speed_round_time (%v) must be >= speed_tick (%v) > 0", g.SpeedRoundTime, g.SpeedTick)
	}
	if g.SequenceMaxLength < 3 {
		return fmt.Errorf("sequence_max_length must be >= 3 (got %d)", g.SequenceMaxLength)
	}
	if g.SequenceDistract < 0 {
		return fmt.Errorf("sequence_distractors must be >= 0 (got %d)", g.SequenceDistract)
	}
	if g.MaxPerUser < 0 {
		return fmt.Errorf("max_sessions_per_user must be >= 0 (got %d)", g.MaxPerUser)
	}
	return nil
}
