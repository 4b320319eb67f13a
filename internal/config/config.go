package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	KV        KVConfig        `yaml:"kv"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Progress  ProgressConfig  `yaml:"progress"`
	Quiz      QuizConfig      `yaml:"quiz"`
	Games     GamesConfig     `yaml:"games"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// Origins splits AllowedOrigins on commas.
func (c CORSConfig) Origins() []string { return splitList(c.AllowedOrigins) }

// Methods splits AllowedMethods on commas.
func (c CORSConfig) Methods() []string { return splitList(c.AllowedMethods) }

// Headers splits AllowedHeaders on commas.
func (c CORSConfig) Headers() []string { return splitList(c.AllowedHeaders) }

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"false"`
}

// AuthConfig holds token and password settings.
type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"          env:"AUTH_JWT_SECRET"          env-required:"true"`
	JWTIssuer         string        `yaml:"jwt_issuer"          env:"AUTH_JWT_ISSUER"          env-default:"roadsigns"`
	AccessTokenTTL    time.Duration `yaml:"access_token_ttl"    env:"AUTH_ACCESS_TOKEN_TTL"    env-default:"15m"`
	RefreshTokenTTL   time.Duration `yaml:"refresh_token_ttl"   env:"AUTH_REFRESH_TOKEN_TTL"   env-default:"720h"`
	BcryptCost        int           `yaml:"bcrypt_cost"         env:"AUTH_BCRYPT_COST"         env-default:"12"`
	MinPasswordLength int           `yaml:"min_password_length" env:"AUTH_MIN_PASSWORD_LENGTH" env-default:"6"`
	// CleanupInterval schedules the expired-token sweep while serving. Zero disables it.
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"AUTH_CLEANUP_INTERVAL" env-default:"1h"`
}

// LogConfig holds logging settings. When FilePath is set, records are also
// written to a size-rotated file.
type LogConfig struct {
	Level      string `yaml:"level"        env:"LOG_LEVEL"         env-default:"info"`
	Format     string `yaml:"format"       env:"LOG_FORMAT"        env-default:"json"`
	FilePath   string `yaml:"file_path"    env:"LOG_FILE_PATH"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LOG_MAX_SIZE_MB"   env-default:"100"`
	MaxBackups int    `yaml:"max_backups"  env:"LOG_MAX_BACKUPS"   env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS"  env-default:"7"`
	Compress   bool   `yaml:"compress"     env:"LOG_COMPRESS"      env-default:"false"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled      bool          `yaml:"enabled"        env:"RATE_LIMIT_ENABLED"         env-default:"true"`
	PerMinute    int           `yaml:"per_minute"     env:"RATE_LIMIT_PER_MINUTE"      env-default:"120"`
	Burst        int           `yaml:"burst"          env:"RATE_LIMIT_BURST"           env-default:"30"`
	IdleEviction time.Duration `yaml:"idle_eviction"  env:"RATE_LIMIT_IDLE_EVICTION"   env-default:"5m"`
}

// KV drivers.
const (
	KVDriverRedis  = "redis"
	KVDriverMemory = "memory"
)

// KVConfig selects the per-user key-value store and the catalogue cache.
type KVConfig struct {
	Driver       string        `yaml:"driver"        env:"KV_DRIVER"         env-default:"redis"`
	Addr         string        `yaml:"addr"          env:"KV_REDIS_ADDR"     env-default:"localhost:6379"`
	Password     string        `yaml:"password"      env:"KV_REDIS_PASSWORD"`
	DB           int           `yaml:"db"            env:"KV_REDIS_DB"       env-default:"0"`
	KeyPrefix    string        `yaml:"key_prefix"    env:"KV_KEY_PREFIX"     env-default:"roadsigns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"  env:"KV_DIAL_TIMEOUT"   env-default:"3s"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  env:"KV_READ_TIMEOUT"   env-default:"2s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"KV_WRITE_TIMEOUT"  env-default:"2s"`
}

// CatalogConfig holds sign catalogue settings.
type CatalogConfig struct {
	CacheTTL        time.Duration `yaml:"cache_ttl"        env:"CATALOG_CACHE_TTL"        env-default:"1h"`
	SuggestionCount int           `yaml:"suggestion_count" env:"CATALOG_SUGGESTION_COUNT" env-default:"3"`
	MaxRandomSigns  int           `yaml:"max_random_signs" env:"CATALOG_MAX_RANDOM_SIGNS" env-default:"50"`
}

// ProgressConfig holds the progress aggregation windows.
type ProgressConfig struct {
	RecentWindow    int `yaml:"recent_window"     env:"PROGRESS_RECENT_WINDOW"     env-default:"20"`
	WidenThreshold  int `yaml:"widen_threshold"   env:"PROGRESS_WIDEN_THRESHOLD"   env-default:"7"`
	WidenLimit      int `yaml:"widen_limit"       env:"PROGRESS_WIDEN_LIMIT"       env-default:"200"`
	StreakCap       int `yaml:"streak_cap"        env:"PROGRESS_STREAK_CAP"        env-default:"30"`
	DailyGoal       int `yaml:"daily_goal"        env:"PROGRESS_DAILY_GOAL"        env-default:"5"`
	ActivityMaxPage int `yaml:"activity_max_page" env:"PROGRESS_ACTIVITY_MAX_PAGE" env-default:"100"`
}

// QuizConfig holds practice test settings.
type QuizConfig struct {
	QuestionsPerSession int           `yaml:"questions_per_session" env:"QUIZ_QUESTIONS_PER_SESSION" env-default:"10"`
	MinPool             int           `yaml:"min_pool"              env:"QUIZ_MIN_POOL"              env-default:"10"`
	FeedbackDwell       time.Duration `yaml:"feedback_dwell"        env:"QUIZ_FEEDBACK_DWELL"        env-default:"4s"`
	SessionTTL          time.Duration `yaml:"session_ttl"           env:"QUIZ_SESSION_TTL"           env-default:"30m"`
	MaxSessions         int           `yaml:"max_sessions"          env:"QUIZ_MAX_SESSIONS"          env-default:"10000"`
	MaxPerUser          int           `yaml:"max_sessions_per_user" env:"QUIZ_MAX_SESSIONS_PER_USER" env-default:"3"`
}

// GamesConfig holds mini-game settings.
type GamesConfig struct {
	MatchingPairs     int           `yaml:"matching_pairs"      env:"GAMES_MATCHING_PAIRS"      env-default:"6"`
	MatchPoints       int           `yaml:"match_points"        env:"GAMES_MATCH_POINTS"        env-default:"10"`
	MismatchDelay     time.Duration `yaml:"mismatch_delay"      env:"GAMES_MISMATCH_DELAY"      env-default:"1s"`
	Rounds            int           `yaml:"rounds"              env:"GAMES_ROUNDS"              env-default:"10"`
	Options           int           `yaml:"options"             env:"GAMES_OPTIONS"             env-default:"4"`
	SpeedRoundTime    time.Duration `yaml:"speed_round_time"    env:"GAMES_SPEED_ROUND_TIME"    env-default:"15s"`
	SpeedTick         time.Duration `yaml:"speed_tick"          env:"GAMES_SPEED_TICK"          env-default:"1s"`
	SequenceReveal    time.Duration `yaml:"sequence_reveal"     env:"GAMES_SEQUENCE_REVEAL"     env-default:"1500ms"`
	SequenceGap       time.Duration `yaml:"sequence_gap"        env:"GAMES_SEQUENCE_GAP"        env-default:"500ms"`
	SequenceMaxLength int           `yaml:"sequence_max_length" env:"GAMES_SEQUENCE_MAX_LENGTH" env-default:"6"`
	SequenceDistract  int           `yaml:"sequence_distractors" env:"GAMES_SEQUENCE_DISTRACTORS" env-default:"2"`
	SessionTTL        time.Duration `yaml:"session_ttl"         env:"GAMES_SESSION_TTL"         env-default:"30m"`
	MaxSessions       int           `yaml:"max_sessions"        env:"GAMES_MAX_SESSIONS"        env-default:"10000"`
	MaxPerUser        int           `yaml:"max_sessions_per_user" env:"GAMES_MAX_SESSIONS_PER_USER" env-default:"5"`
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
