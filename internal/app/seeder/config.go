package seeder

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds seeder settings. Command-line flags override it.
type Config struct {
	// FilePath is the catalogue JSON to import. Empty selects the embedded
	// default catalogue.
	FilePath  string `yaml:"file_path"  env:"SEEDER_FILE"`
	BatchSize int    `yaml:"batch_size" env:"SEEDER_BATCH_SIZE" env-default:"200"`
	DryRun    bool   `yaml:"dry_run"    env:"SEEDER_DRY_RUN"`
}

// LoadConfig reads path when it is set, otherwise the environment alone.
// Environment variables win over the file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("seeder config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("seeder config: %w", err)
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return errors.New("batch_size must be positive")
	}
	return nil
}
