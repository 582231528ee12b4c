package session

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the editor runtime settings, read from the environment.
type Config struct {
	AutoSaveInterval time.Duration `env:"RLSTUDIO_AUTOSAVE_INTERVAL" envDefault:"30s"`
	HistoryCapacity  int           `env:"RLSTUDIO_HISTORY_CAPACITY" envDefault:"50"`
	StorePath        string        `env:"RLSTUDIO_STORE_PATH" envDefault:"rlstudio.db"`
	Port             int           `env:"RLSTUDIO_PORT" envDefault:"8080"`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
