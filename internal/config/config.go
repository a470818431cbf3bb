package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store kinds accepted by VERITAS_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds the application configuration.
type Config struct {
	// Path of a YAML world definition; empty means the embedded Veritas Chamber.
	WorldFile string `env:"VERITAS_WORLD_FILE"`

	Store      string      `env:"VERITAS_STORE" envDefault:"file"`
	SaveDir    string      `env:"VERITAS_SAVE_DIR" envDefault:".saves"`
	SQLitePath string      `env:"VERITAS_SQLITE_PATH" envDefault:"veritas.db"`
	Redis      RedisConfig `envPrefix:"VERITAS_REDIS_"`

	LogFile  string `env:"VERITAS_LOG_FILE" envDefault:"veritas.log"`
	LogLevel string `env:"VERITAS_LOG_LEVEL" envDefault:"info"`

	PlayerName string `env:"VERITAS_PLAYER_NAME"`

	// Only the simulator's model-backed player needs these.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// RedisConfig configures the redis session store.
type RedisConfig struct {
	Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"24h"`
}

// LoadConfig loads the configuration from a .env file, if present, and environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store {
	case StoreMemory, StoreFile, StoreSQLite, StoreRedis:
	default:
		return nil, fmt.Errorf("VERITAS_STORE %q is not one of memory, file, sqlite, redis", cfg.Store)
	}
	return &cfg, nil
}
