package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store types
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Port               int           `env:"PORT" envDefault:"3318"`
	StoreType          string        `env:"STORE_TYPE" envDefault:"memory"`
	DatabaseURL        string        `env:"DATABASE_URL" envDefault:":memory:"`
	PublicURL          string        `env:"PUBLIC_URL"`
	SigningKey         string        `env:"NEGOTIATE_SIGNING_KEY"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	BroadcastQueueSize int           `env:"BROADCAST_QUEUE_SIZE" envDefault:"64"`
	SeedDemo           bool          `env:"SEED_DEMO"`
	LogFormat          string        `env:"LOG_FORMAT" envDefault:"text"`
}

// ParseFlags loads .env, then environment variables, then CLI flags.
// CLI flags take precedence over the environment.
func ParseFlags(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	flags := flag.NewFlagSet("livepoll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	flags.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	flags.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "Externally visible base URL for negotiate")

	// Storage
	flags.StringVar(&cfg.StoreType, "s", cfg.StoreType, "Store type (memory or sqlite)")
	flags.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "SQLite database URL")
	flags.BoolVar(&cfg.SeedDemo, "seed", cfg.SeedDemo, "Seed demo polls at startup")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.SigningKey, "signing-key", cfg.SigningKey, "Negotiate token signing key (prefer env)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.StoreType != StoreMemory && cfg.StoreType != StoreSQLite {
		return Config{}, fmt.Errorf("unknown store type %q (use memory or sqlite)", cfg.StoreType)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("TOKEN_TTL must be positive")
	}
	if cfg.BroadcastQueueSize <= 0 {
		return Config{}, errors.New("BROADCAST_QUEUE_SIZE must be positive")
	}

	// Secrets - MUST be provided
	if cfg.SigningKey == "" {
		return Config{}, errors.New("NEGOTIATE_SIGNING_KEY required")
	}

	return cfg, nil
}
