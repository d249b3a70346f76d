package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	AVATAR_SIZE = 64

	StorageTypeMySQL    = "mysql"
	StorageTypePostgres = "postgres"
	StorageTypeInMemory = "in-memory"
)

type DBConfig struct {
	User     string `env:"USER"`
	Pass     string `env:"PASS"`
	Host     string `env:"HOST"`
	Name     string `env:"NAME" envDefault:"next-blog"`
	TLS      bool   `env:"TLS" envDefault:"true"`
	MaxConns int    `env:"MAX_CONNS" envDefault:"50"`
}

// Config holds everything read from the environment at startup.
type Config struct {
	Port      string   `env:"PORT"`
	GinMode   string   `env:"GIN_MODE" envDefault:"release"`
	FEOrigins []string `env:"FE_ORIGINS" envSeparator:";"`

	StorageType    string   `env:"STORAGE_TYPE" envDefault:"mysql"`
	DB             DBConfig `envPrefix:"DB_"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	MigrationsDir  string   `env:"MIGRATIONS_DIR"`
	MigrateOnStart bool     `env:"MIGRATE_ON_START" envDefault:"false"`

	MediaBucket string `env:"MEDIA_BUCKET" envDefault:"next-blog-media.appspot.com"`
	MediaURL    string `env:"MEDIA_URL"`

	LoginURL       string        `env:"LOGIN_URL" envDefault:"/auth/login/"`
	PageSize       int           `env:"PAGE_SIZE" envDefault:"10"`
	IndexCacheTTL  time.Duration `env:"INDEX_CACHE_TTL" envDefault:"20s"`
	IndexCacheSize int           `env:"INDEX_CACHE_SIZE" envDefault:"128"`
}

// Load reads the web server configuration. PORT is required.
func Load() (*Config, error) {
	cfg, err := LoadStorage()
	if err != nil {
		return nil, err
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("$PORT must be set")
	}
	return cfg, nil
}

// LoadStorage reads the configuration without the serving settings being required.
func LoadStorage() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MediaURL == "" {
		cfg.MediaURL = fmt.Sprintf("https://storage.googleapis.com/%s/", cfg.MediaBucket)
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "db/migrations/" + cfg.StorageType
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.StorageType {
	case StorageTypeMySQL:
		if cfg.DB.Host == "" {
			return fmt.Errorf("DB_HOST must be set for storage type %v", cfg.StorageType)
		}
	case StorageTypePostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for storage type %v", cfg.StorageType)
		}
	case StorageTypeInMemory:
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.StorageType)
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %v", cfg.PageSize)
	}
	return nil
}
