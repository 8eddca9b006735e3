// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Supported server-side persistence backends.
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Backend selects the store served by the API: memory, mongo or postgres.
	Backend string `koanf:"backend"`

	// UseDocumentDB is the legacy boolean switch. When set and Backend is
	// left at its default, the mongo backend is selected.
	UseDocumentDB bool `koanf:"use_document_db"`

	// MongoURI, MongoUser and MongoKey locate and authenticate the document database.
	MongoURI  string `koanf:"mongo_uri"`
	MongoUser string `koanf:"mongo_user"`
	MongoKey  string `koanf:"mongo_key"`

	// DatabaseID and ContainerID name the database and collection (or table).
	DatabaseID  string `koanf:"database_id"`
	ContainerID string `koanf:"container_id"`

	// PostgresURL is the DSN used by the postgres backend.
	PostgresURL string `koanf:"postgres_url"`

	// ProfileID is the id of the signed-in user's profile document.
	ProfileID string `koanf:"profile_id"`

	// SeedFile optionally replaces the embedded fixtures.
	SeedFile string `koanf:"seed_file"`

	// StaticDir optionally serves the SPA shell from disk instead of the embedded copy.
	StaticDir string `koanf:"static_dir"`

	// AllowedOrigins configures CORS.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// Activity pipeline sizing.
	ActivityQueueSize int `koanf:"activity_queue_size"`
	ActivityWorkers   int `koanf:"activity_workers"`
	ActivityFeedSize  int `koanf:"activity_feed_size"`

	// IdempotencySize bounds the number of remembered Idempotency-Key values.
	IdempotencySize int `koanf:"idempotency_size"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		Backend:           BackendMemory,
		MongoURI:          "mongodb://localhost:27017",
		DatabaseID:        "talentdb",
		ContainerID:       "profiles",
		ProfileID:         "u123",
		AllowedOrigins:    []string{"*"},
		ActivityQueueSize: 1024,
		ActivityWorkers:   2,
		ActivityFeedSize:  200,
		IdempotencySize:   10_000,
	}
}

// Validate checks the fields that cannot be defaulted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Backend {
	case BackendMemory, BackendMongo:
	case BackendPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("%w: postgres_url is required for the postgres backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if c.ProfileID == "" {
		return fmt.Errorf("%w: profile_id must not be empty", ErrInvalidConfig)
	}
	return nil
}
