package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/talentportal/internal/adapters/kv"
	"github.com/okian/talentportal/internal/adapters/remote"
	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/fixtures"
)

// Source names accepted by --source.
const (
	sourceLocal  = "local"
	sourceRemote = "remote"
)

var (
	sourceName    string
	remoteURL     string
	dataDir       string
	redisAddr     string
	redisPassword string
	redisDB       int
	profileID     string
	seedFile      string
	timeout       time.Duration
)

func registerSourceFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&sourceName, "source", sourceLocal, "Data source: local or remote")
	f.StringVar(&remoteURL, "url", "http://localhost:8080", "Portal server URL for --source remote")
	f.StringVar(&dataDir, "data-dir", defaultDataDir(), "Directory of the local file store")
	f.StringVar(&redisAddr, "redis-addr", "", "Use a redis kv store at this address instead of --data-dir")
	f.StringVar(&redisPassword, "redis-password", "", "Redis password")
	f.IntVar(&redisDB, "redis-db", 0, "Redis database number")
	f.StringVar(&profileID, "profile-id", "u123", "Signed-in profile id for the local store")
	f.StringVar(&seedFile, "seed", "", "JSON seed for an empty local store (default: embedded fixtures)")
	f.DurationVar(&timeout, "timeout", 10*time.Second, "Per-command timeout")
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "talentportal")
	}
	return ".talentportal"
}

// openStore builds the store selected by the source flags.
func openStore(ctx context.Context) (repository.Store, func(), error) {
	switch sourceName {
	case sourceRemote:
		c := remote.New(remoteURL, remote.WithTimeout(timeout))
		return c, func() {}, nil
	case sourceLocal:
		return openLocal(ctx)
	default:
		return nil, nil, fmt.Errorf("unknown --source %q: want %s or %s", sourceName, sourceLocal, sourceRemote)
	}
}

func openLocal(ctx context.Context) (repository.Store, func(), error) {
	seed, err := fixtures.Load(seedFile)
	if err != nil {
		return nil, nil, err
	}

	var backend kv.Store
	if redisAddr != "" {
		rs := kv.NewRedisStore(redisAddr, redisPassword, redisDB)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, fmt.Errorf("%w: redis %s: %w", repository.ErrStoreUnavailable, redisAddr, err)
		}
		backend = rs
	} else {
		fs, err := kv.NewFileStore(dataDir)
		if err != nil {
			return nil, nil, err
		}
		backend = fs
	}

	store, err := repository.NewKVStore(ctx, backend,
		repository.WithSeed(seed),
		repository.WithProfileID(profileID),
	)
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return store, func() { _ = store.Close(context.Background()) }, nil
}

// withStore runs fn with an opened store and a timeout-bound context.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store repository.Store) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	store, closeFn, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, store)
}
