//go:build integration

package repository_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/talentportal/internal/adapters/kv"
	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/adapters/repository/repotest"
	"github.com/stretchr/testify/require"
)

// Each factory call gets its own collection, table or namespace so runs do
// not share state.

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set, skipping integration test")
	}
	repotest.Run(t, func(t *testing.T) repository.Store {
		ctx := context.Background()
		s, err := repository.NewMongoStore(ctx, repository.MongoConfig{
			URI:        uri,
			Database:   "talentdb_test",
			Collection: "profiles_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close(ctx) })
		return s
	})
}

func TestPostgresStore_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
	repotest.Run(t, func(t *testing.T) repository.Store {
		ctx := context.Background()
		table := "documents_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		s, err := repository.NewPostgresStore(ctx, dsn, table)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close(ctx) })

		// Init on an already seeded table must not duplicate documents.
		require.NoError(t, s.Init(ctx))
		return s
	})
}

func TestKVStoreRedis_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping integration test")
	}
	repotest.Run(t, func(t *testing.T) repository.Store {
		ctx := context.Background()
		rs := kv.NewRedisStore(addr, os.Getenv("TEST_REDIS_PASSWORD"), 0, kv.WithNamespace("test-"+uuid.NewString()))
		s, err := repository.NewKVStore(ctx, rs)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close(ctx) })
		return s
	})
}
