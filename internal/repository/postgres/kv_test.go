package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, Migrate(db, zap.NewNop()))
	_, err = db.Exec(`TRUNCATE kv_entries`)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVRepository_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	repo := NewKVRepository(db, domain.ScopeProfile, zap.NewNop())

	_, ok, err := repo.Get(ctx, "wempyCart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "wempyCart", `[{"variantId":1,"qty":2}]`))
	require.NoError(t, repo.Set(ctx, "wempyCart", `[]`))

	val, ok, err := repo.Get(ctx, "wempyCart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, val)

	require.NoError(t, repo.Remove(ctx, "wempyCart"))
	_, ok, err = repo.Get(ctx, "wempyCart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVRepository_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	stores := NewStores(db, zap.NewNop())

	require.NoError(t, stores.Session.Set(ctx, "k", "session"))
	require.NoError(t, stores.Profile.Set(ctx, "k", "profile"))

	val, _, err := stores.Session.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "session", val)

	val, _, err = stores.Profile.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "profile", val)

	purged, err := NewKVRepository(db, domain.ScopeSession, zap.NewNop()).PurgeSessions(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, ok, err := stores.Profile.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
