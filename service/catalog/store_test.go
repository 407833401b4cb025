package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("SKIP_DB_TESTS") != "" {
		t.Skip("Skipping database test")
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, pool.Ping(ctx))

	store := NewStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))

	_, err = pool.Exec(ctx, "TRUNCATE TABLE support_options")
	require.NoError(t, err)

	return store
}

func TestStore_ReplaceAndLoad(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	rules := []Rule{
		{ID: "b", Kind: KindHelp, Title: "Second by id, first by position", MaxAge: 10 * time.Minute},
		{ID: "a", Kind: KindContact, Title: "Contact", URL: "https://example.com", Wallets: []string{"metamask"}, MinAge: time.Hour},
	}
	require.NoError(t, store.Replace(ctx, rules))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "b", loaded[0].ID)
	assert.Equal(t, 10*time.Minute, loaded[0].MaxAge)
	assert.Empty(t, loaded[0].Wallets)

	assert.Equal(t, "a", loaded[1].ID)
	assert.Equal(t, KindContact, loaded[1].Kind)
	assert.Equal(t, []string{"metamask"}, loaded[1].Wallets)
	assert.Equal(t, time.Hour, loaded[1].MinAge)
}

func TestStore_ReplaceIsAtomic(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, DefaultRules()))

	// Invalid catalogs are rejected before touching the table.
	err := store.Replace(ctx, []Rule{{ID: "x", Kind: "bogus", Title: "x"}})
	require.Error(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, len(DefaultRules()))
}
