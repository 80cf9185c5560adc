package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "horizons.db")
	require.NoError(t, Migrate(path))
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertSourcesIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewSourceRepository(db)

	sources := []SourceSpec{
		{Name: "Blog", URL: "https://example.com/feed", Kind: "feed"},
		{Name: "Interviews", URL: "https://example.com/interviews", Kind: "page"},
	}
	require.NoError(t, repo.UpsertSources("acme", sources))
	require.NoError(t, repo.UpsertSources("acme", sources))

	count, err := repo.GetSourceCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpsertSourcesSameURLDifferentFollowee(t *testing.T) {
	db := newTestDB(t)
	repo := NewSourceRepository(db)

	spec := []SourceSpec{{Name: "Blog", URL: "https://example.com/feed", Kind: "feed"}}
	require.NoError(t, repo.UpsertSources("acme", spec))
	require.NoError(t, repo.UpsertSources("umbrella", spec))

	count, err := repo.GetSourceCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetSourceID(t *testing.T) {
	db := newTestDB(t)
	repo := NewSourceRepository(db)

	require.NoError(t, repo.UpsertSources("acme", []SourceSpec{
		{Name: "Blog", URL: "https://example.com/feed", Kind: "feed"},
	}))

	id, err := repo.GetSourceID("acme", "https://example.com/feed")
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
}

func TestGetSourceIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewSourceRepository(db)

	_, err := repo.GetSourceID("acme", "https://example.com/unknown")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horizons.db")
	require.NoError(t, Migrate(path))
	require.NoError(t, Migrate(path))
}
