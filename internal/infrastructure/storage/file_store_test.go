package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kacemyassine/atlantis-league/internal/domain/league"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "league.json")
	return NewFileStore(path, nil), path
}

func TestFileStore_LoadMissingFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, league.DefaultSnapshot(), got)
}

func TestFileStore_LoadCorruptFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, league.DefaultSnapshot(), got)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	ctx := context.Background()

	snapshot := league.DefaultSnapshot()
	snapshot.Teams[0].Played = 1
	snapshot.Teams[0].Won = 1
	snapshot.Teams[0].Points = 3

	require.NoError(t, store.Save(ctx, snapshot))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, snapshot, loaded)

	// Saving a freshly loaded snapshot must produce byte-identical content.
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFileStore_ClearRemovesDocument(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, league.DefaultSnapshot()))
	require.NoError(t, store.Clear(ctx))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// Clearing an already-missing document is a no-op.
	require.NoError(t, store.Clear(ctx))
}
