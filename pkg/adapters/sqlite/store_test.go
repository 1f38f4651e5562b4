package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/stepwise/pkg/adapters/sqlite"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, _ := openStore(t)
	ports.RunSessionStoreContract(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	store, path := openStore(t)
	ctx := context.Background()

	session := domain.NewSession("keep", "merge-sort", map[string]any{"values": "3,1,2"})
	session.Index = 4
	require.NoError(t, store.Save(ctx, "keep", session))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "merge-sort", loaded.Algorithm)
	assert.Equal(t, 4, loaded.Index)
	assert.Equal(t, "3,1,2", loaded.Input["values"])
	assert.True(t, session.CreatedAt.Equal(loaded.CreatedAt))
}

func TestSQLiteStore_NilInput(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "fixture", domain.NewSession("fixture", "huffman", nil)))
	loaded, err := store.Load(ctx, "fixture")
	require.NoError(t, err)
	assert.Nil(t, loaded.Input)
}
