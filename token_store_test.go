package client_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	client "github.com/africahr/go-leave-client"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "token.json")
	store, err := client.NewFileTokenStore(path)
	require.NoError(t, err)

	ctx := context.Background()

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "fresh store is empty")

	require.NoError(t, store.Save(ctx, "t1"))

	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)

	require.NoError(t, store.Clear(ctx))

	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileTokenStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := client.NewFileTokenStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "t1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileTokenStoreCorruptSlotIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := client.NewFileTokenStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileTokenStoreClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := client.NewFileTokenStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, store.Clear(context.Background()))
}

func TestFileTokenStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := client.NewFileTokenStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "t1"))
	require.NoError(t, store.Save(ctx, "t2"))

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t2", token)
}

func TestMemoryTokenStore(t *testing.T) {
	store := &client.MemoryTokenStore{}
	ctx := context.Background()

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "t1"))

	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)

	require.NoError(t, store.Clear(ctx))

	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}
