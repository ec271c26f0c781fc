package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_MarkMovedAndMoved(t *testing.T) {
	store := openStore(t)

	assert.False(t, store.Moved("msg-1"))

	require.NoError(t, store.MarkMoved("msg-1", "daily meetings"))
	assert.True(t, store.Moved("msg-1"))
	assert.False(t, store.Moved("msg-2"))
}

func TestStore_Get(t *testing.T) {
	store := openStore(t)

	record, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, record)

	require.NoError(t, store.MarkMoved("msg-1", "daily meetings"))

	record, err = store.Get("msg-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "msg-1", record.MessageID)
	assert.Equal(t, "daily meetings", record.Folder)
	assert.WithinDuration(t, time.Now().UTC(), record.MovedAt, time.Minute)
}

func TestStore_Count(t *testing.T) {
	store := openStore(t)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.MarkMoved("msg-1", "a"))
	require.NoError(t, store.MarkMoved("msg-2", "b"))
	// Re-marking the same message must not double count
	require.NoError(t, store.MarkMoved("msg-1", "a"))

	count, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.MarkMoved("msg-1", "daily meetings"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, reopened.Moved("msg-1"))
}
