package filestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/mfgconsole/internal/session"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := New(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	first := openStore(t, path)
	require.NoError(t, first.Set(session.KeyToken, "abc"))
	require.NoError(t, first.Set(session.KeyUserID, "12"))
	require.NoError(t, first.Remove(session.KeyUserID))

	second := openStore(t, path)
	token, ok := second.Get(session.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc", token)
	_, ok = second.Get(session.KeyUserID)
	assert.False(t, ok)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStoreReportsWritesFromOtherInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	watcher := openStore(t, path)
	other := openStore(t, path)

	require.NoError(t, other.Set(session.KeyToken, "from-elsewhere"))

	select {
	case change := <-watcher.Changes():
		assert.Equal(t, session.KeyToken, change.Key)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}

	token, ok := watcher.Get(session.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "from-elsewhere", token)
}

func TestStoreReportsExternalRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := openStore(t, path)
	require.NoError(t, s.Set(session.KeyToken, "abc"))

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		_, ok := s.Get(session.KeyToken)
		return !ok
	}, 3*time.Second, 20*time.Millisecond)
}

func TestStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := New(path, nil)
	assert.Error(t, err)
}

func TestDiffKeys(t *testing.T) {
	keys := diffKeys(
		map[string]string{"a": "1", "b": "2", "c": "3"},
		map[string]string{"a": "1", "b": "20", "d": "4"},
	)
	assert.ElementsMatch(t, []string{"b", "c", "d"}, keys)
}
