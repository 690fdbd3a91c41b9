package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxboard-ai/dashboard-core/pkg/logger"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := NewFileStore(path, logger.NewNop())
	require.NoError(t, err)

	s.Set("voxboard_t1_agents", `[{"id":"a1"}]`)
	s.Set("other", "value")
	s.Remove("other")

	// A new store over the same file sees the persisted state, the way a
	// reloaded tab sees its session storage.
	reloaded, err := NewFileStore(path, logger.NewNop())
	require.NoError(t, err)

	v, ok := reloaded.Get("voxboard_t1_agents")
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a1"}]`, v)

	_, ok = reloaded.Get("other")
	assert.False(t, ok)
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s, err := NewFileStore(path, logger.NewNop())
	require.NoError(t, err)
	assert.Empty(t, s.Keys())
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := NewFileStore(path, logger.NewNop())
	require.NoError(t, err)

	s.Set("a", "1")
	s.Clear()

	reloaded, err := NewFileStore(path, logger.NewNop())
	require.NoError(t, err)
	assert.Empty(t, reloaded.Keys())
}
