package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeDefaultsAndClamps(t *testing.T) {
	s := NewMemoryStore()
	assert.Equal(t, DefaultVolume, Volume(s))
	assert.Equal(t, DefaultVolume, Volume(nil))

	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{-1, 0},
		{2, 1},
		{0, 0},
	}
	for _, tt := range tests {
		require.NoError(t, SetVolume(s, tt.in))
		assert.Equal(t, tt.want, Volume(s), "set %v", tt.in)
	}
}

func TestLookupMissingKey(t *testing.T) {
	_, err := Lookup(NewMemoryStore(), KeyVolume)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = Lookup(nil, KeyVolume)
	assert.Error(t, err)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	_, ok := s.Float(KeyVolume)
	assert.False(t, ok)

	require.NoError(t, SetVolume(s, 0.6))
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "writes are buffered until flush")

	require.NoError(t, s.Close())

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, Volume(reopened))
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Volume: [oops\n"), 0o644))

	_, err := OpenFileStore(path)
	assert.Error(t, err)
}

func TestFileStoreWatchReloadsExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Watch())
	defer s.Close()

	require.NoError(t, os.WriteFile(path, []byte("Volume: 0.2\n"), 0o644))

	assert.Eventually(t, func() bool {
		v, ok := s.Float(KeyVolume)
		return ok && v == 0.2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSQLStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	s, err := OpenSQLStore(path)
	require.NoError(t, err)
	require.NoError(t, SetVolume(s, 0.9))
	require.NoError(t, s.Flush())
	require.NoError(t, SetVolume(s, 0.4))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 0.4, Volume(reopened))

	var count int64
	require.NoError(t, reopened.db.Model(&Setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStoresSatisfyInterface(t *testing.T) {
	var _ Store = (*MemoryStore)(nil)
	var _ Store = (*FileStore)(nil)
	var _ Store = (*SQLStore)(nil)
}
