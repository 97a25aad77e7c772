package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SoundStore {
	s, err := NewSoundStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"alert.wav":            "alert.wav",
		"  alert.wav ":         "alert.wav",
		"../../etc/passwd":     "passwd",
		"/tmp/somewhere/a.wav": "a.wav",
	}
	for in, want := range cases {
		got, err := Sanitize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", " ", ".", ".."} {
		_, err := Sanitize(bad)
		assert.ErrorIs(t, err, ErrBadFilename, "%q", bad)
	}
}

func TestSaveAndPath(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save("alert.wav", strings.NewReader("RIFF-data"))
	require.NoError(t, err)
	assert.Equal(t, "alert.wav", name)

	path, err := s.Path("alert.wav")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RIFF-data", string(data))
}

func TestSaveOverwritesExisting(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save("alert.wav", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = s.Save("alert.wav", strings.NewReader("second"))
	require.NoError(t, err)

	path, err := s.Path("alert.wav")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save("../escape.wav", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "escape.wav", name)

	_, err = s.Path("escape.wav")
	assert.NoError(t, err)
}

func TestPathMissingFile(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Path("nope.wav")
	assert.Error(t, err)
}

func TestListSkipsTempFiles(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save("b.wav", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = s.Save("a.wav", strings.NewReader("x"))
	require.NoError(t, err)

	// Leftover temp file from an interrupted upload must not be listed
	require.NoError(t, os.WriteFile(filepath.Join(s.root, ".upload-123"), []byte("x"), 0o644))

	names, err := s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.wav", "b.wav"}, names)
}
