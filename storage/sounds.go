// Package storage is the directory-backed blob store for uploaded sound
// files. Filenames are the identity; uploading an existing name overwrites.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrBadFilename rejects empty names and anything trying to escape the
// sounds directory.
var ErrBadFilename = errors.New("invalid sound filename")

// SoundStore reads and writes sound assets under a single root directory.
type SoundStore struct {
	root string
}

// NewSoundStore creates the root directory if needed.
func NewSoundStore(root string) (*SoundStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create sounds dir: %w", err)
	}
	return &SoundStore{root: root}, nil
}

// Sanitize reduces name to its base component and rejects names that would
// resolve outside the store.
func Sanitize(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return "", ErrBadFilename
	}
	return base, nil
}

// Save writes r to the store under name, replacing any existing file with
// the same name. The content lands in a temp file first and is renamed into
// place so readers never observe a partial write. The stored name is returned.
func (s *SoundStore) Save(name string, r io.Reader) (string, error) {
	base, err := Sanitize(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write sound: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close sound: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.root, base)); err != nil {
		return "", fmt.Errorf("commit sound: %w", err)
	}
	return base, nil
}

// Path resolves name to its on-disk path, erroring when the file is absent.
func (s *SoundStore) Path(name string) (string, error) {
	base, err := Sanitize(name)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.root, base)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// List returns the filenames currently stored, skipping directories and
// in-flight temp files.
func (s *SoundStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list sounds: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
