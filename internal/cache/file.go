package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores one file per entry under Dir, named by the entry's
// fingerprint. Contents are a gob-encoded Entry: (payload, expires_at,
// created_at).
type FileBackend struct {
	dir string
}

// NewFile constructs a file-backed Backend rooted at dir, creating it if
// necessary.
func NewFile(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, key+".cache")
}

func (f *FileBackend) Get(key string) (*Entry, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var entry Entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, false, err
	}
	return &entry, true, nil
}

func (f *FileBackend) Set(key string, entry Entry) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return err
	}
	return os.WriteFile(f.path(key), buf.Bytes(), 0o644)
}

func (f *FileBackend) Clear() error {
	matches, err := filepath.Glob(filepath.Join(f.dir, "*.cache"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return err
		}
	}
	return nil
}
