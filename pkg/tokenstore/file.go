package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the record in a JSON file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. Parent directories are created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns <user config dir>/pharmakit/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pharmakit", "session.json"), nil
}

// Path returns the file the store writes to.
func (f *FileStore) Path() string {
	return f.path
}

// Save writes the record to a temp file in the same directory and renames it
// over Path, so readers never see a partial document. Missing parent
// directories are created.
func (f *FileStore) Save(_ context.Context, rec Record) error {
	data, err := json.Marshal(toDocument(rec))
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, f.path)
}

// Read decodes Path. A missing file or a document without a token is
// ErrNotFound, an undecodable one ErrCorrupted.
func (f *FileStore) Read(_ context.Context) (Record, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Record{}, errors.Join(ErrCorrupted, err)
	}
	if doc.Token == "" {
		return Record{}, ErrNotFound
	}

	return doc.record(), nil
}

// Clear removes Path. A missing file is not an error.
func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
