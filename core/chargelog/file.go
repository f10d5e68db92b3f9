package chargelog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps the slot in a single JSON file.
type FileBackend struct {
	path string
}

// NewFileBackend ensures the parent directory of path exists.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return &FileBackend{path: path}, nil
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	return nil
}

// Load reads the file. A missing file yields ErrNoData.
func (b *FileBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the slot, so readers never see a partial snapshot.
func (b *FileBackend) Save(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.path)
}

// Path returns the slot file.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) Close() error { return nil }
