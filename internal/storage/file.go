package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultDir is used by NewFileStorage when no directory is given.
const DefaultDir = "."

// FileStorage keeps every key in its own "<key>.json" file under Dir.
type FileStorage struct {
	Dir string
	mu  sync.Mutex
}

// NewFileStorage returns a backend rooted at dir, creating it if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{Dir: dir}, nil
}

func (fs *FileStorage) path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(fs.Dir, key+".json"), nil
}

// Get reads the file for key. A missing file is reported as ok == false.
func (fs *FileStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	p, err := fs.path(key)
	if err != nil {
		return nil, false, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes value to a temporary file and renames it over the key's file,
// so a crash never leaves a half-written payload behind.
func (fs *FileStorage) Put(_ context.Context, key string, value []byte) error {
	p, err := fs.path(key)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.CreateTemp(fs.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(value); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for file storage.
func (fs *FileStorage) Close() error {
	return nil
}
