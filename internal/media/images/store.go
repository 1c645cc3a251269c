// Package images stores creator gallery uploads and derives their metadata.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("image not found")

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid image key")

// Store persists image bytes under slash-separated keys such as "creators/crt-1/img-abc.jpg".
type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}

// LocalStore keeps images on the local filesystem.
// Thread-safe for concurrent operations.
type LocalStore struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates a LocalStore rooted at {basePath}/{subdir}, creating it if needed.
func NewLocalStore(basePath, subdir string) (*LocalStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &LocalStore{basePath: storagePath}, nil
}

// Save writes data under key, replacing any existing object.
func (s *LocalStore) Save(_ context.Context, key string, data []byte, _ string) error {
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}
	p, err := s.Path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	// Write to a temp file and rename so readers never see a partial image.
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to finalize image file: %w", err)
	}
	return nil
}

// Open returns the image stored under key. The bytes are read fully so the lock is not held
// while the caller streams the response.
func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.Path(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object under key. A missing object is not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.Path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// DeletePrefix removes the directory for prefix. Prefixes name directories, for example
// "creators/crt-1/".
func (s *LocalStore) DeletePrefix(_ context.Context, prefix string) error {
	p, err := s.Path(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("failed to delete %s: %w", prefix, err)
	}
	return nil
}

// Ping verifies the storage directory is present.
func (s *LocalStore) Ping(context.Context) error {
	info, err := os.Stat(s.basePath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.basePath)
	}
	return nil
}

// Path returns the filesystem path for key, rejecting keys that escape the store root.
func (s *LocalStore) Path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(key)), nil
}

// ValidateKey rejects empty keys and keys that are not local relative paths.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key || !filepath.IsLocal(filepath.FromSlash(key)) {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return nil
}
