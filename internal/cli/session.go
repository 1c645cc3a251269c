package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sessionFile persists the session token between tmanctl runs.
type sessionFile struct {
	path string
}

// Load returns the saved token, or "" when none is saved.
func (f sessionFile) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes token, or removes the file when token is empty.
func (f sessionFile) Save(token string) error {
	if token == "" {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
