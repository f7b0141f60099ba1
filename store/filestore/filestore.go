package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
)

// Store keeps the access token in a single file readable only by its owner.
type Store struct {
	path string
	lock sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Get(_ context.Context) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", apperrors.ErrNotFound
	}
	return token, nil
}

// Set writes the token to a temporary file and renames it into place so a
// concurrent reader never sees a partial token.
func (s *Store) Set(_ context.Context, token string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

func (s *Store) Remove(_ context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
