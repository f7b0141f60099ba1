package storefake

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
)

// Store is an in-memory token store that records every write.
type Store struct {
	token  string
	writes []string // "" entries are removals
	err    error
	mu     sync.RWMutex
}

func New(initial string) *Store {
	return &Store{token: initial}
}

// FailWith makes every subsequent call return err.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Store) Get(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return "", s.err
	}
	if s.token == "" {
		return "", apperrors.ErrNotFound
	}
	return s.token, nil
}

func (s *Store) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.token = token
	s.writes = append(s.writes, token)
	return nil
}

func (s *Store) Remove(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.token = ""
	s.writes = append(s.writes, "")
	return nil
}

// Current returns the stored token without the not-found error.
func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Writes returns every Set value in order, with "" for each Remove.
func (s *Store) Writes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.writes...)
}
