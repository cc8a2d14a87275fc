package client

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// Session is the signed-in user as returned by login.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// AuthStore holds the current session and mirrors it to a JSON file so it
// survives restarts.
type AuthStore struct {
	mu      sync.Mutex
	path    string
	session *Session
}

// NewAuthStore creates a store backed by the file at path. Call Load to read
// a previously saved session.
func NewAuthStore(path string) *AuthStore {
	return &AuthStore{path: path}
}

// Load reads the saved session. A missing file means signed out; an
// unreadable one is removed.
func (s *AuthStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.session = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil || session.Token == "" {
		slog.Warn("discarding corrupt session file", "path", s.path, "error", err)
		s.session = nil
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("failed to remove corrupt session file: %w", rmErr)
		}
		return nil
	}

	s.session = &session
	return nil
}

// Save replaces the current session and writes it to disk.
func (s *AuthStore) Save(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	s.session = &session
	return nil
}

// Clear signs out and deletes the session file.
func (s *AuthStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Current returns a copy of the session, or nil when signed out.
func (s *AuthStore) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Token returns the bearer token, or "" when signed out.
func (s *AuthStore) Token() string {
	if cur := s.Current(); cur != nil {
		return cur.Token
	}
	return ""
}
