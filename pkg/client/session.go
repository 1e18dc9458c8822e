package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// SessionUser is the subset of the account the client keeps between runs.
type SessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Session holds the access token and signed-in user. It is persisted to a
// JSON file only when Save is called.
type Session struct {
	mu    sync.RWMutex
	path  string
	state storedSession
}

type storedSession struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *SessionUser `json:"user,omitempty"`
}

// NewSession returns an empty session bound to path. An empty path keeps
// the session in memory only.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// Load reads the session file. A missing file leaves the session empty.
func (s *Session) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("decode session %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stored
	return nil
}

func (s *Session) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	data, err := json.MarshalIndent(s.state, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear forgets the token and removes the session file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.state = storedSession{}
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Session) set(token string, expiresAt time.Time, user *SessionUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = storedSession{Token: token, ExpiresAt: expiresAt, User: user}
}

// AccessToken returns the token unless it has expired.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Token == "" || (!s.state.ExpiresAt.IsZero() && time.Now().After(s.state.ExpiresAt)) {
		return ""
	}
	return s.state.Token
}

func (s *Session) CurrentUser() *SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}
