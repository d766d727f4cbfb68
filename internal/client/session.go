package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sudo-init-do/propnest/internal/user"
)

// SessionData is what survives between client runs.
type SessionData struct {
	Token string     `json:"token"`
	User  *user.User `json:"user,omitempty"`
}

// SessionStore persists SessionData.
type SessionStore interface {
	Load() (SessionData, error)
	Save(SessionData) error
	Clear() error
}

// FileSessionStore keeps the session as a JSON file readable only by its owner.
type FileSessionStore struct {
	Path string
}

func (f FileSessionStore) Load() (SessionData, error) {
	var data SessionData
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return data, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return SessionData{}, fmt.Errorf("decode session: %w", err)
	}
	return data, nil
}

func (f FileSessionStore) Save(data SessionData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

func (f FileSessionStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Session holds the bearer token and signed-in user. It is loaded explicitly on
// startup and cleared on logout.
type Session struct {
	mu    sync.RWMutex
	store SessionStore
	data  SessionData
}

func NewSession(store SessionStore) *Session {
	return &Session{store: store}
}

// Load restores the persisted session. A missing session is not an error.
func (s *Session) Load() error {
	data, err := s.store.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Set replaces the session and persists it.
func (s *Session) Set(token string, u *user.User) error {
	data := SessionData{Token: token, User: u}
	if err := s.store.Save(data); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Clear forgets the session in memory and on disk.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.data = SessionData{}
	s.mu.Unlock()
	return s.store.Clear()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

func (s *Session) User() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.User
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
