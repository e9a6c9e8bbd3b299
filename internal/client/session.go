package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/aura-hq/staffmanager/internal/model"
)

// ErrNotLoggedIn is returned when an operation needs a stored session
// and none exists.
var ErrNotLoggedIn = errors.New("not logged in")

// SessionState is everything the console keeps between invocations:
// the bearer token plus the identity snapshot returned at login.
type SessionState struct {
	Token        string             `json:"token"`
	User         *model.User        `json:"user"`
	Capabilities []model.Capability `json:"capabilities"`
}

// SessionStore persists SessionState as a JSON file. It is the single
// source of truth for "am I logged in": clearing the file terminates
// the session from the client's point of view.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store backed by the given file path. An
// empty path defaults to ~/.staffmanager/session.json.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".staffmanager", "session.json")
	}
	return &SessionStore{path: path}, nil
}

// Load reads the stored session. Returns ErrNotLoggedIn when no
// session file exists.
func (s *SessionStore) Load() (*SessionState, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}

	var state SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		// A corrupt session file is treated as logged out.
		_ = s.Clear()
		return nil, ErrNotLoggedIn
	}
	if state.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return &state, nil
}

// Save writes the session atomically (write temp file, then rename) so
// a crash mid-write never leaves a half-written session behind.
func (s *SessionStore) Save(state *SessionState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the stored session. Missing file is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token returns the stored bearer token, or "" when logged out.
func (s *SessionStore) Token() string {
	state, err := s.Load()
	if err != nil {
		return ""
	}
	return state.Token
}

// Can reports whether the stored identity holds a capability. This is
// a UI hint only; the backend re-checks every call.
func (s *SessionStore) Can(c model.Capability) bool {
	state, err := s.Load()
	if err != nil {
		return false
	}
	for _, held := range state.Capabilities {
		if held == c {
			return true
		}
	}
	return false
}
