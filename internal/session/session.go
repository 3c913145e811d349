// Package session persists the authenticated user's token and id
// between CLI invocations. There is no expiry or refresh logic: logout
// simply discards the file.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotLoggedIn is returned when no session file exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Session holds the bearer token and user identity for the current login.
type Session struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// Path returns the session file location under the given data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "session.json")
}

// Load reads the session from the data directory. Returns ErrNotLoggedIn
// if no session has been saved.
func Load(dataDir string) (*Session, error) {
	data, err := os.ReadFile(Path(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	if s.Token == "" || s.UserID == "" {
		return nil, ErrNotLoggedIn
	}
	return &s, nil
}

// Save writes the session with restricted permissions.
func Save(dataDir string, s *Session) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	if err := os.WriteFile(Path(dataDir), data, 0600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not
// an error.
func Clear(dataDir string) error {
	err := os.Remove(Path(dataDir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
