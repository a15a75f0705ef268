// Package session persists the auth token and user profile between runs.
// It is the client-side analog of the pair of durable entries a browser
// keeps in localStorage: one opaque token, one serialized profile.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/vlasovmk/marketctl/internal/model"
)

const (
	tokenFile   = "token"
	profileFile = "user.json"
)

// DefaultDir resolves the session directory under the user config dir,
// honoring XDG_CONFIG_HOME.
func DefaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "marketctl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "marketctl")
}

// Store reads and writes the persisted session. The token and profile are
// saved and cleared together; Load treats any partial or unparseable state
// as "no session" rather than an error.
type Store struct {
	dir string
}

// New creates a store rooted at dir. An empty dir selects DefaultDir.
func New(dir string) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Store{dir: dir}
}

// Save writes the profile first and the token last, so a reader never
// observes a token without a parseable profile.
func (s *Store) Save(token string, user model.User) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, profileFile), raw, 0o600); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600)
}

// Load returns the persisted session. ok is false when either entry is
// missing, the token is empty, or the profile fails to parse.
func (s *Store) Load() (model.Session, bool) {
	tok, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return model.Session{}, false
	}
	token := strings.TrimSpace(string(tok))
	if token == "" {
		return model.Session{}, false
	}
	raw, err := os.ReadFile(filepath.Join(s.dir, profileFile))
	if err != nil {
		return model.Session{}, false
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		return model.Session{}, false
	}
	return model.Session{Token: token, User: user}, true
}

// Clear removes both entries. Missing files are not an error, so Clear is
// idempotent.
func (s *Store) Clear() error {
	errTok := os.Remove(filepath.Join(s.dir, tokenFile))
	errProf := os.Remove(filepath.Join(s.dir, profileFile))
	if errTok != nil && !os.IsNotExist(errTok) {
		return errTok
	}
	if errProf != nil && !os.IsNotExist(errProf) {
		return errProf
	}
	return nil
}

// Token re-reads the persisted token on every call so callers always see
// the latest credential. It satisfies the API client's TokenSource.
func (s *Store) Token() string {
	sess, ok := s.Load()
	if !ok {
		return ""
	}
	return sess.Token
}
