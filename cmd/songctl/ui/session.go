package ui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Session is the cached token pair, persisted between runs so the console
// resumes without asking for a password again.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SessionStore struct{ path string }

// NewSessionStore places the session file under the user config dir
// (~/.config/star-songs/session.json on Linux). An explicit path overrides.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "star-songs", "session.json")
	}
	return &SessionStore{path: path}, nil
}

func (s *SessionStore) Load() (Session, error) {
	var sess Session
	b, err := os.ReadFile(s.path)
	if err != nil {
		return sess, err
	}
	err = json.Unmarshal(b, &sess)
	return sess, err
}

func (s *SessionStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
