package store

import (
	"errors"
	"os"
	"strings"
)

// SessionContext tracks which conversation is currently active. It is an
// explicit object with load/set/clear lifecycle, passed through the call
// chain rather than read as ambient global state.
type SessionContext struct {
	path string
}

func NewSessionContext(path string) *SessionContext {
	return &SessionContext{path: path}
}

// Load returns the active conversation name, or "" when no session is set.
func (s *SessionContext) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *SessionContext) Set(name string) error {
	return os.WriteFile(s.path, []byte(name), 0o644)
}

func (s *SessionContext) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
