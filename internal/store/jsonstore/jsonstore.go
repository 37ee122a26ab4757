package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/idilsaglam/todo/internal/session"
)

// JSON-backed session storage. One human-readable file per session.
// No locking; one CLI process touches a session at a time.

const fileExt = ".json"

// Store keeps sessions under Dir as <id>.json.
type Store struct {
	Dir string
	now func() time.Time
}

var _ session.Repository = (*Store)(nil)

func New(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

func (s *Store) dataPath(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.Dir, id+fileExt), nil
}

func (s *Store) Load(_ context.Context, id string) (*session.Session, error) {
	p, err := s.dataPath(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var sess session.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &sess, nil
}

func (s *Store) Save(_ context.Context, sess *session.Session) error {
	p, err := s.dataPath(sess.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	sess.UpdatedAt = s.now().UTC()
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	p, err := s.dataPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
