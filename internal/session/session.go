// Package session holds the per-user context that owns a todo-list
// collection, and the contract for persisting it between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/todo/internal/model"
)

// ErrNotFound is returned by a Repository when no session has the id.
var ErrNotFound = errors.New("session not found")

// Session is the owner of a user's todo-list collection. TodoLists is nil
// until a store initializes it; whoever holds the session sees every
// mutation made through that pointer.
type Session struct {
	ID        string            `json:"id"`
	Username  string            `json:"username"`
	TodoLists *[]model.TodoList `json:"todoLists,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// New returns an empty session. A random id is generated when id is empty.
func New(id, username string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{ID: id, Username: username}
}

// Repository loads and saves sessions.
type Repository interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Open loads the session with the given id, or starts a new one for
// username when the repository has none.
func Open(ctx context.Context, repo Repository, id, username string) (*Session, error) {
	s, err := repo.Load(ctx, id)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load session %q: %w", id, err)
	}
	return New(id, username), nil
}
