// Package todos is the session-scoped todo-list store. A Store works
// directly on the collection owned by its session: reads hand out copies,
// writes change the session's lists in place with no separate commit.
//
// A Store is not safe for concurrent use. Callers serialize access to one
// session, one request at a time.
package todos

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"

	"github.com/idilsaglam/todo/internal/db"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/order"
	"github.com/idilsaglam/todo/internal/session"
)

// ErrNotFound is returned when a list or todo id does not resolve among the
// store user's lists.
var ErrNotFound = errors.New("todo list or todo not found")

// Store exposes the todo operations for one session.
type Store struct {
	username string
	lists    *[]model.TodoList
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger mutations are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New binds a store to sess. A session without lists is given a copy of
// seedLists, owned by the session user; the seed itself is never modified.
// A session that already has lists is used as-is, by reference.
func New(sess *session.Session, seedLists []model.TodoList, opts ...Option) *Store {
	s := &Store{username: sess.Username, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if sess.TodoLists == nil {
		lists := model.CloneLists(seedLists)
		if lists == nil {
			lists = []model.TodoList{}
		}
		for i := range lists {
			lists[i].Username = sess.Username
			if lists[i].Todos == nil {
				lists[i].Todos = []model.Todo{}
			}
		}
		sess.TodoLists = &lists
		s.logger.Debug("Seeded session todo lists", "session", sess.ID, "lists", len(lists))
	}
	s.lists = sess.TodoLists
	return s
}

// Username returns the user whose lists this store can see.
func (s *Store) Username() string { return s.username }

// LoadTodoList returns a copy of the list with the given id.
func (s *Store) LoadTodoList(listID int) (model.TodoList, bool) {
	l := s.findTodoList(listID)
	if l == nil {
		return model.TodoList{}, false
	}
	return l.Clone(), true
}

// LoadTodo returns a copy of the todo with todoID in the list with listID.
func (s *Store) LoadTodo(listID, todoID int) (model.Todo, bool) {
	t := s.findTodo(listID, todoID)
	if t == nil {
		return model.Todo{}, false
	}
	return *t, true
}

// IsDoneTodoList reports whether l has at least one todo and all are done.
func (s *Store) IsDoneTodoList(l model.TodoList) bool { return l.IsDone() }

// HasUndoneTodos reports whether any todo in l is not done.
func (s *Store) HasUndoneTodos(l model.TodoList) bool { return l.HasUndone() }

// ExistsTodoListTitle reports whether one of the user's lists has exactly
// this title. Titles are not required to be unique; callers that want
// uniqueness check here first.
func (s *Store) ExistsTodoListTitle(title string) bool {
	return slices.ContainsFunc(*s.lists, func(l model.TodoList) bool {
		return s.owns(l) && l.Title == title
	})
}

// IsUniqueConstraintViolation reports whether err is a database UNIQUE
// violation. The in-memory store never produces one.
func (s *Store) IsUniqueConstraintViolation(err error) bool {
	return db.IsUniqueViolation(err)
}

// ChangeListTitle renames a list.
func (s *Store) ChangeListTitle(listID int, title string) error {
	l := s.findTodoList(listID)
	if l == nil {
		return ErrNotFound
	}
	l.Title = title
	s.logger.Debug("Renamed todo list", "list", listID, "title", title)
	return nil
}

// CreateList appends an empty list and returns its id, one above the
// highest list id in the collection (1 for an empty collection).
func (s *Store) CreateList(title string) int {
	id := nextID(*s.lists, func(l model.TodoList) int { return l.ID })
	*s.lists = append(*s.lists, model.TodoList{
		ID:       id,
		Title:    title,
		Username: s.username,
		Todos:    []model.Todo{},
	})
	s.logger.Debug("Created todo list", "list", id, "title", title)
	return id
}

// DeleteList removes a list and all of its todos.
func (s *Store) DeleteList(listID int) error {
	idx := slices.IndexFunc(*s.lists, func(l model.TodoList) bool {
		return l.ID == listID && s.owns(l)
	})
	if idx == -1 {
		return ErrNotFound
	}
	*s.lists = slices.Delete(*s.lists, idx, idx+1)
	s.logger.Debug("Deleted todo list", "list", listID)
	return nil
}

// MarkAllDone marks every todo in the list as done.
func (s *Store) MarkAllDone(listID int) error {
	l := s.findTodoList(listID)
	if l == nil {
		return ErrNotFound
	}
	for i := range l.Todos {
		l.Todos[i].Done = true
	}
	s.logger.Debug("Marked all todos done", "list", listID, "todos", len(l.Todos))
	return nil
}

// MarkDoneTodo marks a todo done. Unknown ids are ignored.
func (s *Store) MarkDoneTodo(listID, todoID int) {
	s.setDone(listID, todoID, true)
}

// MarkUndoneTodo marks a todo not done. Unknown ids are ignored.
func (s *Store) MarkUndoneTodo(listID, todoID int) {
	s.setDone(listID, todoID, false)
}

func (s *Store) setDone(listID, todoID int, done bool) {
	if t := s.findTodo(listID, todoID); t != nil {
		t.Done = done
		s.logger.Debug("Set todo state", "list", listID, "todo", todoID, "done", done)
	}
}

// AddTodo appends a pending todo to the list and returns its id, one above
// the highest todo id in that list (1 for an empty list).
func (s *Store) AddTodo(listID int, title string) (int, error) {
	l := s.findTodoList(listID)
	if l == nil {
		return 0, ErrNotFound
	}
	id := nextID(l.Todos, func(t model.Todo) int { return t.ID })
	l.Todos = append(l.Todos, model.Todo{ID: id, Title: title})
	s.logger.Debug("Added todo", "list", listID, "todo", id, "title", title)
	return id, nil
}

// RemoveTodoAt deletes the todo with todoID from the list.
func (s *Store) RemoveTodoAt(listID, todoID int) error {
	l := s.findTodoList(listID)
	if l == nil {
		return ErrNotFound
	}
	idx := slices.IndexFunc(l.Todos, func(t model.Todo) bool { return t.ID == todoID })
	if idx == -1 {
		return ErrNotFound
	}
	l.Todos = slices.Delete(l.Todos, idx, idx+1)
	s.logger.Debug("Removed todo", "list", listID, "todo", todoID)
	return nil
}

// SortedTodoLists returns copies of the user's lists, undone lists first,
// each group ordered by title ignoring case.
func (s *Store) SortedTodoLists() []model.TodoList {
	var undone, done []model.TodoList
	for _, l := range *s.lists {
		if !s.owns(l) {
			continue
		}
		if l.IsDone() {
			done = append(done, l.Clone())
		} else {
			undone = append(undone, l.Clone())
		}
	}
	return order.TodoLists(undone, done)
}

// SortedTodos returns copies of l's todos, undone first, each group ordered
// by title ignoring case.
func (s *Store) SortedTodos(l model.TodoList) []model.Todo {
	var undone, done []model.Todo
	for _, t := range l.Todos {
		if t.Done {
			done = append(done, t)
		} else {
			undone = append(undone, t)
		}
	}
	return order.Todos(undone, done)
}

func (s *Store) owns(l model.TodoList) bool { return l.Username == s.username }

// findTodoList returns a pointer into the live collection. It is only valid
// until the collection is next resized.
func (s *Store) findTodoList(listID int) *model.TodoList {
	lists := *s.lists
	for i := range lists {
		if lists[i].ID == listID && s.owns(lists[i]) {
			return &lists[i]
		}
	}
	return nil
}

func (s *Store) findTodo(listID, todoID int) *model.Todo {
	l := s.findTodoList(listID)
	if l == nil {
		return nil
	}
	for i := range l.Todos {
		if l.Todos[i].ID == todoID {
			return &l.Todos[i]
		}
	}
	return nil
}

func nextID[T any](items []T, id func(T) int) int {
	if len(items) == 0 {
		return 1
	}
	return id(slices.MaxFunc(items, func(a, b T) int { return cmp.Compare(id(a), id(b)) })) + 1
}
