// Package seed supplies the todo lists a brand-new session starts with.
package seed

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/todo/internal/model"
)

//go:embed lists.yaml
var defaultLists []byte

var loadDefault = sync.OnceValues(func() ([]model.TodoList, error) {
	return Parse(defaultLists)
})

// Default returns a fresh copy of the built-in seed lists.
func Default() ([]model.TodoList, error) {
	lists, err := loadDefault()
	if err != nil {
		return nil, err
	}
	return model.CloneLists(lists), nil
}

// Parse decodes a YAML sequence of todo lists. List ids must be unique, and
// todo ids must be unique within their list.
func Parse(b []byte) ([]model.TodoList, error) {
	var lists []model.TodoList
	if err := yaml.Unmarshal(b, &lists); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	seenLists := make(map[int]bool, len(lists))
	for i := range lists {
		l := &lists[i]
		if seenLists[l.ID] {
			return nil, fmt.Errorf("duplicate list id %d", l.ID)
		}
		seenLists[l.ID] = true
		if l.Todos == nil {
			l.Todos = []model.Todo{}
		}
		seenTodos := make(map[int]bool, len(l.Todos))
		for _, t := range l.Todos {
			if seenTodos[t.ID] {
				return nil, fmt.Errorf("list %d: duplicate todo id %d", l.ID, t.ID)
			}
			seenTodos[t.ID] = true
		}
	}
	return lists, nil
}
