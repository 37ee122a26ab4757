// Package order arranges todo lists and todos for display: pending items
// first, completed items last, each group sorted by title without regard
// to case.
package order

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/idilsaglam/todo/internal/model"
)

// Merge returns a new slice holding undone sorted by title, followed by
// done sorted by title. Titles are compared after Unicode case folding and
// equal keys keep their input order. Neither input is modified.
func Merge[T any](undone, done []T, title func(T) string) []T {
	fold := cases.Fold()
	out := make([]T, 0, len(undone)+len(done))
	out = append(out, sortedBy(undone, title, fold)...)
	out = append(out, sortedBy(done, title, fold)...)
	return out
}

type keyed[T any] struct {
	key  string
	item T
}

func sortedBy[T any](items []T, title func(T) string, fold cases.Caser) []T {
	ks := make([]keyed[T], len(items))
	for i, it := range items {
		ks[i] = keyed[T]{key: fold.String(title(it)), item: it}
	}
	slices.SortStableFunc(ks, func(a, b keyed[T]) int {
		return strings.Compare(a.key, b.key)
	})
	out := make([]T, len(ks))
	for i, k := range ks {
		out[i] = k.item
	}
	return out
}

// TodoLists orders the undone and done lists for display.
func TodoLists(undone, done []model.TodoList) []model.TodoList {
	return Merge(undone, done, func(l model.TodoList) string { return l.Title })
}

// Todos orders the undone and done todos for display.
func Todos(undone, done []model.Todo) []model.Todo {
	return Merge(undone, done, func(t model.Todo) string { return t.Title })
}
