package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/model"
)

func titles(todos []model.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Title
	}
	return out
}

func TestTodosUndoneBeforeDone(t *testing.T) {
	undone := []model.Todo{{ID: 1, Title: "walk dog"}, {ID: 2, Title: "Buy milk"}}
	done := []model.Todo{{ID: 3, Title: "read", Done: true}, {ID: 4, Title: "Answer mail", Done: true}}

	got := Todos(undone, done)
	assert.Equal(t, []string{"Buy milk", "walk dog", "Answer mail", "read"}, titles(got))
}

func TestMergeIsCaseInsensitive(t *testing.T) {
	got := Merge([]string{"b", "A", "C", "a2"}, nil, func(s string) string { return s })
	assert.Equal(t, []string{"A", "a2", "b", "C"}, got)
}

func TestMergeKeepsInputOrderOnTies(t *testing.T) {
	undone := []model.Todo{{ID: 1, Title: "Same"}, {ID: 2, Title: "same"}, {ID: 3, Title: "SAME"}}
	got := Todos(undone, nil)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	undone := []model.TodoList{{ID: 1, Title: "z"}, {ID: 2, Title: "a"}}
	done := []model.TodoList{{ID: 3, Title: "y"}, {ID: 4, Title: "b"}}

	got := TodoLists(undone, done)
	assert.Equal(t, []int{2, 1, 4, 3}, []int{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
	assert.Equal(t, 1, undone[0].ID)
	assert.Equal(t, 3, done[0].ID)

	got[0].Title = "changed"
	assert.Equal(t, "a", undone[1].Title)
}

func TestMergeEmpty(t *testing.T) {
	got := Todos(nil, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}
