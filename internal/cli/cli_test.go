package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/session"
	"github.com/idilsaglam/todo/internal/ui"
)

type harness struct {
	dir    string
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// newHarness points every setting at a temp dir and captures ui output.
func newHarness(t *testing.T, backend string) *harness {
	t.Helper()
	dir := t.TempDir()
	for _, k := range []string{"TODO_SESSION", "APP_ENV", "DATABASE_URL", "TODO_THEME"} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", dir)
	t.Setenv("TODO_USERNAME", "alice")
	t.Setenv("TODO_SESSION_BACKEND", backend)
	t.Setenv("TODO_SESSION_DIR", filepath.Join(dir, "sessions"))
	t.Setenv("TODO_SQLITE_PATH", filepath.Join(dir, "sessions.db"))

	h := &harness{dir: dir, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	prevOut, prevErr := ui.Out, ui.Err
	ui.Out, ui.Err = h.out, h.errOut
	t.Cleanup(func() { ui.Out, ui.Err = prevOut, prevErr; ui.SetTheme("classic") })
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.errOut.Reset()
	base := []string{"--env-file", filepath.Join(h.dir, "none.env"), "--theme", "mono"}
	return Run(append(base, args...))
}

func (h *harness) lists(t *testing.T) []model.TodoList {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(h.dir, "sessions", "alice.json"))
	require.NoError(t, err)
	var sess session.Session
	require.NoError(t, json.Unmarshal(b, &sess))
	require.NotNil(t, sess.TodoLists)
	return *sess.TodoLists
}

func findList(lists []model.TodoList, id int) *model.TodoList {
	for i := range lists {
		if lists[i].ID == id {
			return &lists[i]
		}
	}
	return nil
}

func TestListsSeedsAndPersistsSession(t *testing.T) {
	h := newHarness(t, "json")
	require.Equal(t, 0, h.run("lists"))

	out := h.out.String()
	assert.Contains(t, out, "Todo Lists")
	assert.Contains(t, out, "Work Todos")
	assert.Contains(t, out, "Home Todos")

	lists := h.lists(t)
	require.NotEmpty(t, lists)
	for _, l := range lists {
		assert.Equal(t, "alice", l.Username)
	}
}

func TestListEditingFlow(t *testing.T) {
	h := newHarness(t, "json")

	require.Equal(t, 0, h.run("new-list", "Groceries", "for", "Sunday"))
	assert.Contains(t, h.out.String(), "created list 5")

	require.Equal(t, 0, h.run("add", "5", "Buy", "milk"))
	assert.Contains(t, h.out.String(), "added todo 1")
	require.Equal(t, 0, h.run("add", "5", "eggs"))

	require.Equal(t, 0, h.run("done", "5", "1"))
	require.Equal(t, 0, h.run("rename", "5", "Groceries"))

	l := findList(h.lists(t), 5)
	require.NotNil(t, l)
	assert.Equal(t, "Groceries", l.Title)
	assert.Equal(t, []model.Todo{{ID: 1, Title: "Buy milk", Done: true}, {ID: 2, Title: "eggs"}}, l.Todos)

	require.Equal(t, 0, h.run("show", "5"))
	out := h.out.String()
	assert.Less(t, bytes.Index([]byte(out), []byte("eggs")), bytes.Index([]byte(out), []byte("Buy milk")),
		"pending todos are shown before done ones")

	require.Equal(t, 0, h.run("undone", "5", "1"))
	require.Equal(t, 0, h.run("all-done", "5"))
	l = findList(h.lists(t), 5)
	assert.True(t, l.IsDone())

	require.Equal(t, 0, h.run("rm", "5", "2"))
	require.Equal(t, 0, h.run("rm-list", "5"))
	assert.Nil(t, findList(h.lists(t), 5))
}

func TestDuplicateListTitleIsRefused(t *testing.T) {
	h := newHarness(t, "json")
	assert.Equal(t, 2, h.run("new-list", "Work Todos"))
	assert.Contains(t, h.errOut.String(), "already exists")

	require.Equal(t, 0, h.run("new-list", "--allow-duplicate", "Work", "Todos"))
	count := 0
	for _, l := range h.lists(t) {
		if l.Title == "Work Todos" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestUnknownIDsExitWithUsageCode(t *testing.T) {
	h := newHarness(t, "json")
	assert.Equal(t, 2, h.run("rm-list", "999"))
	assert.Contains(t, h.errOut.String(), "not found")
	assert.Contains(t, h.errOut.String(), "todo lists")

	assert.Equal(t, 2, h.run("done", "1", "999"))
	assert.Equal(t, 2, h.run("show", "42"))
	assert.Equal(t, 2, h.run("add", "42", "x"))
}

func TestEmptyTitleIsUsageError(t *testing.T) {
	h := newHarness(t, "json")
	assert.Equal(t, 2, h.run("add", "1", "  "))
	assert.Contains(t, h.errOut.String(), "empty title")
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t, "sqlite")
	require.Equal(t, 0, h.run("new-list", "Backlog"))
	require.Equal(t, 0, h.run("lists"))
	assert.Contains(t, h.out.String(), "Backlog")

	_, err := os.Stat(filepath.Join(h.dir, "sessions.db"))
	require.NoError(t, err)
}

func TestNewSessionAndSessionFlag(t *testing.T) {
	h := newHarness(t, "json")
	require.Equal(t, 0, h.run("new-session"))
	assert.Contains(t, h.out.String(), "started session ")

	entries, err := os.ReadDir(filepath.Join(h.dir, "sessions"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	id := entries[0].Name()[:len(entries[0].Name())-len(".json")]

	require.Equal(t, 0, h.run("--session", id, "new-list", "Scoped"))
	require.Equal(t, 0, h.run("--session", id, "lists"))
	assert.Contains(t, h.out.String(), "Scoped")

	// the default session does not see it
	require.Equal(t, 0, h.run("lists"))
	assert.NotContains(t, h.out.String(), "Scoped")
}

func TestGroupedListsOutput(t *testing.T) {
	h := newHarness(t, "json")
	require.Equal(t, 0, h.run("-g", "lists"))
	out := h.out.String()
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "Done")
}

func TestRmSessionDeletesStoredSession(t *testing.T) {
	h := newHarness(t, "json")
	require.Equal(t, 0, h.run("new-list", "Temporary"))
	path := filepath.Join(h.dir, "sessions", "alice.json")
	_, err := os.Stat(path)
	require.NoError(t, err)

	require.Equal(t, 0, h.run("rm-session"))
	assert.Contains(t, h.out.String(), "deleted session alice")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// the next command starts over from the default lists
	require.Equal(t, 0, h.run("lists"))
	assert.NotContains(t, h.out.String(), "Temporary")
	assert.Contains(t, h.out.String(), "Work Todos")
}

func TestRmSessionByIDOnSQLite(t *testing.T) {
	h := newHarness(t, "sqlite")
	require.Equal(t, 0, h.run("--session", "scratch", "new-list", "Scoped"))
	require.Equal(t, 0, h.run("rm-session", "scratch"))
	require.Equal(t, 0, h.run("--session", "scratch", "lists"))
	assert.NotContains(t, h.out.String(), "Scoped")
}

func TestSQLWritesMetricsFile(t *testing.T) {
	h := newHarness(t, "json")
	// nothing listens on port 1, so the connection is refused at once
	t.Setenv("DATABASE_URL", "postgres://todo@127.0.0.1:1/todos?connect_timeout=2")
	path := filepath.Join(h.dir, "metrics.prom")

	require.Equal(t, 1, h.run("--metrics-file", path, "sql", "SELECT 1"))
	assert.Contains(t, h.errOut.String(), "connect postgres")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, `todo_statements_total{result="error"} 1`)
	assert.Contains(t, out, "todo_statement_duration_seconds_count 1")
}

func TestMetricsFileWithoutStatements(t *testing.T) {
	h := newHarness(t, "json")
	path := filepath.Join(h.dir, "metrics.prom")
	require.Equal(t, 0, h.run("--metrics-file", path, "lists"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "todo_statements_total")
}
