package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/idilsaglam/todo/internal/db"
	"github.com/idilsaglam/todo/internal/seed"
	"github.com/idilsaglam/todo/internal/session"
	"github.com/idilsaglam/todo/internal/todos"
	"github.com/idilsaglam/todo/internal/ui"
)

type ListsCmd struct{}

func (c *ListsCmd) Run(g *Globals, root *CLI) error {
	return g.withStore(func(st *todos.Store) error {
		ui.Panel(listsPanel(st, root.Group))
		return nil
	})
}

type ShowCmd struct {
	List int `arg:"" help:"List id"`
}

func (c *ShowCmd) Run(g *Globals, root *CLI) error {
	return g.withStore(func(st *todos.Store) error {
		l, ok := st.LoadTodoList(c.List)
		if !ok {
			return fmt.Errorf("list %d: %w", c.List, todos.ErrNotFound)
		}
		ui.Panel(todosPanel(st, l, root.Group))
		return nil
	})
}

type NewListCmd struct {
	Title          []string `arg:"" help:"Title (can be multiple words)"`
	AllowDuplicate bool     `help:"Create the list even if another list has the same title"`
}

func (c *NewListCmd) Run(g *Globals) error {
	title := joinTitle(c.Title)
	if title == "" {
		return usagef("new-list: empty title")
	}
	return g.withStore(func(st *todos.Store) error {
		if !c.AllowDuplicate && st.ExistsTodoListTitle(title) {
			return usagef("new-list: a list titled %q already exists (use --allow-duplicate)", title)
		}
		id := st.CreateList(title)
		ui.OK(fmt.Sprintf("created list %d", id))
		return nil
	})
}

type RenameCmd struct {
	List  int      `arg:"" help:"List id"`
	Title []string `arg:"" help:"New title"`
}

func (c *RenameCmd) Run(g *Globals) error {
	title := joinTitle(c.Title)
	if title == "" {
		return usagef("rename: empty title")
	}
	return g.withStore(func(st *todos.Store) error {
		if err := st.ChangeListTitle(c.List, title); err != nil {
			return fmt.Errorf("list %d: %w", c.List, err)
		}
		ui.OK("renamed")
		return nil
	})
}

type RmListCmd struct {
	List int `arg:"" help:"List id"`
}

func (c *RmListCmd) Run(g *Globals) error {
	return g.withStore(func(st *todos.Store) error {
		if err := st.DeleteList(c.List); err != nil {
			return fmt.Errorf("list %d: %w", c.List, err)
		}
		ui.OK("deleted list")
		return nil
	})
}

type AddCmd struct {
	List  int      `arg:"" help:"List id"`
	Title []string `arg:"" help:"Todo title (can be multiple words)"`
}

func (c *AddCmd) Run(g *Globals) error {
	title := joinTitle(c.Title)
	if title == "" {
		return usagef("add: empty title")
	}
	return g.withStore(func(st *todos.Store) error {
		id, err := st.AddTodo(c.List, title)
		if err != nil {
			return fmt.Errorf("list %d: %w", c.List, err)
		}
		ui.OK(fmt.Sprintf("added todo %d", id))
		return nil
	})
}

type DoneCmd struct {
	List int `arg:"" help:"List id"`
	Todo int `arg:"" help:"Todo id"`
}

func (c *DoneCmd) Run(g *Globals) error {
	return g.withStore(func(st *todos.Store) error {
		if _, ok := st.LoadTodo(c.List, c.Todo); !ok {
			return fmt.Errorf("todo %d in list %d: %w", c.Todo, c.List, todos.ErrNotFound)
		}
		st.MarkDoneTodo(c.List, c.Todo)
		ui.OK("marked done")
		return nil
	})
}

type UndoneCmd struct {
	List int `arg:"" help:"List id"`
	Todo int `arg:"" help:"Todo id"`
}

func (c *UndoneCmd) Run(g *Globals) error {
	return g.withStore(func(st *todos.Store) error {
		if _, ok := st.LoadTodo(c.List, c.Todo); !ok {
			return fmt.Errorf("todo %d in list %d: %w", c.Todo, c.List, todos.ErrNotFound)
		}
		st.MarkUndoneTodo(c.List, c.Todo)
		ui.OK("marked not done")
		return nil
	})
}

type AllDoneCmd struct {
	List int `arg:"" help:"List id"`
}

func (c *AllDoneCmd) Run(g *Globals) error {
	return g.withStore(func(st *todos.Store) error {
		if err := st.MarkAllDone(c.List); err != nil {
			return fmt.Errorf("list %d: %w", c.List, err)
		}
		ui.OK("all done")
		return nil
	})
}

type RmCmd struct {
	List int `arg:"" help:"List id"`
	Todo int `arg:"" help:"Todo id"`
}

func (c *RmCmd) Run(g *Globals) error {
	return g.withStore(func(st *todos.Store) error {
		if err := st.RemoveTodoAt(c.List, c.Todo); err != nil {
			return fmt.Errorf("todo %d in list %d: %w", c.Todo, c.List, err)
		}
		ui.OK("removed")
		return nil
	})
}

type BrowseCmd struct {
	List int `arg:"" help:"List id"`
}

func (c *BrowseCmd) Run(g *Globals) error {
	return g.withStore(func(st *todos.Store) error {
		if _, ok := st.LoadTodoList(c.List); !ok {
			return fmt.Errorf("list %d: %w", c.List, todos.ErrNotFound)
		}
		return runBrowser(st, c.List)
	})
}

type NewSessionCmd struct{}

func (c *NewSessionCmd) Run(g *Globals) (err error) {
	repo, closeRepo, err := g.repository()
	if err != nil {
		return fmt.Errorf("open sessions: %w", err)
	}
	defer func() {
		if cerr := closeRepo(); cerr != nil && err == nil {
			err = fmt.Errorf("close sessions: %w", cerr)
		}
	}()
	defaults, err := seed.Default()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	sess := session.New("", g.Config.Username)
	todos.New(sess, defaults, todos.WithLogger(g.Logger))
	if err := repo.Save(context.Background(), sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	ui.OK("started session " + sess.ID)
	ui.Hint("Use it with: export TODO_SESSION=" + sess.ID)
	return nil
}

type RmSessionCmd struct {
	ID string `arg:"" optional:"" help:"Session id (defaults to the current session)"`
}

func (c *RmSessionCmd) Run(g *Globals) (err error) {
	id := c.ID
	if id == "" {
		id = g.Config.SessionID
	}
	repo, closeRepo, err := g.repository()
	if err != nil {
		return fmt.Errorf("open sessions: %w", err)
	}
	defer func() {
		if cerr := closeRepo(); cerr != nil && err == nil {
			err = fmt.Errorf("close sessions: %w", cerr)
		}
	}()
	if err := repo.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	ui.OK("deleted session " + id)
	return nil
}

type SQLCmd struct {
	Statement string   `arg:"" help:"SQL statement with $1, $2... placeholders"`
	Params    []string `arg:"" optional:"" help:"Positional parameters"`
}

func (c *SQLCmd) Run(g *Globals) error {
	exec := db.NewExecutor(g.Config.Database, db.WithLogger(g.Logger), db.WithRegisterer(g.Metrics))
	params := make([]any, len(c.Params))
	for i, p := range c.Params {
		params[i] = p
	}
	res, err := exec.Execute(context.Background(), c.Statement, params...)
	if err != nil {
		return err
	}
	ui.Panel(resultLines(res))
	return nil
}

func joinTitle(words []string) string {
	return strings.TrimSpace(strings.Join(words, " "))
}
