package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/seed"
	"github.com/idilsaglam/todo/internal/session"
	"github.com/idilsaglam/todo/internal/store/jsonstore"
	"github.com/idilsaglam/todo/internal/store/sqlitestore"
	"github.com/idilsaglam/todo/internal/todos"
	"github.com/idilsaglam/todo/internal/ui"
)

// Globals carries state resolved once flags are parsed.
type Globals struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *prom.Registry
}

// CLI is the root command tree.
type CLI struct {
	EnvFile     string `name:"env-file" help:"Environment file to load before reading settings" default:".env"`
	Verbose     bool   `short:"v" help:"Enable debug logging"`
	Theme       string `help:"Color theme (classic, neon, mono); overrides TODO_THEME"`
	Session     string `help:"Session id; overrides TODO_SESSION"`
	Group       bool   `short:"g" help:"Group output by pending/done"`
	MetricsFile string `name:"metrics-file" type:"path" help:"Write collected metrics in Prometheus text format to this file on exit"`

	Lists      ListsCmd      `cmd:"" default:"1" help:"Show todo lists, pending first"`
	Show       ShowCmd       `cmd:"" help:"Show the todos of one list"`
	Browse     BrowseCmd     `cmd:"" help:"Browse one list interactively"`
	NewList    NewListCmd    `cmd:"" name:"new-list" help:"Create a todo list"`
	Rename     RenameCmd     `cmd:"" help:"Change a list's title"`
	RmList     RmListCmd     `cmd:"" name:"rm-list" help:"Delete a list and its todos"`
	Add        AddCmd        `cmd:"" help:"Add a todo to a list"`
	Done       DoneCmd       `cmd:"" help:"Mark a todo done"`
	Undone     UndoneCmd     `cmd:"" help:"Mark a todo not done"`
	AllDone    AllDoneCmd    `cmd:"" name:"all-done" help:"Mark every todo in a list done"`
	Rm         RmCmd         `cmd:"" help:"Remove a todo from a list"`
	NewSession NewSessionCmd `cmd:"" name:"new-session" help:"Start a fresh session seeded with the default lists"`
	RmSession  RmSessionCmd  `cmd:"" name:"rm-session" help:"Delete a stored session"`
	SQL        SQLCmd        `cmd:"" name:"sql" help:"Run one statement against the configured Postgres database"`
}

// AfterApply runs after flag parsing: load settings, set up logging and
// the theme once.
func (c *CLI) AfterApply(g *Globals) error {
	cfg, err := config.Load(c.EnvFile)
	if err != nil {
		return err
	}
	if c.Session != "" {
		cfg.SessionID = c.Session
	}
	if c.Theme != "" {
		cfg.Theme = c.Theme
	}
	ui.SetTheme(cfg.Theme)

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	g.Config = cfg
	return nil
}

// usageError marks mistakes in the command line itself.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// Run parses args, runs the selected command and returns an exit code
// (0 ok, 1 error, 2 usage).
func Run(args []string) int {
	var root CLI
	g := &Globals{Metrics: prom.NewRegistry()}
	parser, err := kong.New(&root,
		kong.Name("todo"),
		kong.Description("todo - session-scoped todo lists"),
		kong.UsageOnError(),
		kong.Bind(g, &root),
	)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	err = kctx.Run()
	if werr := g.writeMetrics(root.MetricsFile); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return report(err)
	}
	return 0
}

// writeMetrics dumps the registry to path, also when the command failed.
func (g *Globals) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prom.WriteToTextfile(path, g.Metrics); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	if g.Logger != nil {
		g.Logger.Debug("Metrics written", "path", path)
	}
	return nil
}

func report(err error) int {
	ui.Fail(err.Error())
	var ue usageError
	switch {
	case errors.As(err, &ue):
		return 2
	case errors.Is(err, todos.ErrNotFound):
		ui.Hint("Hint: run `todo lists` to see valid ids")
		return 2
	}
	return 1
}

func (g *Globals) repository() (session.Repository, func() error, error) {
	if g.Config.SessionBackend == config.BackendSQLite {
		st, err := sqlitestore.Open(g.Config.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
	return jsonstore.New(g.Config.SessionDir), func() error { return nil }, nil
}

// withStore opens the configured session, binds a store to it, runs fn and
// saves the session when fn succeeds.
func (g *Globals) withStore(fn func(st *todos.Store) error) (err error) {
	ctx := context.Background()
	repo, closeRepo, err := g.repository()
	if err != nil {
		return fmt.Errorf("open sessions: %w", err)
	}
	defer func() {
		if cerr := closeRepo(); cerr != nil && err == nil {
			err = fmt.Errorf("close sessions: %w", cerr)
		}
	}()

	sess, err := session.Open(ctx, repo, g.Config.SessionID, g.Config.Username)
	if err != nil {
		return err
	}
	defaults, err := seed.Default()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	st := todos.New(sess, defaults, todos.WithLogger(g.Logger))
	if err := fn(st); err != nil {
		return err
	}
	if err := repo.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	g.Logger.Debug("Session saved", "session", sess.ID, "backend", g.Config.SessionBackend)
	return nil
}
