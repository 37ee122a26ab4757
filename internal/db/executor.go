// Package db runs single parameterized statements against Postgres. Each
// call opens its own connection and closes it before returning.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	driverName = "pgx"
	// matches the log line of the web layer, e.g. "Oct 15 2026 09:30:00"
	timestampLayout = "Jan 02 2006 15:04:05"
)

var sqlOpen = sql.Open

// Result holds the rows a statement produced, in column order.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r *Result) Len() int { return len(r.Rows) }

// Executor runs statements with a fresh connection per call.
type Executor struct {
	dsn     string
	logger  *slog.Logger
	reg     prom.Registerer
	now     func() time.Time
	metrics *metrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger statements are written to.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithRegisterer registers the executor's metrics with reg.
func WithRegisterer(reg prom.Registerer) Option {
	return func(e *Executor) { e.reg = reg }
}

func NewExecutor(cfg Config, opts ...Option) *Executor {
	e := &Executor{
		dsn:    cfg.DSN(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.metrics = newMetrics(e.reg)
	return e
}

// Execute connects, logs the statement with its parameters, runs it and
// disconnects. Failures are returned to the caller; nothing is retried.
func (e *Executor) Execute(ctx context.Context, statement string, params ...any) (res *Result, err error) {
	start := e.now()
	defer func() { e.metrics.observe(err, e.now().Sub(start)) }()

	conn, err := sqlOpen(driverName, e.dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close postgres: %w", cerr)
			res = nil
		}
	}()
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	e.logger.Info("Executing statement",
		"at", e.now().Format(timestampLayout),
		"statement", statement,
		"params", params)

	rows, err := conn.QueryContext(ctx, statement, params...)
	if err != nil {
		return nil, fmt.Errorf("execute statement: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	out := &Result{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out.Rows = append(out.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return out, nil
}
