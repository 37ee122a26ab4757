package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
)

var stubSeq atomic.Int64

// stubConn records statements the executor sends and answers every query
// with the configured columns and rows.
type stubConn struct {
	queries  []string
	args     [][]driver.NamedValue
	cols     []string
	rows     [][]driver.Value
	queryErr error
	closed   int
}

type stubDriver struct {
	conn    *stubConn
	openErr error
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.conn, nil
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }
func (c *stubConn) Close() error                        { c.closed++; return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return nil, fmt.Errorf("not implemented") }

func (c *stubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.queries = append(c.queries, query)
	c.args = append(c.args, args)
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return &stubRows{cols: c.cols, rows: c.rows}, nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

// useStubDriver routes sqlOpen to d for the duration of the test and
// returns the DSNs the executor opened.
func useStubDriver(t *testing.T, d *stubDriver) *[]string {
	t.Helper()
	name := fmt.Sprintf("stubpg%d", stubSeq.Add(1))
	sql.Register(name, d)
	prev := sqlOpen
	var dsns []string
	sqlOpen = func(_, dsn string) (*sql.DB, error) {
		dsns = append(dsns, dsn)
		return sql.Open(name, dsn)
	}
	t.Cleanup(func() { sqlOpen = prev })
	return &dsns
}
