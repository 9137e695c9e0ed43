// Package warehouse provides read-only access to the conversational
// analytics warehouse: a SQLite file of conversation facts, semantic
// annotations, extracted entities and dimension tables, populated by an
// external pipeline. Every aggregation the dashboard serves lives here as a
// parameterized query returning typed row records.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// Warehouse wraps the warehouse database handle. Handlers do not query it
// directly: they check out a Conn per request and release it on every exit
// path.
type Warehouse struct {
	db *sql.DB
}

// Open opens the SQLite warehouse file at path. The warehouse is written by
// an external pipeline; this layer only reads it.
func Open(path string) (*Warehouse, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("warehouse: failed to open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("warehouse: failed to reach %s: %w", path, err)
	}
	return &Warehouse{db: db}, nil
}

// New wraps an existing database handle. Used by tests that seed their own
// in-memory warehouse.
func New(db *sql.DB) *Warehouse {
	return &Warehouse{db: db}
}

// Acquire checks a single connection out of the pool for the duration of one
// request. Callers must Close it on every exit path.
func (w *Warehouse) Acquire(ctx context.Context) (*Conn, error) {
	c, err := w.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("warehouse: failed to acquire connection: %w", err)
	}
	return &Conn{conn: c}, nil
}

// Close releases the underlying database handle.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// Conn is a single checked-out warehouse connection. All query methods hang
// off Conn so that one request's queries share one connection.
type Conn struct {
	conn *sql.Conn
}

// Close returns the connection to the pool.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// dateClause returns a SQL fragment constraining col to the date range,
// suitable for appending after an existing WHERE condition, along with its
// bind arguments. Unbounded ranges produce no constraint.
func dateClause(col string, dr DateRange) (string, []any) {
	if !dr.Bounded() {
		return "", nil
	}
	return " AND " + col + " >= ? AND " + col + " <= ?", []any{dr.Start, dr.End}
}
