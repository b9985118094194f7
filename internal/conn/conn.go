// Package conn opens database sessions and runs finished SQL statements
// against them.
package conn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"db-transfer/internal/schema"
)

var (
	// ErrConnection wraps failures to open or reach a database.
	ErrConnection = errors.New("connection failure")
	// ErrQuery wraps statements rejected by the database.
	ErrQuery = errors.New("query failure")
)

// Session is a live connection to one database.
type Session struct {
	db     *sql.DB
	driver string
}

// Open connects with the given driver and verifies the connection with a
// ping before returning.
func Open(ctx context.Context, driver, dsn string) (*Session, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s db: %v", ErrConnection, driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to connect to %s db: %v", ErrConnection, driver, err)
	}
	return &Session{db: db, driver: driver}, nil
}

// NewSession wraps an already open handle.
func NewSession(db *sql.DB, driver string) *Session {
	return &Session{db: db, driver: driver}
}

// Driver returns the driver name the session was opened with.
func (s *Session) Driver() string {
	return s.driver
}

// Query runs a statement and materializes every returned row.
func (s *Session) Query(ctx context.Context, query string) ([]schema.Row, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer rows.Close()

	result, err := schema.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return result, nil
}

// Exec runs a statement and returns the number of affected rows. Drivers
// that cannot report it yield -1.
func (s *Session) Exec(ctx context.Context, query string) (int64, error) {
	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return -1, nil
	}
	return n, nil
}

func (s *Session) Close() error {
	return s.db.Close()
}
