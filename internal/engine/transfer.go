package engine

import (
	"context"
	"fmt"
	"io"
	"log"

	"db-transfer/internal/dialect"
	"db-transfer/internal/schema"
)

// Session runs finished statements against one database.
type Session interface {
	Query(ctx context.Context, query string) ([]schema.Row, error)
	Exec(ctx context.Context, query string) (int64, error)
	Close() error
}

// Endpoint is one side of a transfer.
type Endpoint struct {
	Dialect dialect.Dialect
	Connect func(ctx context.Context) (Session, error)
}

const (
	StatusOK     = "OK"
	StatusNoRows = "NO ROWS"
	StatusDryRun = "DRY RUN"
)

// Transfer copies the rows selected by Plan from Source into Dest with one
// SELECT and one INSERT. There is no transaction spanning both databases
// and nothing is retried.
type Transfer struct {
	Plan   *Plan
	Source Endpoint
	Dest   Endpoint

	// Limit caps the number of source rows when positive.
	Limit int
	// DryRun builds the INSERT without connecting to the destination.
	DryRun bool

	Logger     *log.Logger
	OnFetched  func(rows int)
	OnProgress func()
}

func (t *Transfer) logger() *log.Logger {
	if t.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return t.Logger
}

// Run executes the transfer. Every row is converted before the destination
// is contacted; a conversion failure therefore never leaves a partial insert.
func (t *Transfer) Run(ctx context.Context) (*schema.TransferResult, error) {
	logger := t.logger()
	result := &schema.TransferResult{
		SourceTable: t.Plan.Table.Source,
		DestTable:   t.Plan.Table.Dest,
		DryRun:      t.DryRun,
	}

	src, err := t.Source.Connect(ctx)
	if err != nil {
		return result, fmt.Errorf("source: %w", err)
	}
	defer src.Close()

	result.SelectSQL = t.Plan.SelectSQL(t.Source.Dialect, t.Limit)
	logger.Println(result.SelectSQL)

	rows, err := src.Query(ctx, result.SelectSQL)
	if err != nil {
		return result, fmt.Errorf("source: %w", err)
	}
	result.Fetched = len(rows)
	logger.Printf("Fetched %d rows from %s", len(rows), t.Plan.Table.Source)
	if t.OnFetched != nil {
		t.OnFetched(len(rows))
	}

	tuples, err := BuildValues(rows, t.Plan.Targets, t.OnProgress)
	if err != nil {
		return result, err
	}

	if len(tuples) == 0 {
		logger.Printf("No rows to insert into %s", t.Plan.Table.Dest)
		result.Status = StatusNoRows
		return result, nil
	}

	result.InsertSQL = t.Plan.InsertSQL(t.Dest.Dialect, tuples)
	logger.Println(result.InsertSQL)

	if t.DryRun {
		result.Status = StatusDryRun
		return result, nil
	}

	dst, err := t.Dest.Connect(ctx)
	if err != nil {
		return result, fmt.Errorf("destination: %w", err)
	}
	defer dst.Close()

	n, err := dst.Exec(ctx, result.InsertSQL)
	if err != nil {
		return result, fmt.Errorf("destination: %w", err)
	}
	result.Inserted = n
	result.Status = StatusOK
	return result, nil
}
