package engine

import (
	"fmt"

	"db-transfer/internal/dialect"
	"db-transfer/internal/mapping"
)

// Args is the textual description of a transfer as given on the command
// line or in the config file.
type Args struct {
	Table   string
	Columns []string
	Static  []string
	Updates []string
}

// Plan is a fully resolved transfer: what to select and what to insert.
type Plan struct {
	Table      mapping.TableMapping
	Projection *Projection
	Targets    []Target
}

// ParsePlan parses every argument and builds the plan. Nothing is built if
// any argument is malformed.
func ParsePlan(a Args) (*Plan, error) {
	table, err := mapping.ParseTableMapping(a.Table)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	cols, err := mapping.ParseColumnMappings(a.Columns)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}
	statics, err := mapping.ParseStaticColumns(a.Static)
	if err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}
	updates, err := mapping.ParseUpdateRules(a.Updates)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	return NewPlan(table, cols, statics, updates)
}

// NewPlan builds the projection and destination columns for a transfer.
func NewPlan(table mapping.TableMapping, cols []mapping.ColumnMapping, statics []mapping.StaticColumn, updates []mapping.UpdateRule) (*Plan, error) {
	proj, err := BuildProjection(table.Source, cols, updates)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Table:      table,
		Projection: proj,
		Targets:    BuildTargets(cols, statics, updates),
	}, nil
}

// SelectSQL renders the source query. A positive limit caps the rows read.
func (p *Plan) SelectSQL(d dialect.Dialect, limit int) string {
	query := fmt.Sprintf("SELECT %s FROM %s", p.Projection.ColumnList(), p.Table.Source)
	if joins := p.Projection.JoinClauses(); joins != "" {
		query += " " + joins
	}
	if limit > 0 {
		query = d.LimitQuery(query, limit)
	}
	return query
}

// DestColumns returns the destination column list.
func (p *Plan) DestColumns() []string {
	return TargetNames(p.Targets)
}

// InsertSQL renders the destination statement for pre-built tuples.
func (p *Plan) InsertSQL(d dialect.Dialect, tuples []string) string {
	return d.InsertQuery(p.Table.Dest, p.DestColumns(), tuples)
}
