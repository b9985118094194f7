package engine

import (
	"errors"
	"fmt"
	"strings"

	"db-transfer/internal/mapping"
)

// ErrEmptyProjection is returned when neither column mappings nor update
// rules give the SELECT anything to read.
var ErrEmptyProjection = errors.New("nothing to select: at least one column mapping or update rule is required")

// SelectColumn is one entry of the SELECT list.
type SelectColumn struct {
	Table  string
	Column string
	Alias  string
}

// Name is the result column name the database reports for this entry.
func (s SelectColumn) Name() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Column
}

func (s SelectColumn) String() string {
	if s.Alias != "" {
		return fmt.Sprintf("%s.%s AS %s", s.Table, s.Column, s.Alias)
	}
	return s.Table + "." + s.Column
}

// Join reaches a related table: INNER JOIN Table ON From.Column = Table.Column.
type Join struct {
	Table  string
	From   string
	Column string
}

func (j Join) String() string {
	return fmt.Sprintf("INNER JOIN %s ON %s.%s = %s.%s", j.Table, j.From, j.Column, j.Table, j.Column)
}

// Projection is the SELECT list and the joins it needs.
type Projection struct {
	Columns []SelectColumn
	Joins   []Join
}

// BuildProjection turns column mappings into select entries, in mapping
// order, then appends every update rule source column that is not already
// selected. Rows without a match in a joined table are dropped by the
// INNER JOIN.
func BuildProjection(source string, cols []mapping.ColumnMapping, updates []mapping.UpdateRule) (*Projection, error) {
	p := &Projection{}
	selected := make(map[string]bool)
	joined := make(map[Join]bool)

	for _, c := range cols {
		ref := c.Source
		if !ref.IsJoin() {
			p.Columns = append(p.Columns, SelectColumn{Table: source, Column: ref.Column})
			selected[ref.Column] = true
			continue
		}

		table := ref.Table(source)
		alias := ref.Alias()
		p.Columns = append(p.Columns, SelectColumn{Table: table, Column: ref.Column, Alias: alias})
		selected[alias] = true

		// The same table joined twice without an alias is rejected by
		// PostgreSQL, so identical joins are emitted once.
		j := Join{Table: table, From: ref.JoinTable, Column: ref.JoinColumn}
		if !joined[j] {
			joined[j] = true
			p.Joins = append(p.Joins, j)
		}
	}

	for _, u := range updates {
		if selected[u.SourceColumn] {
			continue
		}
		selected[u.SourceColumn] = true
		p.Columns = append(p.Columns, SelectColumn{Table: source, Column: u.SourceColumn})
	}

	if len(p.Columns) == 0 {
		return nil, ErrEmptyProjection
	}
	return p, nil
}

// ColumnList renders the comma separated SELECT list.
func (p *Projection) ColumnList() string {
	parts := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// JoinClauses renders the joins separated by spaces.
func (p *Projection) JoinClauses() string {
	parts := make([]string, len(p.Joins))
	for i, j := range p.Joins {
		parts[i] = j.String()
	}
	return strings.Join(parts, " ")
}
