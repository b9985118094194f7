// Package mapping parses the compact argument syntax used to describe a
// transfer: table and column pairs (source:dest), static columns
// (key=value) and update rules (source_column=value:dest_column=value).
package mapping

import (
	"fmt"
	"strings"
)

const (
	pairForm   = "source:destination"
	staticForm = "key=value"
	updateForm = "source_column=value:dest_column=value"
	refForm    = "join_table.join_column/[select_table.]select_column"
)

// TableMapping names the table rows are read from and the table they are
// written to.
type TableMapping struct {
	Source string
	Dest   string
}

func (t TableMapping) String() string {
	return t.Source + ":" + t.Dest
}

// ColumnRef is the source side of a column mapping. A simple reference is a
// bare column of the primary table. A join reference reaches a column of a
// related table: JoinTable.JoinColumn/[SelectTable.]Column.
type ColumnRef struct {
	Raw         string
	Column      string
	JoinTable   string
	JoinColumn  string
	SelectTable string // empty means the primary source table
}

// IsJoin reports whether the reference lives in a related table.
func (r ColumnRef) IsJoin() bool {
	return r.JoinTable != ""
}

// Alias is the result column name used for a join reference: the raw
// reference with '/' and '.' replaced by '_'.
func (r ColumnRef) Alias() string {
	return strings.NewReplacer("/", "_", ".", "_").Replace(r.Raw)
}

// Table returns the table the selected column belongs to.
func (r ColumnRef) Table(primary string) string {
	if r.SelectTable == "" {
		return primary
	}
	return r.SelectTable
}

// ColumnMapping copies one source column into one destination column.
type ColumnMapping struct {
	Source ColumnRef
	Dest   string // raw destination, may use the a/b form
}

// DestName is the destination column name. A destination written as a/b
// names column b.
func (c ColumnMapping) DestName() string {
	if _, after, found := strings.Cut(c.Dest, "/"); found {
		return after
	}
	return c.Dest
}

func (c ColumnMapping) String() string {
	return c.Source.Raw + ":" + c.Dest
}

// StaticColumn is a destination column that receives the same value for
// every row.
type StaticColumn struct {
	Name  string
	Value string
}

// UpdateRule replaces the value written to DestColumn with Replacement
// whenever SourceColumn holds MatchValue.
type UpdateRule struct {
	SourceColumn string
	MatchValue   string
	DestColumn   string
	Replacement  string
}

func (u UpdateRule) String() string {
	return fmt.Sprintf("%s=%s:%s=%s", u.SourceColumn, u.MatchValue, u.DestColumn, u.Replacement)
}

func splitPair(s string) (string, string, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", "", malformed(s, pairForm, "")
	}
	if parts[0] == "" || parts[1] == "" {
		return "", "", malformed(s, pairForm, "empty name")
	}
	return parts[0], parts[1], nil
}

// ParseTableMapping parses source_table:dest_table.
func ParseTableMapping(s string) (TableMapping, error) {
	src, dst, err := splitPair(s)
	if err != nil {
		return TableMapping{}, err
	}
	return TableMapping{Source: src, Dest: dst}, nil
}

// ParseColumnMapping parses source_col:dest_col where the source may be a
// join reference.
func ParseColumnMapping(s string) (ColumnMapping, error) {
	src, dst, err := splitPair(s)
	if err != nil {
		return ColumnMapping{}, err
	}
	ref, err := ParseColumnRef(src)
	if err != nil {
		return ColumnMapping{}, err
	}
	if strings.Count(dst, "/") > 1 || strings.HasSuffix(dst, "/") {
		return ColumnMapping{}, malformed(s, pairForm, "bad destination column")
	}
	return ColumnMapping{Source: ref, Dest: dst}, nil
}

// ParseColumnRef parses the source side of a column mapping.
func ParseColumnRef(raw string) (ColumnRef, error) {
	if !strings.Contains(raw, "/") {
		if strings.Contains(raw, ".") {
			return ColumnRef{}, malformed(raw, refForm, "columns of other tables need a join reference")
		}
		return ColumnRef{Raw: raw, Column: raw}, nil
	}

	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return ColumnRef{}, malformed(raw, refForm, "more than one '/'")
	}

	joinTable, joinColumn, ok := strings.Cut(parts[0], ".")
	if !ok || joinTable == "" || joinColumn == "" {
		return ColumnRef{}, malformed(raw, refForm, "join column must be qualified with its table")
	}

	ref := ColumnRef{Raw: raw, JoinTable: joinTable, JoinColumn: joinColumn, Column: parts[1]}
	table, column, qualified := strings.Cut(parts[1], ".")
	if qualified {
		if table == "" {
			return ColumnRef{}, malformed(raw, refForm, "empty select table")
		}
		ref.SelectTable, ref.Column = table, column
	}
	if ref.Column == "" {
		return ColumnRef{}, malformed(raw, refForm, "empty select column")
	}
	return ref, nil
}

// ParseStaticColumn parses key=value. The value may be empty.
func ParseStaticColumn(s string) (StaticColumn, error) {
	parts := strings.Split(s, "=")
	if len(parts) != 2 {
		return StaticColumn{}, malformed(s, staticForm, "")
	}
	if parts[0] == "" {
		return StaticColumn{}, malformed(s, staticForm, "empty column name")
	}
	return StaticColumn{Name: parts[0], Value: parts[1]}, nil
}

// ParseUpdateRule parses source_column=value:dest_column=value.
func ParseUpdateRule(s string) (UpdateRule, error) {
	halves := strings.Split(s, ":")
	if len(halves) != 2 {
		return UpdateRule{}, malformedUpdate(s, "")
	}

	src := strings.Split(halves[0], "=")
	if len(src) != 2 || src[0] == "" {
		return UpdateRule{}, malformedUpdate(s, "invalid source mapping")
	}

	dst := strings.Split(halves[1], "=")
	if len(dst) != 2 || dst[0] == "" {
		return UpdateRule{}, malformedUpdate(s, "invalid destination mapping")
	}

	return UpdateRule{
		SourceColumn: src[0],
		MatchValue:   src[1],
		DestColumn:   dst[0],
		Replacement:  dst[1],
	}, nil
}

// ParseColumnMappings parses every argument, stopping at the first failure.
func ParseColumnMappings(args []string) ([]ColumnMapping, error) {
	return parseAll(args, ParseColumnMapping)
}

// ParseStaticColumns parses every argument, stopping at the first failure.
func ParseStaticColumns(args []string) ([]StaticColumn, error) {
	return parseAll(args, ParseStaticColumn)
}

// ParseUpdateRules parses every argument, stopping at the first failure.
func ParseUpdateRules(args []string) ([]UpdateRule, error) {
	return parseAll(args, ParseUpdateRule)
}

func parseAll[T any](args []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(args))
	for i, arg := range args {
		v, err := parse(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}
