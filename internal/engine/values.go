package engine

import (
	"fmt"
	"strings"

	"db-transfer/internal/schema"
)

// QuoteLiteral wraps s in single quotes, doubling embedded quotes. This is
// the only escaping applied: values are inlined into the SQL text rather
// than bound as parameters, so backslashes and dialect-specific escapes pass
// through untouched.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// rowText coerces cells of one row on demand, each at most once.
type rowText struct {
	row   schema.Row
	cache map[string]string
}

func (r *rowText) get(name string) (string, error) {
	if s, ok := r.cache[name]; ok {
		return s, nil
	}
	cell, ok := r.row.Lookup(name)
	if !ok {
		return "", fmt.Errorf("column '%s' missing from result row (have %s)", name, strings.Join(r.row.Names(), ", "))
	}
	s, err := CoerceCell(cell)
	if err != nil {
		return "", err
	}
	r.cache[name] = s
	return s, nil
}

// BuildTuple renders one row as a parenthesized list of literals in target
// order.
func BuildTuple(row schema.Row, targets []Target) (string, error) {
	text := &rowText{row: row, cache: make(map[string]string, len(row))}
	literals := make([]string, len(targets))

	for i, t := range targets {
		value := t.Constant
		if !t.Static {
			v, err := text.get(t.Cell)
			if err != nil {
				return "", err
			}
			value = v
		}

		for _, rule := range t.Rules {
			current, err := text.get(rule.SourceColumn)
			if err != nil {
				return "", err
			}
			if current == rule.MatchValue {
				value = rule.Replacement
				break
			}
		}
		literals[i] = QuoteLiteral(value)
	}
	return "(" + strings.Join(literals, ", ") + ")", nil
}

// BuildValues renders every row. The first failure aborts, so a VALUES list
// is only ever produced for the complete result set.
func BuildValues(rows []schema.Row, targets []Target, onRow func()) ([]string, error) {
	tuples := make([]string, 0, len(rows))
	for i, row := range rows {
		tuple, err := BuildTuple(row, targets)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		tuples = append(tuples, tuple)
		if onRow != nil {
			onRow()
		}
	}
	return tuples, nil
}
