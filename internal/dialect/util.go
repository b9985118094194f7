package dialect

import (
	"fmt"
	"strings"
)

// ValuesInsert is the standard INSERT INTO t (cols) VALUES (...), (...) form.
func ValuesInsert(table string, cols []string, tuples []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, strings.Join(cols, ", "), strings.Join(tuples, ", "))
}

// DefaultLimitQuery appends a LIMIT clause.
func DefaultLimitQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
