package dialect

import (
	"fmt"
	"strings"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string {
	return "sqlserver"
}

func (d *MSSQLDialect) LimitQuery(query string, limit int) string {
	// T-SQL has no LIMIT; inject TOP after the leading SELECT.
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return fmt.Sprintf("SELECT TOP %d%s", limit, trimmed[len("SELECT"):])
	}
	return query
}

// maxValuesRows is the largest table value constructor SQL Server accepts.
const maxValuesRows = 1000

// InsertQuery uses a table value constructor up to maxValuesRows tuples and
// a UNION ALL of SELECTs beyond that, which has no row cap.
func (d *MSSQLDialect) InsertQuery(table string, cols []string, tuples []string) string {
	if len(tuples) <= maxValuesRows {
		return ValuesInsert(table, cols, tuples)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) ", table, strings.Join(cols, ", "))
	for i, t := range tuples {
		if i > 0 {
			b.WriteString(" UNION ALL ")
		}
		b.WriteString("SELECT ")
		b.WriteString(strings.TrimSuffix(strings.TrimPrefix(t, "("), ")"))
	}
	return b.String()
}
