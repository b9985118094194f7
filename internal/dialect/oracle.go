package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string {
	return "oracle"
}

func (d *OracleDialect) LimitQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, limit)
}

// InsertQuery renders INSERT ALL, since Oracle does not accept more than one
// tuple in a VALUES clause.
func (d *OracleDialect) InsertQuery(table string, cols []string, tuples []string) string {
	if len(tuples) == 1 {
		return ValuesInsert(table, cols, tuples)
	}

	var b strings.Builder
	b.WriteString("INSERT ALL")
	colList := strings.Join(cols, ", ")
	for _, t := range tuples {
		fmt.Fprintf(&b, " INTO %s (%s) VALUES %s", table, colList, t)
	}
	b.WriteString(" SELECT 1 FROM DUAL")
	return b.String()
}
