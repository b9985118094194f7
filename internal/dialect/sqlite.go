package dialect

type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string {
	return "sqlite3"
}

func (d *SQLiteDialect) LimitQuery(query string, limit int) string {
	return DefaultLimitQuery(query, limit)
}

func (d *SQLiteDialect) InsertQuery(table string, cols []string, tuples []string) string {
	return ValuesInsert(table, cols, tuples)
}
