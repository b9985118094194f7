package dialect

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) LimitQuery(query string, limit int) string {
	return DefaultLimitQuery(query, limit)
}

func (d *PostgresDialect) InsertQuery(table string, cols []string, tuples []string) string {
	return ValuesInsert(table, cols, tuples)
}
