package dialect

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string {
	return "mysql"
}

func (d *MysqlDialect) LimitQuery(query string, limit int) string {
	return DefaultLimitQuery(query, limit)
}

func (d *MysqlDialect) InsertQuery(table string, cols []string, tuples []string) string {
	return ValuesInsert(table, cols, tuples)
}
