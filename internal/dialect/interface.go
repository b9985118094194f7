package dialect

// Dialect abstracts the few places where generated SQL differs between
// databases.
type Dialect interface {
	// Name is the database/sql driver name.
	Name() string

	// LimitQuery caps the number of rows a SELECT returns.
	LimitQuery(query string, limit int) string

	// InsertQuery renders a multi-row INSERT from pre-rendered value tuples
	// such as "('1', 'a')".
	InsertQuery(table string, cols []string, tuples []string) string
}
