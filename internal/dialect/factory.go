package dialect

import (
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Factory returns the appropriate Dialect implementation based on driver name.
func GetDialect(driver string) Dialect {
	switch strings.ToLower(driver) {
	case "mysql":
		return &MysqlDialect{}
	case "sqlserver", "mssql":
		return &MSSQLDialect{}
	case "oracle":
		return &OracleDialect{}
	case "sqlite3", "sqlite":
		return &SQLiteDialect{}
	default: // postgres
		return &PostgresDialect{}
	}
}

// DetectDriver guesses the driver from a connection string. Anything that
// is not recognizably another database is treated as PostgreSQL.
func DetectDriver(dsn string) string {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(lower, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(lower, "oracle://"):
		return "oracle"
	case strings.HasPrefix(lower, "file:"), lower == ":memory:",
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return "sqlite3"
	case strings.Contains(lower, "sslmode") || strings.Contains(lower, "host="):
		return "postgres"
	}

	// user:pass@tcp(host:3306)/db
	if strings.Contains(lower, "@tcp(") || strings.Contains(lower, "@unix(") {
		if _, err := mysql.ParseDSN(dsn); err == nil {
			return "mysql"
		}
	}
	return "postgres"
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
