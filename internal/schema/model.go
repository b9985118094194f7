package schema

import "strings"

// Cell is one value of a fetched row together with the name and database
// type reported by the driver.
type Cell struct {
	Name         string
	DatabaseType string // driver type name, upper case (e.g. "INT4", "VARCHAR")
	Value        any
}

// Row is one result row, cells in the order returned by the database.
type Row []Cell

// Lookup finds a cell by column name. An exact match wins; otherwise the
// first case-insensitive match is returned, since PostgreSQL folds unquoted
// identifiers to lower case and Oracle to upper case.
func (r Row) Lookup(name string) (Cell, bool) {
	for _, c := range r {
		if c.Name == name {
			return c, true
		}
	}
	for _, c := range r {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Cell{}, false
}

// Names returns the column names of the row in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Name
	}
	return names
}

// 리포트용 구조체
type TransferResult struct {
	SourceTable string
	DestTable   string
	SelectSQL   string
	InsertSQL   string
	Fetched     int
	Inserted    int64
	DryRun      bool
	Status      string
}
