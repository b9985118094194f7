package schema

import (
	"database/sql"
	"fmt"
	"strings"
)

// ScanRows materializes a result set. Every cell keeps the raw value handed
// out by the driver; conversion to text happens later.
func ScanRows(rows *sql.Rows) ([]Row, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	names := make([]string, len(colTypes))
	types := make([]string, len(colTypes))
	for i, ct := range colTypes {
		names[i] = ct.Name()
		types[i] = strings.ToUpper(ct.DatabaseTypeName())
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(colTypes))
		dest := make([]any, len(colTypes))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(result)+1, err)
		}

		row := make(Row, len(colTypes))
		for i := range values {
			row[i] = Cell{Name: names[i], DatabaseType: types[i], Value: values[i]}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}
