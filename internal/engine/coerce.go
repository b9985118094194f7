package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"db-transfer/internal/schema"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/google/uuid"
)

// ErrCoercion is the kind of every CoercionError.
var ErrCoercion = errors.New("unsupported column value")

// CoercionError reports a cell whose value matches none of the supported
// interpretations. It aborts the whole transfer.
type CoercionError struct {
	Column       string
	DatabaseType string
	Value        any
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("could not convert the value in column '%s' (type %s, %T)", e.Column, e.DatabaseType, e.Value)
}

func (e *CoercionError) Unwrap() error {
	return ErrCoercion
}

type interpretation func(c schema.Cell) (string, bool)

// Tried in order, first success wins.
var interpretations = []interpretation{
	asText,
	asInt32,
	asFloat32,
	asUUID,
	asNaiveTimestamp,
	asTimestamp,
}

var textTypes = typeSet("", "TEXT", "VARCHAR", "CHAR", "BPCHAR", "NAME", "CITEXT",
	"CHARACTER", "CHARACTER VARYING", "NVARCHAR", "NCHAR", "NTEXT",
	"VARCHAR2", "NVARCHAR2", "CLOB", "NCLOB", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT")

var intTypes = typeSet("INT", "INT2", "INT4", "INT8", "INTEGER", "SMALLINT", "BIGINT", "TINYINT", "MEDIUMINT",
	"UNSIGNED INT", "UNSIGNED BIGINT", "UNSIGNED SMALLINT", "UNSIGNED TINYINT", "UNSIGNED MEDIUMINT")

var floatTypes = typeSet("FLOAT", "FLOAT4", "FLOAT8", "REAL", "DOUBLE", "DOUBLE PRECISION")

var uuidTypes = typeSet("UUID", "UNIQUEIDENTIFIER")

var naiveTimeTypes = typeSet("TIMESTAMP", "TIMESTAMP WITHOUT TIME ZONE", "DATETIME", "DATETIME2", "SMALLDATETIME", "DATE")

func typeSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// CoerceCell converts a fetched cell into the text embedded in the INSERT.
func CoerceCell(c schema.Cell) (string, error) {
	for _, interpret := range interpretations {
		if s, ok := interpret(c); ok {
			return s, nil
		}
	}
	return "", &CoercionError{Column: c.Name, DatabaseType: c.DatabaseType, Value: c.Value}
}

func asText(c schema.Cell) (string, bool) {
	switch v := c.Value.(type) {
	case string:
		return v, true
	case []byte:
		if textTypes[c.DatabaseType] {
			return string(v), true
		}
	}
	return "", false
}

func asInt32(c schema.Cell) (string, bool) {
	var n int64
	switch v := c.Value.(type) {
	case int64:
		n = v
	case int32:
		n = int64(v)
	case int16:
		n = int64(v)
	case int8:
		n = int64(v)
	case int:
		n = int64(v)
	case uint8:
		n = int64(v)
	case uint16:
		n = int64(v)
	case uint32:
		n = int64(v)
	case uint64:
		if v > math.MaxInt32 {
			return "", false
		}
		n = int64(v)
	case []byte:
		if !intTypes[c.DatabaseType] {
			return "", false
		}
		parsed, err := strconv.ParseInt(string(v), 10, 32)
		if err != nil {
			return "", false
		}
		n = parsed
	default:
		return "", false
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return "", false
	}
	return strconv.FormatInt(n, 10), true
}

// asFloat32 only succeeds when the value survives narrowing to 32 bits
// unchanged.
func asFloat32(c schema.Cell) (string, bool) {
	var f float64
	switch v := c.Value.(type) {
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		f = v
	case []byte:
		if !floatTypes[c.DatabaseType] {
			return "", false
		}
		parsed, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return "", false
		}
		f = parsed
	default:
		return "", false
	}
	narrowed := strconv.FormatFloat(float64(float32(f)), 'f', -1, 32)
	if narrowed != strconv.FormatFloat(f, 'f', -1, 64) {
		return "", false
	}
	return narrowed, true
}

func asUUID(c schema.Cell) (string, bool) {
	switch v := c.Value.(type) {
	case uuid.UUID:
		return v.String(), true
	case [16]byte:
		return uuid.UUID(v).String(), true
	case []byte:
		if !uuidTypes[c.DatabaseType] {
			return "", false
		}
		if c.DatabaseType == "UNIQUEIDENTIFIER" && len(v) == 16 {
			// SQL Server stores the first three groups little-endian.
			var u mssql.UniqueIdentifier
			if err := u.Scan(v); err != nil {
				return "", false
			}
			return uuid.UUID(u).String(), true
		}
		if len(v) == 16 {
			u, err := uuid.FromBytes(v)
			if err != nil {
				return "", false
			}
			return u.String(), true
		}
		u, err := uuid.ParseBytes(v)
		if err != nil {
			return "", false
		}
		return u.String(), true
	}
	return "", false
}

// asNaiveTimestamp reads the wall clock of a timestamp without time zone
// and renders it as UTC, ignoring whatever location the driver attached.
func asNaiveTimestamp(c schema.Cell) (string, bool) {
	t, ok := c.Value.(time.Time)
	if !ok || !naiveTimeTypes[c.DatabaseType] {
		return "", false
	}
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return formatUTC(wall), true
}

func asTimestamp(c schema.Cell) (string, bool) {
	t, ok := c.Value.(time.Time)
	if !ok {
		return "", false
	}
	return formatUTC(t.UTC()), true
}

// formatUTC renders "2006-01-02 15:04:05[.fraction] UTC", the fraction
// being 3, 6 or 9 digits and omitted when zero.
func formatUTC(t time.Time) string {
	s := t.Format("2006-01-02 15:04:05")
	switch ns := t.Nanosecond(); {
	case ns == 0:
	case ns%1_000_000 == 0:
		s += fmt.Sprintf(".%03d", ns/1_000_000)
	case ns%1_000 == 0:
		s += fmt.Sprintf(".%06d", ns/1_000)
	default:
		s += fmt.Sprintf(".%09d", ns)
	}
	return s + " UTC"
}
