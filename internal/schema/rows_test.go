package schema_test

import (
	"database/sql"
	"testing"
	"time"

	"db-transfer/internal/schema"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRows(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE events (id INTEGER, title text, happened_at TIMESTAMP)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO events VALUES (1, 'launch', '2024-03-05 14:30:00'), (2, 'review', NULL)`)
	require.NoError(t, err)

	rows, err := db.Query(`SELECT id, title AS name, happened_at FROM events ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	result, err := schema.ScanRows(rows)
	require.NoError(t, err)
	require.Len(t, result, 2)

	first := result[0]
	assert.Equal(t, []string{"id", "name", "happened_at"}, first.Names())
	assert.Equal(t, "INTEGER", first[0].DatabaseType)
	assert.Equal(t, "TEXT", first[1].DatabaseType)
	assert.Equal(t, int64(1), first[0].Value)

	ts, ok := first[2].Value.(time.Time)
	require.True(t, ok, "expected time.Time, got %T", first[2].Value)
	assert.Equal(t, 14, ts.Hour())

	assert.Nil(t, result[1][2].Value)
}
