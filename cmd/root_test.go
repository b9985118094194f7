package cmd

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = afero.NewOsFs() })

	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	RootCmd.PersistentFlags().VisitAll(reset)
	RootCmd.Flags().VisitAll(reset)

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	out, err := execute(t, "plan",
		"--from-driver", "postgres",
		"--to-driver", "postgres",
		"-t", "employees:staff",
		"-c", "id:id",
		"-c", "dept.name/dept_name:dept_name",
		"-s", "source=legacyA",
		"-u", "dept_name=Sales:dept_name=Retail",
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SELECT employees.id, employees.dept_name AS dept_name_dept_name, employees.dept_name FROM employees INNER JOIN employees ON dept.name = employees.name", lines[0])
	assert.Equal(t, "INSERT INTO staff (id, dept_name, source) VALUES ...", lines[1])
	assert.Contains(t, lines[2], "destination columns: id, dept_name, source")
}

func TestPlanCommand_MalformedUpdate(t *testing.T) {
	_, err := execute(t, "plan", "-t", "a:b", "-c", "id:id", "-u", "status=pending")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed update rule")
}

func TestRootCommand_RequiresTable(t *testing.T) {
	_, err := execute(t, "--from", "x.db", "--to", "y.db", "-c", "id:id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--table is required")

	_, err = execute(t, "--from", "x.db", "--to", "y.db", "-t", "employees", "-c", "id:id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed mapping")
}

func TestRootCommand_TransfersSQLite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dst := filepath.Join(dir, "dst.db")

	for path, stmts := range map[string][]string{
		src: {
			`CREATE TABLE tasks (id INTEGER, title TEXT, status TEXT)`,
			`INSERT INTO tasks VALUES (1, 'write docs', 'pending'), (2, 'ship', 'done')`,
		},
		dst: {
			`CREATE TABLE todo (id INTEGER, name TEXT, state TEXT, origin TEXT)`,
		},
	} {
		db, err := sql.Open("sqlite3", path)
		require.NoError(t, err)
		for _, s := range stmts {
			_, err := db.Exec(s)
			require.NoError(t, err, s)
		}
		db.Close()
	}

	out, err := execute(t,
		"--from", src, "--to", dst,
		"-t", "tasks:todo",
		"-c", "id:id", "-c", "title:name", "-c", "status:state",
		"-s", "origin=tracker",
		"-u", "status=pending:state=open",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "tasks -> todo : 2 rows fetched, 2 rows inserted - OK")

	db, err := sql.Open("sqlite3", dst)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT id, name, state, origin FROM todo ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var id int
		var name, state, origin string
		require.NoError(t, rows.Scan(&id, &name, &state, &origin))
		got = append(got, strings.Join([]string{name, state, origin}, "|"))
	}
	assert.Equal(t, []string{"write docs|open|tracker", "ship|done|tracker"}, got)
}

func TestRootCommand_DryRunWithoutDestination(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.db")
	db, err := sql.Open("sqlite3", src)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE t (id INTEGER, note TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t VALUES (1, 'it''s')`)
	require.NoError(t, err)
	db.Close()

	out, err := execute(t, "--from", src, "--dry-run", "-t", "t:u", "-c", "id:id", "-c", "note:note")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN")
	assert.Contains(t, out, "INSERT INTO u (id, note) VALUES ('1', 'it''s')")
}
