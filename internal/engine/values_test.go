package engine_test

import (
	"strings"
	"testing"

	"db-transfer/internal/engine"
	"db-transfer/internal/mapping"
	"db-transfer/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'O''Brien'", engine.QuoteLiteral("O'Brien"))
	assert.Equal(t, "''", engine.QuoteLiteral(""))
	assert.Equal(t, `'C:\temp'`, engine.QuoteLiteral(`C:\temp`))
}

func unquote(lit string) string {
	return strings.ReplaceAll(lit[1:len(lit)-1], "''", "'")
}

func TestQuoteLiteral_RoundTrip(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		s := faker.Name() + "'" + faker.Sentence(3) + "''" + faker.Word()
		lit := engine.QuoteLiteral(s)

		require.True(t, strings.HasPrefix(lit, "'") && strings.HasSuffix(lit, "'"))
		// Every quote inside the literal comes in a pair.
		inner := lit[1 : len(lit)-1]
		assert.Equal(t, 0, strings.Count(strings.ReplaceAll(inner, "''", ""), "'"), s)
		assert.Equal(t, s, unquote(lit))
	}
}

func TestBuildTuple_EscapesText(t *testing.T) {
	targets := engine.BuildTargets(columns(t, "name:name"), nil, nil)
	tuple, err := engine.BuildTuple(schema.Row{{Name: "name", Value: "O'Brien"}}, targets)
	require.NoError(t, err)
	assert.Equal(t, "('O''Brien')", tuple)
}

func TestBuildTuple_UpdateRewritesDestPosition(t *testing.T) {
	targets := engine.BuildTargets(
		columns(t, "id:id", "status:status"),
		nil,
		updates(t, "status=pending:state=active"),
	)
	row := schema.Row{
		{Name: "id", DatabaseType: "INT4", Value: int64(3)},
		{Name: "status", DatabaseType: "TEXT", Value: "pending"},
	}

	tuple, err := engine.BuildTuple(row, targets)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "status", "state"}, engine.TargetNames(targets))
	assert.Equal(t, "('3', 'pending', 'active')", tuple)
}

func TestBuildTuple_UnmatchedRuleKeepsSourceValue(t *testing.T) {
	targets := engine.BuildTargets(columns(t, "id:id"), nil, updates(t, "status=pending:state=active"))
	row := schema.Row{
		{Name: "id", Value: int64(4)},
		{Name: "status", Value: "done"},
	}

	tuple, err := engine.BuildTuple(row, targets)
	require.NoError(t, err)
	assert.Equal(t, "('4', 'done')", tuple)
}

func TestBuildTuple_FirstMatchingRuleWins(t *testing.T) {
	targets := engine.BuildTargets(
		columns(t, "status:status"),
		nil,
		updates(t, "status=a:status=b", "status=b:status=c", "status=a:status=z"),
	)

	tuple, err := engine.BuildTuple(schema.Row{{Name: "status", Value: "a"}}, targets)
	require.NoError(t, err)
	assert.Equal(t, "('b')", tuple)

	tuple, err = engine.BuildTuple(schema.Row{{Name: "status", Value: "b"}}, targets)
	require.NoError(t, err)
	assert.Equal(t, "('c')", tuple)
}

func TestBuildTuple_StaticColumns(t *testing.T) {
	targets := engine.BuildTargets(
		columns(t, "id:id"),
		[]mapping.StaticColumn{{Name: "source", Value: "legacy's"}, {Name: "tier", Value: "gold"}},
		updates(t, "id=1:tier=platinum"),
	)

	tuple, err := engine.BuildTuple(schema.Row{{Name: "id", Value: int64(1)}}, targets)
	require.NoError(t, err)
	assert.Equal(t, "('1', 'legacy''s', 'platinum')", tuple)

	tuple, err = engine.BuildTuple(schema.Row{{Name: "id", Value: int64(2)}}, targets)
	require.NoError(t, err)
	assert.Equal(t, "('2', 'legacy''s', 'gold')", tuple)
}

func TestBuildTuple_LooksUpByNameNotPosition(t *testing.T) {
	targets := engine.BuildTargets(columns(t, "a:a", "b:b"), nil, nil)
	row := schema.Row{
		{Name: "B", Value: "second"},
		{Name: "a", Value: "first"},
	}

	tuple, err := engine.BuildTuple(row, targets)
	require.NoError(t, err)
	assert.Equal(t, "('first', 'second')", tuple)
}

func TestBuildTuple_MissingColumn(t *testing.T) {
	targets := engine.BuildTargets(columns(t, "a:a"), nil, nil)
	_, err := engine.BuildTuple(schema.Row{{Name: "z", Value: "x"}}, targets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column 'a' missing")
}

func TestBuildValues_AbortsOnCoercionFailure(t *testing.T) {
	targets := engine.BuildTargets(columns(t, "id:id", "flag:flag"), nil, nil)
	rows := []schema.Row{
		{{Name: "id", Value: int64(1)}, {Name: "flag", Value: "y"}},
		{{Name: "id", Value: int64(2)}, {Name: "flag", DatabaseType: "BOOL", Value: false}},
	}

	calls := 0
	tuples, err := engine.BuildValues(rows, targets, func() { calls++ })
	require.ErrorIs(t, err, engine.ErrCoercion)
	assert.Contains(t, err.Error(), "row 2")
	assert.Nil(t, tuples)
	assert.Equal(t, 1, calls)
}
