package banyan

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruby-syntax-tree/banyan/ast"
)

func fixtureFS(t *testing.T, docs []fixtureDoc) fstest.MapFS {
	t.Helper()
	data, err := json.Marshal(docs)
	require.NoError(t, err)
	return fstest.MapFS{"recorded.json": {Data: data}}
}

func TestFixtureOracle(t *testing.T) {
	src := "alias foo bar\n"
	tree := selfTree(t, src)
	treeJSON, err := json.Marshal(tree)
	require.NoError(t, err)

	fsys := fixtureFS(t, []fixtureDoc{
		{Source: src, AST: treeJSON},
		{Source: "p { _1 }\n", Reject: "numbered parameters unsupported"},
	})
	oracle, err := NewFixtureOracle(fsys)
	require.NoError(t, err)
	assert.Equal(t, 2, oracle.Len())

	got, err := oracle.ParseReference(context.Background(), []byte(src))
	require.NoError(t, err)
	assert.Nil(t, ast.Compare(got, tree, ast.Options{Ranges: true}))

	_, err = oracle.ParseReference(context.Background(), []byte("p { _1 }\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))

	_, err = oracle.ParseReference(context.Background(), []byte("unknown\n"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRejected), "missing fixtures are harness errors, not skips")
}

func TestFixtureOracleNullTree(t *testing.T) {
	fsys := fixtureFS(t, []fixtureDoc{{Source: "\n", AST: json.RawMessage("null")}})
	oracle, err := NewFixtureOracle(fsys)
	require.NoError(t, err)

	got, err := oracle.ParseReference(context.Background(), []byte("\n"))
	require.NoError(t, err)
	assert.Nil(t, got, "empty program has no tree")
}

func TestFixtureOracleBadJSON(t *testing.T) {
	fsys := fstest.MapFS{"bad.json": {Data: []byte("{not json")}}
	_, err := NewFixtureOracle(fsys)
	require.Error(t, err)
}

func TestExecOracleMissingBinary(t *testing.T) {
	oracle := &ExecOracle{Ruby: "/nonexistent/ruby", Script: "tools/parse.rb"}
	_, err := oracle.ParseReference(context.Background(), []byte("foo\n"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRejected))
}
