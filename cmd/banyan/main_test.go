package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruby-syntax-tree/banyan"
	"github.com/ruby-syntax-tree/banyan/ast"
	"github.com/ruby-syntax-tree/banyan/internal/corpus"
	"github.com/ruby-syntax-tree/banyan/internal/suppress"
	"github.com/ruby-syntax-tree/banyan/loc"
)

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
	assert.Error(t, validateFormat("yaml"))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing-dir-sentinel", "..", "nonexistent.toml"))
	require.Error(t, err, "explicit missing config is an error")

	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "ruby", cfg.Ruby)
	assert.Equal(t, "tools/parse.rb", cfg.Bridge)
	assert.Equal(t, "3.1.0", cfg.Version)
	assert.Equal(t, "mri", cfg.Engine)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banyan.toml")
	doc := `
corpus = ["corpus/a.txt", "corpus/b.txt"]
ruby = "/opt/ruby/bin/ruby"
version = "3.0.2"
engine = "jruby"
ranges = true
jobs = 8
db = "runs.db"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"corpus/a.txt", "corpus/b.txt"}, cfg.Corpus)
	assert.Equal(t, "/opt/ruby/bin/ruby", cfg.Ruby)
	assert.Equal(t, "3.0.2", cfg.Version)
	assert.Equal(t, "jruby", cfg.Engine)
	assert.True(t, cfg.Ranges)
	assert.Equal(t, 8, cfg.Jobs)
	assert.Equal(t, "runs.db", cfg.DB)
	assert.Equal(t, "tools/parse.rb", cfg.Bridge, "unset keys keep defaults")
	assert.Equal(t, "corpus/a.txt,corpus/b.txt", cfg.corpusLabel())
}

func TestConfigApplyFlagOverride(t *testing.T) {
	cfg := defaultConfig()
	flags := runCmd.Flags()
	require.NoError(t, flags.Set("version", "2.7.6"))
	require.NoError(t, flags.Set("ranges", "true"))
	t.Cleanup(func() {
		flags.Set("version", "")
		flags.Set("ranges", "false")
	})

	cfg.apply(flags)
	assert.Equal(t, "2.7.6", cfg.Version)
	assert.True(t, cfg.Ranges)
	assert.Equal(t, "mri", cfg.Engine, "unchanged flags leave config alone")
}

func sampleReport(t *testing.T) *banyan.Report {
	t.Helper()
	rule := suppress.Rule{Pattern: "test_lvar:*", Category: suppress.KnownFailure}
	staleRule := suppress.Rule{Pattern: "test_old:*", Category: suppress.TodoFailure}
	return &banyan.Report{Results: []banyan.Result{
		{Case: corpus.Case{Name: "test_alias", Line: 1}, Outcome: banyan.Pass},
		{
			Case:    corpus.Case{Name: "test_if", Line: 4},
			Outcome: banyan.Fail,
			Mismatch: &ast.Mismatch{
				Path:   "if/0/send",
				Detail: "node type send, want lvar",
				Got:    ast.New(ast.Send, loc.Range{}),
				Want:   ast.New(ast.LVar, loc.Range{}),
			},
		},
		{
			Case:        corpus.Case{Name: "test_lvar", Line: 7},
			Outcome:     banyan.Suppressed,
			MatchedRule: &rule,
		},
		{
			Case:        corpus.Case{Name: "test_old", Line: 9},
			Outcome:     banyan.Pass,
			Stale:       true,
			MatchedRule: &staleRule,
		},
	}}
}

func TestPrintReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleReport(t), "text"))
	out := buf.String()

	assert.NotContains(t, out, "test_alias:1", "clean passes are omitted")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "test_if:4")
	assert.Contains(t, out, "node type send, want lvar")
	assert.Contains(t, out, "SUPPRESSED")
	assert.Contains(t, out, "test_lvar:*")
	assert.Contains(t, out, "STALE")
}

func TestPrintReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleReport(t), "json"))

	var results []resultJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 4)
	assert.Equal(t, "test_alias:1", results[0].Label)
	assert.Equal(t, "pass", results[0].Outcome)
	assert.Equal(t, "fail", results[1].Outcome)
	assert.Equal(t, "test_lvar:*", results[2].Rule)
	assert.True(t, results[3].Stale)
}

func TestLoadCasesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basics.txt")
	require.NoError(t, os.WriteFile(path, []byte("!!! test_alias\nalias foo bar\n"), 0o644))

	cases, err := loadCases([]string{path}, defaultConfig())
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "test_alias:1", cases[0].Label())

	cases, err = loadCases([]string{dir}, defaultConfig())
	require.NoError(t, err)
	require.Len(t, cases, 1)
}

func TestBuildOracleFixtures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.json"), []byte(`[{"source":"foo\n","reject":"nope"}]`), 0o644))

	cfg := defaultConfig()
	cfg.Fixtures = dir
	oracle, err := buildOracle(cfg)
	require.NoError(t, err)
	_, err = oracle.ParseReference(context.Background(), []byte("foo\n"))
	assert.ErrorIs(t, err, banyan.ErrRejected)
}
