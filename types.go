package banyan

import (
	"github.com/ruby-syntax-tree/banyan/internal/corpus"
	"github.com/ruby-syntax-tree/banyan/internal/suppress"
)

// Public type aliases for internal types used in the Runner API. These are
// Go type aliases (=), identical to the internal types at compile time, so
// external consumers can load corpora and build registries through these
// names without importing internal packages.

type Case = corpus.Case
type Rule = suppress.Rule
type Category = suppress.Category
type Registry = suppress.Registry
type Env = suppress.Env
type Version = suppress.Version

// Corpus loading, re-exported for external callers.
var (
	LoadCorpus    = corpus.Load
	LoadCorpusDir = corpus.LoadDir
	ParseCorpus   = corpus.Parse
)

// Registry construction, re-exported for external callers.
var (
	NewRegistry   = suppress.NewRegistry
	BuildRegistry = suppress.Build
	ParseVersion  = suppress.ParseVersion
	MustVersion   = suppress.MustVersion
)

// Rule categories.
const (
	KnownFailure = suppress.KnownFailure
	TodoFailure  = suppress.TodoFailure
)
