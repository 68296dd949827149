// Package banyan translates tree-sitter Ruby syntax trees into the node
// schema of the whitequark parser gem and differentially tests the
// translation against the gem itself over a versioned construct corpus.
//
// # Pipeline
//
// For each corpus case the harness runs four steps:
//
//  1. Parse the snippet with tree-sitter Ruby into banyan's primary tree
//     (internal/syntax).
//  2. Parse the same snippet with the reference parser via a
//     [ReferenceParser] oracle, either a live Ruby bridge ([ExecOracle])
//     or recorded fixtures ([FixtureOracle]).
//  3. Translate the primary tree into the reference schema
//     (internal/translate builds ast nodes).
//  4. Deep-compare the two trees, optionally down to exact source
//     ranges, and classify the result: pass, fail, skip, suppressed,
//     or error.
//
// # Usage
//
// Load a corpus, build the suppression registry from the embedded rule
// script, and run:
//
//	cases, err := banyan.LoadCorpusDir("testdata/corpus")
//	reg, err := banyan.BuildRegistry(ctx, scripts.FS, scripts.Suppressions, env)
//	r, err := banyan.NewRunner(&banyan.ExecOracle{Script: "tools/parse.rb"},
//		banyan.WithRegistry(reg),
//		banyan.WithRangeComparison(true))
//	report, err := r.Run(ctx, cases)
//
// The standalone translator is available as [Translate] for callers that
// only need the tree mapping.
//
// # Suppressions
//
// Expected divergences live in scripts/suppressions.risor, evaluated once
// at startup against the reference environment's engine and language
// version. Permanent known failures and version-gated todo failures both
// suppress mismatches; a passing case whose label still matches a rule is
// reported stale so the rule can be pruned.
package banyan
