package banyan

import (
	"github.com/ruby-syntax-tree/banyan/ast"
	"github.com/ruby-syntax-tree/banyan/internal/corpus"
	"github.com/ruby-syntax-tree/banyan/internal/suppress"
)

// Outcome classifies one conformance case.
type Outcome int

const (
	// Pass: both parsers agree.
	Pass Outcome = iota
	// Fail: trees diverge and no suppression rule covers the case.
	Fail
	// Skip: the reference parser rejected the snippet, usually because it
	// targets a language version the reference does not support.
	Skip
	// Suppressed: trees diverge but a rule marks the divergence expected.
	Suppressed
	// Error: harness-level failure, e.g. the primary parser rejected a
	// snippet the corpus promises is valid, or a translation gap.
	Error
)

var outcomeNames = [...]string{"pass", "fail", "skip", "suppressed", "error"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Result is the judgment for a single case.
type Result struct {
	Case    corpus.Case
	Outcome Outcome

	// Mismatch is the first divergence, set on Fail and Suppressed.
	Mismatch *ast.Mismatch
	// MatchedRule is the suppressing rule on Suppressed, or the rule a
	// passing case still matches when Stale.
	MatchedRule *suppress.Rule
	// Stale marks a passing case whose label still matches a rule; the
	// rule can be pruned.
	Stale bool
	// Err carries the underlying failure on Error and Skip.
	Err error
}

// Report aggregates the results of one harness run, in corpus order.
type Report struct {
	Results []Result
}

// Counts tallies results per outcome.
func (r *Report) Counts() map[Outcome]int {
	counts := make(map[Outcome]int, len(outcomeNames))
	for _, res := range r.Results {
		counts[res.Outcome]++
	}
	return counts
}

// Stale returns the passing results still covered by a suppression rule.
func (r *Report) Stale() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Stale {
			out = append(out, res)
		}
	}
	return out
}

// Failed reports whether any case failed or errored.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Outcome == Fail || res.Outcome == Error {
			return true
		}
	}
	return false
}
