package banyan

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ruby-syntax-tree/banyan/ast"
	"github.com/ruby-syntax-tree/banyan/internal/corpus"
	"github.com/ruby-syntax-tree/banyan/internal/suppress"
	"github.com/ruby-syntax-tree/banyan/internal/syntax"
	"github.com/ruby-syntax-tree/banyan/internal/translate"
)

// Runner drives the differential harness: for every corpus case, parse
// with the primary parser, translate, parse with the reference parser,
// deep-compare, and classify against the suppression registry.
type Runner struct {
	ref      ReferenceParser
	registry *suppress.Registry
	ranges   bool
	jobs     int
}

// Option configures a Runner.
type Option func(*Runner)

// WithRegistry installs the suppression registry. Without one, every
// mismatch is a failure.
func WithRegistry(reg *suppress.Registry) Option {
	return func(r *Runner) {
		r.registry = reg
	}
}

// WithRangeComparison toggles exact source range equality during tree
// comparison. Off, only shape and literal payloads are compared.
func WithRangeComparison(on bool) Option {
	return func(r *Runner) {
		r.ranges = on
	}
}

// WithJobs caps how many cases run concurrently. Defaults to NumCPU.
func WithJobs(n int) Option {
	return func(r *Runner) {
		r.jobs = n
	}
}

// NewRunner builds a Runner judging cases against ref.
func NewRunner(ref ReferenceParser, opts ...Option) (*Runner, error) {
	if ref == nil {
		return nil, errors.New("banyan: reference parser required")
	}
	r := &Runner{
		ref:      ref,
		registry: suppress.NewRegistry(),
		jobs:     runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.jobs < 1 {
		r.jobs = 1
	}
	return r, nil
}

// Run judges every case and returns the results in corpus order. Cases
// run concurrently; they share no state, so results are written
// positionally. The returned error reports only harness-level problems
// such as context cancellation, never case failures.
func (r *Runner) Run(ctx context.Context, cases []corpus.Case) (*Report, error) {
	results := make([]Result, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.runCase(ctx, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("banyan: run: %w", err)
	}
	return &Report{Results: results}, nil
}

// runCase classifies a single case.
func (r *Runner) runCase(ctx context.Context, c corpus.Case) Result {
	res := Result{Case: c}
	src := []byte(c.Source)

	// The corpus promises syntactically valid snippets; a primary parse
	// failure is a harness configuration error.
	tree, err := syntax.Parse(ctx, src)
	if err != nil {
		res.Outcome = Error
		res.Err = fmt.Errorf("primary parse: %w", err)
		return res
	}

	want, err := r.ref.ParseReference(ctx, src)
	if err != nil {
		if errors.Is(err, ErrRejected) {
			res.Outcome = Skip
			res.Err = err
			return res
		}
		res.Outcome = Error
		res.Err = fmt.Errorf("reference parse: %w", err)
		return res
	}

	got, err := translate.Tree(tree)
	if err != nil {
		res.Outcome = Error
		res.Err = fmt.Errorf("translate: %w", err)
		return res
	}

	mismatch := ast.Compare(got, want, ast.Options{Ranges: r.ranges})
	rule, suppressed := r.registry.Match(c.Label())
	if mismatch == nil {
		res.Outcome = Pass
		if suppressed {
			res.Stale = true
			res.MatchedRule = &rule
		}
		return res
	}

	res.Mismatch = mismatch
	if suppressed {
		res.Outcome = Suppressed
		res.MatchedRule = &rule
	} else {
		res.Outcome = Fail
	}
	return res
}
