// Command banyan runs the differential conformance harness: it parses
// corpus snippets with tree-sitter Ruby, translates the trees into the
// whitequark parser schema, and compares them against a reference parser.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ruby-syntax-tree/banyan"
	"github.com/ruby-syntax-tree/banyan/internal/corpus"
	"github.com/ruby-syntax-tree/banyan/internal/store"
	"github.com/ruby-syntax-tree/banyan/internal/suppress"
	"github.com/ruby-syntax-tree/banyan/scripts"
)

var (
	flagConfig string
	flagFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "banyan",
	Short:         "Differential conformance harness for Ruby AST translation",
	Long:          "Banyan translates tree-sitter Ruby syntax trees into the whitequark parser gem's schema and verifies the translation against the gem over a construct corpus.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: banyan.toml if present)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(staleCmd)
	rootCmd.AddCommand(casesCmd)
}

var (
	flagRuby     string
	flagBridge   string
	flagFixtures string
	flagVersion  string
	flagEngine   string
	flagRules    string
	flagRanges   bool
	flagJobs     int
	flagDB       string
)

var runCmd = &cobra.Command{
	Use:   "run [corpus...]",
	Short: "Run the conformance harness over corpus files or directories",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagRuby, "ruby", "", "ruby interpreter for the reference bridge (default: ruby)")
	runCmd.Flags().StringVar(&flagBridge, "bridge", "tools/parse.rb", "reference bridge script")
	runCmd.Flags().StringVar(&flagFixtures, "fixtures", "", "answer from recorded fixtures in this directory instead of a live parser")
	runCmd.Flags().StringVar(&flagVersion, "version", "", "reference language version (default: 3.1.0)")
	runCmd.Flags().StringVar(&flagEngine, "engine", "", "reference engine identity (default: mri)")
	runCmd.Flags().StringVar(&flagRules, "rules", "", "load suppression rules from this script instead of the embedded one")
	runCmd.Flags().BoolVar(&flagRanges, "ranges", false, "compare exact source ranges, not just tree shape")
	runCmd.Flags().IntVar(&flagJobs, "jobs", 0, "concurrent cases (default: NumCPU)")
	runCmd.Flags().StringVar(&flagDB, "db", "", "record the run in this SQLite database")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}
	cfg.apply(cmd.Flags())
	if len(args) > 0 {
		cfg.Corpus = args
	}

	cases, err := loadCases(nil, cfg)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("no corpus cases found")
	}

	version, err := suppress.ParseVersion(cfg.Version)
	if err != nil {
		return err
	}
	env := suppress.Env{Engine: cfg.Engine, Version: version}

	reg, err := buildRegistry(ctx, cfg, env)
	if err != nil {
		return err
	}

	oracle, err := buildOracle(cfg)
	if err != nil {
		return err
	}

	opts := []banyan.Option{
		banyan.WithRegistry(reg),
		banyan.WithRangeComparison(cfg.Ranges),
	}
	if cfg.Jobs > 0 {
		opts = append(opts, banyan.WithJobs(cfg.Jobs))
	}
	runner, err := banyan.NewRunner(oracle, opts...)
	if err != nil {
		return err
	}

	started := time.Now()
	report, err := runner.Run(ctx, cases)
	if err != nil {
		return err
	}

	if cfg.DB != "" {
		if err := recordRun(cfg, started, report); err != nil {
			return err
		}
	}

	if err := printReport(os.Stdout, report, flagFormat); err != nil {
		return err
	}
	printSummary(os.Stderr, report, time.Since(started))

	if report.Failed() {
		counts := report.Counts()
		return fmt.Errorf("%d failed, %d errored", counts[banyan.Fail], counts[banyan.Error])
	}
	return nil
}

// recordRun persists the report so `banyan stale` can inspect history.
func recordRun(cfg *config, started time.Time, report *banyan.Report) error {
	s, err := store.NewStore(cfg.DB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return err
	}

	runID, err := s.BeginRun(&store.Run{
		StartedAt: started,
		Engine:    cfg.Engine,
		Version:   cfg.Version,
		Ranges:    cfg.Ranges,
		Corpus:    cfg.corpusLabel(),
	})
	if err != nil {
		return err
	}

	results := make([]store.Result, 0, len(report.Results))
	for _, res := range report.Results {
		rec := store.Result{
			RunID:   runID,
			Label:   res.Case.Label(),
			Outcome: res.Outcome.String(),
			Stale:   res.Stale,
		}
		if res.MatchedRule != nil {
			rec.Rule = res.MatchedRule.Pattern
		}
		if res.Mismatch != nil {
			rec.Detail = res.Mismatch.Error()
		} else if res.Err != nil {
			rec.Detail = res.Err.Error()
		}
		results = append(results, rec)
	}
	return s.RecordResults(runID, results)
}

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "List suppression rules the latest recorded run shows are prunable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		if flagDB != "" {
			cfg.DB = flagDB
		}
		if cfg.DB == "" {
			return fmt.Errorf("stale needs a database; pass --db or set db in banyan.toml")
		}

		s, err := store.NewStore(cfg.DB)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer s.Close()

		run, err := s.LatestRun()
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no recorded runs in %s", cfg.DB)
		}
		stale, err := s.StaleResults(run.ID)
		if err != nil {
			return err
		}
		return printStale(os.Stdout, run, stale, flagFormat)
	},
}

func init() {
	staleCmd.Flags().StringVar(&flagDB, "db", "", "SQLite database with recorded runs")
}

var casesCmd = &cobra.Command{
	Use:   "cases [corpus...]",
	Short: "List the cases parsed from corpus files or directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		cases, err := loadCases(args, cfg)
		if err != nil {
			return err
		}
		return printCases(os.Stdout, cases, flagFormat)
	},
}

// loadCases gathers cases from explicit paths, falling back to the
// configured corpus list.
func loadCases(args []string, cfg *config) ([]corpus.Case, error) {
	paths := args
	if len(paths) == 0 {
		paths = cfg.Corpus
	}
	if len(paths) == 0 {
		paths = []string{"testdata/corpus"}
	}

	var all []corpus.Case
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("corpus %s: %w", path, err)
		}
		var cases []corpus.Case
		if info.IsDir() {
			cases, err = corpus.LoadDir(path)
		} else {
			cases, err = corpus.Load(path)
		}
		if err != nil {
			return nil, err
		}
		all = append(all, cases...)
	}
	return all, nil
}

func buildRegistry(ctx context.Context, cfg *config, env suppress.Env) (*suppress.Registry, error) {
	if flagRules != "" {
		dir, file := filepath.Split(flagRules)
		if dir == "" {
			dir = "."
		}
		return suppress.Build(ctx, os.DirFS(filepath.Clean(dir)), file, env)
	}
	return suppress.Build(ctx, scripts.FS, scripts.Suppressions, env)
}

func buildOracle(cfg *config) (banyan.ReferenceParser, error) {
	if cfg.Fixtures != "" {
		return banyan.NewFixtureOracle(os.DirFS(cfg.Fixtures))
	}
	return &banyan.ExecOracle{Ruby: cfg.Ruby, Script: cfg.Bridge, Version: cfg.Version}, nil
}
