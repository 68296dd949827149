package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/ruby-syntax-tree/banyan"
	"github.com/ruby-syntax-tree/banyan/internal/corpus"
	"github.com/ruby-syntax-tree/banyan/internal/store"
)

func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	}
	return fmt.Errorf("invalid format %q: must be json or text", format)
}

var (
	passColor     = color.New(color.FgGreen)
	failColor     = color.New(color.FgRed)
	skipColor     = color.New(color.FgYellow)
	suppressColor = color.New(color.FgCyan)
	errorColor    = color.New(color.FgRed, color.Bold)
)

func outcomeColor(o banyan.Outcome) *color.Color {
	switch o {
	case banyan.Pass:
		return passColor
	case banyan.Fail:
		return failColor
	case banyan.Skip:
		return skipColor
	case banyan.Suppressed:
		return suppressColor
	default:
		return errorColor
	}
}

// resultJSON is the wire shape of one case in --format json output.
type resultJSON struct {
	Label   string `json:"label"`
	Outcome string `json:"outcome"`
	Rule    string `json:"rule,omitempty"`
	Stale   bool   `json:"stale,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func resultToJSON(res banyan.Result) resultJSON {
	out := resultJSON{
		Label:   res.Case.Label(),
		Outcome: res.Outcome.String(),
		Stale:   res.Stale,
	}
	if res.MatchedRule != nil {
		out.Rule = res.MatchedRule.Pattern
	}
	if res.Mismatch != nil {
		out.Detail = res.Mismatch.Error()
	} else if res.Err != nil {
		out.Detail = res.Err.Error()
	}
	return out
}

// printReport writes per-case results. Text mode shows only the
// noteworthy cases: everything except clean passes.
func printReport(w io.Writer, report *banyan.Report, format string) error {
	if format == "json" {
		results := make([]resultJSON, 0, len(report.Results))
		for _, res := range report.Results {
			results = append(results, resultToJSON(res))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, res := range report.Results {
		if res.Outcome == banyan.Pass && !res.Stale {
			continue
		}
		label := res.Case.Label()
		c := outcomeColor(res.Outcome)
		switch {
		case res.Stale:
			fmt.Fprintf(w, "%s %s (stale rule %s)\n", c.Sprint("STALE"), label, res.MatchedRule.Pattern)
		case res.Outcome == banyan.Suppressed:
			fmt.Fprintf(w, "%s %s (rule %s)\n", c.Sprint("SUPPRESSED"), label, res.MatchedRule.Pattern)
		case res.Outcome == banyan.Fail:
			fmt.Fprintf(w, "%s %s: %s\n", c.Sprint("FAIL"), label, res.Mismatch.Error())
		case res.Outcome == banyan.Skip:
			fmt.Fprintf(w, "%s %s\n", c.Sprint("SKIP"), label)
		default:
			fmt.Fprintf(w, "%s %s: %s\n", c.Sprint("ERROR"), label, res.Err)
		}
	}
	return nil
}

func printSummary(w io.Writer, report *banyan.Report, elapsed time.Duration) {
	counts := report.Counts()
	fmt.Fprintf(w, "%d cases: %s, %s, %s, %s, %s in %s\n",
		len(report.Results),
		passColor.Sprintf("%d passed", counts[banyan.Pass]),
		failColor.Sprintf("%d failed", counts[banyan.Fail]),
		skipColor.Sprintf("%d skipped", counts[banyan.Skip]),
		suppressColor.Sprintf("%d suppressed", counts[banyan.Suppressed]),
		errorColor.Sprintf("%d errored", counts[banyan.Error]),
		elapsed.Round(time.Millisecond))
	if stale := report.Stale(); len(stale) > 0 {
		fmt.Fprintf(w, "%d stale suppression(s); run `banyan stale` against a recorded run to list them\n", len(stale))
	}
}

func printStale(w io.Writer, run *store.Run, stale []store.Result, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stale)
	}

	fmt.Fprintf(w, "run %d (%s %s, %s)\n", run.ID, run.Engine, run.Version, run.StartedAt.Format(time.RFC3339))
	if len(stale) == 0 {
		fmt.Fprintln(w, "no stale suppressions")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tRULE")
	for _, r := range stale {
		fmt.Fprintf(tw, "%s\t%s\n", r.Label, r.Rule)
	}
	return tw.Flush()
}

func printCases(w io.Writer, cases []corpus.Case, format string) error {
	if format == "json" {
		type caseJSON struct {
			Label  string `json:"label"`
			Source string `json:"source"`
		}
		out := make([]caseJSON, 0, len(cases))
		for _, c := range cases {
			out = append(out, caseJSON{Label: c.Label(), Source: c.Source})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tLINES")
	for _, c := range cases {
		lines := 0
		for _, b := range c.Source {
			if b == '\n' {
				lines++
			}
		}
		fmt.Fprintf(tw, "%s\t%d\n", c.Label(), lines)
	}
	return tw.Flush()
}
