// Package suppress decides whether a conformance mismatch is expected.
// Rules are glob-style patterns over case labels, split into permanent
// known failures and version-scoped todo failures, collected into a
// read-only registry built once at startup.
package suppress

import "strings"

// Category classifies why a mismatch is expected.
type Category int

const (
	// KnownFailure marks a permanent, documented divergence.
	KnownFailure Category = iota
	// TodoFailure marks a temporary divergence expected to be fixed.
	TodoFailure
)

func (c Category) String() string {
	if c == TodoFailure {
		return "todo"
	}
	return "known"
}

// Rule is one suppression pattern. The pattern names a case, optionally
// followed by a ":"-separated line discriminator; "*" stands for any
// remaining suffix. A pattern without a discriminator matches the case
// at any line.
type Rule struct {
	Pattern  string
	Category Category
}

// Matches reports whether the rule suppresses the given case label.
// Matching is retried with the label's ":known-failure" tag removed, so a
// rule written against the plain name also covers the tagged variant.
func (r Rule) Matches(label string) bool {
	if matchPattern(r.Pattern, label) {
		return true
	}
	if trimmed := strings.Replace(label, ":known-failure", "", 1); trimmed != label {
		return matchPattern(r.Pattern, trimmed)
	}
	return false
}

// matchPattern implements suffix-glob matching: "*" matches any remaining
// characters, everything else is literal. A pattern with no discriminator
// and no wildcard matches the bare name at any discriminator.
func matchPattern(pattern, label string) bool {
	if glob(pattern, label) {
		return true
	}
	if !strings.Contains(pattern, ":") && !strings.Contains(pattern, "*") {
		return glob(pattern+":*", label)
	}
	return false
}

func glob(pattern, s string) bool {
	if i := strings.IndexByte(pattern, '*'); i >= 0 {
		return strings.HasPrefix(s, pattern[:i])
	}
	return pattern == s
}
