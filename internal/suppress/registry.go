package suppress

import "sort"

// Registry holds the active suppression rules. Rules form a set: adding a
// rule twice is a no-op, and matching is order-independent since one
// match suffices.
type Registry struct {
	rules map[Rule]struct{}
}

// NewRegistry builds a registry from the given rules.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{rules: make(map[Rule]struct{}, len(rules))}
	r.Add(rules...)
	return r
}

// Add inserts rules into the registry.
func (r *Registry) Add(rules ...Rule) {
	for _, rule := range rules {
		r.rules[rule] = struct{}{}
	}
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Rules returns the rules sorted by pattern, todo after known within a
// pattern, for stable listings.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, 0, len(r.rules))
	for rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Match returns the first rule (in sorted order) suppressing the label.
func (r *Registry) Match(label string) (Rule, bool) {
	for _, rule := range r.Rules() {
		if rule.Matches(label) {
			return rule, true
		}
	}
	return Rule{}, false
}
