package rules

import "fmt"

// Set is an ordered collection of configured rules. Configuration order is
// the order violations come back in.
type Set struct {
	rules    []Rule
	index    map[string]int // normID(rule ID) -> position in rules
	settings Settings
}

// NewSet composes rs. Two rules with the same ID are a configuration error.
func NewSet(rs []Rule, s Settings) (*Set, error) {
	set := &Set{index: make(map[string]int, len(rs)), settings: s}
	for _, r := range rs {
		key := normID(r.ID())
		if _, ok := set.index[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.ID())
		}
		set.index[key] = len(set.rules)
		set.rules = append(set.rules, r)
	}
	return set, nil
}

// List returns the rules that survive the settings, in configuration order.
func (s *Set) List() []Rule {
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if s.active(r) {
			out = append(out, r)
		}
	}
	return out
}

// All returns every configured rule, including disabled ones.
func (s *Set) All() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Get returns a configured rule by ID.
func (s *Set) Get(id string) (Rule, bool) {
	i, ok := s.index[normID(id)]
	if !ok {
		return nil, false
	}
	return s.rules[i], true
}

// Settings returns the filter the set was built with.
func (s *Set) Settings() Settings { return s.settings }

// Evaluate runs every active rule against md and returns the violations in
// configuration order. Safe for concurrent use.
func (s *Set) Evaluate(md Metadata) []Violation {
	var out []Violation
	for _, r := range s.rules {
		if !s.active(r) {
			continue
		}
		if v, ok := r.Evaluate(md); ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *Set) active(r Rule) bool {
	return !s.settings.disabled(r.ID()) && r.Severity().AtLeast(s.settings.Threshold)
}

// Scoped limits r to metadata whose path is accepted by match.
func Scoped(r Rule, match func(path string) bool) Rule {
	return scoped{Rule: r, match: match}
}

type scoped struct {
	Rule
	match func(string) bool
}

func (s scoped) Evaluate(md Metadata) (Violation, bool) {
	if !s.match(md.Path()) {
		return Violation{}, false
	}
	return s.Rule.Evaluate(md)
}
