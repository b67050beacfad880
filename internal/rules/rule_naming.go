package rules

import (
	"fmt"
	"regexp"
)

const IDNamingConvention = "NAMING-CONVENTION"

// NamingConventionRule checks the bare file name against a pattern.
type NamingConventionRule struct {
	base
	pattern *regexp.Regexp
}

func NewNamingConventionRule(pattern string, opts ...Option) (*NamingConventionRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	r := &NamingConventionRule{
		base: base{
			id:       IDNamingConvention,
			summary:  "Metadata names must match " + pattern + ".",
			severity: High,
			message:  "The name of the metadata object does not match the suggested convention",
		},
		pattern: re,
	}
	r.apply(opts)
	return r, nil
}

func (r *NamingConventionRule) Pattern() string { return r.pattern.String() }

func (r *NamingConventionRule) Evaluate(md Metadata) (Violation, bool) {
	if r.pattern.MatchString(md.Name()) {
		return Violation{}, false
	}
	return r.violation(md, nil), true
}
