package rules

import (
	"fmt"
	"strings"
)

const IDSkipAutomation = "AUTOMATION-SKIP-MISSING"

// SkipAutomationRule requires a literal automation-skip directive somewhere
// in the file.
type SkipAutomationRule struct {
	base
	marker string
}

func NewSkipAutomationRule(marker string, opts ...Option) (*SkipAutomationRule, error) {
	if marker == "" {
		return nil, fmt.Errorf("skip automation: %w", ErrEmptyMarker)
	}
	r := &SkipAutomationRule{
		base: base{
			id:       IDSkipAutomation,
			summary:  "Automation must include the skip directive " + marker + ".",
			severity: Moderate,
			message:  "The file does not include the line " + marker,
		},
		marker: marker,
	}
	r.apply(opts)
	return r, nil
}

func (r *SkipAutomationRule) Marker() string { return r.marker }

func (r *SkipAutomationRule) Evaluate(md Metadata) (Violation, bool) {
	if strings.Contains(md.RawContents(), r.marker) {
		return Violation{}, false
	}
	return r.violation(md, nil), true
}
