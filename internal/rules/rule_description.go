package rules

import "regexp"

const IDIncludesDescription = "METADATA-DESCRIPTION-MISSING"

var descriptionRe = regexp.MustCompile(`(?s)<description>.*</description>`)

// IncludesDescriptionRule flags unmanaged metadata without a description
// block. Managed metadata is documented at its source.
type IncludesDescriptionRule struct {
	base
}

func NewIncludesDescriptionRule(opts ...Option) *IncludesDescriptionRule {
	r := &IncludesDescriptionRule{base: base{
		id:       IDIncludesDescription,
		summary:  "Metadata must carry a <description> block.",
		severity: Moderate,
		message:  "The metadata does not include a description",
	}}
	r.apply(opts)
	return r
}

func (r *IncludesDescriptionRule) Evaluate(md Metadata) (Violation, bool) {
	if md.IsManaged() || descriptionRe.MatchString(md.RawContents()) {
		return Violation{}, false
	}
	return r.violation(md, nil), true
}
