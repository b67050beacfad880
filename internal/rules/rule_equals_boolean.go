package rules

import "regexp"

const IDIncludesEqualsBoolean = "FORMULA-EQUALS-BOOLEAN"

// equalsBooleanInner captures any text, '=', optional whitespace, true or
// false, then any text. The "inner" group is reported as the violation text
// regardless of capturing groups in the surrounding template.
const equalsBooleanInner = `(?P<inner>(?s:.+)=\s*(false|true)(?s:.*))`

// IncludesEqualsBooleanRule flags formulas comparing a checkbox to the
// keywords true or false instead of using the boolean directly.
type IncludesEqualsBooleanRule struct {
	base
	template Template
	re       *regexp.Regexp
	inner    int
}

// NewIncludesEqualsBooleanRule builds the rule for the given surrounding text
// template. An empty template selects DefaultFormulaTemplate.
func NewIncludesEqualsBooleanRule(surroundingText string, opts ...Option) (*IncludesEqualsBooleanRule, error) {
	if surroundingText == "" {
		surroundingText = DefaultFormulaTemplate
	}
	t, err := NewTemplate(surroundingText)
	if err != nil {
		return nil, err
	}
	re, err := t.Compile(equalsBooleanInner)
	if err != nil {
		return nil, err
	}
	r := &IncludesEqualsBooleanRule{
		base: base{
			id:       IDIncludesEqualsBoolean,
			summary:  "Formulas should use booleans directly instead of comparing to true/false.",
			severity: Minor,
			message:  "The formula contains a comparison of a checkbox (boolean) to the keyword true or false, this is unnecessary as the boolean itself can be used",
		},
		template: t,
		re:       re,
		inner:    re.SubexpIndex("inner"),
	}
	r.apply(opts)
	return r, nil
}

// Template returns the surrounding text template the rule was built with.
func (r *IncludesEqualsBooleanRule) Template() Template { return r.template }

func (r *IncludesEqualsBooleanRule) Evaluate(md Metadata) (Violation, bool) {
	contents := md.RawContents()
	m := r.re.FindStringSubmatchIndex(contents)
	if m == nil {
		return Violation{}, false
	}
	loc := &Location{Offset: m[0]}
	if i := 2 * r.inner; m[i] >= 0 {
		loc.Text = contents[m[i]:m[i+1]]
	}
	return r.violation(md, loc), true
}
