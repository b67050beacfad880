package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder marks where the inner pattern goes in a surrounding text
// template.
const Placeholder = "{innerText}"

// DefaultFormulaTemplate wraps an arbitrary formula body in <formula> tags.
const DefaultFormulaTemplate = "<formula>" + Placeholder + "</formula>"

// Template is a validated surrounding text template. The template text is a
// regular expression fragment with exactly one placeholder.
type Template struct {
	text string
}

// NewTemplate validates that s holds exactly one placeholder.
func NewTemplate(s string) (Template, error) {
	switch n := strings.Count(s, Placeholder); n {
	case 1:
		return Template{text: s}, nil
	case 0:
		return Template{}, fmt.Errorf("%w: %q has no %s placeholder", ErrInvalidTemplate, s, Placeholder)
	default:
		return Template{}, fmt.Errorf("%w: %q has %d %s placeholders, want 1", ErrInvalidTemplate, s, n, Placeholder)
	}
}

func (t Template) String() string { return t.text }

// Compile substitutes inner for the placeholder and compiles the result
// case-insensitive and multiline.
func (t Template) Compile(inner string) (*regexp.Regexp, error) {
	src := "(?im)" + strings.Replace(t.text, Placeholder, inner, 1)
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTemplate, t.text, err)
	}
	return re, nil
}
