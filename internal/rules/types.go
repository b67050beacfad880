package rules

import "errors"

// Configuration errors. Constructors wrap these so callers can tell a broken
// rule pack apart from an I/O failure.
var (
	ErrInvalidTemplate = errors.New("invalid surrounding text template")
	ErrInvalidPattern  = errors.New("invalid naming pattern")
	ErrEmptyMarker     = errors.New("marker must not be empty")
	ErrDuplicateRule   = errors.New("duplicate rule id")
)

// Rule is a single configured policy check over one metadata unit.
//
// Evaluate must be a pure function of the rule's configuration and the
// metadata it is given: everything a report needs about the match travels
// in the returned Violation, so one Rule value can be shared by concurrent
// scans.
type Rule interface {
	ID() string
	Summary() string
	Severity() Severity
	// Evaluate reports whether md violates the policy.
	Evaluate(md Metadata) (Violation, bool)
}

// Violation is produced when a rule fires against a metadata unit.
type Violation struct {
	RuleID   string
	Severity Severity
	Message  string
	Path     string
	// Location is nil for whole-file presence checks.
	Location *Location
}

// Location pins a violation inside the raw contents.
type Location struct {
	// Offset is a byte offset into the raw contents, not a line number.
	Offset int
	// Text is the matched inner text.
	Text string
}

// base carries the fields every rule kind shares.
type base struct {
	id       string
	summary  string
	severity Severity
	message  string
}

func (b base) ID() string         { return b.id }
func (b base) Summary() string    { return b.summary }
func (b base) Severity() Severity { return b.severity }

// Message returns the human-readable description of the policy.
func (b base) Message() string { return b.message }

func (b base) violation(md Metadata, loc *Location) Violation {
	return Violation{
		RuleID:   b.id,
		Severity: b.severity,
		Message:  b.message,
		Path:     md.Path(),
		Location: loc,
	}
}

// Option customizes a rule at construction.
type Option func(*base)

// WithID overrides the rule kind's default ID, so one kind can be configured
// several times in a pack.
func WithID(id string) Option {
	return func(b *base) {
		if id != "" {
			b.id = id
		}
	}
}

// WithSummary overrides the default one-line summary.
func WithSummary(s string) Option {
	return func(b *base) {
		if s != "" {
			b.summary = s
		}
	}
}

func (b *base) apply(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}
