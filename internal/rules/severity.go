package rules

import (
	"fmt"
	"strings"
)

// Severity orders violations for sorting and filtering. It carries no
// behavior of its own.
type Severity int

const (
	Minor Severity = iota + 1
	Moderate
	High
)

func (s Severity) String() string {
	switch s {
	case Minor:
		return "MINOR"
	case Moderate:
		return "MODERATE"
	case High:
		return "HIGH"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// ParseSeverity accepts the canonical names case-insensitively. LOW and
// MEDIUM are accepted as aliases so configs written for other linters keep
// working.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MINOR", "LOW":
		return Minor, nil
	case "MODERATE", "MEDIUM":
		return Moderate, nil
	case "HIGH":
		return High, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	if s < Minor || s > High {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AtLeast reports whether s is at or above floor. A zero floor accepts all.
func (s Severity) AtLeast(floor Severity) bool {
	return s >= floor
}
