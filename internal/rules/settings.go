package rules

import "strings"

// Settings filters which configured rules run.
type Settings struct {
	// Threshold drops rules below this severity. Zero keeps everything.
	Threshold Severity
	// Disabled holds rule IDs, compared case-insensitively.
	Disabled map[string]bool
}

func (s Settings) disabled(id string) bool {
	return s.Disabled[normID(id)]
}

// NewSettings builds Settings from a threshold name and a list of disabled
// rule IDs. An empty threshold keeps every severity.
func NewSettings(threshold string, disabled []string) (Settings, error) {
	s := Settings{Disabled: map[string]bool{}}
	if strings.TrimSpace(threshold) != "" {
		sev, err := ParseSeverity(threshold)
		if err != nil {
			return Settings{}, err
		}
		s.Threshold = sev
	}
	for _, id := range disabled {
		s.Disabled[normID(id)] = true
	}
	return s, nil
}

func normID(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }
