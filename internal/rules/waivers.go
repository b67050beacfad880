package rules

import (
	"strings"
	"time"
)

// Waiver suppresses violations of one rule, optionally narrowed by path or
// text. Empty narrowing fields match anything.
type Waiver struct {
	ID         int64      `json:"id,omitempty" yaml:"-"`
	RuleID     string     `json:"rule_id" yaml:"rule_id"`
	PathSub    string     `json:"path_sub,omitempty" yaml:"path_sub"`
	PatternSub string     `json:"pattern_sub,omitempty" yaml:"pattern_sub"`
	Reason     string     `json:"reason" yaml:"reason"`
	ExpiresAt  time.Time  `json:"expires_at,omitempty" yaml:"expires_at"`
	CreatedBy  string     `json:"created_by,omitempty" yaml:"created_by"`
	CreatedAt  time.Time  `json:"created_at,omitempty" yaml:"-"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty" yaml:"-"`
}

// Active reports whether w applies at now. A zero ExpiresAt never expires.
func (w Waiver) Active(now time.Time) bool {
	if w.RevokedAt != nil {
		return false
	}
	return w.ExpiresAt.IsZero() || w.ExpiresAt.After(now)
}

// ApplyWaivers filters out violations that match any active waiver.
// Returns (kept, waivedCount)
func ApplyWaivers(in []Violation, waivers []Waiver, now time.Time) ([]Violation, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []Violation
	waived := 0
nextViolation:
	for _, v := range in {
		for _, w := range waivers {
			if !w.Active(now) {
				continue
			}
			if !eqCI(v.RuleID, w.RuleID) {
				continue
			}
			if w.PathSub != "" && !containsCI(v.Path, w.PathSub) {
				continue
			}
			if w.PatternSub != "" {
				text := ""
				if v.Location != nil {
					text = v.Location.Text
				}
				if !containsCI(text, w.PatternSub) && !containsCI(v.Message, w.PatternSub) {
					continue
				}
			}
			waived++
			continue nextViolation
		}
		out = append(out, v)
	}
	return out, waived
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(sub))
}
