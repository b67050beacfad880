package reporting

import (
	"sort"

	"github.com/codewithboateng/metalint/internal/ir"
)

// ByFile groups findings by path and orders each group by severity, highest
// first. Ties keep their incoming (rule configuration) order.
func ByFile(in []ir.Finding) []ir.Finding {
	out := append([]ir.Finding(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Severity > out[j].Severity
	})
	return out
}

// BySeverity orders findings highest severity first, then by path.
func BySeverity(in []ir.Finding) []ir.Finding {
	out := append([]ir.Finding(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Counts tallies findings per severity.
func Counts(fs []ir.Finding) map[string]int {
	m := map[string]int{}
	for _, f := range fs {
		m[f.Severity.String()]++
	}
	return m
}
