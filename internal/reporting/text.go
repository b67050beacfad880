package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/codewithboateng/metalint/internal/ir"
	"github.com/codewithboateng/metalint/internal/rules"
)

// WriteText renders a console report: one block per file, findings ordered
// by severity.
func WriteText(w io.Writer, run *ir.Run) error {
	var b strings.Builder
	current := ""
	for _, f := range ByFile(run.Findings) {
		if f.Path != current {
			if current != "" {
				b.WriteByte('\n')
			}
			current = f.Path
			b.WriteString(f.Path)
			b.WriteByte('\n')
		}
		loc := ""
		if f.Line > 0 {
			loc = fmt.Sprintf(":%d", f.Line)
		}
		fmt.Fprintf(&b, "  %-8s %s%s  %s\n", f.Severity, f.RuleID, loc, f.Message)
		if f.Evidence != "" {
			fmt.Fprintf(&b, "           > %s\n", oneLine(f.Evidence))
		}
	}
	if len(run.Findings) > 0 {
		b.WriteByte('\n')
	}
	c := Counts(run.Findings)
	fmt.Fprintf(&b, "%d files, %d findings (HIGH %d, MODERATE %d, MINOR %d)",
		len(run.Files), len(run.Findings),
		c[rules.High.String()], c[rules.Moderate.String()], c[rules.Minor.String()])
	if run.Waived > 0 {
		fmt.Fprintf(&b, ", %d waived", run.Waived)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
