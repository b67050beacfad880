package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/codewithboateng/metalint/internal/ir"
	"github.com/codewithboateng/metalint/internal/rules"
)

func WriteHTML(runID, outDir string, run *ir.Run) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	managed := 0
	for _, fl := range run.Files {
		if fl.Managed {
			managed++
		}
	}
	counts := Counts(run.Findings)

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .HIGH{color:#b00020} .MODERATE{color:#b26a00}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + summary
	fmt.Fprintf(f, "<h1>metalint report – <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p>Files: %d (managed %d) &nbsp; Findings: %d &nbsp; Waived: %d</p>", len(run.Files), managed, len(run.Findings), run.Waived)
	fmt.Fprintf(f, "<p>HIGH %d &nbsp; MODERATE %d &nbsp; MINOR %d</p>",
		counts[rules.High.String()], counts[rules.Moderate.String()], counts[rules.Minor.String()])

	// Severity/disabled banner
	fmt.Fprintf(f, "<p class='dim'>Severity threshold: %s", html.EscapeString(run.Context.RuleSeverityThreshold))
	if n := len(run.Context.DisabledRules); n > 0 {
		fmt.Fprintf(f, " &nbsp; Disabled rules: %d", n)
	}
	if run.Context.RulePack != "" {
		fmt.Fprintf(f, " &nbsp; Pack: <span class='mono'>%s</span>", html.EscapeString(run.Context.RulePack))
	}
	fmt.Fprint(f, "</p>")

	if len(run.Findings) == 0 {
		fmt.Fprint(f, "<h2>Findings</h2><p class='dim'>No findings at or above the configured threshold.</p>")
		fmt.Fprint(f, "</body></html>")
		return path, nil
	}

	// Per file, highest severity first
	fmt.Fprint(f, "<h2>Findings</h2>")
	current := ""
	for _, fd := range ByFile(run.Findings) {
		if fd.Path != current {
			if current != "" {
				fmt.Fprint(f, "</table>")
			}
			current = fd.Path
			fmt.Fprintf(f, "<h3 class='mono'>%s</h3>", html.EscapeString(fd.Path))
			fmt.Fprint(f, "<table><tr><th>Severity</th><th>Rule</th><th>Line</th><th>Message</th><th>Evidence</th></tr>")
		}
		line := ""
		if fd.Line > 0 {
			line = fmt.Sprint(fd.Line)
		}
		fmt.Fprintf(f, "<tr><td class='%s'>%s</td><td>%s</td><td>%s</td><td>%s</td><td class='mono'>%s</td></tr>",
			fd.Severity,
			fd.Severity,
			html.EscapeString(fd.RuleID),
			line,
			html.EscapeString(fd.Message),
			html.EscapeString(fd.Evidence),
		)
	}
	fmt.Fprint(f, "</table>")

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
