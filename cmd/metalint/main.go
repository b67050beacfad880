package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codewithboateng/metalint/internal/ir"
	"github.com/codewithboateng/metalint/internal/reporting"
	"github.com/codewithboateng/metalint/internal/rules"
	"github.com/codewithboateng/metalint/internal/rulesdsl"
	"github.com/codewithboateng/metalint/internal/scanner"
	"github.com/codewithboateng/metalint/internal/shared"
	"github.com/codewithboateng/metalint/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "analyze":
		os.Exit(analyzeCmd(os.Args[2:]))
	case "rules":
		os.Exit(rulesCmd(os.Args[2:]))
	case "diff":
		os.Exit(diffCmd(os.Args[2:]))
	case "waiver":
		os.Exit(waiverCmd(os.Args[2:]))
	case "version":
		fmt.Println("metalint IR:", ir.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `metalint – metadata policy linter

Usage:
  metalint analyze --path <metadata-dir> [--out <reports-dir>] [--rules pack.yaml] [--config metalint.yaml]
                   [--db waivers.db] [--workers 4] [--min-severity MINOR] [--fail-on HIGH] [--format json,html,text]
  metalint rules   [--rules pack.yaml] [--config metalint.yaml]
  metalint diff    --base <run.json> --head <run.json> [--out <reports-dir>]
  metalint waiver  add --rule <id> --reason <text> [--path-sub s] [--pattern-sub s] [--expires RFC3339] [--by user] [--db waivers.db]
  metalint waiver  list [--active] [--db waivers.db]
  metalint waiver  revoke --id <n> [--db waivers.db]
  metalint version
`)
}

// loadRuleSet compiles the pack and applies threshold/disabled settings. Any
// configuration error aborts the run: a dropped rule is a silent policy gap.
func loadRuleSet(cfg shared.Config) (*rules.Set, error) {
	rs, err := rulesdsl.Load(cfg.Rules.Pack)
	if err != nil {
		return nil, err
	}
	settings, err := rules.NewSettings(cfg.Rules.SeverityThreshold, cfg.Rules.Disabled)
	if err != nil {
		return nil, err
	}
	return rules.NewSet(rs, settings)
}

func analyzeCmd(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Path to metadata directory or file")
	outDir := fs.String("out", "", "Output directory for reports")
	packPath := fs.String("rules", "", "Rule pack YAML (default: embedded pack)")
	dbPath := fs.String("db", "", "SQLite waiver database (optional)")
	workers := fs.Int("workers", 0, "Files evaluated in parallel")
	minSev := fs.String("min-severity", "", "Drop rules below this severity")
	failOn := fs.String("fail-on", "", "Exit 1 when a finding reaches this severity")
	formats := fs.String("format", "", "Comma separated report formats: json,html,text")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "analyze: config:", err)
		return 2
	}

	*inPath = applyFlags(&cfg, analyzeFlags{
		path:        *inPath,
		outDir:      *outDir,
		pack:        *packPath,
		db:          *dbPath,
		workers:     *workers,
		minSeverity: *minSev,
		failOn:      *failOn,
		formats:     *formats,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		return 2
	}
	shared.InitLogger(os.Stderr, cfg.Logging.Format, cfg.Logging.Level)

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "analyze: --path (or analysis.sources in config) is required")
		return 2
	}

	set, err := loadRuleSet(cfg)
	if err != nil {
		slog.Error("rule configuration error", "err", err)
		return 2
	}

	waivers := append([]rules.Waiver(nil), cfg.Waivers...)
	if cfg.Database.DSN != "" {
		db, err := openDB(cfg.Database.DSN)
		if err != nil {
			slog.Error("db open error", "err", err)
			return 1
		}
		stored, err := db.ListWaivers(true)
		_ = db.Close()
		if err != nil {
			slog.Error("load waivers error", "err", err)
			return 1
		}
		waivers = append(waivers, stored...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := ir.Run{
		ID:        "run-" + uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Source:    filepath.Clean(*inPath),
		IRVersion: ir.Version,
		Context: ir.Context{
			RuleSeverityThreshold: strings.ToUpper(cfg.Rules.SeverityThreshold),
			DisabledRules:         cfg.Rules.Disabled,
			RulePack:              cfg.Rules.Pack,
			Workers:               cfg.Analysis.Workers,
		},
	}
	res, err := scanner.Scan(ctx, *inPath, set, scanner.Options{
		Suffixes:          cfg.Analysis.Suffixes,
		ManagedNamespaces: cfg.Analysis.ManagedNamespaces,
		Workers:           cfg.Analysis.Workers,
		Waivers:           waivers,
	})
	if err != nil {
		slog.Error("scan error", "err", err)
		return 1
	}
	if len(res.Diagnostics.Warnings) > 0 {
		slog.Warn("scan warnings", "warnings", res.Diagnostics.Warnings)
	}
	run.Files = res.Files
	run.Findings = res.Findings
	run.Waived = res.Waived

	paths, err := writeReports(&run, cfg.Reporting.OutDir, cfg.Reporting.Formats)
	if err != nil {
		slog.Error("report error", "err", err)
		return 1
	}
	slog.Info("analyze complete",
		"run", run.ID,
		"files", len(run.Files),
		"findings", len(run.Findings),
		"waived", run.Waived,
		"reports", paths,
	)

	if failed(run.Findings, cfg.Reporting.FailOn) {
		return 1
	}
	return 0
}

// analyzeFlags holds the analyze flags that override config values.
type analyzeFlags struct {
	path, outDir, pack, db string
	workers                int
	minSeverity, failOn    string
	formats                string
}

// applyFlags overlays non-empty flags on cfg and returns the path to scan.
// Precedence: flags > config > defaults.
func applyFlags(cfg *shared.Config, f analyzeFlags) string {
	path := f.path
	if path == "" && len(cfg.Analysis.Sources) > 0 {
		path = cfg.Analysis.Sources[0]
	}
	if f.outDir != "" {
		cfg.Reporting.OutDir = f.outDir
	}
	if f.pack != "" {
		cfg.Rules.Pack = f.pack
	}
	if f.db != "" {
		cfg.Database.DSN = f.db
	}
	if f.workers > 0 {
		cfg.Analysis.Workers = f.workers
	}
	if f.minSeverity != "" {
		cfg.Rules.SeverityThreshold = f.minSeverity
	}
	if f.failOn != "" {
		cfg.Reporting.FailOn = f.failOn
	}
	if f.formats != "" {
		cfg.Reporting.Formats = strings.Split(f.formats, ",")
	}
	return path
}

// failed reports whether any finding reaches the failOn severity. An empty
// or unparsable failOn never fails; Validate rejects the latter earlier.
func failed(findings []ir.Finding, failOn string) bool {
	if failOn == "" {
		return false
	}
	gate, err := rules.ParseSeverity(failOn)
	if err != nil {
		return false
	}
	for _, f := range findings {
		if f.Severity.AtLeast(gate) {
			return true
		}
	}
	return false
}

func writeReports(run *ir.Run, outDir string, formats []string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		var (
			p   string
			err error
		)
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "text":
			err = reporting.WriteText(os.Stdout, run)
		case "json":
			if err = os.MkdirAll(outDir, 0o755); err == nil {
				p, err = reporting.WriteJSON(run.ID, outDir, run)
			}
		case "html":
			if err = os.MkdirAll(outDir, 0o755); err == nil {
				p, err = reporting.WriteHTML(run.ID, outDir, run)
			}
		default:
			err = fmt.Errorf("unknown report format %q", format)
		}
		if err != nil {
			return paths, err
		}
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func rulesCmd(args []string) int {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	packPath := fs.String("rules", "", "Rule pack YAML (default: embedded pack)")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rules: config:", err)
		return 2
	}
	if *packPath != "" {
		cfg.Rules.Pack = *packPath
	}
	set, err := loadRuleSet(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rules:", err)
		return 2
	}
	active := map[string]bool{}
	for _, r := range set.List() {
		active[r.ID()] = true
	}
	for _, r := range set.All() {
		state := ""
		if !active[r.ID()] {
			state = " (disabled)"
		}
		fmt.Printf("%-36s %-8s %s%s\n", r.ID(), r.Severity(), r.Summary(), state)
	}
	return 0
}

func diffCmd(args []string) int {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	base := fs.String("base", "", "Base run JSON report")
	head := fs.String("head", "", "Head run JSON report")
	outDir := fs.String("out", "./reports", "Output directory")
	_ = fs.Parse(args)

	if *base == "" || *head == "" {
		fmt.Fprintln(os.Stderr, "diff: --base and --head are required")
		return 2
	}
	br, err := reporting.ReadJSON(*base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "diff:", err)
		return 1
	}
	hr, err := reporting.ReadJSON(*head)
	if err != nil {
		fmt.Fprintln(os.Stderr, "diff:", err)
		return 1
	}
	path, err := reporting.WriteDiffJSON(*outDir, &br, &hr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "diff:", err)
		return 1
	}
	fmt.Printf("Diff OK\n  %s\n", path)
	return 0
}

func openDB(dsn string) (*storage.DB, error) {
	db, err := storage.OpenSQLite(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func waiverCmd(args []string) int {
	if len(args) < 1 {
		usage()
		return 2
	}
	fs := flag.NewFlagSet("waiver "+args[0], flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite waiver database")
	ruleID := fs.String("rule", "", "Rule ID to waive")
	reason := fs.String("reason", "", "Why the violation is accepted")
	pathSub := fs.String("path-sub", "", "Only waive paths containing this text")
	patternSub := fs.String("pattern-sub", "", "Only waive findings whose message or evidence contains this text")
	expires := fs.String("expires", "", "Expiry (RFC3339); empty never expires")
	by := fs.String("by", os.Getenv("USER"), "Who created the waiver")
	id := fs.Int64("id", 0, "Waiver ID")
	activeOnly := fs.Bool("active", false, "Only list active waivers")
	_ = fs.Parse(args[1:])

	if *dbPath == "" {
		cfg, err := shared.LoadConfig("")
		if err == nil {
			*dbPath = cfg.Database.DSN
		}
	}
	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "waiver: --db (or METALINT_DB_DSN) is required")
		return 2
	}
	db, err := openDB(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "waiver:", err)
		return 1
	}
	defer db.Close()

	switch args[0] {
	case "add":
		w := rules.Waiver{RuleID: *ruleID, PathSub: *pathSub, PatternSub: *patternSub, Reason: *reason, CreatedBy: *by}
		if *expires != "" {
			t, err := time.Parse(time.RFC3339, *expires)
			if err != nil {
				fmt.Fprintln(os.Stderr, "waiver: bad --expires (use RFC3339):", err)
				return 2
			}
			w.ExpiresAt = t
		}
		newID, err := db.CreateWaiver(w)
		if err != nil {
			fmt.Fprintln(os.Stderr, "waiver:", err)
			return 1
		}
		_ = db.LogAudit(w.CreatedBy, "waiver:create", w.RuleID, map[string]any{"id": newID})
		fmt.Printf("Waiver %d created\n", newID)
	case "list":
		ws, err := db.ListWaivers(*activeOnly)
		if err != nil {
			fmt.Fprintln(os.Stderr, "waiver:", err)
			return 1
		}
		for _, w := range ws {
			exp := "never"
			if !w.ExpiresAt.IsZero() {
				exp = w.ExpiresAt.Format(time.RFC3339)
			}
			state := "active"
			if w.RevokedAt != nil {
				state = "revoked"
			} else if !w.Active(time.Now()) {
				state = "expired"
			}
			fmt.Printf("%4d  %-36s %-8s expires=%s path~%q pattern~%q  %s\n",
				w.ID, w.RuleID, state, exp, w.PathSub, w.PatternSub, w.Reason)
		}
	case "revoke":
		if *id <= 0 {
			fmt.Fprintln(os.Stderr, "waiver: --id is required")
			return 2
		}
		if err := db.RevokeWaiver(*id); err != nil {
			if errors.Is(err, storage.ErrWaiverNotFound) {
				fmt.Fprintln(os.Stderr, "waiver:", err)
				return 2
			}
			fmt.Fprintln(os.Stderr, "waiver:", err)
			return 1
		}
		_ = db.LogAudit(*by, "waiver:revoke", "", map[string]any{"id": *id})
		fmt.Printf("Waiver %d revoked\n", *id)
	default:
		usage()
		return 2
	}
	return 0
}
