package scanner

import (
	"context"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/metalint/internal/ir"
	"github.com/codewithboateng/metalint/internal/rules"
)

// DefaultSuffix selects platform metadata files.
const DefaultSuffix = "-meta.xml"

type Options struct {
	// Suffixes selects files by case-insensitive name suffix.
	Suffixes []string
	// ManagedNamespaces lists namespace prefixes whose metadata is managed
	// centrally.
	ManagedNamespaces []string
	// Workers bounds how many files are read and evaluated at once.
	Workers int
	Waivers []rules.Waiver
	// Now is used to decide waiver expiry. Zero means time.Now().
	Now time.Time
}

type Diagnostics struct {
	Warnings []string
}

type Result struct {
	Files       []ir.File
	Findings    []ir.Finding
	Waived      int
	Diagnostics Diagnostics
}

// unit is the per-file slot a worker fills. Slots keep the output in path
// order whatever order the workers finish in.
type unit struct {
	path     string // slash separated, relative to the scan root
	abs      string
	managed  bool
	findings []ir.Finding
	waived   int
	warning  string
	skipped  bool
}

// Scan evaluates set against every matching file under root. Files are
// processed in parallel; the result is ordered by path and, within one
// file, by rule configuration order.
func Scan(ctx context.Context, root string, set *rules.Set, opts Options) (Result, error) {
	opts = withDefaults(opts)

	units, err := discover(root, opts.Suffixes)
	if err != nil {
		return Result{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range units {
		u := &units[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scanUnit(u, set, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("scan %s: %w", root, err)
	}

	var res Result
	for _, u := range units {
		if u.warning != "" {
			res.Diagnostics.Warnings = append(res.Diagnostics.Warnings, u.warning)
		}
		if u.skipped {
			continue
		}
		res.Files = append(res.Files, ir.File{Path: u.path, Managed: u.managed, Findings: len(u.findings)})
		res.Findings = append(res.Findings, u.findings...)
		res.Waived += u.waived
	}
	if len(res.Files) == 0 {
		res.Diagnostics.Warnings = append(res.Diagnostics.Warnings, "no metadata files found under "+filepath.Clean(root))
	}
	return res, nil
}

func withDefaults(o Options) Options {
	if len(o.Suffixes) == 0 {
		o.Suffixes = []string{DefaultSuffix}
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

func discover(root string, suffixes []string) ([]unit, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return []unit{{path: filepath.ToSlash(filepath.Base(root)), abs: root}}, nil
	}

	var out []unit
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasSuffix(d.Name(), suffixes) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, unit{path: filepath.ToSlash(rel), abs: p})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, nil
}

func hasSuffix(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func scanUnit(u *unit, set *rules.Set, opts Options) {
	b, err := os.ReadFile(u.abs)
	if err != nil {
		u.skipped = true
		u.warning = fmt.Sprintf("read %s: %v", u.path, err)
		return
	}
	contents := string(b)
	u.managed = IsManaged(u.path, opts.ManagedNamespaces)
	md := rules.NewMetadata(u.path, contents, u.managed)

	vs := set.Evaluate(md)
	vs, u.waived = rules.ApplyWaivers(vs, opts.Waivers, opts.Now)
	for _, v := range vs {
		u.findings = append(u.findings, toFinding(v, contents))
	}
}

func toFinding(v rules.Violation, contents string) ir.Finding {
	f := ir.Finding{
		RuleID:   v.RuleID,
		Severity: v.Severity,
		Path:     v.Path,
		Message:  v.Message,
	}
	if v.Location != nil {
		f.Offset = v.Location.Offset
		f.Line = LineAt(contents, v.Location.Offset)
		f.Evidence = snippet(v.Location.Text)
	}
	f.ID = makeID(f.RuleID, f.Path, f.Offset)
	return f
}

// LineAt translates a byte offset into a 1-based line number.
func LineAt(contents string, offset int) int {
	if offset > len(contents) {
		offset = len(contents)
	}
	if offset < 0 {
		offset = 0
	}
	return 1 + strings.Count(contents[:offset], "\n")
}

func makeID(ruleID, path string, offset int) string {
	data := fmt.Sprintf("%s|%s|%d", strings.ToUpper(ruleID), path, offset)
	return fmt.Sprintf("%s-%08x", ruleID, crc32.ChecksumIEEE([]byte(data)))
}

const maxSnippet = 200

// snippet trims s and cuts it to at most maxSnippet bytes on a rune boundary.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxSnippet {
		return s
	}
	cut := maxSnippet
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
