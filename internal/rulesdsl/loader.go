package rulesdsl

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/metalint/internal/rules"
)

// Rule kinds accepted in a pack.
const (
	KindIncludesDescription = "includes_description"
	KindEqualsBoolean       = "equals_boolean"
	KindSkipAutomation      = "skip_automation"
	KindDeactivatedMetadata = "deactivated_metadata"
	KindNamingConvention    = "naming_convention"
)

//go:embed default_pack.yaml
var defaultPack []byte

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	ID      string   `yaml:"id"`
	Kind    string   `yaml:"kind"`
	Summary string   `yaml:"summary"`
	Files   []string `yaml:"files"` // glob scope over slash separated paths (optional)

	SurroundingText string `yaml:"surrounding_text"` // equals_boolean
	Marker          string `yaml:"marker"`           // skip_automation
	ActiveFlag      string `yaml:"active_flag"`      // deactivated_metadata
	Pattern         string `yaml:"pattern"`          // naming_convention
}

// Load reads and compiles a rule pack. An empty path selects the embedded
// default pack.
func Load(path string) ([]rules.Rule, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules pack: %w", err)
	}
	return Parse(b)
}

// Default compiles the embedded default pack.
func Default() ([]rules.Rule, error) {
	return Parse(defaultPack)
}

// Parse compiles a YAML rule pack. Every entry must compile: one broken rule
// fails the whole pack, so a policy is never dropped silently.
func Parse(b []byte) ([]rules.Rule, error) {
	var pack dslPack
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&pack); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(pack.Rules) == 0 {
		return nil, fmt.Errorf("rules pack declares no rules")
	}
	out := make([]rules.Rule, 0, len(pack.Rules))
	for i, r := range pack.Rules {
		cr, err := compile(r)
		if err != nil {
			name := r.ID
			if name == "" {
				name = r.Kind
			}
			return nil, fmt.Errorf("compile rule #%d %q: %w", i+1, name, err)
		}
		out = append(out, cr)
	}
	return out, nil
}

func compile(r dslRule) (rules.Rule, error) {
	opts := []rules.Option{rules.WithID(strings.TrimSpace(r.ID)), rules.WithSummary(r.Summary)}

	var (
		rule rules.Rule
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(r.Kind)) {
	case KindIncludesDescription:
		rule = rules.NewIncludesDescriptionRule(opts...)
	case KindEqualsBoolean:
		rule, err = rules.NewIncludesEqualsBooleanRule(r.SurroundingText, opts...)
	case KindSkipAutomation:
		rule, err = rules.NewSkipAutomationRule(r.Marker, opts...)
	case KindDeactivatedMetadata:
		rule, err = rules.NewDeactivatedMetadataRule(r.ActiveFlag, opts...)
	case KindNamingConvention:
		if r.Pattern == "" {
			return nil, fmt.Errorf("%w: pattern is required", rules.ErrInvalidPattern)
		}
		rule, err = rules.NewNamingConventionRule(r.Pattern, opts...)
	case "":
		return nil, fmt.Errorf("missing required field kind")
	default:
		return nil, fmt.Errorf("unknown kind %q", r.Kind)
	}
	if err != nil {
		return nil, err
	}

	if len(r.Files) == 0 {
		return rule, nil
	}
	globs := make([]glob.Glob, 0, len(r.Files))
	for _, f := range r.Files {
		g, err := glob.Compile(f, '/')
		if err != nil {
			return nil, fmt.Errorf("files glob %q: %w", f, err)
		}
		globs = append(globs, g)
	}
	return rules.Scoped(rule, func(path string) bool {
		for _, g := range globs {
			if g.Match(path) {
				return true
			}
		}
		return false
	}), nil
}
