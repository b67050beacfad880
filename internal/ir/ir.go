package ir

import (
	"time"

	"github.com/codewithboateng/metalint/internal/rules"
)

const Version = "1.0"

type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	IRVersion string    `json:"ir_version,omitempty"`

	Context  Context   `json:"context"`
	Files    []File    `json:"files"`
	Findings []Finding `json:"findings,omitempty"`
	Waived   int       `json:"waived,omitempty"`
}

type Context struct {
	RuleSeverityThreshold string   `json:"rule_severity_threshold,omitempty"`
	DisabledRules         []string `json:"disabled_rules,omitempty"`
	RulePack              string   `json:"rule_pack,omitempty"`
	Workers               int      `json:"workers,omitempty"`
}

// File is one scanned metadata unit.
type File struct {
	Path     string `json:"path"`
	Managed  bool   `json:"managed,omitempty"`
	Findings int    `json:"findings"`
}

type Finding struct {
	ID       string         `json:"id"`
	RuleID   string         `json:"rule_id"`
	Severity rules.Severity `json:"severity"`
	Path     string         `json:"path"`
	Message  string         `json:"message"`
	// Offset and Line are set only for rules that localize the match.
	// Offset is a byte offset, Line is 1-based.
	Offset   int    `json:"offset,omitempty"`
	Line     int    `json:"line,omitempty"`
	Evidence string `json:"evidence,omitempty"`
}
