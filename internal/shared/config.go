package shared

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/metalint/internal/rules"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // waiver store, "" disables it
	} `yaml:"database"`

	Analysis struct {
		Sources           []string `yaml:"sources"`            // ["./force-app"]
		Suffixes          []string `yaml:"suffixes"`           // ["-meta.xml"]
		ManagedNamespaces []string `yaml:"managed_namespaces"` // ["acme"]
		Workers           int      `yaml:"workers"`
	} `yaml:"analysis"`

	Rules struct {
		Pack              string   `yaml:"pack"`               // "" = embedded default pack
		SeverityThreshold string   `yaml:"severity_threshold"` // MINOR|MODERATE|HIGH
		Disabled          []string `yaml:"disabled"`
	} `yaml:"rules"`

	Reporting struct {
		OutDir  string   `yaml:"out_dir"` // "./reports"
		Formats []string `yaml:"formats"` // json|html|text
		FailOn  string   `yaml:"fail_on"` // "" never fails
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`

	Waivers []rules.Waiver `yaml:"waivers"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Analysis.Suffixes = []string{"-meta.xml"}
	c.Analysis.Workers = 4
	c.Rules.SeverityThreshold = "MINOR"
	c.Reporting.OutDir = "./reports"
	c.Reporting.Formats = []string{"json", "html"}
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

// LoadConfig reads path (optional) over the defaults, applies env overrides
// and validates the result.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return c, fmt.Errorf("decode config: %w", err)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("METALINT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("METALINT_RULES_PACK"); v != "" {
		c.Rules.Pack = v
	}
	if v := os.Getenv("METALINT_SEVERITY_THRESHOLD"); v != "" {
		c.Rules.SeverityThreshold = v
	}
	if v := os.Getenv("METALINT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.Workers = n
		}
	}
	if v := os.Getenv("METALINT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("METALINT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("METALINT_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	return c, c.Validate()
}

// Validate returns the first invalid value found.
func (c *Config) Validate() error {
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("analysis.workers must be at least 1, got %d", c.Analysis.Workers)
	}
	if _, err := rules.ParseSeverity(c.Rules.SeverityThreshold); err != nil {
		return fmt.Errorf("rules.severity_threshold: %w", err)
	}
	if c.Reporting.FailOn != "" {
		if _, err := rules.ParseSeverity(c.Reporting.FailOn); err != nil {
			return fmt.Errorf("reporting.fail_on: %w", err)
		}
	}
	for _, f := range c.Reporting.Formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "json", "html", "text":
		default:
			return fmt.Errorf("reporting.formats: unknown format %q", f)
		}
	}
	if d := strings.ToLower(c.Database.Driver); d != "" && d != "sqlite" {
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	for i, w := range c.Waivers {
		if w.RuleID == "" || w.Reason == "" {
			return fmt.Errorf("waivers[%d]: rule_id and reason are required", i)
		}
	}
	return nil
}
