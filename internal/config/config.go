// Package config implements the plain configuration record of spec §6:
// loaded from JSON (the wire format §6 itself mandates), with a small
// hand-rolled parser for the `target_triple` field, grounded in the
// teacher's own hand-rolled C/JS header scanners
// (cmd/generator/c/parser.go, cmd/generator/javascript/parser.go) —
// a direct token scan rather than a regular expression.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Alias is one {from, to} name pair (§6 `aliases`).
type Alias struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// OnPlatformDivergence governs the platform-merge post-pass (SPEC_FULL.md
// "Multi-platform merge"): PerPlatform keeps a divergent function or
// record as one variant per target triple (see pipeline.MergedSurface),
// Error raises MergePlatformNodes and drops it instead.
type OnPlatformDivergence string

const (
	PerPlatform       OnPlatformDivergence = "PerPlatform"
	ErrorOnDivergence OnPlatformDivergence = "Error"
)

// Config is the §6 configuration record.
type Config struct {
	InputHeaderPath      string               `json:"input_header_path"`
	IncludeDirectories   []string             `json:"include_directories,omitempty"`
	TargetTriple         string               `json:"target_triple"`
	Aliases              []Alias              `json:"aliases,omitempty"`
	IgnoredNames         []string             `json:"ignored_names,omitempty"`
	ClassName            string               `json:"class_name"`
	LibraryName          string               `json:"library_name"`
	EmitSystemTypes      bool                 `json:"emit_system_types"`
	OnPlatformDivergence OnPlatformDivergence `json:"on_platform_divergence,omitempty"`
}

// Error wraps any failure to load or validate a Config. cmd/c2x matches on
// this type to pick exit code 2 ("configuration error", §6) rather than the
// generic exit code 1.
type Error struct {
	err error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

func configErrorf(format string, args ...any) *Error {
	return &Error{err: fmt.Errorf(format, args...)}
}

// Load reads and parses a Config from path, validating the required
// fields (§6 "input_header_path (required)").
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, configErrorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OnPlatformDivergence == "" {
		c.OnPlatformDivergence = PerPlatform
	}
}

// Validate checks the fields the Emitter/pipeline can't proceed without
// (§6 exit code 2, "configuration error").
func (c *Config) Validate() error {
	if c.InputHeaderPath == "" {
		return configErrorf("config: input_header_path is required")
	}
	switch c.OnPlatformDivergence {
	case PerPlatform, ErrorOnDivergence:
	default:
		return configErrorf("config: on_platform_divergence %q is neither %q nor %q", c.OnPlatformDivergence, PerPlatform, ErrorOnDivergence)
	}
	return nil
}

// AliasMap returns the alias list as a from->to map, the shape
// internal/mapt's Config actually wants.
func (c *Config) AliasMap() map[string]string {
	out := make(map[string]string, len(c.Aliases))
	for _, a := range c.Aliases {
		out[a.From] = a.To
	}
	return out
}

// IgnoredNameSet returns ignored_names as a set.
func (c *Config) IgnoredNameSet() map[string]bool {
	out := make(map[string]bool, len(c.IgnoredNames))
	for _, n := range c.IgnoredNames {
		out[n] = true
	}
	return out
}
