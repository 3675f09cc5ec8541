package config

import "slices"

const (
	// DefaultMaxLines is the default code-organization line threshold.
	DefaultMaxLines = 500

	// DefaultMaxNesting is the default code-organization nesting threshold.
	DefaultMaxNesting = 5
)

// RulesConfig selects rules and tunes their thresholds.
type RulesConfig struct {
	// Disabled lists rule names that are not registered.
	Disabled []string `json:"disabled,omitempty" koanf:"disabled" toml:"disabled,omitempty"`

	// CodeOrganization tunes the code-organization rule.
	CodeOrganization *CodeOrganizationConfig `json:"code_organization,omitempty" koanf:"code_organization" toml:"code_organization,omitempty"`
}

// CodeOrganizationConfig holds the code-organization thresholds.
type CodeOrganizationConfig struct {
	// MaxLines is the line count above which a file is reported.
	// Default: 500
	MaxLines *int `json:"max_lines,omitempty" jsonschema:"minimum=1" koanf:"max_lines" toml:"max_lines,omitempty"`

	// MaxNesting is the brace depth above which a file is reported.
	// Default: 5
	MaxNesting *int `json:"max_nesting,omitempty" jsonschema:"minimum=1" koanf:"max_nesting" toml:"max_nesting,omitempty"`
}

// IsDisabled reports whether the named rule is disabled.
func (c *RulesConfig) IsDisabled(name string) bool {
	if c == nil {
		return false
	}

	return slices.Contains(c.Disabled, name)
}

// GetCodeOrganization returns the code-organization config, creating it if
// it doesn't exist.
func (c *RulesConfig) GetCodeOrganization() *CodeOrganizationConfig {
	if c.CodeOrganization == nil {
		c.CodeOrganization = &CodeOrganizationConfig{}
	}

	return c.CodeOrganization
}

// GetMaxLines returns the configured line threshold or the default.
func (c *CodeOrganizationConfig) GetMaxLines() int {
	if c == nil || c.MaxLines == nil {
		return DefaultMaxLines
	}

	return *c.MaxLines
}

// GetMaxNesting returns the configured nesting threshold or the default.
func (c *CodeOrganizationConfig) GetMaxNesting() int {
	if c == nil || c.MaxNesting == nil {
		return DefaultMaxNesting
	}

	return *c.MaxNesting
}
