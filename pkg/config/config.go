// Package config provides configuration schema types for codeaudit.
package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration for codeaudit.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Analyzer controls how files are discovered and analyzed.
	Analyzer *AnalyzerConfig `json:"analyzer,omitempty" koanf:"analyzer" toml:"analyzer,omitempty"`

	// Rules controls which rules run and their thresholds.
	Rules *RulesConfig `json:"rules,omitempty" koanf:"rules" toml:"rules,omitempty"`

	// Output controls rendering and CI thresholds.
	Output *OutputConfig `json:"output,omitempty" koanf:"output" toml:"output,omitempty"`
}

// GetAnalyzer returns the analyzer config, creating it if it doesn't exist.
func (c *Config) GetAnalyzer() *AnalyzerConfig {
	if c.Analyzer == nil {
		c.Analyzer = &AnalyzerConfig{}
	}

	return c.Analyzer
}

// GetRules returns the rules config, creating it if it doesn't exist.
func (c *Config) GetRules() *RulesConfig {
	if c.Rules == nil {
		c.Rules = &RulesConfig{}
	}

	return c.Rules
}

// GetOutput returns the output config, creating it if it doesn't exist.
func (c *Config) GetOutput() *OutputConfig {
	if c.Output == nil {
		c.Output = &OutputConfig{}
	}

	return c.Output
}
