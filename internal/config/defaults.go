package config

import (
	"github.com/smykla-skalski/codeaudit/pkg/config"
)

// DefaultConfig returns a Config with all default values populated. It is
// what `codeaudit init` writes.
func DefaultConfig() *config.Config {
	return &config.Config{
		Version:  config.CurrentConfigVersion,
		Analyzer: DefaultAnalyzerConfig(),
		Rules:    DefaultRulesConfig(),
		Output:   DefaultOutputConfig(),
	}
}

// DefaultAnalyzerConfig returns the default analyzer configuration. Worker
// count is left unset so it follows the machine.
func DefaultAnalyzerConfig() *config.AnalyzerConfig {
	parallel := false
	inFlight := config.DefaultMaxFilesInFlight

	return &config.AnalyzerConfig{
		Parallel:         &parallel,
		MaxFileSize:      config.DefaultMaxFileSize,
		MaxFilesInFlight: &inFlight,
		Extensions:       append([]string(nil), config.DefaultExtensions...),
		Exclude:          append([]string(nil), config.DefaultExclude...),
	}
}

// DefaultRulesConfig returns the default rules configuration: every rule
// enabled with the package thresholds.
func DefaultRulesConfig() *config.RulesConfig {
	maxLines := config.DefaultMaxLines
	maxNesting := config.DefaultMaxNesting

	return &config.RulesConfig{
		Disabled: []string{},
		CodeOrganization: &config.CodeOrganizationConfig{
			MaxLines:   &maxLines,
			MaxNesting: &maxNesting,
		},
	}
}

// DefaultOutputConfig returns the default output configuration.
func DefaultOutputConfig() *config.OutputConfig {
	minScore := 0

	return &config.OutputConfig{
		Format:   config.FormatTable,
		MinScore: &minScore,
	}
}
