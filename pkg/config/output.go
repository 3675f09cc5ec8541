package config

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// OutputConfig controls rendering and the CLI exit status.
type OutputConfig struct {
	// Format is the report format.
	// Default: "table"
	Format string `json:"format,omitempty" jsonschema:"enum=table,enum=json,enum=yaml" koanf:"format" toml:"format,omitempty"`

	// FailOn is the severity at or above which any violation fails the run.
	// Empty disables the check.
	FailOn string `json:"fail_on,omitempty" jsonschema:"enum=,enum=low,enum=medium,enum=high,enum=critical" koanf:"fail_on" toml:"fail_on,omitempty"`

	// MinScore fails the run when any file scores below it.
	// Default: 0
	MinScore *int `json:"min_score,omitempty" jsonschema:"minimum=0,maximum=100" koanf:"min_score" toml:"min_score,omitempty"`
}

// GetFormat returns the configured format or FormatTable.
func (c *OutputConfig) GetFormat() string {
	if c == nil || c.Format == "" {
		return FormatTable
	}

	return c.Format
}

// GetMinScore returns the configured minimum score or 0.
func (c *OutputConfig) GetMinScore() int {
	if c == nil || c.MinScore == nil {
		return 0
	}

	return *c.MinScore
}
