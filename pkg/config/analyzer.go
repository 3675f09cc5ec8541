package config

import "runtime"

const (
	// DefaultMaxFileSize is the largest file analyzed by default.
	DefaultMaxFileSize = MB

	// DefaultMaxFilesInFlight is how many files are analyzed concurrently.
	DefaultMaxFilesInFlight = 4
)

// DefaultExtensions are the file extensions analyzed when walking
// directories.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}

// DefaultExclude are the doublestar patterns skipped when walking
// directories.
var DefaultExclude = []string{"**/node_modules/**", "**/dist/**"}

// AnalyzerConfig controls file discovery and rule execution.
type AnalyzerConfig struct {
	// Parallel runs the rules of one file concurrently. Results keep
	// registration order.
	// Default: false
	Parallel *bool `json:"parallel,omitempty" koanf:"parallel" toml:"parallel,omitempty"`

	// MaxWorkers bounds concurrent rules when Parallel is set.
	// Default: runtime.NumCPU()
	MaxWorkers *int `json:"max_workers,omitempty" jsonschema:"minimum=0" koanf:"max_workers" toml:"max_workers,omitempty"`

	// MaxFileSize is the largest file analyzed. Larger files are reported
	// as errors.
	// Default: "1MiB"
	MaxFileSize ByteSize `json:"max_file_size,omitempty" koanf:"max_file_size" toml:"max_file_size,omitempty"`

	// MaxFilesInFlight bounds how many files are analyzed concurrently.
	// Default: 4
	MaxFilesInFlight *int `json:"max_files_in_flight,omitempty" jsonschema:"minimum=0" koanf:"max_files_in_flight" toml:"max_files_in_flight,omitempty"`

	// Extensions lists the file extensions picked up from directories.
	// Explicitly named files are always analyzed.
	Extensions []string `json:"extensions,omitempty" koanf:"extensions" toml:"extensions,omitempty"`

	// Exclude lists doublestar patterns skipped when walking directories.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude" toml:"exclude,omitempty"`
}

// IsParallel returns whether rules run concurrently.
func (c *AnalyzerConfig) IsParallel() bool {
	if c == nil || c.Parallel == nil {
		return false
	}

	return *c.Parallel
}

// GetMaxWorkers returns the configured worker bound or runtime.NumCPU().
func (c *AnalyzerConfig) GetMaxWorkers() int {
	if c == nil || c.MaxWorkers == nil || *c.MaxWorkers <= 0 {
		return runtime.NumCPU()
	}

	return *c.MaxWorkers
}

// GetMaxFileSize returns the configured size limit or the default.
func (c *AnalyzerConfig) GetMaxFileSize() ByteSize {
	if c == nil || c.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}

	return c.MaxFileSize
}

// GetMaxFilesInFlight returns the configured file concurrency or the
// default.
func (c *AnalyzerConfig) GetMaxFilesInFlight() int {
	if c == nil || c.MaxFilesInFlight == nil || *c.MaxFilesInFlight <= 0 {
		return DefaultMaxFilesInFlight
	}

	return *c.MaxFilesInFlight
}

// GetExtensions returns the configured extensions or the defaults.
func (c *AnalyzerConfig) GetExtensions() []string {
	if c == nil || len(c.Extensions) == 0 {
		return DefaultExtensions
	}

	return c.Extensions
}

// GetExclude returns the configured exclude patterns or the defaults.
func (c *AnalyzerConfig) GetExclude() []string {
	if c == nil || c.Exclude == nil {
		return DefaultExclude
	}

	return c.Exclude
}
