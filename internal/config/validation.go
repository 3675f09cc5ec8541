package config

import (
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codeaudit/internal/catalog"
	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/config"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidVersion is returned for an unsupported config version.
	ErrInvalidVersion = errors.New("unsupported config version")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrUnknownRule is returned when a rule name is not in the catalog.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrInvalidThreshold is returned for an out-of-range numeric setting.
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrInvalidExtension is returned for an extension without a leading dot.
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrInvalidPattern is returned for a malformed exclude pattern.
	ErrInvalidPattern = errors.New("invalid exclude pattern")
)

// Validator validates configuration semantics.
type Validator struct {
	ruleNames []string
}

// NewValidator creates a new Validator that checks rule names against the
// built-in catalog.
func NewValidator() *Validator {
	return &Validator{ruleNames: catalog.Names()}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	validationErrors := v.collect(cfg)

	if len(validationErrors) > 0 {
		messages := make([]string, len(validationErrors))
		for i, err := range validationErrors {
			messages[i] = err.Error()
		}

		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s): %s",
				len(validationErrors),
				strings.Join(messages, "; "),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

// collect runs every check and returns the failures in field order.
func (v *Validator) collect(cfg *config.Config) []error {
	var validationErrors []error

	if cfg.Version != 0 && cfg.Version != config.CurrentConfigVersion {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidVersion,
			"version: got %d, supported %d",
			cfg.Version,
			config.CurrentConfigVersion,
		))
	}

	if cfg.Analyzer != nil {
		validationErrors = append(validationErrors, v.validateAnalyzerConfig(cfg.Analyzer)...)
	}

	if cfg.Rules != nil {
		validationErrors = append(validationErrors, v.validateRulesConfig(cfg.Rules)...)
	}

	if cfg.Output != nil {
		validationErrors = append(validationErrors, v.validateOutputConfig(cfg.Output)...)
	}

	return validationErrors
}

func (*Validator) validateAnalyzerConfig(cfg *config.AnalyzerConfig) []error {
	var errs []error

	if cfg.MaxWorkers != nil && *cfg.MaxWorkers < 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidThreshold, "analyzer.max_workers: must be >= 0, got %d", *cfg.MaxWorkers))
	}

	if cfg.MaxFilesInFlight != nil && *cfg.MaxFilesInFlight < 0 {
		errs = append(errs, errors.Wrapf(
			ErrInvalidThreshold,
			"analyzer.max_files_in_flight: must be >= 0, got %d",
			*cfg.MaxFilesInFlight,
		))
	}

	if cfg.MaxFileSize < 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidThreshold, "analyzer.max_file_size: must be >= 0, got %d", cfg.MaxFileSize))
	}

	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, errors.Wrapf(ErrInvalidExtension, "analyzer.extensions: %q must start with a dot", ext))
		}
	}

	for _, p := range cfg.Exclude {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, errors.Wrapf(ErrInvalidPattern, "analyzer.exclude: %q", p))
		}
	}

	return errs
}

func (v *Validator) validateRulesConfig(cfg *config.RulesConfig) []error {
	var errs []error

	for _, name := range cfg.Disabled {
		if !slices.Contains(v.ruleNames, name) {
			errs = append(errs, errors.Wrapf(
				ErrUnknownRule,
				"rules.disabled: %q, known rules are %s",
				name,
				strings.Join(v.ruleNames, ", "),
			))
		}
	}

	if co := cfg.CodeOrganization; co != nil {
		if co.MaxLines != nil && *co.MaxLines < 1 {
			errs = append(errs, errors.Wrapf(
				ErrInvalidThreshold,
				"rules.code_organization.max_lines: must be >= 1, got %d",
				*co.MaxLines,
			))
		}

		if co.MaxNesting != nil && *co.MaxNesting < 1 {
			errs = append(errs, errors.Wrapf(
				ErrInvalidThreshold,
				"rules.code_organization.max_nesting: must be >= 1, got %d",
				*co.MaxNesting,
			))
		}
	}

	return errs
}

func (*Validator) validateOutputConfig(cfg *config.OutputConfig) []error {
	var errs []error

	if cfg.Format != "" && !slices.Contains(config.Formats, cfg.Format) {
		errs = append(errs, errors.Wrapf(
			ErrInvalidFormat,
			"output.format: %q, must be one of %s",
			cfg.Format,
			strings.Join(config.Formats, ", "),
		))
	}

	if cfg.FailOn != "" {
		if _, err := rule.ParseSeverity(cfg.FailOn); err != nil {
			errs = append(errs, errors.Wrap(err, "output.fail_on"))
		}
	}

	if cfg.MinScore != nil && (*cfg.MinScore < 0 || *cfg.MinScore > 100) {
		errs = append(errs, errors.Wrapf(ErrInvalidThreshold, "output.min_score: must be within 0..100, got %d", *cfg.MinScore))
	}

	return errs
}

// combineErrors combines multiple errors into a single error.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
