package architecture

import (
	"fmt"
	"strings"

	"github.com/smykla-skalski/codeaudit/internal/rule"
)

const (
	// DefaultMaxLines is the line count above which a file is too long.
	DefaultMaxLines = 500

	// DefaultMaxNesting is the brace depth above which nesting is too deep.
	DefaultMaxNesting = 5
)

// CodeOrganization flags long files and deep brace nesting.
type CodeOrganization struct {
	*rule.BaseRule

	maxLines   int
	maxNesting int
}

// CodeOrganizationOption configures thresholds.
type CodeOrganizationOption func(*CodeOrganization)

// WithMaxLines overrides DefaultMaxLines. Non-positive values are ignored.
func WithMaxLines(n int) CodeOrganizationOption {
	return func(r *CodeOrganization) {
		if n > 0 {
			r.maxLines = n
		}
	}
}

// WithMaxNesting overrides DefaultMaxNesting. Non-positive values are
// ignored.
func WithMaxNesting(n int) CodeOrganizationOption {
	return func(r *CodeOrganization) {
		if n > 0 {
			r.maxNesting = n
		}
	}
}

// NewCodeOrganization creates the code-organization detector.
func NewCodeOrganization(opts ...CodeOrganizationOption) *CodeOrganization {
	r := &CodeOrganization{
		BaseRule: rule.NewBaseRule(
			"code-organization",
			"Checks file length and brace nesting depth",
			rule.SeverityLow,
			rule.GroupArchitecture,
			version,
		),
		maxLines:   DefaultMaxLines,
		maxNesting: DefaultMaxNesting,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// MaxLines returns the configured line threshold.
func (r *CodeOrganization) MaxLines() int {
	return r.maxLines
}

// MaxNesting returns the configured nesting threshold.
func (r *CodeOrganization) MaxNesting() int {
	return r.maxNesting
}

// Check counts braces textually, so braces in strings and comments count
// too.
func (r *CodeOrganization) Check(in *rule.Input) ([]rule.Violation, error) {
	var violations []rule.Violation

	if n := len(in.Lines); n > r.maxLines {
		violations = append(violations, r.Report(
			rule.SeverityLow,
			fmt.Sprintf("File is very long (%d lines). Consider splitting into smaller modules", n),
			"Split large files into smaller, focused modules",
		))
	}

	if depth := maxBraceDepth(in.Lines); depth > r.maxNesting {
		violations = append(violations, r.Report(
			rule.SeverityLow,
			fmt.Sprintf("High nesting level detected (%d levels). Consider refactoring", depth),
			"Reduce nesting by extracting functions or using early returns",
		))
	}

	return violations, nil
}

// maxBraceDepth tracks the running brace balance line by line.
func maxBraceDepth(lines []string) int {
	current, deepest := 0, 0

	for _, line := range lines {
		current += strings.Count(line, "{") - strings.Count(line, "}")
		deepest = max(deepest, current)
	}

	return deepest
}
