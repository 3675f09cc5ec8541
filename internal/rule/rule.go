// Package rule defines the detection rule abstraction and its data types.
package rule

//go:generate mockgen -source=rule.go -destination=rule_mock.go -package=rule

import (
	"github.com/Masterminds/semver/v3"

	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

// Group is the concern a rule belongs to.
type Group string

const (
	// GroupSecurity covers injection, secrets and transport hardening.
	GroupSecurity Group = "security"

	// GroupArchitecture covers structure and API hygiene.
	GroupArchitecture Group = "architecture"
)

// Rule is a self-contained detector. Implementations must not keep state
// between Check calls and must return for every valid input.
type Rule interface {
	// Name is the stable identifier stamped on every violation.
	Name() string

	// Description is a one-line summary of what the rule detects.
	Description() string

	// Severity is the nominal severity. Individual violations may differ.
	Severity() Severity

	// Check inspects the input and returns the violations found, in
	// emission order. A non-nil error discards the rule's output.
	Check(in *Input) ([]Violation, error)
}

// Versioned is implemented by rules that carry a detector version.
type Versioned interface {
	Version() *semver.Version
}

// Grouped is implemented by rules that declare their concern.
type Grouped interface {
	Group() Group
}

// BaseRule provides the descriptor half of a Rule. Concrete rules embed it
// and implement Check.
type BaseRule struct {
	name        string
	description string
	severity    Severity
	group       Group
	version     *semver.Version
}

// NewBaseRule creates a BaseRule. version must be a valid semantic version;
// rules are constructed at startup so an invalid literal is a programming
// error and panics.
func NewBaseRule(name, description string, severity Severity, group Group, version string) *BaseRule {
	return &BaseRule{
		name:        name,
		description: description,
		severity:    severity,
		group:       group,
		version:     semver.MustParse(version),
	}
}

// Name returns the rule name.
func (b *BaseRule) Name() string {
	return b.name
}

// Description returns the rule description.
func (b *BaseRule) Description() string {
	return b.description
}

// Severity returns the nominal severity.
func (b *BaseRule) Severity() Severity {
	return b.severity
}

// Group returns the rule group.
func (b *BaseRule) Group() Group {
	return b.group
}

// Version returns the detector version.
func (b *BaseRule) Version() *semver.Version {
	return b.version
}

// Report creates a whole-file violation without a location.
func (b *BaseRule) Report(severity Severity, message, recommendation string) Violation {
	return Violation{
		Rule:           b.name,
		Severity:       severity,
		Message:        message,
		Recommendation: recommendation,
	}
}

// ReportLine creates a violation pointing at a 1-based line.
func (b *BaseRule) ReportLine(in *Input, line int, severity Severity, message, recommendation string) Violation {
	v := b.Report(severity, message, recommendation)
	v.Line = line
	v.CodeSnippet = in.Snippet(line)

	return v
}

// ReportNode creates a violation at the start of an AST node.
func (b *BaseRule) ReportNode(in *Input, n ast.Node, severity Severity, message, recommendation string) Violation {
	pos := n.Pos()

	v := b.ReportLine(in, pos.Line, severity, message, recommendation)
	v.Column = pos.Column

	return v
}
