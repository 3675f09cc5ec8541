// Package tui collects the answers for `codeaudit init`: a huh form on a
// terminal, line prompts everywhere else.
package tui

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	internalconfig "github.com/smykla-skalski/codeaudit/internal/config"
	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/config"
)

// NeverFail is the fail-on answer that disables the severity gate.
const NeverFail = "none"

// UI defines the interface for terminal user interface operations.
type UI interface {
	// RunInitForm asks for the initial configuration.
	RunInitForm(opts InitFormOptions) (*InitFormResult, error)

	// IsInteractive returns true if running in an interactive terminal.
	IsInteractive() bool
}

// InitFormOptions contains options for the init form.
type InitFormOptions struct {
	// Global indicates whether this is a global or project config.
	Global bool

	// Rules are the rule names offered for disabling.
	Rules []string

	// ShowGitExclude indicates whether to offer the git exclude option.
	ShowGitExclude bool
}

// InitFormResult contains the answers from the init form.
type InitFormResult struct {
	Format       string
	FailOn       string
	MinScore     int
	Disabled     []string
	AddToExclude bool
}

// Config applies the answers to the default configuration.
func (r *InitFormResult) Config() *config.Config {
	cfg := internalconfig.DefaultConfig()

	cfg.Output.Format = r.Format
	cfg.Output.FailOn = r.FailOn
	cfg.Output.MinScore = &r.MinScore
	cfg.Rules.Disabled = append([]string{}, r.Disabled...)

	return cfg
}

func validateFormat(s string) error {
	if !slices.Contains(config.Formats, s) {
		return errors.Wrapf(internalconfig.ErrInvalidFormat, "%q, must be one of %s", s, strings.Join(config.Formats, ", "))
	}

	return nil
}

// parseFailOn maps NeverFail and the empty answer to "" and checks the rest
// are severities.
func parseFailOn(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == NeverFail {
		return "", nil
	}

	if _, err := rule.ParseSeverity(s); err != nil {
		return "", err
	}

	return s, nil
}

func parseMinScore(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100 {
		return 0, errors.Wrapf(internalconfig.ErrInvalidThreshold, "minimum score %q, must be within 0..100", s)
	}

	return n, nil
}

func parseDisabled(s string, known []string) ([]string, error) {
	var out []string

	for name := range strings.SplitSeq(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if !slices.Contains(known, name) {
			return nil, errors.Wrapf(internalconfig.ErrUnknownRule, "%q", name)
		}

		out = append(out, name)
	}

	return out, nil
}
