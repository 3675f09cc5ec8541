package tui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codeaudit/internal/prompt"
	"github.com/smykla-skalski/codeaudit/pkg/config"
)

// FallbackUI implements UI using simple line prompts.
// This is used when the terminal is not interactive (CI, piped input, etc.).
type FallbackUI struct {
	prompter prompt.Prompter
	out      io.Writer
}

// NewFallbackUI creates a FallbackUI on stdin and stdout.
func NewFallbackUI() *FallbackUI {
	return NewFallbackUIWithPrompter(prompt.NewStdPrompter(), os.Stdout)
}

// NewFallbackUIWithPrompter creates a FallbackUI with a custom prompter.
func NewFallbackUIWithPrompter(p prompt.Prompter, out io.Writer) *FallbackUI {
	return &FallbackUI{
		prompter: p,
		out:      out,
	}
}

// IsInteractive returns false as FallbackUI is for non-interactive terminals.
func (*FallbackUI) IsInteractive() bool {
	return false
}

// RunInitForm asks each question in turn. An empty answer keeps the
// default.
func (f *FallbackUI) RunInitForm(opts InitFormOptions) (*InitFormResult, error) {
	result := &InitFormResult{Format: config.FormatTable}

	scope := "project"
	if opts.Global {
		scope = "global"
	}

	fmt.Fprintf(f.out, "codeaudit %s configuration\n\n", scope)

	format, err := f.prompter.Input("Output format ("+strings.Join(config.Formats, ", ")+")", config.FormatTable)
	if err != nil {
		return nil, err
	}

	if err := validateFormat(format); err != nil {
		return nil, err
	}

	result.Format = format

	failOn, err := f.prompter.Input("Fail on severity (low, medium, high, critical, none)", NeverFail)
	if err != nil {
		return nil, err
	}

	if result.FailOn, err = parseFailOn(failOn); err != nil {
		return nil, err
	}

	minScore, err := f.prompter.Input("Minimum score (0-100)", strconv.Itoa(0))
	if err != nil {
		return nil, err
	}

	if result.MinScore, err = parseMinScore(minScore); err != nil {
		return nil, err
	}

	if len(opts.Rules) > 0 {
		disabled, err := f.prompter.Input("Rules to disable, comma-separated", "")
		if err != nil && !errors.Is(err, prompt.ErrEmptyInput) {
			return nil, err
		}

		if result.Disabled, err = parseDisabled(disabled, opts.Rules); err != nil {
			return nil, err
		}
	}

	if opts.ShowGitExclude {
		if result.AddToExclude, err = f.prompter.Confirm("Add config directory to .git/info/exclude?", true); err != nil {
			return nil, err
		}
	}

	fmt.Fprintln(f.out)

	return result, nil
}
