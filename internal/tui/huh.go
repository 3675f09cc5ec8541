package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/config"
)

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct{}

// NewHuhUI creates a new HuhUI instance.
func NewHuhUI() *HuhUI {
	return &HuhUI{}
}

// IsInteractive returns true as HuhUI is for interactive terminals.
func (*HuhUI) IsInteractive() bool {
	return true
}

// RunInitForm runs the initialization form using huh.
func (*HuhUI) RunInitForm(opts InitFormOptions) (*InitFormResult, error) {
	answers := huhAnswers{
		format:       config.FormatTable,
		failOn:       NeverFail,
		minScore:     "0",
		addToExclude: true,
	}

	if err := buildInitForm(opts, &answers).Run(); err != nil {
		return nil, errors.Wrap(err, "init form")
	}

	failOn, err := parseFailOn(answers.failOn)
	if err != nil {
		return nil, err
	}

	minScore, err := parseMinScore(answers.minScore)
	if err != nil {
		return nil, err
	}

	return &InitFormResult{
		Format:       answers.format,
		FailOn:       failOn,
		MinScore:     minScore,
		Disabled:     answers.disabled,
		AddToExclude: opts.ShowGitExclude && answers.addToExclude,
	}, nil
}

type huhAnswers struct {
	format       string
	failOn       string
	minScore     string
	disabled     []string
	addToExclude bool
}

func buildInitForm(opts InitFormOptions, answers *huhAnswers) *huh.Form {
	format := huh.NewSelect[string]().
		Title("Output format").
		Description("Default report format. --format overrides it per run.").
		Options(huh.NewOptions(config.Formats...)...).
		Value(&answers.format)

	failOptions := []huh.Option[string]{huh.NewOption("never", NeverFail)}
	for _, s := range rule.Severities() {
		failOptions = append(failOptions, huh.NewOption(s.String()+" or worse", s.String()))
	}

	failOn := huh.NewSelect[string]().
		Title("Fail on").
		Description("Exit with status 2 when a violation at or above this severity is found.").
		Options(failOptions...).
		Value(&answers.failOn)

	minScore := huh.NewInput().
		Title("Minimum score").
		Description("Exit with status 2 when any file scores below this (0-100).").
		Placeholder("0").
		Validate(func(s string) error {
			_, err := parseMinScore(s)

			return err
		}).
		Value(&answers.minScore)

	groups := []*huh.Group{
		huh.NewGroup(format, failOn, minScore),
	}

	if len(opts.Rules) > 0 {
		disabled := huh.NewMultiSelect[string]().
			Title("Disabled rules").
			Description("Selected rules are skipped. Press x to toggle.").
			Options(huh.NewOptions(opts.Rules...)...).
			Height(len(opts.Rules) + 2).
			Value(&answers.disabled)

		groups = append(groups, huh.NewGroup(disabled))
	}

	if opts.ShowGitExclude {
		excludeConfirm := huh.NewConfirm().
			Title("Add to .git/info/exclude").
			Description("Keep the config directory out of commits.").
			Affirmative("Yes").
			Negative("No").
			Value(&answers.addToExclude)

		groups = append(groups, huh.NewGroup(excludeConfirm))
	}

	keymap := huh.NewDefaultKeyMap()
	keymap.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit"))

	return huh.NewForm(groups...).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(true).
		WithKeyMap(keymap).
		WithProgramOptions(
			tea.WithOutput(os.Stderr),
			tea.WithReportFocus(),
			tea.WithAltScreen(),
		)
}
