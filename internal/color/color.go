// Package color provides color detection and the severity theme for CLI
// output.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/smykla-skalski/codeaudit/internal/rule"
)

// Score bands used by Theme.Score.
const (
	GoodScore = 80
	FairScore = 50
)

// Profile detects the current color profile based on environment variables and flags.
// Returns true if color output should be enabled.
//
// Color is disabled when any of:
//   - NO_COLOR env is set (any value, per https://no-color.org)
//   - CLICOLOR=0
//   - TERM=dumb
//   - noColorFlag is true (--no-color CLI flag)
func Profile(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	return os.Getenv("TERM") != "dumb"
}

// IsTerminal returns true if the given file is a terminal.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

// Theme holds lipgloss styles for report output.
type Theme struct {
	Critical lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
	Pass     lipgloss.Style
	Fail     lipgloss.Style
	Header   lipgloss.Style
	RuleName lipgloss.Style
	Muted    lipgloss.Style
}

// NewTheme creates a Theme. When color is false, all styles are empty (no ANSI codes).
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Critical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true), // bright red
		High:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),            // red
		Medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),           // bright yellow
		Low:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),           // bright blue
		Pass:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),           // bright green
		Fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		RuleName: lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")), // gray
	}
}

// Severity returns the style for a violation severity.
func (t Theme) Severity(s rule.Severity) lipgloss.Style {
	switch s {
	case rule.SeverityCritical:
		return t.Critical
	case rule.SeverityHigh:
		return t.High
	case rule.SeverityMedium:
		return t.Medium
	default:
		return t.Low
	}
}

// Score returns the style for a 0-100 score.
func (t Theme) Score(score int) lipgloss.Style {
	switch {
	case score >= GoodScore:
		return t.Pass
	case score >= FairScore:
		return t.Medium
	default:
		return t.Fail
	}
}
