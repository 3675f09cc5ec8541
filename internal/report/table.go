package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/smykla-skalski/codeaudit/internal/analyzer"
	"github.com/smykla-skalski/codeaudit/internal/color"
	"github.com/smykla-skalski/codeaudit/internal/rule"
)

// durationDisplayUnits is how many units of the elapsed time are shown.
const durationDisplayUnits = 2

var violationHeaders = []string{"Severity", "Rule", "Line", "Message"}

func writeTable(w io.Writer, reports []analyzer.FileReport, opts Options) error {
	var out strings.Builder

	for _, r := range reports {
		out.WriteString(fileHeader(r, opts.Theme))
		out.WriteByte('\n')

		if r.Result != nil && len(r.Result.Violations) > 0 {
			out.WriteString(RenderViolations(r.Result.Violations, opts.Width, opts.Theme))
			out.WriteByte('\n')
		}

		out.WriteByte('\n')
	}

	out.WriteString(RenderSummary(NewDocument(reports).Summary, opts.Elapsed, opts.Theme))
	out.WriteByte('\n')

	_, err := io.WriteString(w, out.String())

	return err
}

// fileHeader renders the one-line status of a file.
func fileHeader(r analyzer.FileReport, theme color.Theme) string {
	path := theme.Header.Render(r.Path)

	if r.Result == nil {
		return fmt.Sprintf("%s  %s", path, theme.Fail.Render("error: "+r.Err.Error()))
	}

	score := theme.Score(r.Result.Score).Render(fmt.Sprintf("score %d/100", r.Result.Score))

	if r.Err != nil {
		return fmt.Sprintf("%s  %s  %s", path, score, theme.Fail.Render("error: "+r.Err.Error()))
	}

	switch n := r.Result.TotalViolations; n {
	case 0:
		return fmt.Sprintf("%s  %s  %s", path, score, theme.Pass.Render("no violations"))
	case 1:
		return fmt.Sprintf("%s  %s  1 violation", path, score)
	default:
		return fmt.Sprintf("%s  %s  %d violations", path, score, n)
	}
}

// RenderViolations builds a table of violations in emission order.
func RenderViolations(violations []rule.Violation, width int, theme color.Theme) string {
	rows := make([][]string, 0, len(violations))

	for _, v := range violations {
		rows = append(rows, []string{
			theme.Severity(v.Severity).Render(v.Severity.String()),
			theme.RuleName.Render(v.Rule),
			location(v),
			v.Message,
		})
	}

	return renderTable(violationHeaders, rows, calcColumnWidthsFor(width, violationHeaders, rows), theme)
}

// RenderRules builds the catalog table for `codeaudit rules`.
func RenderRules(rules []rule.Rule, width int, theme color.Theme) string {
	headers := []string{"Rule", "Group", "Severity", "Version", "Description"}
	rows := make([][]string, 0, len(rules))

	for _, r := range rules {
		group, version := "", ""

		if g, ok := r.(rule.Grouped); ok {
			group = string(g.Group())
		}

		if v, ok := r.(rule.Versioned); ok {
			version = v.Version().String()
		}

		rows = append(rows, []string{
			theme.RuleName.Render(r.Name()),
			group,
			theme.Severity(r.Severity()).Render(r.Severity().String()),
			version,
			r.Description(),
		})
	}

	return renderTable(headers, rows, calcColumnWidthsFor(width, headers, rows), theme)
}

// RenderSummary returns the closing summary line.
func RenderSummary(s Summary, elapsed time.Duration, theme color.Theme) string {
	files := "1 file"
	if s.Files != 1 {
		files = fmt.Sprintf("%d files", s.Files)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Analyzed %s (%s)", files, humanize.IBytes(uint64(max(s.Bytes, 0))))

	if elapsed > 0 {
		fmt.Fprintf(&b, " in %s", durafmt.Parse(elapsed).LimitFirstN(durationDisplayUnits).String())
	}

	fmt.Fprintf(&b, ": %d violation(s)", s.Violations)

	var parts []string

	for i := len(rule.Severities()) - 1; i >= 0; i-- {
		sev := rule.Severities()[i]
		if n := s.BySeverity[sev.String()]; n > 0 {
			parts = append(parts, theme.Severity(sev).Render(fmt.Sprintf("%d %s", n, sev)))
		}
	}

	if len(parts) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}

	if s.Scored > 0 {
		fmt.Fprintf(&b, ", average score %s", theme.Score(s.AverageScore).Render(strconv.Itoa(s.AverageScore)))
	}

	if s.Failed > 0 {
		b.WriteString(", " + theme.Fail.Render(fmt.Sprintf("%d failed", s.Failed)))
	}

	return b.String()
}

func location(v rule.Violation) string {
	switch {
	case v.Line == 0:
		return "-"
	case v.Column == 0:
		return strconv.Itoa(v.Line)
	default:
		return fmt.Sprintf("%d:%d", v.Line, v.Column)
	}
}

func renderTable(headers []string, rows [][]string, colWidths map[int]int, theme color.Theme) string {
	var buf bytes.Buffer

	opts := []tablewriter.Option{
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Formatting().WithAutoWrap(tw.WrapNormal).Build().
			Build().Build()),
	}

	if colWidths != nil {
		opts = append(opts, tablewriter.WithColumnWidths(toCellWidths(colWidths)))
	}

	t := tablewriter.NewTable(&buf, opts...)
	t.Header(headers)

	for _, row := range rows {
		if colWidths != nil {
			for i, cell := range row {
				if w, ok := colWidths[i]; ok {
					row[i] = padToWidth(cell, w)
				}
			}
		}

		_ = t.Append(row)
	}

	_ = t.Render()

	return dimBorders(strings.TrimRight(buf.String(), "\n"), theme)
}

// calcColumnWidthsFor gives the last column whatever the terminal leaves
// after the others take their widest cell. Returns nil when width is too
// narrow or unknown.
func calcColumnWidthsFor(width int, headers []string, rows [][]string) map[int]int {
	const (
		minTableW = 40
		minLastW  = 20

		// Each column has 1 border char, 1 left pad and 1 right pad, plus
		// 1 trailing border.
		colOverhead = 3
	)

	if width < minTableW {
		return nil
	}

	last := len(headers) - 1
	widths := make(map[int]int, len(headers))

	for i := range last {
		widths[i] = runewidth.StringWidth(headers[i])

		for _, row := range rows {
			widths[i] = max(widths[i], runewidth.StringWidth(ansi.Strip(row[i])))
		}
	}

	available := width - len(headers)*colOverhead - 1

	for i := range last {
		available -= widths[i]
	}

	if available < minLastW {
		return nil
	}

	widths[last] = available

	return widths
}

// toCellWidths converts content widths to cell widths (content + left/right
// padding) for WithColumnWidths.
func toCellWidths(contentWidths map[int]int) tw.Mapper[int, int] {
	const padW = 2

	m := make(tw.Mapper[int, int], len(contentWidths))
	for col, w := range contentWidths {
		m[col] = w + padW
	}

	return m
}

// padToWidth right-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padToWidth(s string, w int) string {
	visible := runewidth.StringWidth(ansi.Strip(s))
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}

// TermWidth returns the width of the terminal on f, or 0 if f is not a
// terminal.
func TermWidth(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 { //nolint:gosec // fd fits int
		return w
	}

	return 0
}
