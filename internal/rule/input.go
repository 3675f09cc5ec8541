package rule

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

// MaxSnippetWidth is the display width code snippets are truncated to.
const MaxSnippetWidth = 120

// Input is what every rule inspects: the parsed program and the raw text it
// came from. An Input is read-only and safe to share between goroutines.
type Input struct {
	AST   *ast.Program
	Text  string
	Lines []string
}

// NewInput creates an Input, splitting text into lines on "\n".
func NewInput(program *ast.Program, text string) *Input {
	return &Input{
		AST:   program,
		Text:  text,
		Lines: strings.Split(text, "\n"),
	}
}

// Line returns the 1-based line, or "" when out of range.
func (in *Input) Line(n int) string {
	if n < 1 || n > len(in.Lines) {
		return ""
	}

	return in.Lines[n-1]
}

// Snippet returns the trimmed 1-based line, truncated for display.
func (in *Input) Snippet(n int) string {
	line := strings.TrimSpace(in.Line(n))

	return runewidth.Truncate(line, MaxSnippetWidth, "...")
}
