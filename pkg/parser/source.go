package parser

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

var (
	// ErrSyntax is returned when the source text is not valid syntax.
	ErrSyntax = errors.New("syntax error")

	// ErrConversion is returned when the concrete tree cannot be converted.
	ErrConversion = errors.New("failed to convert syntax tree")
)

// SyntaxError locates the first syntax problem in a source file.
type SyntaxError struct {
	FileName string
	Line     int
	Column   int
	Near     string
	Missing  bool
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	what := "unexpected"
	if e.Missing {
		what = "missing"
	}

	if e.Near == "" {
		return fmt.Sprintf("%s:%d:%d: %s token", e.FileName, e.Line, e.Column, what)
	}

	return fmt.Sprintf("%s:%d:%d: %s %q", e.FileName, e.Line, e.Column, what, e.Near)
}

// Is makes errors.Is(err, ErrSyntax) match.
func (*SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// SourceParser parses JavaScript and TypeScript (including JSX) into the
// typed AST. The zero value is not usable; call NewSourceParser.
//
// A SourceParser holds no per-parse state and may be shared between
// goroutines; every Parse call allocates its own tree-sitter parser.
type SourceParser struct {
	language *sitter.Language
}

// NewSourceParser creates a parser for the TSX grammar, a superset covering
// plain JavaScript, TypeScript annotations, JSX and decorators.
func NewSourceParser() *SourceParser {
	return &SourceParser{language: tsx.GetLanguage()}
}

// Parse parses source into a Program. fileName is only used in error
// messages. A syntax problem yields a *SyntaxError wrapping ErrSyntax.
func (p *SourceParser) Parse(ctx context.Context, source []byte, fileName string) (prog *ast.Program, err error) {
	ts := sitter.NewParser()
	defer ts.Close()

	ts.SetLanguage(p.language)

	tree, err := ts.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", fileName)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.Wrapf(ErrConversion, "%s: empty tree", fileName)
	}

	if root.HasError() {
		return nil, firstSyntaxError(root, source, fileName)
	}

	defer func() {
		if r := recover(); r != nil {
			prog = nil
			err = errors.Wrapf(ErrConversion, "%s: %v", fileName, r)
		}
	}()

	c := &converter{src: source}

	return c.program(root), nil
}

// firstSyntaxError finds the earliest ERROR or MISSING node in the tree.
func firstSyntaxError(root *sitter.Node, source []byte, fileName string) error {
	bad := findError(root)
	if bad == nil {
		bad = root
	}

	pt := bad.StartPoint()
	near := bad.Content(source)

	const maxNear = 32
	if len(near) > maxNear {
		near = near[:maxNear]
	}

	return &SyntaxError{
		FileName: fileName,
		Line:     int(pt.Row) + 1,
		Column:   int(pt.Column) + 1,
		Near:     near,
		Missing:  bad.IsMissing(),
	}
}

func findError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}

	if !n.HasError() {
		return nil
	}

	for i := range int(n.ChildCount()) {
		if found := findError(n.Child(i)); found != nil {
			return found
		}
	}

	return nil
}
