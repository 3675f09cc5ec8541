package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

// converter maps tree-sitter nodes onto the typed AST.
type converter struct {
	src []byte
}

func (c *converter) loc(n *sitter.Node) ast.Loc {
	pt := n.StartPoint()

	return ast.Loc{Start: ast.Position{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}}
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c *converter) program(root *sitter.Node) *ast.Program {
	return &ast.Program{Loc: c.loc(root), Body: c.namedChildren(root)}
}

// namedChildren converts all named children, skipping comments.
func (c *converter) namedChildren(n *sitter.Node) []ast.Node {
	count := int(n.NamedChildCount())
	out := make([]ast.Node, 0, count)

	for i := range count {
		if conv := c.convert(n.NamedChild(i)); conv != nil {
			out = append(out, conv)
		}
	}

	return out
}

func (c *converter) field(n *sitter.Node, name string) ast.Node {
	child := n.ChildByFieldName(name)
	if child == nil {
		return nil
	}

	return c.convert(child)
}

// hasToken reports whether n has an anonymous child token of the given type.
func hasToken(n *sitter.Node, token string) bool {
	for i := range int(n.ChildCount()) {
		child := n.Child(i)
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}

	return false
}

//nolint:gocyclo,cyclop // one case per grammar node kind
func (c *converter) convert(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "comment", "hash_bang_line":
		return nil

	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "this", "super", "type_identifier":
		return &ast.Identifier{Loc: c.loc(n), Name: c.text(n)}

	case "string":
		return &ast.StringLiteral{Loc: c.loc(n), Value: unquote(c.text(n))}

	case "number":
		return &ast.NumberLiteral{Loc: c.loc(n), Raw: c.text(n)}

	case "template_string":
		return c.template(n)

	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return c.convert(n.NamedChild(0))
		}

		return nil

	case "member_expression":
		return &ast.MemberExpression{
			Loc:      c.loc(n),
			Object:   c.field(n, "object"),
			Property: c.fieldText(n, "property"),
			Optional: n.ChildByFieldName("optional_chain") != nil || hasToken(n, "?."),
		}

	case "subscript_expression":
		index := c.field(n, "index")
		m := &ast.MemberExpression{
			Loc:      c.loc(n),
			Object:   c.field(n, "object"),
			Index:    index,
			Computed: true,
			Optional: n.ChildByFieldName("optional_chain") != nil || hasToken(n, "?."),
		}

		if s, ok := index.(*ast.StringLiteral); ok {
			m.Property = s.Value
		}

		return m

	case "call_expression":
		return c.call(n)

	case "new_expression":
		return &ast.NewExpression{
			Loc:       c.loc(n),
			Callee:    c.field(n, "constructor"),
			Arguments: c.arguments(n.ChildByFieldName("arguments")),
		}

	case "binary_expression":
		return &ast.BinaryExpression{
			Loc:      c.loc(n),
			Operator: c.operator(n),
			Left:     c.field(n, "left"),
			Right:    c.field(n, "right"),
		}

	case "assignment_expression":
		return &ast.AssignmentExpression{
			Loc:      c.loc(n),
			Operator: "=",
			Left:     c.field(n, "left"),
			Right:    c.field(n, "right"),
		}

	case "augmented_assignment_expression":
		return &ast.AssignmentExpression{
			Loc:      c.loc(n),
			Operator: c.operator(n),
			Left:     c.field(n, "left"),
			Right:    c.field(n, "right"),
		}

	case "await_expression":
		var arg ast.Node
		if n.NamedChildCount() > 0 {
			arg = c.convert(n.NamedChild(0))
		}

		return &ast.AwaitExpression{Loc: c.loc(n), Argument: arg}

	case "function_declaration", "generator_function_declaration":
		return c.function(n, ast.FunctionDeclaration)

	case "function_expression", "function", "generator_function":
		return c.function(n, ast.FunctionExpression)

	case "arrow_function":
		return c.function(n, ast.ArrowFunction)

	case "method_definition":
		return c.function(n, ast.MethodDefinition)

	case "try_statement":
		return c.try(n)

	case "object":
		return c.object(n)

	case "variable_declarator":
		return &ast.VariableDeclarator{
			Loc:  c.loc(n),
			ID:   c.field(n, "name"),
			Init: c.field(n, "value"),
		}

	case "statement_block":
		return &ast.Block{Loc: c.loc(n), Body: c.namedChildren(n)}

	default:
		return &ast.Generic{Loc: c.loc(n), Kind: n.Type(), Children: c.namedChildren(n)}
	}
}

func (c *converter) fieldText(n *sitter.Node, name string) string {
	child := n.ChildByFieldName(name)
	if child == nil {
		return ""
	}

	return c.text(child)
}

// operator returns the operator token of a binary or augmented assignment.
func (c *converter) operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}

	for i := range int(n.ChildCount()) {
		if child := n.Child(i); !child.IsNamed() {
			return child.Type()
		}
	}

	return ""
}

func (c *converter) call(n *sitter.Node) ast.Node {
	args := n.ChildByFieldName("arguments")

	// fn`...` is a tagged template, not a call with a template argument.
	if args != nil && args.Type() == "template_string" {
		return &ast.Generic{
			Loc:      c.loc(n),
			Kind:     "tagged_template",
			Children: []ast.Node{c.field(n, "function"), c.template(args)},
		}
	}

	return &ast.CallExpression{
		Loc:       c.loc(n),
		Callee:    c.field(n, "function"),
		Arguments: c.arguments(args),
		Optional:  n.ChildByFieldName("optional_chain") != nil || hasToken(n, "?."),
	}
}

func (c *converter) arguments(n *sitter.Node) []ast.Node {
	if n == nil {
		return nil
	}

	return c.namedChildren(n)
}

func (c *converter) template(n *sitter.Node) *ast.TemplateLiteral {
	t := &ast.TemplateLiteral{Loc: c.loc(n)}

	// Quasis are the raw byte ranges between substitutions, without the
	// surrounding backticks.
	start := n.StartByte() + 1

	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		if child.Type() != "template_substitution" {
			continue
		}

		t.Quasis = append(t.Quasis, string(c.src[start:child.StartByte()]))

		var expr ast.Node
		if child.NamedChildCount() > 0 {
			expr = c.convert(child.NamedChild(0))
		}

		t.Expressions = append(t.Expressions, expr)
		start = child.EndByte()
	}

	end := n.EndByte() - 1
	if end < start {
		end = start
	}

	t.Quasis = append(t.Quasis, string(c.src[start:end]))

	return t
}

func (c *converter) function(n *sitter.Node, kind ast.FunctionKind) *ast.Function {
	fn := &ast.Function{
		Loc:       c.loc(n),
		Kind:      kind,
		Name:      c.fieldText(n, "name"),
		Async:     hasToken(n, "async"),
		Generator: hasToken(n, "*"),
		Body:      c.field(n, "body"),
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Params = c.namedChildren(params)
	} else if param := c.field(n, "parameter"); param != nil {
		fn.Params = []ast.Node{param}
	}

	return fn
}

func (c *converter) try(n *sitter.Node) *ast.TryStatement {
	t := &ast.TryStatement{Loc: c.loc(n), Block: c.field(n, "body")}

	if handler := n.ChildByFieldName("handler"); handler != nil {
		t.Handler = &ast.Generic{Loc: c.loc(handler), Kind: handler.Type(), Children: c.namedChildren(handler)}
	}

	if finalizer := n.ChildByFieldName("finalizer"); finalizer != nil {
		t.Finalizer = &ast.Generic{Loc: c.loc(finalizer), Kind: finalizer.Type(), Children: c.namedChildren(finalizer)}
	}

	return t
}

func (c *converter) object(n *sitter.Node) *ast.ObjectExpression {
	obj := &ast.ObjectExpression{Loc: c.loc(n)}

	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)

		switch child.Type() {
		case "comment":
			continue
		case "pair":
			obj.Properties = append(obj.Properties, c.pair(child))
		case "shorthand_property_identifier":
			obj.Properties = append(obj.Properties, &ast.Property{
				Loc:       c.loc(child),
				Key:       c.text(child),
				Value:     c.convert(child),
				Shorthand: true,
			})
		default:
			obj.Properties = append(obj.Properties, &ast.Property{
				Loc:   c.loc(child),
				Value: c.convert(child),
			})
		}
	}

	return obj
}

func (c *converter) pair(n *sitter.Node) *ast.Property {
	p := &ast.Property{Loc: c.loc(n), Value: c.field(n, "value")}

	key := n.ChildByFieldName("key")
	if key == nil {
		return p
	}

	switch key.Type() {
	case "property_identifier", "identifier", "number", "private_property_identifier":
		p.Key = c.text(key)
	case "string":
		p.Key = unquote(c.text(key))
	default:
		p.Computed = true
	}

	return p
}

// unquote strips one pair of matching quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}

	return s
}
