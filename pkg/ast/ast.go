// Package ast defines the typed syntax tree consumed by analysis rules.
//
// Only the constructs rules inspect get dedicated node types. Everything
// else is kept as a Generic node so traversal still reaches nested
// expressions (JSX attributes, type assertions, class bodies, ...).
package ast

// Position is a 1-based source location.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Position
	node()
}

// Loc holds the start position of a node.
type Loc struct {
	Start Position
}

// Pos returns the start position.
func (l Loc) Pos() Position { return l.Start }

func (Loc) node() {}

// Program is the root of a parsed source file.
type Program struct {
	Loc
	Body []Node
}

// Identifier is a bare name, including this, super and property names.
type Identifier struct {
	Loc
	Name string
}

// StringLiteral is a quoted string. Value excludes the quotes and keeps
// escape sequences as written.
type StringLiteral struct {
	Loc
	Value string
}

// NumberLiteral keeps the literal as written.
type NumberLiteral struct {
	Loc
	Raw string
}

// TemplateLiteral is a backtick string. Quasis always has one element more
// than Expressions.
type TemplateLiteral struct {
	Loc
	Quasis      []string
	Expressions []Node
}

// MemberExpression is obj.prop, obj?.prop or obj[index].
type MemberExpression struct {
	Loc
	Object Node

	// Property is the static property name. For computed access it is set
	// only when the index is a string literal.
	Property string

	// Index is the computed index expression, nil for dot access.
	Index Node

	Computed bool
	Optional bool
}

// CallExpression is callee(args...). Tagged templates are not calls.
type CallExpression struct {
	Loc
	Callee    Node
	Arguments []Node
	Optional  bool
}

// NewExpression is new Callee(args...).
type NewExpression struct {
	Loc
	Callee    Node
	Arguments []Node
}

// BinaryExpression covers arithmetic, comparison and logical operators.
type BinaryExpression struct {
	Loc
	Operator string
	Left     Node
	Right    Node
}

// AssignmentExpression covers = and the compound assignment operators.
type AssignmentExpression struct {
	Loc
	Operator string
	Left     Node
	Right    Node
}

// AwaitExpression is await Argument.
type AwaitExpression struct {
	Loc
	Argument Node
}

// FunctionKind distinguishes the syntactic forms of a function.
type FunctionKind int

const (
	FunctionDeclaration FunctionKind = iota
	FunctionExpression
	ArrowFunction
	MethodDefinition
)

// Function is any function-like construct.
type Function struct {
	Loc
	Kind      FunctionKind
	Name      string
	Async     bool
	Generator bool
	Params    []Node
	Body      Node
}

// TryStatement is try { Block } catch { Handler } finally { Finalizer }.
type TryStatement struct {
	Loc
	Block     Node
	Handler   Node
	Finalizer Node
}

// Property is one entry of an object literal. Key is empty for spreads and
// computed keys.
type Property struct {
	Loc
	Key       string
	Value     Node
	Shorthand bool
	Computed  bool
}

// ObjectExpression is an object literal.
type ObjectExpression struct {
	Loc
	Properties []*Property
}

// VariableDeclarator is one binding of a var, let or const declaration.
type VariableDeclarator struct {
	Loc
	ID   Node
	Init Node
}

// Block is a braced statement list.
type Block struct {
	Loc
	Body []Node
}

// Generic is any construct without a dedicated type. Kind is the grammar
// node name, for example "if_statement" or "jsx_element".
type Generic struct {
	Loc
	Kind     string
	Children []Node
}
