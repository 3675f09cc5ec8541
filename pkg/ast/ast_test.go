package ast_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func member(object ast.Node, property string) *ast.MemberExpression {
	return &ast.MemberExpression{Object: object, Property: property}
}

var _ = Describe("helpers", func() {
	// req.body.items[0].name
	chain := member(
		&ast.MemberExpression{
			Object:   member(member(ident("req"), "body"), "items"),
			Index:    &ast.NumberLiteral{Raw: "0"},
			Computed: true,
		},
		"name",
	)

	It("should find the root identifier through members and calls", func() {
		root, ok := ast.RootIdentifier(chain)
		Expect(ok).To(BeTrue())
		Expect(root.Name).To(Equal("req"))

		call := &ast.CallExpression{Callee: member(&ast.CallExpression{Callee: member(ident("db"), "collection")}, "find")}
		root, ok = ast.RootIdentifier(call)
		Expect(ok).To(BeTrue())
		Expect(root.Name).To(Equal("db"))

		_, ok = ast.RootIdentifier(member(&ast.StringLiteral{Value: "x"}, "length"))
		Expect(ok).To(BeFalse())
	})

	It("should render member chains", func() {
		Expect(ast.MemberChain(chain)).To(Equal("req.body.items.?.name"))
		Expect(ast.MemberChain(member(&ast.CallExpression{}, "then"))).To(Equal("?.then"))
		Expect(ast.MemberChain(ident("x"))).To(Equal("x"))
	})

	It("should match identifiers and members", func() {
		Expect(ast.IsIdentifier(ident("eval"), "eval")).To(BeTrue())
		Expect(ast.IsIdentifier(ident("evil"), "eval")).To(BeFalse())
		Expect(ast.IsIdentifier(nil, "eval")).To(BeFalse())

		Expect(ast.IsMember(member(ident("document"), "write"), "document", "write")).To(BeTrue())
		Expect(ast.IsMember(member(ident("doc"), "write"), "document", "write")).To(BeFalse())
		Expect(ast.IsMember(ident("document"), "document", "write")).To(BeFalse())

		Expect(ast.PropertyName(member(ident("a"), "b"))).To(Equal("b"))
		Expect(ast.PropertyName(ident("a"))).To(BeEmpty())
	})
})

var _ = Describe("Inspect", func() {
	// f(function () { try { await x } catch (e) {} }, `a${b}`)
	await := &ast.AwaitExpression{Argument: ident("x")}
	try := &ast.TryStatement{
		Block:   &ast.Block{Body: []ast.Node{await}},
		Handler: &ast.Generic{Kind: "catch_clause", Children: []ast.Node{ident("e")}},
	}
	fn := &ast.Function{Kind: ast.FunctionExpression, Body: &ast.Block{Body: []ast.Node{try}}}
	tpl := &ast.TemplateLiteral{Quasis: []string{"a", ""}, Expressions: []ast.Node{ident("b")}}
	program := &ast.Program{Body: []ast.Node{
		&ast.CallExpression{Callee: ident("f"), Arguments: []ast.Node{fn, tpl}},
	}}

	It("should visit in source order", func() {
		var names []string

		ast.Inspect(program, func(n ast.Node) bool {
			if id, ok := n.(*ast.Identifier); ok {
				names = append(names, id.Name)
			}

			return true
		})

		Expect(names).To(Equal([]string{"f", "x", "e", "b"}))
	})

	It("should skip children when told to", func() {
		var names []string

		ast.Inspect(program, func(n ast.Node) bool {
			if _, ok := n.(*ast.Function); ok {
				return false
			}

			if id, ok := n.(*ast.Identifier); ok {
				names = append(names, id.Name)
			}

			return true
		})

		Expect(names).To(Equal([]string{"f", "b"}))
	})

	It("should pass ancestors outermost first", func() {
		var kinds []string

		ast.InspectWithAncestors(program, func(n ast.Node, ancestors []ast.Node) bool {
			if n != await {
				return true
			}

			for _, a := range ancestors {
				switch a.(type) {
				case *ast.Program:
					kinds = append(kinds, "program")
				case *ast.CallExpression:
					kinds = append(kinds, "call")
				case *ast.Function:
					kinds = append(kinds, "function")
				case *ast.Block:
					kinds = append(kinds, "block")
				case *ast.TryStatement:
					kinds = append(kinds, "try")
				}
			}

			return true
		})

		Expect(kinds).To(Equal([]string{"program", "call", "function", "block", "try", "block"}))
	})

	It("should omit nil children", func() {
		Expect(ast.Children(&ast.MemberExpression{Object: ident("a")})).To(HaveLen(1))
		Expect(ast.Children(&ast.TryStatement{Block: &ast.Block{}})).To(HaveLen(1))
		Expect(ast.Children(ident("leaf"))).To(BeEmpty())
	})

	It("should tolerate a nil root", func() {
		called := false

		ast.Inspect(nil, func(ast.Node) bool {
			called = true

			return true
		})

		Expect(called).To(BeFalse())
	})
})
