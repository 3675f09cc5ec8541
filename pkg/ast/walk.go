package ast

// Children returns the direct child nodes of n in source order. Nil
// children are omitted.
func Children(n Node) []Node {
	var out []Node

	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		add(n.Body...)
	case *TemplateLiteral:
		add(n.Expressions...)
	case *MemberExpression:
		add(n.Object, n.Index)
	case *CallExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *NewExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *AssignmentExpression:
		add(n.Left, n.Right)
	case *AwaitExpression:
		add(n.Argument)
	case *Function:
		add(n.Params...)
		add(n.Body)
	case *TryStatement:
		add(n.Block, n.Handler, n.Finalizer)
	case *ObjectExpression:
		for _, p := range n.Properties {
			add(p)
		}
	case *Property:
		add(n.Value)
	case *VariableDeclarator:
		add(n.ID, n.Init)
	case *Block:
		add(n.Body...)
	case *Generic:
		add(n.Children...)
	}

	return out
}

// Inspect traverses the tree depth-first in source order. If f returns
// false, the children of that node are skipped.
func Inspect(root Node, f func(Node) bool) {
	InspectWithAncestors(root, func(n Node, _ []Node) bool {
		return f(n)
	})
}

// InspectWithAncestors is like Inspect but also passes the chain of
// enclosing nodes, outermost first. The slice is reused between calls and
// must not be retained.
func InspectWithAncestors(root Node, f func(n Node, ancestors []Node) bool) {
	if root == nil {
		return
	}

	stack := make([]Node, 0, 32)

	var visit func(Node)

	visit = func(n Node) {
		if !f(n, stack) {
			return
		}

		stack = append(stack, n)

		for _, c := range Children(n) {
			visit(c)
		}

		stack = stack[:len(stack)-1]
	}

	visit(root)
}
