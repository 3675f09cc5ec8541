package security

import "github.com/smykla-skalski/codeaudit/pkg/ast"

// requestObjects are the conventional names of the incoming request in
// Express-style handlers.
var requestObjects = map[string]bool{
	"req":     true,
	"request": true,
}

// isRequestDerived reports whether n reads from the incoming request, for
// example req.body.name or request.query['q'] or req.get('x').
func isRequestDerived(n ast.Node) bool {
	switch n.(type) {
	case *ast.MemberExpression, *ast.CallExpression:
	default:
		return false
	}

	id, ok := ast.RootIdentifier(n)

	return ok && requestObjects[id.Name]
}

// containsRequestData reports whether n or any expression nested in it is
// request-derived. Nested functions are not entered.
func containsRequestData(n ast.Node) bool {
	found := false

	ast.Inspect(n, func(cur ast.Node) bool {
		if found {
			return false
		}

		if _, ok := cur.(*ast.Function); ok {
			return false
		}

		if isRequestDerived(cur) {
			found = true

			return false
		}

		return true
	})

	return found
}
