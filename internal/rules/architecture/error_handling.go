package architecture

import (
	"fmt"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

// databaseMethods are member calls treated as database operations.
var databaseMethods = map[string]bool{
	"query":   true,
	"execute": true,
	"save":    true,
	"find":    true,
	"findOne": true,
	"create":  true,
}

// ErrorHandling flags database calls outside try blocks and await used in
// functions not marked async.
type ErrorHandling struct {
	*rule.BaseRule
}

// NewErrorHandling creates the error-handling detector.
func NewErrorHandling() *ErrorHandling {
	return &ErrorHandling{
		BaseRule: rule.NewBaseRule(
			"error-handling",
			"Checks database calls and async/await for missing error handling",
			rule.SeverityMedium,
			rule.GroupArchitecture,
			version,
		),
	}
}

// Check reports unprotected database calls and await outside an async
// function. A top-level await passes only when the file declares an async
// function somewhere.
func (r *ErrorHandling) Check(in *rule.Input) ([]rule.Violation, error) {
	var violations []rule.Violation

	hasAsync := declaresAsync(in.AST)

	ast.InspectWithAncestors(in.AST, func(n ast.Node, ancestors []ast.Node) bool {
		switch n := n.(type) {
		case *ast.CallExpression:
			method := ast.PropertyName(n.Callee)
			if !databaseMethods[method] || insideTry(n, ancestors) || catchChained(n, ancestors) {
				return true
			}

			violations = append(violations, r.ReportNode(
				in, n, rule.SeverityMedium,
				fmt.Sprintf("Database operation (%s) may need error handling", method),
				"Wrap database operations in try-catch blocks",
			))
		case *ast.AwaitExpression:
			if fn := enclosingFunction(ancestors); (fn != nil && fn.Async) || (fn == nil && hasAsync) {
				return true
			}

			violations = append(violations, r.ReportNode(
				in, n, rule.SeverityLow,
				"await is used but function may not be async",
				"Ensure async/await is properly used",
			))
		}

		return true
	})

	return violations, nil
}

func declaresAsync(root ast.Node) bool {
	found := false

	ast.Inspect(root, func(n ast.Node) bool {
		if fn, ok := n.(*ast.Function); ok && fn.Async {
			found = true
		}

		return !found
	})

	return found
}

// insideTry reports whether n sits in the protected block of an enclosing
// try statement. Catch and finally clauses do not count.
func insideTry(n ast.Node, ancestors []ast.Node) bool {
	child := n

	for i := len(ancestors) - 1; i >= 0; i-- {
		if try, ok := ancestors[i].(*ast.TryStatement); ok && try.Block == child {
			return true
		}

		child = ancestors[i]
	}

	return false
}

// catchChained reports whether the promise returned by call is consumed by
// a .catch(...) somewhere along the method chain it heads.
func catchChained(call ast.Node, ancestors []ast.Node) bool {
	cur := call

	for i := len(ancestors) - 1; i >= 0; i-- {
		switch a := ancestors[i].(type) {
		case *ast.MemberExpression:
			if a.Object != cur {
				return false
			}

			if a.Property == "catch" {
				return true
			}
		case *ast.CallExpression:
			if a.Callee != cur {
				return false
			}
		default:
			return false
		}

		cur = ancestors[i]
	}

	return false
}

// enclosingFunction returns the nearest function ancestor, or nil at top
// level.
func enclosingFunction(ancestors []ast.Node) *ast.Function {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if fn, ok := ancestors[i].(*ast.Function); ok {
			return fn
		}
	}

	return nil
}
