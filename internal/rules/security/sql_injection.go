package security

import (
	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

// queryMethods are member calls treated as query execution.
var queryMethods = map[string]bool{
	"query":   true,
	"execute": true,
	"exec":    true,
	"run":     true,
}

const sqlRecommendation = "Use parameterized queries or prepared statements instead of string concatenation"

// SQLInjection flags query calls whose text is assembled from expressions.
type SQLInjection struct {
	*rule.BaseRule
}

// NewSQLInjection creates the sql-injection detector.
func NewSQLInjection() *SQLInjection {
	return &SQLInjection{
		BaseRule: rule.NewBaseRule(
			"sql-injection",
			"Detects SQL queries built with template literals or string concatenation",
			rule.SeverityHigh,
			rule.GroupSecurity,
			version,
		),
	}
}

// Check inspects the first argument of every query-shaped member call.
func (r *SQLInjection) Check(in *rule.Input) ([]rule.Violation, error) {
	var violations []rule.Violation

	ast.Inspect(in.AST, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpression)
		if !ok || len(call.Arguments) == 0 || !queryMethods[ast.PropertyName(call.Callee)] {
			return true
		}

		switch arg := call.Arguments[0].(type) {
		case *ast.TemplateLiteral:
			if len(arg.Expressions) > 0 {
				violations = append(violations, r.ReportNode(
					in, call, rule.SeverityHigh,
					"Potential SQL injection: Query uses template literal with expressions. Use parameterized queries instead.",
					sqlRecommendation,
				))
			}
		case *ast.BinaryExpression:
			if arg.Operator == "+" {
				violations = append(violations, r.ReportNode(
					in, call, rule.SeverityHigh,
					"Potential SQL injection: Query uses string concatenation. Use parameterized queries instead.",
					sqlRecommendation,
				))
			}
		}

		return true
	})

	return violations, nil
}
