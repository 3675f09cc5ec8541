package security

import (
	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

const functionConstructorRecommendation = "Avoid using Function constructor with user input"

// Deserialization flags dynamic code evaluation and parsing of raw
// request data.
type Deserialization struct {
	*rule.BaseRule
}

// NewDeserialization creates the unsafe-deserialization detector.
func NewDeserialization() *Deserialization {
	return &Deserialization{
		BaseRule: rule.NewBaseRule(
			"unsafe-deserialization",
			"Detects eval, the Function constructor and JSON.parse of request data",
			rule.SeverityHigh,
			rule.GroupSecurity,
			version,
		),
	}
}

// Check flags eval, the Function constructor and JSON.parse of request data.
func (r *Deserialization) Check(in *rule.Input) ([]rule.Violation, error) {
	var violations []rule.Violation

	ast.Inspect(in.AST, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.NewExpression:
			if ast.IsIdentifier(n.Callee, "Function") {
				violations = append(violations, r.ReportNode(
					in, n, rule.SeverityHigh,
					"Function constructor is used, which can be dangerous with user input",
					functionConstructorRecommendation,
				))
			}
		case *ast.CallExpression:
			switch {
			case ast.IsIdentifier(n.Callee, "eval"):
				violations = append(violations, r.ReportNode(
					in, n, rule.SeverityCritical,
					"eval() is used, which can lead to code injection vulnerabilities",
					"Never use eval(). Use JSON.parse() or other safe parsing methods",
				))
			case ast.IsIdentifier(n.Callee, "Function"):
				violations = append(violations, r.ReportNode(
					in, n, rule.SeverityHigh,
					"Function constructor is used, which can be dangerous with user input",
					functionConstructorRecommendation,
				))
			case ast.IsMember(n.Callee, "JSON", "parse") &&
				len(n.Arguments) > 0 && isRequestDerived(n.Arguments[0]):
				violations = append(violations, r.ReportNode(
					in, n, rule.SeverityMedium,
					"JSON.parse() is used with user input. Ensure input is validated before parsing",
					"Validate and sanitize user input before JSON.parse()",
				))
			}
		}

		return true
	})

	return violations, nil
}
