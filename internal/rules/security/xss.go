package security

import (
	"fmt"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

// htmlSinkProperties accept raw markup when assigned.
var htmlSinkProperties = map[string]bool{
	"innerHTML": true,
	"outerHTML": true,
}

// htmlSinkMethods accept raw markup as their last argument.
var htmlSinkMethods = map[string]bool{
	"insertAdjacentHTML": true,
}

// documentWriters are the document methods that write raw markup.
var documentWriters = map[string]bool{
	"write":   true,
	"writeln": true,
}

const htmlSinkRecommendation = "Sanitize user input before setting innerHTML/outerHTML or use textContent instead"

// XSS flags request data reaching raw-HTML sinks.
type XSS struct {
	*rule.BaseRule
}

// NewXSS creates the xss-vulnerability detector.
func NewXSS() *XSS {
	return &XSS{
		BaseRule: rule.NewBaseRule(
			"xss-vulnerability",
			"Detects user input written to HTML sinks or echoed in responses",
			rule.SeverityHigh,
			rule.GroupSecurity,
			version,
		),
	}
}

// Check walks assignments and calls looking for markup sinks.
func (r *XSS) Check(in *rule.Input) ([]rule.Violation, error) {
	var violations []rule.Violation

	ast.Inspect(in.AST, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignmentExpression:
			prop := ast.PropertyName(n.Left)
			if htmlSinkProperties[prop] && containsRequestData(n.Right) {
				violations = append(violations, r.ReportNode(
					in, n, rule.SeverityHigh,
					fmt.Sprintf("Potential XSS: %s is set with user input without sanitization", prop),
					htmlSinkRecommendation,
				))
			}
		case *ast.CallExpression:
			if v, ok := r.checkCall(in, n); ok {
				violations = append(violations, v)
			}
		}

		return true
	})

	return violations, nil
}

func (r *XSS) checkCall(in *rule.Input, call *ast.CallExpression) (rule.Violation, bool) {
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return rule.Violation{}, false
	}

	switch {
	case ast.IsIdentifier(member.Object, "document") && documentWriters[member.Property]:
		return r.ReportNode(
			in, call, rule.SeverityHigh,
			"Potential XSS: document.write() is used, which can lead to XSS vulnerabilities",
			"Avoid using document.write(), use DOM manipulation methods instead",
		), true

	case htmlSinkMethods[member.Property] && len(call.Arguments) > 0 &&
		containsRequestData(call.Arguments[len(call.Arguments)-1]):
		return r.ReportNode(
			in, call, rule.SeverityHigh,
			fmt.Sprintf("Potential XSS: %s is set with user input without sanitization", member.Property),
			htmlSinkRecommendation,
		), true

	case ast.IsIdentifier(member.Object, "res") && member.Property == "send" &&
		len(call.Arguments) > 0 && containsRequestData(call.Arguments[0]):
		return r.ReportNode(
			in, call, rule.SeverityMedium,
			"Ensure user input in res.send() is properly sanitized",
			"Sanitize user input before sending in response",
		), true
	}

	return rule.Violation{}, false
}
