package security

import (
	"regexp"
	"strings"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

var (
	corsCall        = regexp.MustCompile(`(?i)cors\s*\(`)
	wildcardOrigin  = regexp.MustCompile(`(?i)origin\s*:\s*['"]\*['"]`)
	credentialsMode = regexp.MustCompile(`(?i)credentials\s*:\s*true`)
)

// headerSetters are response methods that set a single header.
var headerSetters = map[string]bool{
	"setHeader": true,
	"header":    true,
	"set":       true,
}

// CORS flags wildcard origins, wildcard origins combined with credentials,
// and files with no CORS configuration at all.
type CORS struct {
	*rule.BaseRule
}

// NewCORS creates the cors-misconfiguration detector.
func NewCORS() *CORS {
	return &CORS{
		BaseRule: rule.NewBaseRule(
			"cors-misconfiguration",
			"Detects missing or overly permissive CORS configuration",
			rule.SeverityHigh,
			rule.GroupSecurity,
			version,
		),
	}
}

// Check emits whole-file violations only.
func (r *CORS) Check(in *rule.Input) ([]rule.Violation, error) {
	manualWildcard := setsWildcardOriginHeader(in.AST)
	configured := corsCall.MatchString(in.Text) || manualWildcard

	if !configured {
		return []rule.Violation{r.Report(
			rule.SeverityLow,
			"CORS middleware is not configured. This may cause CORS errors in production",
			"Configure CORS middleware with appropriate origin settings",
		)}, nil
	}

	if !wildcardOrigin.MatchString(in.Text) && !manualWildcard {
		return nil, nil
	}

	violations := []rule.Violation{r.Report(
		rule.SeverityHigh,
		"CORS is configured with wildcard origin (*), which allows all origins",
		"Specify allowed origins explicitly instead of using wildcard",
	)}

	if credentialsMode.MatchString(in.Text) {
		violations = append(violations, r.Report(
			rule.SeverityCritical,
			"CORS is configured with wildcard origin and credentials enabled, which is a security risk",
			"Never use wildcard origin with credentials. Specify allowed origins explicitly",
		))
	}

	return violations, nil
}

// setsWildcardOriginHeader reports a call like
// res.setHeader('Access-Control-Allow-Origin', '*').
func setsWildcardOriginHeader(program *ast.Program) bool {
	found := false

	ast.Inspect(program, func(n ast.Node) bool {
		if found {
			return false
		}

		call, ok := n.(*ast.CallExpression)
		if !ok || len(call.Arguments) < 2 || !headerSetters[ast.PropertyName(call.Callee)] {
			return true
		}

		name, nameOK := call.Arguments[0].(*ast.StringLiteral)
		value, valueOK := call.Arguments[1].(*ast.StringLiteral)

		if nameOK && valueOK &&
			strings.EqualFold(name.Value, "Access-Control-Allow-Origin") &&
			strings.TrimSpace(value.Value) == "*" {
			found = true
		}

		return !found
	})

	return found
}
