package security

import (
	"regexp"
	"strings"

	"github.com/smykla-skalski/codeaudit/internal/rule"
)

// MaxRouteStatementLines bounds how far a route registration statement is
// followed when looking for authentication middleware.
const MaxRouteStatementLines = 50

var authMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)authenticate`),
	regexp.MustCompile(`(?i)auth`),
	regexp.MustCompile(`(?i)requireAuth`),
	regexp.MustCompile(`(?i)isAuthenticated`),
	regexp.MustCompile(`(?i)verifyToken`),
	regexp.MustCompile(`(?i)passport\.authenticate`),
}

// Authentication flags route registrations without an authentication
// marker inside the registering statement.
type Authentication struct {
	*rule.BaseRule
}

// NewAuthentication creates the missing-authentication detector.
func NewAuthentication() *Authentication {
	return &Authentication{
		BaseRule: rule.NewBaseRule(
			"missing-authentication",
			"Detects route handlers registered without authentication middleware",
			rule.SeverityHigh,
			rule.GroupSecurity,
			version,
		),
	}
}

// Check scans app routes first, then router routes.
func (r *Authentication) Check(in *rule.Input) ([]rule.Violation, error) {
	var violations []rule.Violation

	for _, route := range []*regexp.Regexp{rule.AppRouteCall, rule.RouterRouteCall} {
		for i, line := range in.Lines {
			if !route.MatchString(line) {
				continue
			}

			end := routeStatementEnd(in.Lines, i)
			statement := strings.Join(in.Lines[i:end], "\n")

			if rule.MatchesAny(statement, authMarkers) {
				continue
			}

			violations = append(violations, r.ReportLine(
				in,
				i+1,
				rule.SeverityHigh,
				"Route handler may be missing authentication/authorization middleware",
				"Add authentication middleware to protect this route",
			))
		}
	}

	return violations, nil
}

// routeStatementEnd returns the exclusive line index where the call opened
// on lines[start] closes its parentheses, capped at MaxRouteStatementLines.
func routeStatementEnd(lines []string, start int) int {
	limit := min(len(lines), start+MaxRouteStatementLines)
	depth := 0

	for i := start; i < limit; i++ {
		depth += strings.Count(lines[i], "(") - strings.Count(lines[i], ")")
		if depth <= 0 {
			return i + 1
		}
	}

	return limit
}
