package architecture

import (
	"regexp"

	"github.com/smykla-skalski/codeaudit/internal/rule"
)

var (
	bodyParserMiddleware = regexp.MustCompile(`(?i)express\.(json|urlencoded)`)
	appRoute             = regexp.MustCompile(`(?i)app\.(get|post|put|delete|patch)`)
)

// Middleware flags body parsers registered after the first route.
type Middleware struct {
	*rule.BaseRule
}

// NewMiddleware creates the middleware-usage detector.
func NewMiddleware() *Middleware {
	return &Middleware{
		BaseRule: rule.NewBaseRule(
			"middleware-usage",
			"Checks that body parsing middleware precedes route handlers",
			rule.SeverityLow,
			rule.GroupArchitecture,
			version,
		),
	}
}

// Check reports at the first route line.
func (r *Middleware) Check(in *rule.Input) ([]rule.Violation, error) {
	bodyParser, firstRoute := -1, -1

	for i, line := range in.Lines {
		if bodyParser == -1 && bodyParserMiddleware.MatchString(line) {
			bodyParser = i
		}

		if firstRoute == -1 && appRoute.MatchString(line) {
			firstRoute = i
		}
	}

	if firstRoute == -1 || bodyParser <= firstRoute {
		return nil, nil
	}

	return []rule.Violation{r.ReportLine(
		in,
		firstRoute+1,
		rule.SeverityLow,
		"Body parser middleware should be registered before route handlers",
		"Register middleware in the correct order: body parser before routes",
	)}, nil
}
