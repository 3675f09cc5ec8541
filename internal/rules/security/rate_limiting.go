package security

import (
	"regexp"

	"github.com/smykla-skalski/codeaudit/internal/rule"
)

var rateLimitMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)rate[_-]?limit`),
	regexp.MustCompile(`(?i)express[_-]?rate[_-]?limit`),
	regexp.MustCompile(`(?i)limiter`),
	regexp.MustCompile(`(?i)throttle`),
}

// RateLimiting flags files that register routes without any rate limiting
// marker. Detection is file-wide, not per route.
type RateLimiting struct {
	*rule.BaseRule
}

// NewRateLimiting creates the missing-rate-limiting detector.
func NewRateLimiting() *RateLimiting {
	return &RateLimiting{
		BaseRule: rule.NewBaseRule(
			"missing-rate-limiting",
			"Detects route registrations without rate limiting middleware",
			rule.SeverityMedium,
			rule.GroupSecurity,
			version,
		),
	}
}

// Check emits at most one whole-file violation.
func (r *RateLimiting) Check(in *rule.Input) ([]rule.Violation, error) {
	if !rule.AnyRouteRegistration.MatchString(in.Text) || rule.MatchesAny(in.Text, rateLimitMarkers) {
		return nil, nil
	}

	return []rule.Violation{r.Report(
		rule.SeverityMedium,
		"Rate limiting middleware is not detected. Consider adding rate limiting to protect against abuse",
		"Add rate limiting middleware (express-rate-limit) to protect your API endpoints",
	)}, nil
}
