package security

import (
	"regexp"
	"strings"

	"github.com/smykla-skalski/codeaudit/internal/rule"
)

var helmetMarker = regexp.MustCompile(`(?i)helmet`)

type securityHeader struct {
	name    string
	pattern *regexp.Regexp
}

var securityHeaders = []securityHeader{
	{"X-Content-Type-Options", regexp.MustCompile(`(?i)x[_-]?content[_-]?type[_-]?options`)},
	{"X-Frame-Options", regexp.MustCompile(`(?i)x[_-]?frame[_-]?options`)},
	{"X-XSS-Protection", regexp.MustCompile(`(?i)x[_-]?xss[_-]?protection`)},
	{"Strict-Transport-Security", regexp.MustCompile(`(?i)strict[_-]?transport[_-]?security|hsts`)},
	{"Content-Security-Policy", regexp.MustCompile(`(?i)content[_-]?security[_-]?policy|csp`)},
}

// Headers flags files that neither use helmet nor mention every security
// header.
type Headers struct {
	*rule.BaseRule
}

// NewHeaders creates the insecure-http-headers detector.
func NewHeaders() *Headers {
	return &Headers{
		BaseRule: rule.NewBaseRule(
			"insecure-http-headers",
			"Detects missing HTTP security headers",
			rule.SeverityMedium,
			rule.GroupSecurity,
			version,
		),
	}
}

// Check emits one violation listing every missing header.
func (r *Headers) Check(in *rule.Input) ([]rule.Violation, error) {
	if helmetMarker.MatchString(in.Text) {
		return nil, nil
	}

	var missing []string

	for _, h := range securityHeaders {
		if !h.pattern.MatchString(in.Text) {
			missing = append(missing, h.name)
		}
	}

	if len(missing) == 0 {
		return nil, nil
	}

	return []rule.Violation{r.Report(
		rule.SeverityMedium,
		"Missing security headers. Consider using helmet middleware or manually setting: "+strings.Join(missing, ", "),
		"Use helmet middleware to set security headers automatically",
	)}, nil
}
