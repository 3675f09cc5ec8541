package architecture

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/smykla-skalski/codeaudit/internal/rule"
)

const (
	minStatusCode = 100
	maxStatusCode = 599
)

var (
	statusCall       = regexp.MustCompile(`\.(?:status|sendStatus)\s*\(\s*(\d+)\s*\)`)
	responseEmission = regexp.MustCompile(`res\.(json|send)\s*\(`)
)

// APIDesign flags invalid status codes and files that never emit a
// response through res.json or res.send.
type APIDesign struct {
	*rule.BaseRule
}

// NewAPIDesign creates the api-design detector.
func NewAPIDesign() *APIDesign {
	return &APIDesign{
		BaseRule: rule.NewBaseRule(
			"api-design",
			"Checks HTTP status codes and response format consistency",
			rule.SeverityLow,
			rule.GroupArchitecture,
			version,
		),
	}
}

// Check considers only the first status call on each line.
func (r *APIDesign) Check(in *rule.Input) ([]rule.Violation, error) {
	var violations []rule.Violation

	for i, line := range in.Lines {
		m := statusCall.FindStringSubmatch(line)
		if m == nil || validStatus(m[1]) {
			continue
		}

		violations = append(violations, r.ReportLine(
			in,
			i+1,
			rule.SeverityLow,
			fmt.Sprintf("Invalid HTTP status code: %s", normalizeDigits(m[1])),
			"Use valid HTTP status codes (100-599)",
		))
	}

	if !responseEmission.MatchString(in.Text) {
		violations = append(violations, r.Report(
			rule.SeverityLow,
			"Consider using consistent response format (res.json())",
			"Use consistent response format across all endpoints",
		))
	}

	return violations, nil
}

func validStatus(digits string) bool {
	code, err := strconv.Atoi(digits)

	return err == nil && code >= minStatusCode && code <= maxStatusCode
}

// normalizeDigits drops leading zeros the way an integer rendering would.
func normalizeDigits(digits string) string {
	for len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}

	return digits
}
