package security

import (
	"regexp"

	"github.com/smykla-skalski/codeaudit/internal/rule"
)

// ValidationContextLines is how many preceding lines are searched for a
// validation context marker.
const ValidationContextLines = 10

var (
	requestAccess = regexp.MustCompile(`req\.(body|query|params|headers)[\[.]`)

	validationLibraries = []*regexp.Regexp{
		regexp.MustCompile(`(?i)express-validator`),
		regexp.MustCompile(`(?i)joi`),
		regexp.MustCompile(`(?i)yup`),
		regexp.MustCompile(`(?i)zod`),
		regexp.MustCompile(`(?i)validator`),
		regexp.MustCompile(`(?i)\.validate`),
		regexp.MustCompile(`(?i)\.check`),
		regexp.MustCompile(`(?i)\.body\(`),
	}

	validationContext = regexp.MustCompile(`(?i)(validate|check|sanitize|validator)`)
)

// InputValidation flags request accessors used in files without any
// validation library. Detection is file-wide, not per route.
type InputValidation struct {
	*rule.BaseRule
}

// NewInputValidation creates the missing-input-validation detector.
func NewInputValidation() *InputValidation {
	return &InputValidation{
		BaseRule: rule.NewBaseRule(
			"missing-input-validation",
			"Detects request data used without input validation",
			rule.SeverityMedium,
			rule.GroupSecurity,
			version,
		),
	}
}

// Check returns nothing when the file references a validation library.
func (r *InputValidation) Check(in *rule.Input) ([]rule.Violation, error) {
	if rule.MatchesAny(in.Text, validationLibraries) {
		return nil, nil
	}

	var violations []rule.Violation

	for i, line := range in.Lines {
		if !requestAccess.MatchString(line) || inValidationContext(in.Lines, i) {
			continue
		}

		violations = append(violations, r.ReportLine(
			in,
			i+1,
			rule.SeverityMedium,
			"User input (req.body/query/params) is used without validation",
			"Add input validation middleware (express-validator, joi, zod, etc.)",
		))
	}

	return violations, nil
}

func inValidationContext(lines []string, index int) bool {
	for _, line := range lines[max(0, index-ValidationContextLines):index] {
		if validationContext.MatchString(line) {
			return true
		}
	}

	return false
}
