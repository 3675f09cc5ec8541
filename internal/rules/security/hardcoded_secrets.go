package security

import (
	"regexp"
	"strings"

	"github.com/smykla-skalski/codeaudit/internal/rule"
)

const (
	secretRuleName = "hardcoded-secrets"

	// secretPreviewRunes bounds how much of the offending line the message
	// quotes.
	secretPreviewRunes = 50
)

// secretPatterns match a secret-like name assigned a quoted literal.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password\s*[:=]\s*['"](.+?)['"]`),
	regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*['"](.+?)['"]`),
	regexp.MustCompile(`(?i)secret\s*[:=]\s*['"](.+?)['"]`),
	regexp.MustCompile(`(?i)token\s*[:=]\s*['"](.+?)['"]`),
	regexp.MustCompile(`(?i)auth[_-]?token\s*[:=]\s*['"](.+?)['"]`),
	regexp.MustCompile(`(?i)access[_-]?token\s*[:=]\s*['"](.+?)['"]`),
	regexp.MustCompile(`(?i)private[_-]?key\s*[:=]\s*['"](.+?)['"]`),
	regexp.MustCompile(`(?i)database[_-]?password\s*[:=]\s*['"](.+?)['"]`),
	regexp.MustCompile(`(?i)db[_-]?pass\s*[:=]\s*['"](.+?)['"]`),
	regexp.MustCompile(`(?i)mongodb[_-]?uri\s*[:=]\s*['"](.+?)['"]`),
}

// envReads mark a line as reading configuration from the environment.
var envReads = []*regexp.Regexp{
	regexp.MustCompile(`process\.env\.\w+`),
	regexp.MustCompile(`process\.env\[`),
	regexp.MustCompile(`import\.meta\.env\.\w+`),
}

// HardcodedSecrets flags credentials written as string literals.
type HardcodedSecrets struct {
	*rule.BaseRule
}

// NewHardcodedSecrets creates the hardcoded-secrets detector.
func NewHardcodedSecrets() *HardcodedSecrets {
	return &HardcodedSecrets{
		BaseRule: rule.NewBaseRule(
			secretRuleName,
			"Detects hardcoded passwords, API keys, tokens and connection strings",
			rule.SeverityCritical,
			rule.GroupSecurity,
			version,
		),
	}
}

// Check reports at most one violation per line, for the first secret
// pattern that matches. Lines reading from the environment are skipped.
func (r *HardcodedSecrets) Check(in *rule.Input) ([]rule.Violation, error) {
	var violations []rule.Violation

	for i, line := range in.Lines {
		if !rule.MatchesAny(line, secretPatterns) || rule.MatchesAny(line, envReads) {
			continue
		}

		violations = append(violations, r.ReportLine(
			in,
			i+1,
			rule.SeverityCritical,
			"Hardcoded secret detected: "+rule.TruncateRunes(strings.TrimSpace(line), secretPreviewRunes),
			"Use environment variables (process.env) instead of hardcoding secrets",
		))
	}

	return violations, nil
}
