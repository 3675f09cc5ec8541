package engine

import "github.com/smykla-skalski/codeaudit/internal/rule"

// MaxScore is the score of a run without violations.
const MaxScore = 100

// RuleResult summarises one successfully executed rule.
type RuleResult struct {
	Rule       string           `json:"rule"       yaml:"rule"`
	Violations []rule.Violation `json:"violations" yaml:"violations"`
	Passed     bool             `json:"passed"     yaml:"passed"`
}

// AnalysisResult is the engine's output for one source file.
type AnalysisResult struct {
	Violations      []rule.Violation `json:"violations"      yaml:"violations"`
	Score           int              `json:"score"           yaml:"score"`
	TotalViolations int              `json:"totalViolations" yaml:"totalViolations"`
	RuleResults     []RuleResult     `json:"ruleResults"     yaml:"ruleResults"`
}

// Empty returns the degraded result used when no rule could run, for
// example when the source did not parse.
func Empty() *AnalysisResult {
	return &AnalysisResult{
		Violations:  []rule.Violation{},
		Score:       0,
		RuleResults: []RuleResult{},
	}
}

// Score subtracts the severity penalty of every violation from MaxScore,
// flooring at zero.
func Score(violations []rule.Violation) int {
	penalty := 0

	for _, v := range violations {
		penalty += v.Severity.Penalty()
	}

	return max(0, MaxScore-penalty)
}

// CountBySeverity tallies violations per severity.
func (r *AnalysisResult) CountBySeverity() map[rule.Severity]int {
	counts := make(map[rule.Severity]int, len(rule.Severities()))

	for _, v := range r.Violations {
		counts[v.Severity]++
	}

	return counts
}

// HasSeverityAtLeast reports whether any violation is at or above min.
func (r *AnalysisResult) HasSeverityAtLeast(minimum rule.Severity) bool {
	for _, v := range r.Violations {
		if v.Severity.AtLeast(minimum) {
			return true
		}
	}

	return false
}

// RuleResult returns the result of the named rule, if it ran.
func (r *AnalysisResult) RuleResult(name string) (RuleResult, bool) {
	for _, rr := range r.RuleResults {
		if rr.Rule == name {
			return rr, true
		}
	}

	return RuleResult{}, false
}
