package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codeaudit/internal/engine"
	"github.com/smykla-skalski/codeaudit/internal/rule"
)

var _ = Describe("AnalysisResult", func() {
	repeat := func(n int, sev rule.Severity) []rule.Violation {
		out := make([]rule.Violation, n)
		for i := range out {
			out[i] = violation("r", sev)
		}

		return out
	}

	DescribeTable("Score",
		func(violations []rule.Violation, expected int) {
			Expect(engine.Score(violations)).To(Equal(expected))
		},
		Entry("no violations", nil, 100),
		Entry("one of each", []rule.Violation{
			violation("a", rule.SeverityLow),
			violation("b", rule.SeverityMedium),
			violation("c", rule.SeverityHigh),
			violation("d", rule.SeverityCritical),
		}, 63),
		Entry("exactly zero", repeat(5, rule.SeverityCritical), 0),
		Entry("floored at zero", repeat(6, rule.SeverityCritical), 0),
		Entry("many lows", repeat(49, rule.SeverityLow), 2),
	)

	It("should count by severity", func() {
		result := &engine.AnalysisResult{Violations: []rule.Violation{
			violation("a", rule.SeverityHigh),
			violation("b", rule.SeverityHigh),
			violation("c", rule.SeverityLow),
		}}

		counts := result.CountBySeverity()
		Expect(counts[rule.SeverityHigh]).To(Equal(2))
		Expect(counts[rule.SeverityLow]).To(Equal(1))
		Expect(counts[rule.SeverityCritical]).To(BeZero())
	})

	It("should compare against a severity threshold", func() {
		result := &engine.AnalysisResult{Violations: []rule.Violation{violation("a", rule.SeverityMedium)}}

		Expect(result.HasSeverityAtLeast(rule.SeverityLow)).To(BeTrue())
		Expect(result.HasSeverityAtLeast(rule.SeverityMedium)).To(BeTrue())
		Expect(result.HasSeverityAtLeast(rule.SeverityHigh)).To(BeFalse())
		Expect(engine.Empty().HasSeverityAtLeast(rule.SeverityLow)).To(BeFalse())
	})

	It("should describe the degraded result", func() {
		empty := engine.Empty()

		Expect(empty.Score).To(BeZero())
		Expect(empty.TotalViolations).To(BeZero())
		Expect(empty.Violations).NotTo(BeNil())
		Expect(empty.RuleResults).NotTo(BeNil())
	})
})
