package engine_test

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/codeaudit/internal/engine"
	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/ast"
	"github.com/smykla-skalski/codeaudit/pkg/logger"
)

func violation(name string, sev rule.Severity) rule.Violation {
	return rule.Violation{Rule: name, Severity: sev, Message: name + " found"}
}

var _ = Describe("Engine", func() {
	var (
		ctrl  *gomock.Controller
		input *rule.Input
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		input = rule.NewInput(&ast.Program{}, "const a = 1;\n")
	})

	mockRule := func(name string, violations []rule.Violation, err error) *rule.MockRule {
		m := rule.NewMockRule(ctrl)
		m.EXPECT().Name().Return(name).AnyTimes()
		m.EXPECT().Check(input).Return(violations, err).Times(1)

		return m
	}

	newEngine := func(opts []engine.Option, rules ...rule.Rule) *engine.Engine {
		registry := engine.NewRegistry()
		registry.RegisterAll(rules...)

		return engine.New(registry, logger.NewNoOpLogger(), opts...)
	}

	executors := []TableEntry{
		Entry("sequential", []engine.Option(nil)),
		Entry("parallel", []engine.Option{
			engine.WithExecutor(engine.NewParallelExecutor(logger.NewNoOpLogger(), 2)),
		}),
	}

	DescribeTable("should aggregate in registration order",
		func(opts []engine.Option) {
			e := newEngine(opts,
				mockRule("first", []rule.Violation{
					violation("first", rule.SeverityHigh),
					violation("first", rule.SeverityLow),
				}, nil),
				mockRule("second", nil, nil),
				mockRule("third", []rule.Violation{violation("third", rule.SeverityCritical)}, nil),
			)

			result := e.Analyze(context.Background(), input)

			Expect(result.TotalViolations).To(Equal(3))
			Expect(result.Score).To(Equal(100 - 10 - 2 - 20))
			Expect(result.Violations).To(HaveLen(3))
			Expect(result.Violations[0].Severity).To(Equal(rule.SeverityHigh))
			Expect(result.Violations[1].Severity).To(Equal(rule.SeverityLow))
			Expect(result.Violations[2].Rule).To(Equal("third"))

			Expect(result.RuleResults).To(HaveLen(3))
			Expect(result.RuleResults[0].Passed).To(BeFalse())
			Expect(result.RuleResults[1].Rule).To(Equal("second"))
			Expect(result.RuleResults[1].Passed).To(BeTrue())
			Expect(result.RuleResults[1].Violations).To(BeEmpty())
			Expect(result.RuleResults[1].Violations).NotTo(BeNil())
		},
		executors,
	)

	DescribeTable("should isolate failing rules",
		func(opts []engine.Option) {
			panicky := rule.NewMockRule(ctrl)
			panicky.EXPECT().Name().Return("panicky").AnyTimes()
			panicky.EXPECT().Check(input).DoAndReturn(func(*rule.Input) ([]rule.Violation, error) {
				panic("boom")
			})

			e := newEngine(opts,
				mockRule("before", []rule.Violation{violation("before", rule.SeverityMedium)}, nil),
				mockRule("erroring", []rule.Violation{violation("erroring", rule.SeverityCritical)}, errors.New("bad state")),
				panicky,
				mockRule("after", []rule.Violation{violation("after", rule.SeverityLow)}, nil),
			)

			result := e.Analyze(context.Background(), input)

			Expect(result.Violations).To(HaveLen(2))
			Expect(result.Violations[0].Rule).To(Equal("before"))
			Expect(result.Violations[1].Rule).To(Equal("after"))
			Expect(result.Score).To(Equal(100 - 5 - 2))

			_, ok := result.RuleResult("erroring")
			Expect(ok).To(BeFalse())
			_, ok = result.RuleResult("panicky")
			Expect(ok).To(BeFalse())

			after, ok := result.RuleResult("after")
			Expect(ok).To(BeTrue())
			Expect(after.Passed).To(BeFalse())
		},
		executors,
	)

	It("should return the empty result without an AST", func() {
		e := newEngine(nil, rule.NewMockRule(ctrl))

		Expect(e.Analyze(context.Background(), nil)).To(Equal(engine.Empty()))
		Expect(e.Analyze(context.Background(), rule.NewInput(nil, "x"))).To(Equal(engine.Empty()))
	})

	It("should produce a perfect score with no rules", func() {
		result := newEngine(nil).Analyze(context.Background(), input)

		Expect(result.Score).To(Equal(engine.MaxScore))
		Expect(result.Violations).To(BeEmpty())
		Expect(result.RuleResults).To(BeEmpty())
	})

	It("should skip rules once the context is done", func() {
		m := rule.NewMockRule(ctrl)
		m.EXPECT().Name().Return("never").AnyTimes()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Expect(newEngine(nil, m).Analyze(ctx, input)).To(Equal(engine.Empty()))
	})
})

var _ = Describe("Executors", func() {
	var ctrl *gomock.Controller

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
	})

	It("should mark rule errors and panics", func() {
		input := rule.NewInput(&ast.Program{}, "")
		cause := errors.New("bad state")

		erroring := rule.NewMockRule(ctrl)
		erroring.EXPECT().Name().Return("erroring").AnyTimes()
		erroring.EXPECT().Check(input).Return(nil, cause)

		panicky := rule.NewMockRule(ctrl)
		panicky.EXPECT().Name().Return("panicky").AnyTimes()
		panicky.EXPECT().Check(input).DoAndReturn(func(*rule.Input) ([]rule.Violation, error) {
			panic(fmt.Sprintf("index %d out of range", 7))
		})

		outcomes := engine.NewSequentialExecutor(logger.NewNoOpLogger()).
			Execute(context.Background(), input, []rule.Rule{erroring, panicky})

		Expect(outcomes).To(HaveLen(2))
		Expect(errors.Is(outcomes[0].Err, engine.ErrRuleFailed)).To(BeTrue())
		Expect(errors.Is(outcomes[0].Err, cause)).To(BeTrue())
		Expect(errors.Is(outcomes[1].Err, engine.ErrRuleFailed)).To(BeTrue())
		Expect(outcomes[1].Err.Error()).To(ContainSubstring("panicky panicked: index 7 out of range"))
		Expect(outcomes[1].Violations).To(BeNil())
	})

	It("should bound the parallel pool and keep order", func() {
		input := rule.NewInput(&ast.Program{}, "")
		rules := make([]rule.Rule, 0, 20)

		for i := range 20 {
			name := fmt.Sprintf("rule-%02d", i)
			m := rule.NewMockRule(ctrl)
			m.EXPECT().Name().Return(name).AnyTimes()
			m.EXPECT().Check(input).Return([]rule.Violation{violation(name, rule.SeverityLow)}, nil)
			rules = append(rules, m)
		}

		outcomes := engine.NewParallelExecutor(logger.NewNoOpLogger(), 0).
			Execute(context.Background(), input, rules)

		Expect(outcomes).To(HaveLen(20))

		for i, o := range outcomes {
			Expect(o.Err).NotTo(HaveOccurred())
			Expect(o.Rule.Name()).To(Equal(fmt.Sprintf("rule-%02d", i)))
			Expect(o.Violations[0].Rule).To(Equal(o.Rule.Name()))
		}
	})
})
