package rule_test

import (
	"regexp"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/ast"
)

var _ = Describe("BaseRule", func() {
	base := rule.NewBaseRule("demo", "Demo rule", rule.SeverityMedium, rule.GroupSecurity, "1.2.0")
	in := rule.NewInput(&ast.Program{}, "first\n    second line  \nthird")

	It("should describe itself", func() {
		Expect(base.Name()).To(Equal("demo"))
		Expect(base.Description()).To(Equal("Demo rule"))
		Expect(base.Severity()).To(Equal(rule.SeverityMedium))
		Expect(base.Group()).To(Equal(rule.GroupSecurity))
		Expect(base.Version().String()).To(Equal("1.2.0"))
	})

	It("should panic on an invalid version", func() {
		Expect(func() {
			rule.NewBaseRule("x", "", rule.SeverityLow, rule.GroupSecurity, "one")
		}).To(Panic())
	})

	It("should build whole-file violations", func() {
		v := base.Report(rule.SeverityLow, "msg", "fix it")

		Expect(v).To(Equal(rule.Violation{
			Rule:           "demo",
			Severity:       rule.SeverityLow,
			Message:        "msg",
			Recommendation: "fix it",
		}))
		Expect(v.HasLocation()).To(BeFalse())
	})

	It("should build line violations with a trimmed snippet", func() {
		v := base.ReportLine(in, 2, rule.SeverityHigh, "msg", "")

		Expect(v.Line).To(Equal(2))
		Expect(v.Column).To(BeZero())
		Expect(v.CodeSnippet).To(Equal("second line"))
		Expect(v.HasLocation()).To(BeTrue())
	})

	It("should build node violations with a column", func() {
		node := &ast.Identifier{Loc: ast.Loc{Start: ast.Position{Line: 3, Column: 2}}, Name: "hird"}
		v := base.ReportNode(in, node, rule.SeverityCritical, "msg", "")

		Expect(v.Line).To(Equal(3))
		Expect(v.Column).To(Equal(2))
		Expect(v.CodeSnippet).To(Equal("third"))
	})
})

var _ = Describe("Input", func() {
	It("should split lines and guard the range", func() {
		in := rule.NewInput(nil, "a\nb\n")

		Expect(in.Lines).To(Equal([]string{"a", "b", ""}))
		Expect(in.Line(1)).To(Equal("a"))
		Expect(in.Line(0)).To(BeEmpty())
		Expect(in.Line(4)).To(BeEmpty())
	})

	It("should truncate long snippets", func() {
		in := rule.NewInput(nil, strings.Repeat("x", 300))
		snippet := in.Snippet(1)

		Expect(snippet).To(HaveLen(rule.MaxSnippetWidth))
		Expect(snippet).To(HaveSuffix("..."))
	})
})

var _ = Describe("patterns", func() {
	It("should match route registrations", func() {
		Expect(rule.AppRouteCall.MatchString("app.post ('/x', h)")).To(BeTrue())
		Expect(rule.AppRouteCall.MatchString("router.get('/x', h)")).To(BeFalse())
		Expect(rule.RouterRouteCall.MatchString("router.delete('/x', h)")).To(BeTrue())
		Expect(rule.AnyRouteRegistration.MatchString("const r = app.patch")).To(BeTrue())
	})

	It("should match any of several patterns", func() {
		patterns := []*regexp.Regexp{regexp.MustCompile(`^a`), regexp.MustCompile(`z$`)}

		Expect(rule.MatchesAny("abc", patterns)).To(BeTrue())
		Expect(rule.MatchesAny("xyz", patterns)).To(BeTrue())
		Expect(rule.MatchesAny("m", patterns)).To(BeFalse())
		Expect(rule.MatchesAny("m", nil)).To(BeFalse())
	})

	It("should truncate by rune", func() {
		Expect(rule.TruncateRunes("héllo", 2)).To(Equal("hé"))
		Expect(rule.TruncateRunes("hi", 5)).To(Equal("hi"))
	})
})
