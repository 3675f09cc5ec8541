package security_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/internal/rules/security"
)

var _ = Describe("CORS", func() {
	var r *security.CORS

	BeforeEach(func() {
		r = security.NewCORS()
	})

	It("should flag wildcard origin with credentials twice", func() {
		violations := check(r, "app.use(cors({ origin: '*', credentials: true }));\n")

		Expect(violations).To(HaveLen(2))
		Expect(violations[0].Severity).To(Equal(rule.SeverityHigh))
		Expect(violations[0].Message).To(ContainSubstring("wildcard origin (*)"))
		Expect(violations[1].Severity).To(Equal(rule.SeverityCritical))
		Expect(violations[1].Message).To(ContainSubstring("credentials enabled"))
	})

	It("should flag wildcard origin alone at high", func() {
		violations := check(r, "app.use(cors({ origin: \"*\" }));\n")

		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Severity).To(Equal(rule.SeverityHigh))
	})

	It("should accept explicit origins", func() {
		Expect(check(r, "app.use(cors({ origin: 'https://example.com', credentials: true }));\n")).To(BeEmpty())
	})

	It("should flag a manual wildcard header", func() {
		violations := check(r, "res.setHeader('Access-Control-Allow-Origin', '*');\n")

		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Severity).To(Equal(rule.SeverityHigh))
	})

	It("should flag missing configuration at low", func() {
		violations := check(r, "const x = 1;\n")

		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Severity).To(Equal(rule.SeverityLow))
		Expect(violations[0].Message).To(ContainSubstring("not configured"))
	})
})
