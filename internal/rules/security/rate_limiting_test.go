package security_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/internal/rules/security"
)

var _ = Describe("RateLimiting", func() {
	var r *security.RateLimiting

	BeforeEach(func() {
		r = security.NewRateLimiting()
	})

	It("should flag routes without a limiter once per file", func() {
		violations := check(r, "app.get('/a', a);\nrouter.post('/b', b);\n")

		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Severity).To(Equal(rule.SeverityMedium))
		Expect(violations[0].HasLocation()).To(BeFalse())
	})

	It("should accept a rate limiter", func() {
		src := "const limiter = rateLimit({ windowMs: 60000 });\napp.use(limiter);\napp.get('/a', a);\n"

		Expect(check(r, src)).To(BeEmpty())
	})

	It("should ignore files without routes", func() {
		Expect(check(r, "export const x = 1;\n")).To(BeEmpty())
	})
})
