package architecture_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/internal/rules/architecture"
)

var _ = Describe("ErrorHandling", func() {
	var r *architecture.ErrorHandling

	BeforeEach(func() {
		r = architecture.NewErrorHandling()
	})

	It("should flag database calls outside try", func() {
		src := "async function load() {\n  const rows = await db.query('SELECT 1');\n  return rows;\n}\n"

		violations := check(r, src)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Severity).To(Equal(rule.SeverityMedium))
		Expect(violations[0].Message).To(Equal("Database operation (query) may need error handling"))
		Expect(violations[0].Line).To(Equal(2))
	})

	It("should accept calls inside try", func() {
		src := `async function save(user) {
  try {
    await user.save();
  } catch (err) {
    log(err);
  }
}
`
		Expect(check(r, src)).To(BeEmpty())
	})

	It("should flag calls inside catch", func() {
		src := `async function save(user) {
  try {
    risky();
  } catch (err) {
    await Audit.create({ err });
  }
}
`
		violations := check(r, src)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Message).To(ContainSubstring("(create)"))
	})

	It("should accept a chained catch", func() {
		Expect(check(r, "User.findOne({ id }).then(send).catch(fail);\n")).To(BeEmpty())
	})

	It("should flag await in a function not marked async", func() {
		src := "function load() {\n  return await fetchData();\n}\n"

		violations := check(r, src)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Severity).To(Equal(rule.SeverityLow))
		Expect(violations[0].Message).To(Equal("await is used but function may not be async"))
	})

	It("should accept await in async arrows and at top level next to them", func() {
		src := "const load = async () => await fetchData();\nawait init();\n"

		Expect(check(r, src)).To(BeEmpty())
	})

	It("should flag top-level await in a file without async functions", func() {
		violations := check(r, "const data = await fetch(url);\n")

		Expect(violations).To(HaveLen(1))
		Expect(violations[0].Rule).To(Equal("error-handling"))
		Expect(violations[0].Severity).To(Equal(rule.SeverityLow))
		Expect(violations[0].Line).To(Equal(1))
	})
})
