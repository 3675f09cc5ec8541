package analyzer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codeaudit/internal/analyzer"
	"github.com/smykla-skalski/codeaudit/internal/catalog"
	"github.com/smykla-skalski/codeaudit/internal/engine"
	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/ast"
	"github.com/smykla-skalski/codeaudit/pkg/logger"
	"github.com/smykla-skalski/codeaudit/pkg/parser"
)

func byRule(result *engine.AnalysisResult, name string) []rule.Violation {
	var out []rule.Violation

	for _, v := range result.Violations {
		if v.Rule == name {
			out = append(out, v)
		}
	}

	return out
}

func expectWellFormed(result *engine.AnalysisResult) {
	GinkgoHelper()

	Expect(result.Score).To(BeNumerically(">=", 0))
	Expect(result.Score).To(BeNumerically("<=", engine.MaxScore))
	Expect(result.TotalViolations).To(Equal(len(result.Violations)))
	Expect(result.Score).To(Equal(engine.Score(result.Violations)))
}

var _ = Describe("Analyzer", func() {
	var (
		ctx context.Context
		a   *analyzer.Analyzer
	)

	BeforeEach(func() {
		ctx = context.Background()
		a = analyzer.New(logger.NewNoOpLogger(), catalog.All())
	})

	It("should register the reference catalog in order", func() {
		Expect(a.RegisteredRules()).To(Equal(catalog.Names()))
		Expect(a.Rules()).To(HaveLen(13))
	})

	It("should log the registration", func() {
		var buf bytes.Buffer

		analyzer.New(logger.New(&buf, logger.LevelInfo), catalog.All())

		Expect(buf.String()).To(ContainSubstring("registered analysis rules rules=13"))
	})

	Describe("scenarios", func() {
		It("should score clean code 100", func() {
			src := readFixture("clean.js")

			result := a.Analyze(ctx, src, "clean.js")
			Expect(result.Score).To(Equal(100))
			Expect(result.Violations).To(BeEmpty())
			Expect(result.RuleResults).To(HaveLen(13))
		})

		It("should flag a hardcoded password once", func() {
			result := a.Analyze(ctx, "const password = \"s3cr3t\";\n", "secret.js")

			secrets := byRule(result, "hardcoded-secrets")
			Expect(secrets).To(HaveLen(1))
			Expect(secrets[0].Severity).To(Equal(rule.SeverityCritical))
		})

		It("should accept a password read from the environment", func() {
			result := a.Analyze(ctx, "const password = process.env.PASSWORD;\n", "secret.js")

			Expect(byRule(result, "hardcoded-secrets")).To(BeEmpty())
		})

		It("should flag an unauthenticated route once", func() {
			result := a.Analyze(ctx, "app.get('/admin', handler);\n", "routes.js")

			auth := byRule(result, "missing-authentication")
			Expect(auth).To(HaveLen(1))
			Expect(auth[0].Severity).To(Equal(rule.SeverityHigh))
		})

		It("should flag wildcard CORS with credentials at high and critical", func() {
			result := a.Analyze(ctx, "app.use(cors({ origin: '*', credentials: true }));\n", "cors.js")

			cors := byRule(result, "cors-misconfiguration")
			Expect(cors).To(HaveLen(2))
			Expect(cors[0].Severity).To(Equal(rule.SeverityHigh))
			Expect(cors[1].Severity).To(Equal(rule.SeverityCritical))
		})

		It("should flag a 600-line file for length only", func() {
			var b strings.Builder

			b.WriteString("function a() {\n  if (x) {\n    if (y) {\n      z();\n    }\n  }\n}\n")

			for range 600 - 8 {
				b.WriteString("z();\n")
			}

			src := b.String()
			Expect(strings.Split(src, "\n")).To(HaveLen(600))

			org := byRule(a.Analyze(ctx, src, "long.js"), "code-organization")
			Expect(org).To(HaveLen(1))
			Expect(org[0].Message).To(ContainSubstring("600 lines"))
		})

		It("should degrade to an empty result on invalid syntax", func() {
			result := a.Analyze(ctx, "function broken( {\n", "broken.js")

			Expect(result).To(Equal(engine.Empty()))

			data, err := json.Marshal(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"violations":[],"score":0,"totalViolations":0,"ruleResults":[]}`))
		})
	})

	Describe("cancellation", func() {
		It("should not score a cancelled analysis as passing", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			result := a.Analyze(cancelled, "eval(userInput);\nconst password = 'x';\n", "x.js")
			Expect(result).To(Equal(engine.Empty()))
		})

		It("should degrade when cancelled after parsing", func() {
			cancelled, cancel := context.WithCancel(ctx)
			defer cancel()

			src := parser.NewSourceParser()
			mid := analyzer.New(logger.NewNoOpLogger(), catalog.All(),
				analyzer.WithParser(parserFunc(func(c context.Context, source []byte, name string) (*ast.Program, error) {
					prog, err := src.Parse(c, source, name)
					cancel()

					return prog, err
				})),
			)

			result := mid.Analyze(cancelled, "eval(userInput);\n", "x.js")
			Expect(result.Score).To(BeZero())
			Expect(result.RuleResults).To(BeEmpty())
		})
	})

	Describe("properties", func() {
		sources := []string{
			"const password = 'a';\nconst secret = 'b';\nconst token = 'c';\neval(x);\neval(y);\n",
			readFixture("vulnerable.js"),
			readFixture("clean.js"),
			"",
		}

		It("should always produce well-formed results", func() {
			for _, src := range sources {
				expectWellFormed(a.Analyze(ctx, src, "x.js"))
			}
		})

		It("should floor the score at zero", func() {
			var b strings.Builder
			for range 10 {
				b.WriteString("eval(x);\n")
			}

			Expect(a.Analyze(ctx, b.String(), "evil.js").Score).To(BeZero())
		})

		It("should be idempotent", func() {
			for _, src := range sources {
				first, err := json.Marshal(a.Analyze(ctx, src, "x.js"))
				Expect(err).NotTo(HaveOccurred())

				second, err := json.Marshal(a.Analyze(ctx, src, "x.js"))
				Expect(err).NotTo(HaveOccurred())

				Expect(second).To(Equal(first))
			}
		})

		It("should not depend on the file name", func() {
			src := readFixture("vulnerable.js")

			Expect(a.Analyze(ctx, src, "a.ts")).To(Equal(a.Analyze(ctx, src, "b.jsx")))
		})

		It("should never raise the score when rules are added", func() {
			all := catalog.All()

			for _, src := range sources {
				for n := 1; n < len(all); n++ {
					fewer := analyzer.New(logger.NewNoOpLogger(), all[:n]).Analyze(ctx, src, "x.js")
					more := analyzer.New(logger.NewNoOpLogger(), all[:n+1]).Analyze(ctx, src, "x.js")

					Expect(more.Score).To(BeNumerically("<=", fewer.Score))
				}
			}
		})

		It("should produce the same result in parallel", func() {
			parallel := analyzer.New(logger.NewNoOpLogger(), catalog.All(), analyzer.WithParallel(4))

			for _, src := range sources {
				Expect(parallel.Analyze(ctx, src, "x.js")).To(Equal(a.Analyze(ctx, src, "x.js")))
			}
		})

		It("should be safe for concurrent callers", func() {
			src := readFixture("vulnerable.js")
			want := a.Analyze(ctx, src, "x.js")

			done := make(chan *engine.AnalysisResult, 8)
			for range 8 {
				go func() {
					defer GinkgoRecover()
					done <- a.Analyze(ctx, src, "x.js")
				}()
			}

			for range 8 {
				Expect(<-done).To(Equal(want))
			}
		})
	})

	It("should accept a custom parser", func() {
		custom := analyzer.New(
			logger.NewNoOpLogger(),
			catalog.All(),
			analyzer.WithParser(parserFunc(func(context.Context, []byte, string) (*ast.Program, error) {
				return &ast.Program{}, nil
			})),
		)

		result := custom.Analyze(ctx, "const password = 'x';\n", "x.js")
		Expect(byRule(result, "hardcoded-secrets")).To(HaveLen(1))
		Expect(byRule(result, "sql-injection")).To(BeEmpty())
	})
})

type parserFunc func(ctx context.Context, source []byte, fileName string) (*ast.Program, error)

func (f parserFunc) Parse(ctx context.Context, source []byte, fileName string) (*ast.Program, error) {
	return f(ctx, source, fileName)
}
