package analyzer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codeaudit/internal/analyzer"
	"github.com/smykla-skalski/codeaudit/internal/catalog"
	"github.com/smykla-skalski/codeaudit/pkg/config"
	"github.com/smykla-skalski/codeaudit/pkg/logger"
	"github.com/smykla-skalski/codeaudit/pkg/parser"
)

func writeFile(path, content string) {
	GinkgoHelper()

	Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
}

var _ = Describe("Batch analysis", func() {
	var (
		dir  string
		opts analyzer.BatchOptions
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		opts = analyzer.BatchOptions{
			Extensions:  config.DefaultExtensions,
			Exclude:     config.DefaultExclude,
			MaxFileSize: 1024,
			MaxInFlight: 2,
		}

		writeFile(filepath.Join(dir, "src", "app.js"), "app.get('/', h);\n")
		writeFile(filepath.Join(dir, "src", "util.ts"), "export const n: number = 1;\n")
		writeFile(filepath.Join(dir, "src", "broken.tsx"), "function ( {\n")
		writeFile(filepath.Join(dir, "src", "big.js"), "// "+strings.Repeat("x", 2048)+"\n")
		writeFile(filepath.Join(dir, "README.md"), "# readme\n")
		writeFile(filepath.Join(dir, "node_modules", "dep", "index.js"), "eval(x);\n")
		writeFile(filepath.Join(dir, "dist", "bundle.js"), "eval(x);\n")
	})

	Describe("Discover", func() {
		It("should walk directories with extension and exclude filters", func() {
			files, err := analyzer.Discover([]string{dir}, opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(files).To(Equal([]string{
				filepath.Join(dir, "src", "app.js"),
				filepath.Join(dir, "src", "big.js"),
				filepath.Join(dir, "src", "broken.tsx"),
				filepath.Join(dir, "src", "util.ts"),
			}))
		})

		It("should not descend into excluded directories", func() {
			if os.Geteuid() == 0 {
				Skip("root can read any directory")
			}

			locked := filepath.Join(dir, "node_modules", "locked")
			Expect(os.MkdirAll(locked, 0o755)).To(Succeed())
			Expect(os.Chmod(locked, 0)).To(Succeed())
			DeferCleanup(os.Chmod, locked, os.FileMode(0o755))

			files, err := analyzer.Discover([]string{dir}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(HaveLen(4))
		})

		It("should keep explicitly named files of any extension", func() {
			readme := filepath.Join(dir, "README.md")

			files, err := analyzer.Discover([]string{readme}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(Equal([]string{readme}))
		})

		It("should expand glob patterns", func() {
			files, err := analyzer.Discover([]string{filepath.Join(dir, "**", "*.ts")}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(Equal([]string{filepath.Join(dir, "src", "util.ts")}))
		})

		It("should deduplicate overlapping arguments", func() {
			app := filepath.Join(dir, "src", "app.js")

			files, err := analyzer.Discover([]string{app, filepath.Join(dir, "src")}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(files[0]).To(Equal(app))
			Expect(files).To(HaveLen(4))
		})

		It("should fail for missing paths", func() {
			_, err := analyzer.Discover([]string{filepath.Join(dir, "missing")}, opts)
			Expect(err).To(HaveOccurred())
		})

		It("should fail when nothing matches", func() {
			_, err := analyzer.Discover([]string{filepath.Join(dir, "node_modules")}, analyzer.BatchOptions{
				Extensions: []string{".vue"},
			})
			Expect(errors.Is(err, analyzer.ErrNoFiles)).To(BeTrue())
		})
	})

	Describe("AnalyzeFiles", func() {
		It("should report every file in order with per-file errors", func() {
			a := analyzer.New(logger.NewNoOpLogger(), catalog.All())

			files, err := analyzer.Discover([]string{dir}, opts)
			Expect(err).NotTo(HaveOccurred())

			reports, err := a.AnalyzeFiles(context.Background(), files, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(HaveLen(4))

			app, big, broken, util := reports[0], reports[1], reports[2], reports[3]

			Expect(app.Path).To(Equal(files[0]))
			Expect(app.Failed()).To(BeFalse())
			Expect(app.Result.TotalViolations).To(BeNumerically(">", 0))

			Expect(big.Failed()).To(BeTrue())
			Expect(errors.Is(big.Err, analyzer.ErrFileTooLarge)).To(BeTrue())
			Expect(big.Result).To(BeNil())
			Expect(big.Size).To(BeNumerically(">", 1024))

			Expect(broken.Failed()).To(BeTrue())
			Expect(errors.Is(broken.Err, parser.ErrSyntax)).To(BeTrue())
			Expect(broken.Result.Score).To(BeZero())
			Expect(broken.Result.RuleResults).To(BeEmpty())

			Expect(util.Failed()).To(BeFalse())
			Expect(util.Result.RuleResults).To(HaveLen(13))
		})

		It("should stop when the context is cancelled", func() {
			a := analyzer.New(logger.NewNoOpLogger(), catalog.All())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := a.AnalyzeFiles(ctx, []string{filepath.Join(dir, "src", "app.js")}, opts)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})

	Describe("AnalyzeSource", func() {
		It("should analyze in-memory source", func() {
			a := analyzer.New(logger.NewNoOpLogger(), catalog.All())

			report := a.AnalyzeSource(context.Background(), "<stdin>", []byte("eval(x);\n"), 0)
			Expect(report.Failed()).To(BeFalse())
			Expect(report.Size).To(Equal(int64(9)))
			Expect(report.Result.Violations).NotTo(BeEmpty())
		})

		It("should mark a cancelled analysis as failed", func() {
			a := analyzer.New(logger.NewNoOpLogger(), catalog.All())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			report := a.AnalyzeSource(ctx, "<stdin>", []byte("eval(x);\n"), 0)
			Expect(report.Failed()).To(BeTrue())
			Expect(errors.Is(report.Err, context.Canceled)).To(BeTrue())
			Expect(report.Result.Score).To(BeZero())
		})

		It("should apply the size limit", func() {
			a := analyzer.New(logger.NewNoOpLogger(), catalog.All())

			report := a.AnalyzeSource(context.Background(), "<stdin>", []byte("eval(x);\n"), 4)
			Expect(errors.Is(report.Err, analyzer.ErrFileTooLarge)).To(BeTrue())
		})
	})
})
