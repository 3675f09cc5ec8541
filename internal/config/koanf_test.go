package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codeaudit/pkg/config"
)

func writeTOML(path, content string) {
	GinkgoHelper()

	Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
}

func setEnv(key, value string) {
	GinkgoHelper()

	prev, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())

	DeferCleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

var _ = Describe("KoanfLoader", func() {
	var (
		homeDir string
		workDir string
		loader  *KoanfLoader
	)

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		loader = NewKoanfLoaderWithDirs(homeDir, workDir)
	})

	Describe("defaults", func() {
		It("loads defaults when no config files exist", func() {
			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Version).To(Equal(config.CurrentConfigVersion))
			Expect(cfg.GetAnalyzer().IsParallel()).To(BeFalse())
			Expect(cfg.GetAnalyzer().GetMaxFileSize()).To(Equal(config.DefaultMaxFileSize))
			Expect(cfg.GetAnalyzer().GetMaxFilesInFlight()).To(Equal(config.DefaultMaxFilesInFlight))
			Expect(cfg.GetAnalyzer().GetExtensions()).To(Equal(config.DefaultExtensions))
			Expect(cfg.GetAnalyzer().GetExclude()).To(Equal(config.DefaultExclude))
			Expect(cfg.GetRules().Disabled).To(BeEmpty())
			Expect(cfg.GetRules().GetCodeOrganization().GetMaxLines()).To(Equal(config.DefaultMaxLines))
			Expect(cfg.GetOutput().GetFormat()).To(Equal(config.FormatTable))
			Expect(cfg.GetOutput().GetMinScore()).To(Equal(0))
		})

		It("reports no sources", func() {
			Expect(loader.Sources()).To(BeEmpty())
			Expect(loader.HasGlobalConfig()).To(BeFalse())
			Expect(loader.FindProjectConfigPath()).To(BeEmpty())
		})
	})

	Describe("files", func() {
		It("layers project config over global config", func() {
			writeTOML(loader.GlobalConfigPath(), `
[output]
format = "json"
min_score = 40

[analyzer]
max_file_size = "2MiB"
`)
			writeTOML(filepath.Join(workDir, ProjectConfigDir, ProjectConfigFile), `
[output]
format = "yaml"

[rules]
disabled = ["api-design"]

[rules.code_organization]
max_lines = 300
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.GetOutput().GetFormat()).To(Equal(config.FormatYAML))
			Expect(cfg.GetOutput().GetMinScore()).To(Equal(40))
			Expect(cfg.GetAnalyzer().GetMaxFileSize()).To(Equal(2 * config.MB))
			Expect(cfg.GetRules().IsDisabled("api-design")).To(BeTrue())
			Expect(cfg.GetRules().GetCodeOrganization().GetMaxLines()).To(Equal(300))
			Expect(cfg.GetRules().GetCodeOrganization().GetMaxNesting()).To(Equal(config.DefaultMaxNesting))

			Expect(loader.Sources()).To(Equal([]string{
				loader.GlobalConfigPath(),
				filepath.Join(workDir, ProjectConfigDir, ProjectConfigFile),
			}))
		})

		It("finds the alternative project file", func() {
			alt := filepath.Join(workDir, ProjectConfigFileAlt)
			writeTOML(alt, "[analyzer]\nmax_file_size = 4096\n")

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetAnalyzer().GetMaxFileSize()).To(Equal(4 * config.KB))
			Expect(loader.FindProjectConfigPath()).To(Equal(alt))
		})

		It("prefers an explicit config file over the project config", func() {
			writeTOML(filepath.Join(workDir, ProjectConfigFileAlt), "[output]\nformat = \"yaml\"\n")

			explicit := filepath.Join(GinkgoT().TempDir(), "ci.toml")
			writeTOML(explicit, "[output]\nformat = \"json\"\n")
			loader.SetConfigFile(explicit)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetOutput().GetFormat()).To(Equal(config.FormatJSON))
			Expect(loader.Sources()).To(Equal([]string{explicit}))
		})

		It("fails when the explicit config file is missing", func() {
			loader.SetConfigFile(filepath.Join(workDir, "missing.toml"))

			_, err := loader.Load(nil)
			Expect(errors.Is(err, ErrConfigNotFound)).To(BeTrue())
		})

		It("rejects world-writable config files", func() {
			path := loader.GlobalConfigPath()
			writeTOML(path, "[output]\nformat = \"json\"\n")
			Expect(os.Chmod(path, 0o666)).To(Succeed())

			_, err := loader.Load(nil)
			Expect(errors.Is(err, ErrInvalidPermissions)).To(BeTrue())
		})

		It("fails on malformed TOML", func() {
			writeTOML(filepath.Join(workDir, ProjectConfigFileAlt), "[output\n")

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to load project config"))
		})

		It("validates the merged result", func() {
			writeTOML(filepath.Join(workDir, ProjectConfigFileAlt), "[rules]\ndisabled = [\"no-such-rule\"]\n")

			_, err := loader.Load(nil)
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())

			cfg, err := loader.LoadWithoutValidation(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetRules().Disabled).To(ConsistOf("no-such-rule"))
		})
	})

	Describe("environment", func() {
		It("overrides files with CODEAUDIT_ variables", func() {
			writeTOML(loader.GlobalConfigPath(), "[analyzer]\nmax_workers = 2\n")

			setEnv("CODEAUDIT_ANALYZER_MAX_WORKERS", "8")
			setEnv("CODEAUDIT_ANALYZER_PARALLEL", "true")
			setEnv("CODEAUDIT_ANALYZER_MAX_FILE_SIZE", "2MiB")
			setEnv("CODEAUDIT_RULES_DISABLED", "api-design, middleware-usage")
			setEnv("CODEAUDIT_RULES_CODE_ORGANIZATION_MAX_NESTING", "3")

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.GetAnalyzer().GetMaxWorkers()).To(Equal(8))
			Expect(cfg.GetAnalyzer().IsParallel()).To(BeTrue())
			Expect(cfg.GetAnalyzer().GetMaxFileSize()).To(Equal(2 * config.MB))
			Expect(cfg.GetRules().Disabled).To(Equal([]string{"api-design", "middleware-usage"}))
			Expect(cfg.GetRules().GetCodeOrganization().GetMaxNesting()).To(Equal(3))
		})

		It("ignores unknown variables", func() {
			setEnv("CODEAUDIT_NOT_A_SETTING", "x")

			_, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("flags", func() {
		It("take precedence over everything else", func() {
			writeTOML(filepath.Join(workDir, ProjectConfigFileAlt), "[output]\nformat = \"yaml\"\nmin_score = 10\n")
			setEnv("CODEAUDIT_OUTPUT_FORMAT", "table")

			cfg, err := loader.Load(map[string]any{
				FlagFormat:   "json",
				FlagParallel: true,
				FlagDisable:  []string{"api-design,middleware-usage", "cors-misconfiguration"},
				FlagFailOn:   "high",
				FlagMinScore: 70,
				"verbose":    true,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.GetOutput().GetFormat()).To(Equal(config.FormatJSON))
			Expect(cfg.GetOutput().FailOn).To(Equal("high"))
			Expect(cfg.GetOutput().GetMinScore()).To(Equal(70))
			Expect(cfg.GetAnalyzer().IsParallel()).To(BeTrue())
			Expect(cfg.GetRules().Disabled).To(Equal([]string{"api-design", "middleware-usage", "cors-misconfiguration"}))
		})
	})
})

var _ = Describe("envTransform", func() {
	DescribeTable("maps variable names to config paths",
		func(key, value, wantPath string, wantValue any) {
			path, v := envTransform(key, value)
			Expect(path).To(Equal(wantPath))
			Expect(v).To(Equal(wantValue))
		},
		Entry("scalar", "CODEAUDIT_OUTPUT_FORMAT", "json", "output.format", "json"),
		Entry("underscored key", "CODEAUDIT_ANALYZER_MAX_FILES_IN_FLIGHT", "2", "analyzer.max_files_in_flight", "2"),
		Entry("list", "CODEAUDIT_ANALYZER_EXCLUDE", "a/**, ,b/**", "analyzer.exclude", []string{"a/**", "b/**"}),
	)

	It("drops unknown variables", func() {
		path, v := envTransform("CODEAUDIT_WHATEVER", "1")
		Expect(path).To(BeEmpty())
		Expect(v).To(BeNil())
	})
})
