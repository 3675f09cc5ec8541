package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codeaudit/internal/analyzer"
	"github.com/smykla-skalski/codeaudit/internal/catalog"
	"github.com/smykla-skalski/codeaudit/internal/color"
	internalconfig "github.com/smykla-skalski/codeaudit/internal/config"
	"github.com/smykla-skalski/codeaudit/internal/git"
	"github.com/smykla-skalski/codeaudit/internal/report"
	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/pkg/config"
	"github.com/smykla-skalski/codeaudit/pkg/logger"
)

// ErrThresholdExceeded marks a run whose results crossed fail_on or min_score.
var ErrThresholdExceeded = errors.New("threshold exceeded")

const (
	stdinArg             = "-"
	defaultStdinFilename = "stdin.ts"
)

var (
	formatFlag        string
	parallelFlag      bool
	disableList       []string
	failOnFlag        string
	minScoreFlag      int
	stdinFilenameFlag string
	changedFlag       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Analyze JavaScript and TypeScript sources",
	Long: `Analyze the given files, directories or globs and print a report.

This is the default command: "codeaudit src" and "codeaudit analyze src"
are equivalent.

Exit status is 0 when the run completes within thresholds, 2 when a
violation at or above --fail-on is found or a file scores below
--min-score, and 1 on errors.`,
	Args: cobra.ArbitraryArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addAnalyzeFlags(analyzeCmd)
}

func addAnalyzeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringVar(&formatFlag, internalconfig.FlagFormat, "", "Output format (table, json, yaml)")
	flags.BoolVar(&parallelFlag, internalconfig.FlagParallel, false, "Run rules for each file concurrently")
	flags.StringSliceVar(&disableList, internalconfig.FlagDisable, nil, "Rules to disable (comma-separated)")
	flags.StringVar(
		&failOnFlag,
		internalconfig.FlagFailOn,
		"",
		"Exit with status 2 when a violation at or above this severity is found",
	)
	flags.IntVar(
		&minScoreFlag,
		internalconfig.FlagMinScore,
		0,
		"Exit with status 2 when a file scores below this value",
	)
	flags.StringVar(
		&stdinFilenameFlag,
		"stdin-filename",
		defaultStdinFilename,
		"File name reported for source read from stdin",
	)
	flags.BoolVar(&changedFlag, "changed", false, "Only analyze files changed in the git working tree")
}

// buildFlagsMap returns the analyze flags set on the command line, keyed by
// flag name, for the config loader.
func buildFlagsMap(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	set := cmd.Flags()

	if set.Changed(internalconfig.FlagFormat) {
		flags[internalconfig.FlagFormat] = formatFlag
	}

	if set.Changed(internalconfig.FlagParallel) {
		flags[internalconfig.FlagParallel] = parallelFlag
	}

	if set.Changed(internalconfig.FlagDisable) {
		flags[internalconfig.FlagDisable] = disableList
	}

	if set.Changed(internalconfig.FlagFailOn) {
		flags[internalconfig.FlagFailOn] = failOnFlag
	}

	if set.Changed(internalconfig.FlagMinScore) {
		flags[internalconfig.FlagMinScore] = minScoreFlag
	}

	return flags
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	defer log.Close()

	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()

	reports, err := collectReports(ctx, log, cfg, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if err := report.Write(out, reports, renderOptions(out, cfg, time.Since(start))); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "analysis interrupted")
	}

	return checkThresholds(reports, cfg.GetOutput())
}

func newAnalyzer(log logger.Logger, cfg *config.Config) *analyzer.Analyzer {
	rules := catalog.FromConfig(cfg.GetRules())

	var opts []analyzer.Option

	if an := cfg.GetAnalyzer(); an.IsParallel() {
		opts = append(opts, analyzer.WithParallel(an.GetMaxWorkers()))
	}

	a := analyzer.New(log, rules, opts...)

	log.Debug("analyzer ready", "rules", a.RegisteredRules())

	return a
}

func collectReports(
	ctx context.Context,
	log logger.Logger,
	cfg *config.Config,
	args []string,
) ([]analyzer.FileReport, error) {
	an := cfg.GetAnalyzer()
	a := newAnalyzer(log, cfg)

	if len(args) == 1 && args[0] == stdinArg {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}

		return []analyzer.FileReport{
			a.AnalyzeSource(ctx, stdinFilenameFlag, data, int64(an.GetMaxFileSize())),
		}, nil
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	opts := analyzer.BatchOptions{
		Extensions:  an.GetExtensions(),
		Exclude:     an.GetExclude(),
		MaxFileSize: int64(an.GetMaxFileSize()),
		MaxInFlight: an.GetMaxFilesInFlight(),
	}

	files, err := analyzer.Discover(args, opts)
	if err != nil {
		return nil, err
	}

	if changedFlag {
		files, err = filterChanged(files)
		if err != nil {
			return nil, err
		}

		if len(files) == 0 {
			log.Info("no changed source files")

			return []analyzer.FileReport{}, nil
		}
	}

	log.Debug("analyzing files", "count", len(files))

	return a.AnalyzeFiles(ctx, files, opts)
}

// filterChanged keeps the files that git reports as staged, modified or
// untracked.
func filterChanged(files []string) ([]string, error) {
	repo, err := git.Open(".")
	if err != nil {
		return nil, errors.Wrap(err, "--changed requires a git repository")
	}

	changed, err := repo.ChangedFiles()
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(changed))
	for _, f := range changed {
		set[resolvePath(f)] = true
	}

	kept := make([]string, 0, len(files))

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", f)
		}

		if set[resolvePath(abs)] {
			kept = append(kept, f)
		}
	}

	return kept, nil
}

func resolvePath(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}

	return p
}

func renderOptions(out io.Writer, cfg *config.Config, elapsed time.Duration) report.Options {
	opts := report.Options{
		Format:  cfg.GetOutput().GetFormat(),
		Elapsed: elapsed,
	}

	if f, ok := out.(*os.File); ok {
		opts.Width = report.TermWidth(f)
		opts.Theme = color.NewTheme(color.IsTerminal(f) && color.Profile(noColorFlag))
	}

	return opts
}

// checkThresholds returns ErrThresholdExceeded when a violation reaches
// fail_on or an analyzed file scores below min_score.
func checkThresholds(reports []analyzer.FileReport, out *config.OutputConfig) error {
	var (
		failOn    rule.Severity
		hasFailOn bool
	)

	if out != nil && out.FailOn != "" {
		sev, err := rule.ParseSeverity(out.FailOn)
		if err != nil {
			return errors.Wrap(err, "invalid fail_on")
		}

		failOn, hasFailOn = sev, true
	}

	minScore := out.GetMinScore()

	var failing, lowScore int

	for _, r := range reports {
		if r.Result == nil {
			continue
		}

		if r.Result.Score < minScore {
			lowScore++
		}

		if !hasFailOn {
			continue
		}

		for _, v := range r.Result.Violations {
			if v.Severity.AtLeast(failOn) {
				failing++

				break
			}
		}
	}

	switch {
	case failing > 0 && lowScore > 0:
		return errors.Wrapf(ErrThresholdExceeded,
			"%d file(s) with %s or worse violations, %d file(s) below score %d",
			failing, failOn, lowScore, minScore)
	case failing > 0:
		return errors.Wrapf(ErrThresholdExceeded,
			"%d file(s) with %s or worse violations", failing, failOn)
	case lowScore > 0:
		return errors.Wrapf(ErrThresholdExceeded,
			"%d file(s) below score %d", lowScore, minScore)
	}

	return nil
}
