// Package main provides the CLI entry point for codeaudit.
package main

//go:generate go run . schema -o ../../schema/config.schema.json

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/codeaudit/internal/config"
	"github.com/smykla-skalski/codeaudit/pkg/config"
	"github.com/smykla-skalski/codeaudit/pkg/logger"
)

const (
	// ExitCodeOK indicates a completed run within thresholds.
	ExitCodeOK = 0

	// ExitCodeError indicates a runtime or configuration error.
	ExitCodeError = 1

	// ExitCodeThreshold indicates a fail_on or min_score threshold was crossed.
	ExitCodeThreshold = 2
)

var (
	debugMode   bool
	traceMode   bool
	configPath  string
	logFile     string
	noColorFlag bool
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrThresholdExceeded) {
			fmt.Fprintf(os.Stderr, "codeaudit: %v\n", err)

			return ExitCodeThreshold
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitCodeError
	}

	return ExitCodeOK
}

var rootCmd = &cobra.Command{
	Use:   "codeaudit [paths...]",
	Short: "Security and quality auditor for JavaScript and TypeScript",
	Long: `codeaudit parses JavaScript and TypeScript sources and runs a catalog of
security and architecture rules over them. Each file gets a list of
violations and a score from 0 to 100.

Paths may be files, directories (walked recursively) or doublestar globs.
With no paths the current directory is analyzed. Use - to read one source
from stdin.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	RunE:              runAnalyze,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.BoolVar(&traceMode, "trace", false, "Enable trace logging")
	flags.StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to configuration file (default: .codeaudit/config.toml or codeaudit.toml)",
	)
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	addAnalyzeFlags(rootCmd)
}

// newLogger creates the logger selected by --debug, --trace and --log-file.
func newLogger() (*logger.SlogAdapter, error) {
	level := logger.LevelFromFlags(debugMode, traceMode)

	if logFile != "" {
		log, err := logger.NewFileLogger(logFile, level)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create logger")
		}

		return log, nil
	}

	return logger.NewStderrLogger(level), nil
}

// loadConfig loads configuration from all sources with precedence.
func loadConfig(cmd *cobra.Command, log logger.Logger) (*config.Config, error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config loader")
	}

	if configPath != "" {
		loader.SetConfigFile(configPath)
	}

	cfg, err := loader.Load(buildFlagsMap(cmd))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	log.Debug("configuration loaded", "sources", loader.Sources())

	return cfg, nil
}
