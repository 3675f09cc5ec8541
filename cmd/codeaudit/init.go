package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codeaudit/internal/catalog"
	internalconfig "github.com/smykla-skalski/codeaudit/internal/config"
	"github.com/smykla-skalski/codeaudit/internal/git"
	"github.com/smykla-skalski/codeaudit/internal/tui"
)

var (
	globalFlag bool
	forceFlag  bool
	noTUIFlag  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize codeaudit configuration",
	Long: `Initialize a codeaudit configuration file.

By default, creates a project configuration file (.codeaudit/config.toml).
Use --global or -g to create the global file (~/.codeaudit/config.toml).

The initialization asks for:
- the report format
- the severity that fails a run, and the minimum file score
- rules to disable
- whether to add .codeaudit/ to .git/info/exclude (project config only)

Use --force to overwrite an existing configuration file.
Use --no-tui to use simple prompts instead of the interactive form.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&globalFlag, "global", "g", false, "Initialize global configuration")
	initCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing configuration file")
	initCmd.Flags().BoolVar(&noTUIFlag, "no-tui", false, "Use simple prompts instead of the interactive form")
}

func runInit(cmd *cobra.Command, _ []string) error {
	writer, err := internalconfig.NewWriter()
	if err != nil {
		return err
	}

	configPath := writer.ProjectConfigPath()
	if globalFlag {
		configPath = writer.GlobalConfigPath()
	}

	if _, statErr := os.Stat(configPath); statErr == nil && !forceFlag {
		return errors.Wrapf(internalconfig.ErrConfigExists, "%s (use --force to overwrite)", configPath)
	}

	var repo *git.Repository

	if !globalFlag {
		// Outside a repository there is simply no exclude offer.
		repo, _ = git.Open(".")
	}

	ui := tui.New(noTUIFlag)

	answers, err := ui.RunInitForm(tui.InitFormOptions{
		Global:         globalFlag,
		Rules:          catalog.Names(),
		ShowGitExclude: repo != nil,
	})
	if err != nil {
		return errors.Wrap(err, "configuration form failed")
	}

	if err := writer.WriteFile(configPath, answers.Config(), forceFlag); err != nil {
		return errors.Wrap(err, "failed to write configuration")
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Wrote %s\n", configPath)

	if repo != nil && answers.AddToExclude {
		if err := addConfigToExclude(repo); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to update .git/info/exclude: %v\n", err)
		} else {
			fmt.Fprintln(out, "Added .codeaudit/ to .git/info/exclude")
		}
	}

	return nil
}

// addConfigToExclude adds the project config directory, anchored at the
// repository root, to .git/info/exclude.
func addConfigToExclude(repo *git.Repository) error {
	workDir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}

	rel, err := filepath.Rel(resolvePath(repo.Root()), resolvePath(workDir))
	if err != nil {
		return errors.Wrap(err, "failed to locate working directory in repository")
	}

	pattern := "/" + internalconfig.ProjectConfigDir + "/"
	if rel != "." {
		pattern = "/" + filepath.ToSlash(rel) + pattern
	}

	err = git.NewExclude(repo).Add(pattern)
	if err != nil && !errors.Is(err, git.ErrEntryAlreadyExists) {
		return err
	}

	return nil
}
