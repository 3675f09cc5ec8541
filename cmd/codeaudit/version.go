package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codeaudit/internal/github"
	"github.com/smykla-skalski/codeaudit/internal/updater"
)

const (
	shortCommitLength = 12
	checkTimeout      = 10 * time.Second

	// githubAPIEnv overrides the GitHub API base URL used by version --check.
	githubAPIEnv = "CODEAUDIT_GITHUB_API_URL"
)

// Build information set by ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print detailed version and build information for codeaudit.

Use --check to look up the latest release on GitHub. GH_TOKEN or
GITHUB_TOKEN is used when set.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

var (
	// versionRequested is set by the --version/-v flag.
	versionRequested bool
	checkFlag        bool
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Flags().BoolVarP(
		&versionRequested,
		"version",
		"v",
		false,
		"Print version information",
	)

	versionCmd.Flags().BoolVar(&checkFlag, "check", false, "Check GitHub for a newer release")
}

func checkVersionFlag() {
	if versionRequested {
		fmt.Print(versionString())
		os.Exit(ExitCodeOK)
	}
}

func runVersion(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprint(out, versionString())

	if !checkFlag {
		return nil
	}

	var opts []github.Option
	if base := os.Getenv(githubAPIEnv); base != "" {
		opts = append(opts, github.WithBaseURL(base))
	}

	client, err := github.NewClient(opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create GitHub client")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	release, err := updater.NewChecker(version, client).CheckLatest(ctx)

	switch {
	case errors.Is(err, updater.ErrAlreadyLatest):
		fmt.Fprintf(out, "\ncodeaudit %s is the latest release\n", version)

		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "\nA newer release is available: %s\n", release.TagName)

	if release.HTMLURL != "" {
		fmt.Fprintf(out, "  %s\n", release.HTMLURL)
	}

	return nil
}

func versionString() string {
	var b strings.Builder

	fmt.Fprintf(&b, "codeaudit %s\n", version)
	fmt.Fprintf(&b, "  commit:    %s\n", commit)
	fmt.Fprintf(&b, "  built:     %s\n", date)
	fmt.Fprintf(&b, "  go:        %s\n", runtime.Version())
	fmt.Fprintf(&b, "  os/arch:   %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(&b, "  module:    %s\n", info.Main.Path)

		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" && commit == "unknown" {
				fmt.Fprintf(&b,
					"  vcs.rev:   %s\n",
					setting.Value[:min(shortCommitLength, len(setting.Value))],
				)
			}

			if setting.Key == "vcs.modified" && setting.Value == "true" {
				b.WriteString("  modified:  true\n")
			}
		}
	}

	return b.String()
}
