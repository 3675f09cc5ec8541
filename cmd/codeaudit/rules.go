package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codeaudit/internal/catalog"
	"github.com/smykla-skalski/codeaudit/internal/color"
	"github.com/smykla-skalski/codeaudit/internal/report"
	"github.com/smykla-skalski/codeaudit/internal/rule"
)

var rulesAllFlag bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules that would run",
	Long: `List the rules enabled by the current configuration, with their group,
severity, version and description. Use --all to include disabled rules.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesAllFlag, "all", false, "Include rules disabled by configuration")
	rulesCmd.Flags().StringSliceVar(&disableList, "disable", nil, "Rules to disable (comma-separated)")
}

func runRules(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	defer log.Close()

	var rules []rule.Rule

	if rulesAllFlag {
		rules = catalog.All()
	} else {
		cfg, err := loadConfig(cmd, log)
		if err != nil {
			return err
		}

		rules = catalog.FromConfig(cfg.GetRules())
	}

	var (
		width int
		theme = color.NewTheme(false)
	)

	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		width = report.TermWidth(f)
		theme = color.NewTheme(color.IsTerminal(f) && color.Profile(noColorFlag))
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.RenderRules(rules, width, theme))

	return nil
}
