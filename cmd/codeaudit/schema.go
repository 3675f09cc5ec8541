package main

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codeaudit/internal/schema"
)

const schemaFileMode = 0o644

var (
	schemaOutputFlag  string
	schemaCompactFlag bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema [config|result]",
	Short: "Print a JSON Schema",
	Long: `Print the JSON Schema of the configuration file (default) or of the
JSON report produced by --format json.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: schema.Kinds,
	RunE:      runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVarP(&schemaOutputFlag, "output", "o", "", "Write the schema to this file")
	schemaCmd.Flags().BoolVar(&schemaCompactFlag, "compact", false, "Print compact JSON")
}

func runSchema(cmd *cobra.Command, args []string) error {
	kind := schema.KindConfig
	if len(args) == 1 {
		kind = args[0]
	}

	data, err := schema.GenerateJSON(kind, !schemaCompactFlag)
	if err != nil {
		return err
	}

	if schemaOutputFlag == "" {
		_, err = cmd.OutOrStdout().Write(data)

		return errors.Wrap(err, "failed to write schema")
	}

	if dir := filepath.Dir(schemaOutputFlag); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	if err := os.WriteFile(schemaOutputFlag, data, schemaFileMode); err != nil {
		return errors.Wrapf(err, "failed to write %s", schemaOutputFlag)
	}

	return nil
}
