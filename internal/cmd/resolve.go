package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/lantern/internal/dashboard"
)

var resolveConfigBlob string

var resolveCmd = &cobra.Command{
	Use:   "resolve <log-path>",
	Short: "Map a log storage path to its dashboard tab",
	Long: `Look up which dashboard tab covers a log storage path, using the
binary dashboard config blob (--config-blob, dashboard.config_blob in the
config file, or LANTERN_DASHBOARD_CONFIG_BLOB). Prints "dashboard#tab".

Example:
  lantern resolve gs://ci-logs/logs/unit-tests/1234`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveConfigBlob, "config-blob", "", "path to the binary dashboard config")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	blobPath := resolveConfigBlob
	if blobPath == "" {
		blobPath = cfg.Dashboard.ConfigBlob
	}
	if blobPath == "" {
		return fmt.Errorf("no dashboard config blob configured")
	}
	blob, err := os.ReadFile(blobPath)
	if err != nil {
		return fmt.Errorf("reading dashboard config: %w", err)
	}

	tab, err := dashboard.NewProvider(blob).Resolve(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tab)
	return nil
}
