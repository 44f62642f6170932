// Package cmd holds the lantern command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crimson-sun/lantern/internal/config"
	"github.com/crimson-sun/lantern/internal/logging"
)

var (
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "lantern",
	Short: "Lantern condenses CI build logs into digests",
	Long: `Lantern condenses huge CI build logs into short digests: it finds the
error lines, keeps a few lines of context around each, and folds everything
else into skip markers. Output is an HTML fragment for dashboards or ANSI
text for terminals.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v = viper.New()
		if err := config.Bind(v, cfgFile); err != nil {
			return err
		}
		bindFlags(cmd, v)

		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		logging.Init(cfg.Log.JSON, logging.ParseLevel(cfg.Log.Level))
		return nil
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: ./lantern.yaml)")
	pf.Int("radius", 6, "context lines kept around each match")
	pf.Int("max-highlights", 2000, "match count above which context collapses")
	pf.Int("buffer-limit", 4<<20, "log byte budget before the middle is elided")
	pf.Bool("strict", false, "fail on malformed object-reference lines")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Bool("log-json", false, "emit logs as JSON")
}

// bindFlags maps explicitly-set persistent flags onto their config keys, so
// flags beat environment and file values.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	keys := map[string]string{
		"radius":         "digest.radius",
		"max-highlights": "digest.max_highlights",
		"buffer-limit":   "digest.buffer_limit",
		"strict":         "digest.strict",
		"log-level":      "log.level",
		"log-json":       "log.json",
	}
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			f = rootCmd.PersistentFlags().Lookup(flag)
		}
		if f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
}
