// Package cmd holds the spmto cobra commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	catalogDir   string
	rulesFile    string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	logLevel     string
)

// exitFunc is swapped out by tests.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "spmto",
	Short: "SPM-TO - scoring and classification for occupational therapy assessments",
	Long: `spmto scores answer sets of standardized occupational therapy instruments
(SPM, SPM-P, Sensory Profile 2, PEDI, COG, AVD, COPM, ABC, FIM, WeeFIM, GMFM-88)
against their reference tables and reports domain scores, classifications and
interpretation tags.

Instruments come from the embedded catalog, an optional directory of
*.instrument.yaml files (--catalog) and, when store.dsn is configured, a
PostgreSQL reference store.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogDir, "catalog", "c", "", "Directory of additional *.instrument.yaml files")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "YAML file of Sensory Profile interpretation rules")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|json|markdown|xlsx)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file for reports (required for xlsx)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")

	bindFlag("catalog", "catalog")
	bindFlag("rules", "rules")
	bindFlag("quiet", "quiet")
	bindFlag("verbose", "verbose")
	bindFlag("format", "format")
	bindFlag("output", "output")
	bindFlag("log.level", "log-level")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}
