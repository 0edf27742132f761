// Package main provides the vcf2sqlite command-line tool.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vcf2sqlite",
		Short: "Load a merged variant table into a SQLite database",
		Long: `vcf2sqlite streams a merged variant table (one row per site, one column
per sample, packed GT:AD:DP:GQ:PL cells) into a SQLite database with one
row per (sample, variant) observation. Loading is idempotent: duplicate
(sample, chromosome, position) keys are ignored, so an interrupted run can
simply be re-run from scratch.`,
		Version:      fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage: true,
	}

	cobra.OnInitialize(initConfig)

	root.AddCommand(newLoadCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig wires viper to ~/.vcf2sqlite.yaml and VCF2SQLITE_* environment
// variables. A missing config file is fine.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".vcf2sqlite")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VCF2SQLITE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}
