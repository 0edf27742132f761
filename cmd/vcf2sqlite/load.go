package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/variantkit/vcf2sqlite/internal/load"
	"github.com/variantkit/vcf2sqlite/internal/sqlite"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [flags] <input>",
		Short: "Stream a merged variant table into the database",
		Long: `Stream a merged variant table into the database, one row at a time.

The input is a delimited text file (plain or gzipped, '-' for stdin) whose
header names five fixed site columns followed by one column per sample.
Each sample cell packs GT:AD:DP:GQ:PL; empty, all-zero and all-missing
cells contribute no observation. Progress prints to stdout while the load
runs; diagnostics go to stderr.`,
		Example: `  vcf2sqlite load merged.vcf_table.csv
  vcf2sqlite load --db cohort.db --delimiter tab merged.vcf_table.tsv
  vcf2sqlite load merged.vcf_table.csv.gz
  zcat merged.vcf_table.csv.gz | vcf2sqlite load -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(args[0])
		},
	}

	cmd.Flags().StringP("db", "o", "variants.db", "Output SQLite database path")
	cmd.Flags().Int("batch-size", sqlite.DefaultBatchSize, "Observations per write transaction")
	cmd.Flags().Int64("report-rows", load.DefaultReportRows, "Rows between progress reports")
	cmd.Flags().Duration("report-interval", load.DefaultReportInterval, "Wall-clock time between progress reports")
	cmd.Flags().String("delimiter", "auto", `Field delimiter: "auto", "tab", "comma", or a single character`)

	viper.BindPFlag("load.db", cmd.Flags().Lookup("db"))
	viper.BindPFlag("load.batch-size", cmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("load.report-rows", cmd.Flags().Lookup("report-rows"))
	viper.BindPFlag("load.report-interval", cmd.Flags().Lookup("report-interval"))
	viper.BindPFlag("load.delimiter", cmd.Flags().Lookup("delimiter"))

	return cmd
}

func runLoad(input string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	delimiter, err := parseDelimiter(viper.GetString("load.delimiter"))
	if err != nil {
		return err
	}

	loader := &load.Loader{
		BatchSize:      viper.GetInt("load.batch-size"),
		ReportRows:     viper.GetInt64("load.report-rows"),
		ReportInterval: viper.GetDuration("load.report-interval"),
		Delimiter:      delimiter,
		Logger:         logger,
		Progress:       os.Stdout,
	}

	_, err = loader.Run(input, viper.GetString("load.db"))
	return err
}

// newLogger builds the zap logger used for diagnostics, writing to stderr
// so progress on stdout stays clean.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", "auto":
		return 0, nil // sniffed from the input
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	}

	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: want auto, tab, comma, or a single character", s)
	}
	return runes[0], nil
}
