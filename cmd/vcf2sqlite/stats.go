package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/variantkit/vcf2sqlite/internal/sqlite"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a loaded variant database",
		Example: `  vcf2sqlite stats
  vcf2sqlite stats --db cohort.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _ := cmd.Flags().GetString("db")
			return runStats(db)
		},
	}

	cmd.Flags().String("db", "variants.db", "SQLite database path")

	return cmd
}

func runStats(path string) error {
	// Opening would create an empty database; insist the file exists.
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	store, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	total, err := store.Count()
	if err != nil {
		return err
	}
	samples, err := store.SampleCount()
	if err != nil {
		return err
	}

	fmt.Printf("Database: %s (%.2f MB)\n", path, float64(store.Size())/(1<<20))
	fmt.Printf("Observations: %d across %d samples\n", total, samples)

	byChrom, err := store.CountByChrom()
	if err != nil {
		return err
	}
	if len(byChrom) > 0 {
		fmt.Println("\nObservations per chromosome:")
		for _, c := range byChrom {
			fmt.Printf("  %-8s %d\n", c.Chrom, c.Count)
		}
	}

	return nil
}
