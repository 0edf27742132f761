// Package load drives the streaming transform: read the merged variant
// table one row at a time, expand each row into per-sample observations,
// and batch them into the SQLite store. Memory stays bounded by one row
// plus one write batch regardless of input size.
package load

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/variantkit/vcf2sqlite/internal/genotype"
	"github.com/variantkit/vcf2sqlite/internal/sqlite"
	"github.com/variantkit/vcf2sqlite/internal/vartab"
)

// Progress reporting defaults: a report is emitted every DefaultReportRows
// rows or every DefaultReportInterval of wall-clock time, whichever comes
// first.
const (
	DefaultReportRows     = 50000
	DefaultReportInterval = 60 * time.Second
)

// Loader streams a merged variant table into a SQLite store. The zero value
// is usable; unset fields fall back to defaults.
type Loader struct {
	BatchSize      int           // observations per write transaction
	ReportRows     int64         // rows between progress reports
	ReportInterval time.Duration // wall-clock time between progress reports
	Delimiter      rune          // input field delimiter; 0 = sniff
	Logger         *zap.Logger   // diagnostics; defaults to a no-op logger
	Progress       io.Writer     // human-readable status lines; defaults to os.Stdout
}

// Summary reports what a completed run did.
type Summary struct {
	Rows         int64         // data rows read
	Observations int64         // observations produced by expansion
	Dropped      int64         // observations lost to failed batches
	Samples      int           // sample columns declared by the header
	Elapsed      time.Duration // total run time
	DBSize       int64         // resulting database file size in bytes
}

// Run loads the table at inputPath into the database at dbPath. It returns
// an error only for setup failures (unreadable input, unusable store) and
// mid-stream I/O failures; malformed rows and failed batches are logged and
// skipped, and the run completes with whatever it could keep.
func (l *Loader) Run(inputPath, dbPath string) (*Summary, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := l.Progress
	if progress == nil {
		progress = os.Stdout
	}
	reportRows := l.ReportRows
	if reportRows <= 0 {
		reportRows = DefaultReportRows
	}
	reportInterval := l.ReportInterval
	if reportInterval <= 0 {
		reportInterval = DefaultReportInterval
	}

	start := time.Now()

	if info, err := os.Stat(inputPath); err == nil && inputPath != "-" {
		fmt.Fprintf(progress, "Processing %s (%.2f GB)\n", inputPath, float64(info.Size())/(1<<30))
	}

	reader, err := vartab.Open(inputPath, l.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer reader.Close()

	sampleIDs := reader.SampleIDs()
	fmt.Fprintf(progress, "Found %d sample IDs\n", len(sampleIDs))

	// Advisory estimate for progress percentages; a miss just means
	// percentages are omitted.
	totalRows, haveTotal := vartab.CountLines(inputPath)
	if haveTotal {
		fmt.Fprintf(progress, "Total rows to process: %d\n", totalRows)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	writer := sqlite.NewBatchWriter(store, l.BatchSize, logger)

	var rows, observations int64
	lastReport := time.Now()

	for {
		row, err := reader.Next()
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Warn("skipping undecodable row",
					zap.Int("line", parseErr.Line),
					zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("read input: %w", err)
		}
		if row == nil {
			break
		}
		rows++

		if len(row) < genotype.FixedFields {
			logger.Warn("skipping row without fixed fields",
				zap.Int64("row", rows),
				zap.Int("fields", len(row)))
			continue
		}

		for _, obs := range genotype.Expand(row, sampleIDs) {
			writer.Add(obs)
			observations++
		}

		if rows%reportRows == 0 || time.Since(lastReport) >= reportInterval {
			lastReport = time.Now()
			reportProgress(progress, logger, rows, observations, totalRows, haveTotal, start)
		}
	}

	// Persist the trailing partial batch before tuning the store.
	writer.Flush()

	if err := store.Finalize(); err != nil {
		logger.Warn("store finalize failed", zap.Error(err))
	}

	sum := &Summary{
		Rows:         rows,
		Observations: observations,
		Dropped:      writer.Dropped(),
		Samples:      len(sampleIDs),
		Elapsed:      time.Since(start),
		DBSize:       store.Size(),
	}
	printSummary(progress, sum)
	logger.Info("load complete",
		zap.Int64("rows", sum.Rows),
		zap.Int64("observations", sum.Observations),
		zap.Int64("dropped", sum.Dropped),
		zap.Duration("elapsed", sum.Elapsed),
		zap.Int64("db_bytes", sum.DBSize))

	return sum, nil
}

// reportProgress emits one periodic status line with cumulative counts,
// throughput, and a completion percentage when a row estimate exists.
func reportProgress(w io.Writer, logger *zap.Logger, rows, observations, totalRows int64, haveTotal bool, start time.Time) {
	elapsed := time.Since(start).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(rows) / elapsed
	}

	pct := ""
	if haveTotal && totalRows > 0 {
		pct = fmt.Sprintf("%.1f%% complete, ", float64(rows)/float64(totalRows)*100)
	}

	fmt.Fprintf(w, "Processed %d rows, %d observations (%s%.1f rows/sec, %.0fs elapsed)\n",
		rows, observations, pct, rate, elapsed)
	logger.Info("progress",
		zap.Int64("rows", rows),
		zap.Int64("observations", observations),
		zap.Float64("rows_per_sec", rate))
}

func printSummary(w io.Writer, sum *Summary) {
	elapsed := sum.Elapsed.Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(sum.Rows) / elapsed
	}

	fmt.Fprintf(w, "\nLoad complete:\n")
	fmt.Fprintf(w, "- %d rows read\n", sum.Rows)
	fmt.Fprintf(w, "- %d observations produced\n", sum.Observations)
	if sum.Dropped > 0 {
		fmt.Fprintf(w, "- %d observations dropped with failed batches\n", sum.Dropped)
	}
	fmt.Fprintf(w, "- total time: %.1f seconds (%.1f minutes)\n", elapsed, elapsed/60)
	fmt.Fprintf(w, "- average speed: %.1f rows/sec\n", rate)
	fmt.Fprintf(w, "- database size: %.2f MB\n", float64(sum.DBSize)/(1<<20))
}
