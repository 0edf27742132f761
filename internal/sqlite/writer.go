package sqlite

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/variantkit/vcf2sqlite/internal/genotype"
)

// DefaultBatchSize is the buffered-observation count that triggers an
// automatic flush.
const DefaultBatchSize = 10000

const insertObservation = `INSERT OR IGNORE INTO variants
	(file_id, CHROM, POS, ID, REF, ALT, GT, AD, DP, GQ, PL)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// BatchWriter buffers observations and writes each batch in a single
// transaction. Duplicate (file_id, CHROM, POS) keys are silently skipped by
// the store, so the first write of a key wins across batches and runs.
//
// A failed batch is rolled back, logged, and dropped rather than surfaced:
// losing one batch beats aborting a multi-hour load, and a re-run recovers
// the lost records through the insert-or-ignore key. The cost of that
// policy is visible through Dropped.
type BatchWriter struct {
	store    *Store
	capacity int
	logger   *zap.Logger
	buf      []genotype.Observation
	flushed  int64
	dropped  int64
}

// NewBatchWriter creates a writer flushing every capacity observations.
// A capacity of zero or less falls back to DefaultBatchSize; a nil logger
// falls back to zap.NewNop().
func NewBatchWriter(store *Store, capacity int, logger *zap.Logger) *BatchWriter {
	if capacity <= 0 {
		capacity = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchWriter{
		store:    store,
		capacity: capacity,
		logger:   logger,
		buf:      make([]genotype.Observation, 0, capacity),
	}
}

// Add buffers one observation, flushing when the buffer reaches capacity.
func (w *BatchWriter) Add(obs genotype.Observation) {
	w.buf = append(w.buf, obs)
	if len(w.buf) >= w.capacity {
		w.Flush()
	}
}

// Flush writes all buffered observations in one transaction and clears the
// buffer. Callers must invoke it once more after the input is exhausted to
// persist a partial trailing batch.
func (w *BatchWriter) Flush() {
	if len(w.buf) == 0 {
		return
	}

	n := int64(len(w.buf))
	err := w.writeBatch()
	w.buf = w.buf[:0]

	if err != nil {
		w.dropped += n
		w.logger.Error("batch write failed, dropping batch",
			zap.Int64("records", n),
			zap.Error(err))
		return
	}
	w.flushed += n
}

// writeBatch inserts the buffer inside one transaction, rolling back on any
// error so a mid-batch failure applies none of the batch.
func (w *BatchWriter) writeBatch() error {
	tx, err := w.store.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(insertObservation)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range w.buf {
		if _, err := stmt.Exec(
			o.SampleID, o.Chrom, o.Pos, o.ID, o.Ref, o.Alt,
			o.GT, o.AD, o.DP, o.GQ, o.PL,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert observation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Len returns the number of buffered, unflushed observations.
func (w *BatchWriter) Len() int {
	return len(w.buf)
}

// Flushed returns the number of observations handed to committed
// transactions. Duplicates ignored by the store still count here.
func (w *BatchWriter) Flushed() int64 {
	return w.flushed
}

// Dropped returns the number of observations lost to rolled-back batches.
func (w *BatchWriter) Dropped() int64 {
	return w.dropped
}
