package sqlite

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchWriter_FlushAtCapacity(t *testing.T) {
	s := openTestStore(t)
	w := NewBatchWriter(s, 3, nil)

	w.Add(testObservation("S1", "1", 100))
	w.Add(testObservation("S1", "1", 200))
	assert.Equal(t, 2, w.Len())
	assert.Zero(t, w.Flushed())

	// The third Add reaches capacity and flushes immediately.
	w.Add(testObservation("S1", "1", 300))
	assert.Zero(t, w.Len())
	assert.Equal(t, int64(3), w.Flushed())

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestBatchWriter_FinalPartialFlush(t *testing.T) {
	s := openTestStore(t)
	w := NewBatchWriter(s, 100, nil)

	for i := int64(0); i < 7; i++ {
		w.Add(testObservation("S1", "1", 100+i))
	}
	assert.Equal(t, 7, w.Len())

	w.Flush()
	assert.Zero(t, w.Len())
	assert.Equal(t, int64(7), w.Flushed())

	// Flushing an empty buffer is a no-op.
	w.Flush()
	assert.Equal(t, int64(7), w.Flushed())
}

func TestBatchWriter_DefaultCapacity(t *testing.T) {
	s := openTestStore(t)

	w := NewBatchWriter(s, 0, nil)
	assert.Equal(t, DefaultBatchSize, w.capacity)

	w = NewBatchWriter(s, -1, nil)
	assert.Equal(t, DefaultBatchSize, w.capacity)
}

func TestBatchWriter_FailedBatchIsDroppedNotFatal(t *testing.T) {
	s := openTestStore(t)
	w := NewBatchWriter(s, 10, nil)
	w.Add(testObservation("S1", "1", 100))

	// Closing the database underneath the writer makes the flush fail; the
	// writer must swallow the error, drop the batch, and stay usable.
	require.NoError(t, s.Close())
	w.Flush()

	assert.Zero(t, w.Len())
	assert.Zero(t, w.Flushed())
	assert.Equal(t, int64(1), w.Dropped())
}

func TestBatchWriter_ManyBatches(t *testing.T) {
	s := openTestStore(t)
	w := NewBatchWriter(s, 50, nil)

	for i := 0; i < 12; i++ {
		for j := int64(0); j < 40; j++ {
			w.Add(testObservation(fmt.Sprintf("S%d", i), "2", 1000+j))
		}
	}
	w.Flush()

	assert.Equal(t, int64(480), w.Flushed())
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(480), n)
}
