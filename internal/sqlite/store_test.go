package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantkit/vcf2sqlite/internal/genotype"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "variants.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testObservation(sampleID, chrom string, pos int64) genotype.Observation {
	return genotype.Observation{
		SampleID: sampleID,
		Chrom:    chrom,
		Pos:      pos,
		ID:       "rs1",
		Ref:      "A",
		Alt:      "G",
		SampleCall: genotype.SampleCall{
			GT: "0/1",
			AD: "10,5",
			DP: sql.NullInt64{Int64: 30, Valid: true},
			GQ: sql.NullInt64{Int64: 90, Valid: true},
			PL: "10,0,30",
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	assert.NotNil(t, s.DB())

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.db")

	s, err := Open(path)
	require.NoError(t, err)

	w := NewBatchWriter(s, 10, nil)
	w.Add(testObservation("S1", "1", 100))
	w.Flush()
	require.NoError(t, s.Close())

	// Reopening an existing, populated database must not disturb it.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "variants.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, path, s.Path())
}

func TestFinalize(t *testing.T) {
	s := openTestStore(t)

	w := NewBatchWriter(s, 10, nil)
	w.Add(testObservation("S1", "1", 100))
	w.Flush()

	require.NoError(t, s.Finalize())
	// Safe to apply twice.
	require.NoError(t, s.Finalize())

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInsertOrIgnore(t *testing.T) {
	s := openTestStore(t)
	w := NewBatchWriter(s, 10, nil)

	first := testObservation("S1", "1", 100)
	w.Add(first)
	w.Flush()

	// Same key with different field values: the first write wins.
	dup := testObservation("S1", "1", 100)
	dup.GT = "1/1"
	w.Add(dup)
	w.Add(testObservation("S2", "1", 100)) // different sample, new key
	w.Flush()

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var gt string
	err = s.DB().QueryRow(`SELECT GT FROM variants WHERE file_id = 'S1' AND CHROM = '1' AND POS = 100`).Scan(&gt)
	require.NoError(t, err)
	assert.Equal(t, "0/1", gt)
}

func TestNullQualityFieldsStoredAsNull(t *testing.T) {
	s := openTestStore(t)
	w := NewBatchWriter(s, 10, nil)

	obs := testObservation("S1", "1", 100)
	obs.DP = sql.NullInt64{}
	obs.GQ = sql.NullInt64{}
	w.Add(obs)
	w.Flush()

	var dp, gq sql.NullInt64
	err := s.DB().QueryRow(`SELECT DP, GQ FROM variants WHERE file_id = 'S1'`).Scan(&dp, &gq)
	require.NoError(t, err)
	assert.False(t, dp.Valid)
	assert.False(t, gq.Valid)
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	w := NewBatchWriter(s, 10, nil)

	w.Add(testObservation("S1", "1", 100))
	w.Add(testObservation("S1", "1", 200))
	w.Add(testObservation("S2", "1", 100))
	w.Add(testObservation("S1", "X", 500))
	w.Flush()

	byChrom, err := s.CountByChrom()
	require.NoError(t, err)
	require.Len(t, byChrom, 2)
	assert.Equal(t, ChromCount{Chrom: "1", Count: 3}, byChrom[0])
	assert.Equal(t, ChromCount{Chrom: "X", Count: 1}, byChrom[1])

	samples, err := s.SampleCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), samples)
}
