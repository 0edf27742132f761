package genotype

import "strconv"

// FixedFields is the number of leading site columns (CHROM, POS, ID, REF,
// ALT) before the per-sample cells begin.
const FixedFields = 5

// Observation is one (sample, variant) record destined for the variants
// table. It is immutable once built.
type Observation struct {
	SampleID string
	Chrom    string
	Pos      int64
	ID       string
	Ref      string
	Alt      string
	SampleCall
}

// Expand converts one table row into observations, one per sample whose cell
// holds a usable call. The sample-id list comes from the header and is fixed
// for the whole run; sample i reads the cell at offset FixedFields+i.
//
// Rows shorter than FixedFields yield nothing. Ragged rows are tolerated:
// samples whose offset lies past the end of the row are skipped. An
// unparsable or negative POS coerces to 0 rather than failing the row.
// Output keeps header sample order; duplicate keys are left for the store's
// uniqueness constraint to resolve.
func Expand(row []string, sampleIDs []string) []Observation {
	if len(row) < FixedFields {
		return nil
	}

	chrom, id, ref, alt := row[0], row[2], row[3], row[4]
	pos, err := strconv.ParseInt(row[1], 10, 64)
	if err != nil || pos < 0 {
		pos = 0
	}

	var obs []Observation
	for i, sampleID := range sampleIDs {
		col := FixedFields + i
		if col >= len(row) {
			continue
		}
		call, ok := ParseCell(row[col])
		if !ok {
			continue
		}
		obs = append(obs, Observation{
			SampleID:   sampleID,
			Chrom:      chrom,
			Pos:        pos,
			ID:         id,
			Ref:        ref,
			Alt:        alt,
			SampleCall: call,
		})
	}
	return obs
}
