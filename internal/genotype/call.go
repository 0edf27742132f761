// Package genotype parses the packed per-sample genotype cells of a merged
// variant table and expands table rows into per-sample observations.
package genotype

import (
	"database/sql"
	"strconv"
	"strings"
)

// Sentinel cell values meaning "no usable call for this sample at this site".
// The upstream merge stage rewrites all-missing cells to the all-zero form,
// so both spellings appear in real inputs.
const (
	allZeroCall    = "0:0:0:0:0"
	allMissingCall = ".:.:.:.:."
)

// SampleCall holds the five packed genotype fields (GT:AD:DP:GQ:PL) for one
// sample at one site. GT, AD and PL pass through verbatim. DP and GQ are
// null unless both raw values are plain decimal numbers: a malformed value
// in either invalidates the pair, since a corrupt quality field makes its
// neighbor untrustworthy too.
type SampleCall struct {
	GT string        // genotype, e.g. "0/1"
	AD string        // allelic depths, e.g. "10,5"
	DP sql.NullInt64 // read depth
	GQ sql.NullInt64 // genotype quality
	PL string        // phred-scaled likelihoods, e.g. "99,0,30"
}

// ParseCell parses a packed genotype cell. ok is false when the cell carries
// no observation: empty, one of the no-call sentinels, or not exactly five
// colon-separated parts. ParseCell never fails; malformed input degrades to
// an absent call or null fields.
func ParseCell(cell string) (call SampleCall, ok bool) {
	if cell == "" || cell == allZeroCall || cell == allMissingCall {
		return SampleCall{}, false
	}

	parts := strings.Split(cell, ":")
	if len(parts) != 5 {
		return SampleCall{}, false
	}

	call = SampleCall{GT: parts[0], AD: parts[1], PL: parts[4]}

	dp, dpOK := parseCount(parts[2])
	gq, gqOK := parseCount(parts[3])
	if dpOK && gqOK {
		call.DP = sql.NullInt64{Int64: dp, Valid: true}
		call.GQ = sql.NullInt64{Int64: gq, Valid: true}
	}
	return call, true
}

// parseCount parses a non-negative integer composed entirely of decimal
// digits. Empty strings, ".", signs, and separators are all rejected.
func parseCount(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
