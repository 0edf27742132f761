package sqlite

import "fmt"

// ChromCount is the observation count for one chromosome.
type ChromCount struct {
	Chrom string
	Count int64
}

// CountByChrom returns per-chromosome observation counts, largest first.
// Served by the (CHROM, POS) index; the load path itself never queries.
func (s *Store) CountByChrom() ([]ChromCount, error) {
	rows, err := s.db.Query(`SELECT CHROM, COUNT(*) FROM variants GROUP BY CHROM ORDER BY COUNT(*) DESC, CHROM`)
	if err != nil {
		return nil, fmt.Errorf("query chromosome counts: %w", err)
	}
	defer rows.Close()

	var counts []ChromCount
	for rows.Next() {
		var c ChromCount
		if err := rows.Scan(&c.Chrom, &c.Count); err != nil {
			return nil, fmt.Errorf("scan chromosome count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chromosome counts: %w", err)
	}
	return counts, nil
}

// SampleCount returns the number of distinct samples with at least one
// stored observation.
func (s *Store) SampleCount() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT file_id) FROM variants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count samples: %w", err)
	}
	return n, nil
}
