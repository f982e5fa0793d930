package domain

import (
	"fmt"
	"math"
)

// DistanceMatrix holds pairwise travel costs in seconds.
// Row i, column j is the cost of travelling from waypoint i to waypoint j.
// It is not assumed to be symmetric.
type DistanceMatrix [][]float64

func (m DistanceMatrix) Size() int { return len(m) }

// Validate checks that the matrix is n×n with finite, non-negative entries.
func (m DistanceMatrix) Validate(n int) error {
	if len(m) != n {
		return fmt.Errorf("matrix has %d rows, want %d", len(m), n)
	}

	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("entry [%d][%d] is not finite: %v", i, j, v)
			}
			if v < 0 {
				return fmt.Errorf("entry [%d][%d] is negative: %v", i, j, v)
			}
		}
	}

	return nil
}
