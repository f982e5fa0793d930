package services

import (
	"cluster-route-service/internal/domain"
	"context"
	"fmt"
	"math"
)

// MaxSolverWaypoints caps the DP regardless of configuration: at n=20 the
// cost table alone holds 10M float64 entries.
const MaxSolverWaypoints = 20

// cancelCheckEvery is how many mask rows are processed between context checks.
const cancelCheckEvery = 1 << 10

// TSPSolver computes minimum-cost visiting orders with exact bitmask dynamic programming.
//
// State (mask, pos): mask is the set of visited waypoints and always contains the
// depot (bit 0) and pos. cost(FULL, pos) is the return leg D[pos][0] for closed
// tours and 0 for open paths; every other state takes the cheapest unvisited
// next hop. Ties go to the lower index, so identical input always produces the
// identical tour.
//
// Time O(n²·2ⁿ), memory O(n·2ⁿ). Inputs above MaxWaypoints are rejected rather
// than approximated.
type TSPSolver struct {
	MaxWaypoints  int
	ReturnToDepot bool
}

func NewTSPSolver(maxWaypoints int, returnToDepot bool) *TSPSolver {
	if maxWaypoints <= 0 || maxWaypoints > MaxSolverWaypoints {
		maxWaypoints = MaxSolverWaypoints
	}
	return &TSPSolver{MaxWaypoints: maxWaypoints, ReturnToDepot: returnToDepot}
}

// Solve returns the optimal tour over d starting at index 0.
// The tables are allocated per call and released on return.
func (s *TSPSolver) Solve(ctx context.Context, d domain.DistanceMatrix) (domain.OptimalTour, error) {
	n := d.Size()
	if n == 0 {
		return domain.OptimalTour{}, domain.NewPlanError("solve tour", domain.ErrEmptyCoordinateSet, nil)
	}

	if n > s.MaxWaypoints {
		return domain.OptimalTour{}, domain.NewPlanError(
			"solve tour",
			domain.ErrClusterSizeExceeded,
			fmt.Errorf("%d waypoints, max %d", n, s.MaxWaypoints),
		)
	}

	if err := d.Validate(n); err != nil {
		return domain.OptimalTour{}, domain.NewPlanError("solve tour", domain.ErrMalformedMatrix, err)
	}

	if n == 1 {
		return domain.OptimalTour{Order: []int{0}, Cost: 0, ReturnsToDepot: s.ReturnToDepot}, nil
	}

	// Only masks with bit 0 set are reachable, so rows are indexed by mask>>1.
	rows := 1 << (n - 1)
	cost := make([]float64, rows*n)
	next := make([]int8, rows*n)
	full := (1 << n) - 1

	for mask := full; mask >= 1; mask -= 2 {
		if (full-mask)%(2*cancelCheckEvery) == 0 {
			if err := ctx.Err(); err != nil {
				return domain.OptimalTour{}, fmt.Errorf("solve tour: %w", err)
			}
		}

		row := (mask >> 1) * n

		for pos := 0; pos < n; pos++ {
			if mask&(1<<pos) == 0 {
				continue
			}
			// The depot is only a valid position in the start state.
			if pos == 0 && mask != 1 {
				continue
			}

			idx := row + pos
			next[idx] = -1

			if mask == full {
				if s.ReturnToDepot {
					cost[idx] = d[pos][0]
				}
				continue
			}

			best := math.Inf(1)
			bestCity := -1
			for c := 1; c < n; c++ {
				if mask&(1<<c) != 0 {
					continue
				}
				nm := mask | 1<<c
				cand := d[pos][c] + cost[(nm>>1)*n+c]
				// Strict comparison keeps the lowest index on ties.
				if cand < best {
					best = cand
					bestCity = c
				}
			}

			cost[idx] = best
			next[idx] = int8(bestCity)
		}
	}

	order := make([]int, 0, n)
	order = append(order, 0)
	mask, pos := 1, 0
	for len(order) < n {
		c := int(next[(mask>>1)*n+pos])
		if c < 0 {
			return domain.OptimalTour{}, fmt.Errorf("solve tour: broken next-hop chain at mask=%b pos=%d", mask, pos)
		}
		order = append(order, c)
		mask |= 1 << c
		pos = c
	}

	return domain.OptimalTour{
		Order:          order,
		Cost:           cost[0],
		ReturnsToDepot: s.ReturnToDepot,
	}, nil
}

// TourCost sums consecutive legs of order over d, plus the return leg when closed.
func TourCost(d domain.DistanceMatrix, order []int, closed bool) float64 {
	total := 0.0
	for i := 1; i < len(order); i++ {
		total += d[order[i-1]][order[i]]
	}
	if closed && len(order) > 1 {
		total += d[order[len(order)-1]][order[0]]
	}
	return total
}
