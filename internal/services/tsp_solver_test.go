package services

import (
	"cluster-route-service/internal/domain"
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exampleMatrix = domain.DistanceMatrix{
	{0, 10, 15, 20},
	{10, 0, 35, 25},
	{15, 35, 0, 30},
	{20, 25, 30, 0},
}

func randomMatrix(rng *rand.Rand, n int) domain.DistanceMatrix {
	d := make(domain.DistanceMatrix, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			if i != j {
				// Integer costs keep sums exact regardless of addition order.
				d[i][j] = float64(1 + rng.Intn(500))
			}
		}
	}
	return d
}

// bruteForce enumerates every order that starts at 0.
func bruteForce(d domain.DistanceMatrix, closed bool) float64 {
	n := len(d)
	if n == 1 {
		return 0
	}

	best := math.Inf(1)
	rest := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		rest = append(rest, i)
	}

	var permute func(k int)
	permute = func(k int) {
		if k == len(rest) {
			order := append([]int{0}, rest...)
			if c := TourCost(d, order, closed); c < best {
				best = c
			}
			return
		}
		for i := k; i < len(rest); i++ {
			rest[k], rest[i] = rest[i], rest[k]
			permute(k + 1)
			rest[k], rest[i] = rest[i], rest[k]
		}
	}
	permute(0)

	return best
}

func assertPermutationFromDepot(t *testing.T, order []int, n int) {
	t.Helper()
	require.Len(t, order, n)
	assert.Equal(t, 0, order[0])

	seen := make(map[int]bool, n)
	for _, idx := range order {
		require.True(t, idx >= 0 && idx < n, "index %d out of range", idx)
		require.False(t, seen[idx], "index %d visited twice", idx)
		seen[idx] = true
	}
}

func TestTSPSolverExampleClosedTour(t *testing.T) {
	solver := NewTSPSolver(16, true)

	tour, err := solver.Solve(context.Background(), exampleMatrix)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 3, 2}, tour.Order)
	assert.Equal(t, 80.0, tour.Cost)
	assert.True(t, tour.ReturnsToDepot)
}

func TestTSPSolverExampleOpenPath(t *testing.T) {
	solver := NewTSPSolver(16, false)

	tour, err := solver.Solve(context.Background(), exampleMatrix)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 3, 2}, tour.Order)
	assert.Equal(t, 65.0, tour.Cost)
	assert.False(t, tour.ReturnsToDepot)
}

func TestTSPSolverSingleWaypoint(t *testing.T) {
	tour, err := NewTSPSolver(16, true).Solve(context.Background(), domain.DistanceMatrix{{0}})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, tour.Order)
	assert.Equal(t, 0.0, tour.Cost)
}

func TestTSPSolverTwoWaypoints(t *testing.T) {
	d := domain.DistanceMatrix{{0, 7}, {9, 0}}

	closed, err := NewTSPSolver(16, true).Solve(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, closed.Order)
	assert.Equal(t, 16.0, closed.Cost)

	open, err := NewTSPSolver(16, false).Solve(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 7.0, open.Cost)
}

func TestTSPSolverCostMatchesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, closed := range []bool{true, false} {
		solver := NewTSPSolver(MaxSolverWaypoints, closed)
		for n := 1; n <= 12; n++ {
			d := randomMatrix(rng, n)

			tour, err := solver.Solve(context.Background(), d)
			require.NoError(t, err, "n=%d", n)

			assertPermutationFromDepot(t, tour.Order, n)
			assert.Equal(t, TourCost(d, tour.Order, closed), tour.Cost, "n=%d closed=%v", n, closed)
		}
	}
}

func TestTSPSolverMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, closed := range []bool{true, false} {
		solver := NewTSPSolver(16, closed)
		for n := 1; n <= 8; n++ {
			for trial := 0; trial < 5; trial++ {
				d := randomMatrix(rng, n)

				tour, err := solver.Solve(context.Background(), d)
				require.NoError(t, err)

				assert.Equal(t, bruteForce(d, closed), tour.Cost, "n=%d trial=%d closed=%v", n, trial, closed)
			}
		}
	}
}

func TestTSPSolverAsymmetricMatrix(t *testing.T) {
	// Going around clockwise is cheap, counter-clockwise is expensive.
	d := domain.DistanceMatrix{
		{0, 1, 100, 100},
		{100, 0, 1, 100},
		{100, 100, 0, 1},
		{1, 100, 100, 0},
	}

	tour, err := NewTSPSolver(16, true).Solve(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3}, tour.Order)
	assert.Equal(t, 4.0, tour.Cost)
}

func TestTSPSolverDeterministicTieBreak(t *testing.T) {
	// Every leg costs the same, so the lowest index must win at every step.
	n := 6
	d := make(domain.DistanceMatrix, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			if i != j {
				d[i][j] = 5
			}
		}
	}

	solver := NewTSPSolver(16, true)
	first, err := solver.Solve(context.Background(), d)
	require.NoError(t, err)
	second, err := solver.Solve(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, first.Order)
	assert.Equal(t, first, second)
}

func TestTSPSolverIdempotentOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	d := randomMatrix(rng, 10)
	solver := NewTSPSolver(16, true)

	a, err := solver.Solve(context.Background(), d)
	require.NoError(t, err)
	b, err := solver.Solve(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestTSPSolverRejectsMalformedMatrix(t *testing.T) {
	solver := NewTSPSolver(16, true)

	cases := map[string]domain.DistanceMatrix{
		"non-square": {{0, 1, 2}, {1, 0}},
		"nan":        {{0, math.NaN()}, {1, 0}},
		"inf":        {{0, math.Inf(1)}, {1, 0}},
		"negative":   {{0, -3}, {1, 0}},
	}

	for name, d := range cases {
		_, err := solver.Solve(context.Background(), d)
		assert.ErrorIs(t, err, domain.ErrMalformedMatrix, name)
		assert.Equal(t, domain.InputError, domain.CategoryOf(err), name)
	}
}

func TestTSPSolverRejectsOversizedInput(t *testing.T) {
	solver := NewTSPSolver(5, true)

	_, err := solver.Solve(context.Background(), randomMatrix(rand.New(rand.NewSource(1)), 6))
	assert.ErrorIs(t, err, domain.ErrClusterSizeExceeded)
}

func TestTSPSolverEmptyMatrix(t *testing.T) {
	_, err := NewTSPSolver(16, true).Solve(context.Background(), domain.DistanceMatrix{})
	assert.ErrorIs(t, err, domain.ErrEmptyCoordinateSet)
}

func TestTSPSolverHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTSPSolver(16, true).Solve(ctx, randomMatrix(rand.New(rand.NewSource(1)), 12))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTSPSolverClampsBound(t *testing.T) {
	assert.Equal(t, MaxSolverWaypoints, NewTSPSolver(0, true).MaxWaypoints)
	assert.Equal(t, MaxSolverWaypoints, NewTSPSolver(64, true).MaxWaypoints)
	assert.Equal(t, 12, NewTSPSolver(12, true).MaxWaypoints)
}
