package services

import (
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/obs"
	"cluster-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"time"
)

// Planner runs one planning cycle over an already filtered CoordinateSet.
type Planner interface {
	PlanRoute(ctx context.Context, set domain.CoordinateSet) (*domain.RoutePlan, error)
}

// RoutePlanner chains matrix fetch, solve, sequencing and directions fetch.
// Each step strictly follows the previous one; the solve runs on its own goroutine.
type RoutePlanner struct {
	Matrix            ports.MatrixProvider
	Directions        ports.DirectionsProvider
	Solver            *TSPSolver
	MatrixTimeout     time.Duration
	DirectionsTimeout time.Duration
	Now               func() time.Time
}

func NewRoutePlanner(
	matrix ports.MatrixProvider,
	directions ports.DirectionsProvider,
	solver *TSPSolver,
	matrixTimeout time.Duration,
	directionsTimeout time.Duration,
) *RoutePlanner {
	return &RoutePlanner{
		Matrix:            matrix,
		Directions:        directions,
		Solver:            solver,
		MatrixTimeout:     matrixTimeout,
		DirectionsTimeout: directionsTimeout,
		Now:               time.Now,
	}
}

// PlanRoute computes the optimal visiting order for set and fetches directions for it.
//
// The returned plan has no Generation or ClusterIndex; the Orchestrator stamps them.
// Failures are *domain.PlanError values classified by the domain taxonomy.
func (p *RoutePlanner) PlanRoute(ctx context.Context, set domain.CoordinateSet) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "route.plan")(&err)

	n := set.Len()
	if n == 0 {
		return nil, domain.NewPlanError("plan route", domain.ErrEmptyCoordinateSet, nil)
	}

	if p.Matrix == nil || p.Directions == nil || p.Solver == nil {
		return nil, errors.New("plan route: planner is missing a provider or solver")
	}

	// Fail before spending an upstream call on a set the solver will refuse.
	if n > p.Solver.MaxWaypoints {
		return nil, domain.NewPlanError(
			"plan route",
			domain.ErrClusterSizeExceeded,
			fmt.Errorf("%d waypoints, max %d", n, p.Solver.MaxWaypoints),
		)
	}

	var matrix domain.DistanceMatrix
	if n == 1 {
		matrix = domain.DistanceMatrix{{0}}
	} else {
		matrix, err = p.fetchMatrix(ctx, set)
		if err != nil {
			return nil, err
		}
	}

	tour, err := p.solve(ctx, matrix)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	stops, path, err := SequenceRoute(set, tour)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	directions := domain.RouteDirections{Instructions: []string{}}
	// A depot-only set has nothing left to drive to.
	if n > 1 {
		directions, err = p.fetchDirections(ctx, path)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	return &domain.RoutePlan{
		Stops:      stops,
		Tour:       tour,
		Directions: directions,
		PlannedAt:  now(),
	}, nil
}

func (p *RoutePlanner) fetchMatrix(ctx context.Context, set domain.CoordinateSet) (domain.DistanceMatrix, error) {
	mctx, cancel := withTimeout(ctx, p.MatrixTimeout)
	defer cancel()

	matrix, err := p.Matrix.GetMatrix(mctx, set.Coordinates())
	if err != nil {
		if errors.Is(err, domain.ErrMatrixUnavailable) {
			return nil, err
		}
		return nil, domain.NewPlanError("fetch matrix", domain.ErrMatrixUnavailable, err)
	}

	// Providers are trusted for transport, not for shape.
	if err := matrix.Validate(set.Len()); err != nil {
		return nil, domain.NewPlanError("fetch matrix", domain.ErrMatrixUnavailable, err)
	}

	return matrix, nil
}

func (p *RoutePlanner) fetchDirections(ctx context.Context, path []domain.Coordinates) (domain.RouteDirections, error) {
	dctx, cancel := withTimeout(ctx, p.DirectionsTimeout)
	defer cancel()

	directions, err := p.Directions.GetDirections(dctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrNoRouteFound) || errors.Is(err, domain.ErrDirectionsUnavailable) {
			return domain.RouteDirections{}, err
		}
		return domain.RouteDirections{}, domain.NewPlanError("fetch directions", domain.ErrDirectionsUnavailable, err)
	}

	if directions.Instructions == nil {
		directions.Instructions = []string{}
	}
	return directions, nil
}

type solveResult struct {
	tour domain.OptimalTour
	err  error
}

// solve runs the CPU-bound DP off the calling goroutine so a superseded cycle
// can stop waiting as soon as its context is canceled.
func (p *RoutePlanner) solve(ctx context.Context, matrix domain.DistanceMatrix) (_ domain.OptimalTour, err error) {
	defer obs.Time(ctx, "route.solve")(&err)

	resultCh := make(chan solveResult, 1)
	go func() {
		tour, err := p.Solver.Solve(ctx, matrix)
		resultCh <- solveResult{tour: tour, err: err}
	}()

	select {
	case <-ctx.Done():
		return domain.OptimalTour{}, ctx.Err()
	case res := <-resultCh:
		return res.tour, res.err
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
