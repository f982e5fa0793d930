package services

import (
	"cluster-route-service/internal/domain"
	"fmt"
)

// SequenceRoute maps a solved tour back onto the waypoints of set.
//
// It returns the stops in visiting order, each carrying its original index in
// set, and the coordinate path handed to the directions provider. No costs are
// computed here.
func SequenceRoute(set domain.CoordinateSet, tour domain.OptimalTour) ([]domain.RouteStop, []domain.Coordinates, error) {
	n := set.Len()
	if len(tour.Order) != n {
		return nil, nil, domain.NewPlanError(
			"sequence route",
			domain.ErrMalformedTour,
			fmt.Errorf("tour has %d indices for %d waypoints", len(tour.Order), n),
		)
	}

	if n == 0 {
		return []domain.RouteStop{}, []domain.Coordinates{}, nil
	}

	if tour.Order[0] != 0 {
		return nil, nil, domain.NewPlanError(
			"sequence route",
			domain.ErrMalformedTour,
			fmt.Errorf("tour starts at %d, want depot 0", tour.Order[0]),
		)
	}

	seen := make([]bool, n)
	stops := make([]domain.RouteStop, 0, n)
	path := make([]domain.Coordinates, 0, n)

	for seq, idx := range tour.Order {
		if idx < 0 || idx >= n {
			return nil, nil, domain.NewPlanError("sequence route", domain.ErrMalformedTour, fmt.Errorf("index %d out of range", idx))
		}
		if seen[idx] {
			return nil, nil, domain.NewPlanError("sequence route", domain.ErrMalformedTour, fmt.Errorf("index %d visited twice", idx))
		}
		seen[idx] = true

		wp := set.At(idx)
		stops = append(stops, domain.RouteStop{Sequence: seq, Index: idx, Waypoint: wp})
		path = append(path, wp.Coordinates)
	}

	return stops, path, nil
}
