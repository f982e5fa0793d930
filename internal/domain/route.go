package domain

import (
	"encoding/json"
	"time"
)

// OptimalTour is a solved visiting order over a CoordinateSet.
// Order starts at the depot (index 0) and lists every other index exactly once.
// Cost includes the return leg to the depot when ReturnsToDepot is set.
type OptimalTour struct {
	Order          []int
	Cost           float64
	ReturnsToDepot bool
}

// RouteDirections is the turn-by-turn rendering of an ordered path.
type RouteDirections struct {
	TotalDurationSeconds float64
	Instructions         []string
	// Opaque provider geometry (GeoJSON LineString or encoded polyline).
	Geometry json.RawMessage
}

// Represents a single stop in a delivery route.
// Index refers to the waypoint position inside the CoordinateSet that was solved,
// so a stop can always be traced back to its originating delivery.
type RouteStop struct {
	Sequence int
	Index    int
	Waypoint Waypoint
}

// Represents the planned route for the active cluster.
// A RoutePlan is the output of one completed, non-stale planning cycle.
// It is immutable planning data and contains no side effects.
type RoutePlan struct {
	Generation   uint64
	ClusterIndex int
	Stops        []RouteStop
	Tour         OptimalTour
	Directions   RouteDirections
	PlannedAt    time.Time
}

// Pending returns the delivery stops, skipping the depot.
func (p *RoutePlan) Pending() []RouteStop {
	out := make([]RouteStop, 0, len(p.Stops))
	for _, s := range p.Stops {
		if !s.Waypoint.IsDepot {
			out = append(out, s)
		}
	}
	return out
}
