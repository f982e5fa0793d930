package services

import (
	"cluster-route-service/internal/domain"
)

// ProgressTracker records completed deliveries and filters them out of planning.
//
// Completed points only accumulate; Reset is the single way to clear them.
// Identity is coordinate equality within Tolerance degrees on both axes, so a
// point that drifted by a few ulps through an external service still matches.
// Not safe for concurrent use; the Orchestrator serializes access.
type ProgressTracker struct {
	Tolerance float64
	completed []domain.Coordinates
}

func NewProgressTracker(tolerance float64) *ProgressTracker {
	if tolerance <= 0 {
		tolerance = domain.DefaultTolerance
	}
	return &ProgressTracker{Tolerance: tolerance}
}

// MarkComplete adds c to the completed set. It returns false when c already matched.
func (p *ProgressTracker) MarkComplete(c domain.Coordinates) bool {
	if p.IsComplete(c) {
		return false
	}
	p.completed = append(p.completed, c)
	return true
}

func (p *ProgressTracker) IsComplete(c domain.Coordinates) bool {
	for _, done := range p.completed {
		if done.Near(c, p.Tolerance) {
			return true
		}
	}
	return false
}

// FilterPending returns a new set with the depot and every waypoint not yet completed.
func (p *ProgressTracker) FilterPending(set domain.CoordinateSet) domain.CoordinateSet {
	return set.Filter(func(w domain.Waypoint) bool {
		return !p.IsComplete(w.Coordinates)
	})
}

// Completed returns a copy of the completed points in completion order.
func (p *ProgressTracker) Completed() []domain.Coordinates {
	out := make([]domain.Coordinates, len(p.completed))
	copy(out, p.completed)
	return out
}

func (p *ProgressTracker) Len() int { return len(p.completed) }

// Restore merges previously persisted points, skipping duplicates.
func (p *ProgressTracker) Restore(points []domain.Coordinates) {
	for _, c := range points {
		p.MarkComplete(c)
	}
}

func (p *ProgressTracker) Reset() {
	p.completed = nil
}
