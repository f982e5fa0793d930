package ports

import (
	"cluster-route-service/internal/domain"
	"context"
)

// Contract for retrieving pairwise travel durations between waypoints.
type MatrixProvider interface {
	// Return an n×n matrix of durations in seconds whose row and column order
	// matches points. Failures wrap domain.ErrMatrixUnavailable.
	GetMatrix(ctx context.Context, points []domain.Coordinates) (domain.DistanceMatrix, error)
}
