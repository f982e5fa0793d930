package ports

import (
	"cluster-route-service/internal/domain"
	"context"
)

// Contract for turning an ordered path into turn-by-turn directions.
type DirectionsProvider interface {
	// Return directions for path, visited in the given order.
	// Fails with domain.ErrNoRouteFound when the provider cannot connect every
	// point and domain.ErrDirectionsUnavailable for any other failure.
	GetDirections(ctx context.Context, path []domain.Coordinates) (domain.RouteDirections, error)
}
