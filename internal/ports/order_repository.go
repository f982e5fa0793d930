package ports

import (
	"cluster-route-service/internal/domain"
	"context"
)

// Port: a boundary for retrieving Order entities from a data source.
type OrderRepository interface {
	// Retrieve all orders available for clustering.
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

// Port: an OrderRepository that also accepts new orders and bulk restocking.
type OrderStore interface {
	OrderRepository

	// Persist o under a newly assigned order_id and return the stored order.
	CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error)

	// Replace every order with the contents of a seed file and return how many were loaded.
	ReplaceFromJSON(ctx context.Context, jsonPath string) (int, error)
}
