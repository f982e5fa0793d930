package ports

import (
	"cluster-route-service/internal/domain"
	"context"
)

// Optional snapshot of delivery progress kept outside the process.
// The planner owns the authoritative in-memory state; this is write-through only.
type ProgressStore interface {
	Load(ctx context.Context) ([]domain.Coordinates, error)
	Append(ctx context.Context, c domain.Coordinates) error
	Clear(ctx context.Context) error
}
