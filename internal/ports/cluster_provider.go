package ports

import (
	"cluster-route-service/internal/domain"
	"context"
)

// Port: the upstream partitioner that groups delivery points into clusters.
// The partition is opaque; no balance or size guarantees are assumed.
type ClusterProvider interface {
	ListClusters(ctx context.Context) ([][]domain.Coordinates, error)
}
