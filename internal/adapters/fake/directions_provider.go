package fake

import (
	"cluster-route-service/internal/domain"
	"context"
	"fmt"
	"math"
	"sync"
)

// DirectionsProvider produces one synthetic instruction per leg of the path.
type DirectionsProvider struct {
	// Err, when set, is returned from every call.
	Err error
	// Gate, when set, is consulted with the 1-based call number. A non-nil
	// channel blocks the call until it is closed, regardless of ctx.
	Gate func(call int) <-chan struct{}

	mu    sync.Mutex
	calls [][]domain.Coordinates
}

func NewDirectionsProvider() *DirectionsProvider {
	return &DirectionsProvider{}
}

func (p *DirectionsProvider) GetDirections(ctx context.Context, path []domain.Coordinates) (domain.RouteDirections, error) {
	p.mu.Lock()
	p.calls = append(p.calls, append([]domain.Coordinates(nil), path...))
	call := len(p.calls)
	errv, gate := p.Err, p.Gate
	p.mu.Unlock()

	if gate != nil {
		if ch := gate(call); ch != nil {
			<-ch
		}
	}

	if errv != nil {
		return domain.RouteDirections{}, errv
	}
	if err := ctx.Err(); err != nil {
		return domain.RouteDirections{}, domain.NewPlanError("fake directions", domain.ErrDirectionsUnavailable, err)
	}

	var total float64
	instructions := make([]string, 0, len(path))
	for i := 1; i < len(path); i++ {
		total += math.Round(Haversine(path[i-1], path[i]) / SpeedMetersPerSecond)
		instructions = append(instructions, fmt.Sprintf("Drive to %s", path[i].Key()))
	}
	instructions = append(instructions, "You have arrived at your destination")

	return domain.RouteDirections{
		TotalDurationSeconds: total,
		Instructions:         instructions,
	}, nil
}

// Calls returns the paths of every request so far.
func (p *DirectionsProvider) Calls() [][]domain.Coordinates {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]domain.Coordinates, len(p.calls))
	copy(out, p.calls)
	return out
}
