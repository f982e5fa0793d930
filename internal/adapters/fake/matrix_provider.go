package fake

import (
	"cluster-route-service/internal/domain"
	"context"
	"fmt"
	"math"
	"sync"
)

const earthRadiusMeters = 6371000.0

// SpeedMetersPerSecond turns great-circle distance into a duration (~36 km/h).
const SpeedMetersPerSecond = 10.0

// MatrixProvider answers matrix requests from straight-line travel times.
// It is deterministic and never touches the network.
type MatrixProvider struct {
	// Err, when set, is returned from every call.
	Err error
	// Fixed, when set, is returned instead of computed durations.
	Fixed domain.DistanceMatrix

	mu    sync.Mutex
	calls [][]domain.Coordinates
}

func NewMatrixProvider() *MatrixProvider {
	return &MatrixProvider{}
}

func (p *MatrixProvider) GetMatrix(ctx context.Context, points []domain.Coordinates) (domain.DistanceMatrix, error) {
	p.mu.Lock()
	p.calls = append(p.calls, append([]domain.Coordinates(nil), points...))
	errv, fixed := p.Err, p.Fixed
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fake matrix: %w", err)
	}
	if errv != nil {
		return nil, errv
	}
	if fixed != nil {
		return fixed, nil
	}

	n := len(points)
	m := make(domain.DistanceMatrix, n)
	for i := range points {
		m[i] = make([]float64, n)
		for j := range points {
			if i != j {
				m[i][j] = math.Round(Haversine(points[i], points[j]) / SpeedMetersPerSecond)
			}
		}
	}
	return m, nil
}

// Calls returns the point lists of every request so far.
func (p *MatrixProvider) Calls() [][]domain.Coordinates {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]domain.Coordinates, len(p.calls))
	copy(out, p.calls)
	return out
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
