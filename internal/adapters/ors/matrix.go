package ors

import (
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/obs"
	"context"
	"fmt"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

// GetMatrix retrieves the full n×n duration matrix for points
// using the OpenRouteService matrix endpoint.
func (o *Provider) GetMatrix(ctx context.Context, points []domain.Coordinates) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "ors.GetMatrix")(&err)

	n := len(points)
	if n < 2 {
		return nil, domain.NewPlanError("ors matrix", domain.ErrMatrixUnavailable,
			fmt.Errorf("need at least 2 locations, got %d", n))
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, n)
	for _, c := range points {
		locations = append(locations, c.CoordsToList())
	}

	var mr matrixResponse
	if err := o.post(ctx, endpoint, matrixRequest{Locations: locations, Metrics: []string{"duration"}}, &mr); err != nil {
		return nil, domain.NewPlanError("ors matrix", domain.ErrMatrixUnavailable, err)
	}

	if len(mr.Durations) != n {
		return nil, domain.NewPlanError("ors matrix", domain.ErrMatrixUnavailable,
			fmt.Errorf("expected %d source rows, got %d", n, len(mr.Durations)))
	}

	m := make(domain.DistanceMatrix, n)
	for i, row := range mr.Durations {
		if len(row) != n {
			return nil, domain.NewPlanError("ors matrix", domain.ErrMatrixUnavailable,
				fmt.Errorf("row %d: expected %d durations, got %d", i, n, len(row)))
		}
		m[i] = make([]float64, n)
		for j, secondsPtr := range row {
			// ORS reports unroutable pairs as null.
			if secondsPtr == nil {
				return nil, domain.NewPlanError("ors matrix", domain.ErrMatrixUnavailable,
					fmt.Errorf("matrix returned no duration from %d to %d", i, j))
			}
			m[i][j] = *secondsPtr
		}
	}

	if err := m.Validate(n); err != nil {
		return nil, domain.NewPlanError("ors matrix", domain.ErrMatrixUnavailable, err)
	}

	return m, nil
}
