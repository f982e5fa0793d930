package mapbox

import (
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// MaxMatrixCoordinates is the Directions Matrix API limit for driving profiles.
const MaxMatrixCoordinates = 25

type matrixResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Durations [][]*float64 `json:"durations"`
}

// GetMatrix returns the n×n duration matrix in seconds for points.
func (c *Client) GetMatrix(ctx context.Context, points []domain.Coordinates) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "mapbox.matrix")(&err)

	n := len(points)
	if n < 2 {
		return nil, domain.NewPlanError("mapbox matrix", domain.ErrMatrixUnavailable,
			fmt.Errorf("need at least 2 coordinates, got %d", n))
	}
	if n > MaxMatrixCoordinates {
		return nil, domain.NewPlanError("mapbox matrix", domain.ErrMatrixUnavailable,
			fmt.Errorf("%d coordinates exceed the API limit of %d", n, MaxMatrixCoordinates))
	}

	endpoint := c.endpoint("directions-matrix/v1", points, url.Values{"annotations": {"duration"}})

	resp, err := c.http.DoWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, endpoint)
	})
	if err != nil {
		return nil, domain.NewPlanError("mapbox matrix", domain.ErrMatrixUnavailable, err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, domain.NewPlanError("mapbox matrix", domain.ErrMatrixUnavailable,
			fmt.Errorf("decode matrix response: %w", err))
	}

	if mr.Code != "Ok" {
		return nil, domain.NewPlanError("mapbox matrix", domain.ErrMatrixUnavailable,
			fmt.Errorf("code %q: %s", mr.Code, mr.Message))
	}

	return toMatrix(mr.Durations, n)
}

// toMatrix converts the nullable API rows into a DistanceMatrix.
// A null cell means the pair is unroutable, which the solver cannot price.
func toMatrix(rows [][]*float64, n int) (domain.DistanceMatrix, error) {
	if len(rows) != n {
		return nil, domain.NewPlanError("mapbox matrix", domain.ErrMatrixUnavailable,
			fmt.Errorf("expected %d rows, got %d", n, len(rows)))
	}

	m := make(domain.DistanceMatrix, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, domain.NewPlanError("mapbox matrix", domain.ErrMatrixUnavailable,
				fmt.Errorf("row %d: expected %d cells, got %d", i, n, len(row)))
		}
		m[i] = make([]float64, n)
		for j, cell := range row {
			if cell == nil {
				return nil, domain.NewPlanError("mapbox matrix", domain.ErrMatrixUnavailable,
					fmt.Errorf("no duration from %d to %d", i, j))
			}
			m[i][j] = *cell
		}
	}

	if err := m.Validate(n); err != nil {
		return nil, domain.NewPlanError("mapbox matrix", domain.ErrMatrixUnavailable, err)
	}
	return m, nil
}
