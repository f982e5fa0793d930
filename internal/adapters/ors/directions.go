package ors

import (
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/httpx"
	"cluster-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ORS error codes that mean the points cannot be connected by road.
const (
	codeRouteNotFound    = 2009
	codePointNotRoutable = 2010
)

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
}

type directionsResponse struct {
	Features []struct {
		Geometry   json.RawMessage `json:"geometry"`
		Properties struct {
			Summary struct {
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Steps []struct {
					Instruction string `json:"instruction"`
				} `json:"steps"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// GetDirections fetches directions visiting path in order.
func (o *Provider) GetDirections(ctx context.Context, path []domain.Coordinates) (_ domain.RouteDirections, err error) {
	defer obs.Time(ctx, "ors.GetDirections")(&err)

	if len(path) < 2 {
		return domain.RouteDirections{}, domain.NewPlanError("ors directions", domain.ErrDirectionsUnavailable,
			fmt.Errorf("need at least 2 coordinates, got %d", len(path)))
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	coords := make([][]float64, 0, len(path))
	for _, c := range path {
		coords = append(coords, c.CoordsToList())
	}

	var dr directionsResponse
	if err := o.post(ctx, endpoint, directionsRequest{Coordinates: coords, Instructions: true}, &dr); err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			if e, ok := parseAPIError(se.Body); ok &&
				(e.Error.Code == codeRouteNotFound || e.Error.Code == codePointNotRoutable) {
				return domain.RouteDirections{}, domain.NewPlanError("ors directions", domain.ErrNoRouteFound, err)
			}
		}
		return domain.RouteDirections{}, domain.NewPlanError("ors directions", domain.ErrDirectionsUnavailable, err)
	}

	if len(dr.Features) == 0 {
		return domain.RouteDirections{}, domain.NewPlanError("ors directions", domain.ErrNoRouteFound,
			errors.New("response contained no route"))
	}

	feature := dr.Features[0]
	instructions := make([]string, 0)
	for _, seg := range feature.Properties.Segments {
		for _, step := range seg.Steps {
			instructions = append(instructions, step.Instruction)
		}
	}

	return domain.RouteDirections{
		TotalDurationSeconds: feature.Properties.Summary.Duration,
		Instructions:         instructions,
		Geometry:             feature.Geometry,
	}, nil
}
