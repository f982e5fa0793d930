package mapbox

import (
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/httpx"
	"cluster-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// MaxDirectionsCoordinates is the Directions API waypoint limit.
const MaxDirectionsCoordinates = 25

type directionsResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Routes  []route `json:"routes"`
}

type route struct {
	Duration float64         `json:"duration"`
	Geometry json.RawMessage `json:"geometry"`
	Legs     []struct {
		Steps []struct {
			Maneuver struct {
				Instruction string `json:"instruction"`
			} `json:"maneuver"`
		} `json:"steps"`
	} `json:"legs"`
}

// GetDirections fetches driving directions visiting path in order.
func (c *Client) GetDirections(ctx context.Context, path []domain.Coordinates) (_ domain.RouteDirections, err error) {
	defer obs.Time(ctx, "mapbox.directions")(&err)

	if len(path) < 2 {
		return domain.RouteDirections{}, domain.NewPlanError("mapbox directions", domain.ErrDirectionsUnavailable,
			fmt.Errorf("need at least 2 coordinates, got %d", len(path)))
	}
	if len(path) > MaxDirectionsCoordinates {
		return domain.RouteDirections{}, domain.NewPlanError("mapbox directions", domain.ErrDirectionsUnavailable,
			fmt.Errorf("%d coordinates exceed the API limit of %d", len(path), MaxDirectionsCoordinates))
	}

	query := url.Values{
		"geometries": {"geojson"},
		"steps":      {"true"},
		"overview":   {"full"},
	}
	endpoint := c.endpoint("directions/v5", path, query)

	resp, err := c.http.DoWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, endpoint)
	})
	if err != nil {
		// Mapbox answers unroutable requests with 422 and code NoRoute.
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Code == http.StatusUnprocessableEntity && noRoute(se.Body) {
			return domain.RouteDirections{}, domain.NewPlanError("mapbox directions", domain.ErrNoRouteFound, err)
		}
		return domain.RouteDirections{}, domain.NewPlanError("mapbox directions", domain.ErrDirectionsUnavailable, err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.RouteDirections{}, domain.NewPlanError("mapbox directions", domain.ErrDirectionsUnavailable,
			fmt.Errorf("decode directions response: %w", err))
	}

	switch {
	case dr.Code == "NoRoute" || (dr.Code == "Ok" && len(dr.Routes) == 0):
		return domain.RouteDirections{}, domain.NewPlanError("mapbox directions", domain.ErrNoRouteFound,
			fmt.Errorf("code %q: %s", dr.Code, dr.Message))
	case dr.Code != "Ok":
		return domain.RouteDirections{}, domain.NewPlanError("mapbox directions", domain.ErrDirectionsUnavailable,
			fmt.Errorf("code %q: %s", dr.Code, dr.Message))
	}

	best := dr.Routes[0]
	instructions := make([]string, 0)
	for _, leg := range best.Legs {
		for _, step := range leg.Steps {
			instructions = append(instructions, step.Maneuver.Instruction)
		}
	}

	return domain.RouteDirections{
		TotalDurationSeconds: best.Duration,
		Instructions:         instructions,
		Geometry:             best.Geometry,
	}, nil
}

func noRoute(body string) bool {
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return false
	}
	return payload.Code == "NoRoute"
}
