package cluster

import (
	"bytes"
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/httpx"
	"cluster-route-service/internal/platform/obs"
	"cluster-route-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const DefaultMaxPointsPerCluster = 10

type point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type predictRequest struct {
	Coordinates         []point `json:"coordinates"`
	MaxPointsPerCluster int     `json:"max_points_per_cluster"`
}

type predictResponse struct {
	Clusters []struct {
		Coordinates []point `json:"coordinates"`
	} `json:"clusters"`
}

// HTTPProvider asks the clustering service to partition the current orders.
// The partition is used as returned; no balance or size checks are applied.
type HTTPProvider struct {
	http      *httpx.Client
	baseURL   string
	orders    ports.OrderRepository
	maxPoints int
}

func NewHTTPProvider(baseURL string, orders ports.OrderRepository, maxPoints int, session *http.Client) (*HTTPProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("cluster service url is empty")
	}
	if orders == nil {
		return nil, errors.New("cluster provider: order repository is nil")
	}
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPointsPerCluster
	}

	return &HTTPProvider{
		http:      httpx.New(session),
		baseURL:   strings.TrimRight(baseURL, "/"),
		orders:    orders,
		maxPoints: maxPoints,
	}, nil
}

func (p *HTTPProvider) ListClusters(ctx context.Context) (_ [][]domain.Coordinates, err error) {
	defer obs.Time(ctx, "cluster.ListClusters")(&err)

	orders, err := p.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}

	coords := make([]point, 0, len(orders))
	for _, o := range orders {
		if !o.Location.Valid() {
			continue
		}
		coords = append(coords, point{Lon: o.Location.Lon, Lat: o.Location.Lat})
	}

	if len(coords) == 0 {
		return [][]domain.Coordinates{}, nil
	}

	return p.predict(ctx, coords)
}

// predict posts raw points to the clustering service.
func (p *HTTPProvider) predict(ctx context.Context, coords []point) ([][]domain.Coordinates, error) {
	payload, err := json.Marshal(predictRequest{Coordinates: coords, MaxPointsPerCluster: p.maxPoints})
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	endpoint := p.baseURL + "/predict"
	resp, err := p.http.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("predict clusters: %w", err)
	}
	defer resp.Body.Close()

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}

	out := make([][]domain.Coordinates, 0, len(pr.Clusters))
	for _, c := range pr.Clusters {
		group := make([]domain.Coordinates, 0, len(c.Coordinates))
		for _, pt := range c.Coordinates {
			group = append(group, domain.Coordinates{Lon: pt.Lon, Lat: pt.Lat})
		}
		out = append(out, group)
	}

	return out, nil
}
