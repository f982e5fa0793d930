package mapbox

import (
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/httpx"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.mapbox.com"
	DefaultProfile = "driving"
)

// Client talks to the Mapbox Directions Matrix and Directions APIs.
// It implements both ports.MatrixProvider and ports.DirectionsProvider
// and is safe for concurrent use.
type Client struct {
	http    *httpx.Client
	token   string
	baseURL string
	profile string
}

func NewClient(token, baseURL, profile string, session *http.Client) (*Client, error) {
	if token == "" {
		return nil, errors.New("mapbox access token is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if profile == "" {
		profile = DefaultProfile
	}

	return &Client{
		http:    httpx.New(session),
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
	}, nil
}

// WithRetry overrides the retry policy of the underlying HTTP client.
func (c *Client) WithRetry(maxAttempts int, backoff time.Duration) *Client {
	c.http.WithRetry(maxAttempts, backoff)
	return c
}

// coordinatePath renders points as "lon,lat;lon,lat;..." for the URL path.
func coordinatePath(points []domain.Coordinates) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts,
			strconv.FormatFloat(p.Lon, 'f', -1, 64)+","+strconv.FormatFloat(p.Lat, 'f', -1, 64))
	}
	return strings.Join(parts, ";")
}

func (c *Client) endpoint(service string, points []domain.Coordinates, query url.Values) string {
	query.Set("access_token", c.token)
	return fmt.Sprintf("%s/%s/mapbox/%s/%s?%s",
		c.baseURL, service, c.profile, coordinatePath(points), query.Encode())
}

func (c *Client) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
