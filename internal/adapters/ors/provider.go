package ors

import (
	"cluster-route-service/internal/platform/httpx"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "driving-car"
)

// Provider implements MatrixProvider and DirectionsProvider using OpenRouteService.
//
// It coordinates:
//   - Full n×n duration matrices (/v2/matrix)
//   - Turn-by-turn directions in visiting order (/v2/directions)
//   - External API calls with retry/backoff
//
// The provider keeps no cache and is safe for concurrent use.
type Provider struct {
	http    *httpx.Client
	apiKey  string
	baseURL string
	profile string
}

func NewProvider(apiKey, baseURL, profile string, session *http.Client) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if profile == "" {
		profile = DefaultProfile
	}

	provider := &Provider{
		http:    httpx.New(session),
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
	}

	return provider, nil
}

// WithRetry overrides the retry policy of the underlying HTTP client.
func (o *Provider) WithRetry(maxAttempts int, backoff time.Duration) *Provider {
	o.http.WithRetry(maxAttempts, backoff)
	return o
}
