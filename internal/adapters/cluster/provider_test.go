package cluster

import (
	"cluster-route-service/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	orders []*domain.Order
	err    error
}

func (s stubOrders) ListOrders(context.Context) ([]*domain.Order, error) {
	return s.orders, s.err
}

func TestHTTPProviderListClusters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 4, req.MaxPointsPerCluster)
		assert.Equal(t, []point{{Lon: 73.21, Lat: 22.25}, {Lon: 73.22, Lat: 22.24}}, req.Coordinates)

		_, _ = w.Write([]byte(`{"clusters":[
			{"coordinates":[{"lon":73.22,"lat":22.24}]},
			{"coordinates":[{"lon":73.21,"lat":22.25}]}
		]}`))
	}))
	defer srv.Close()

	orders := stubOrders{orders: []*domain.Order{
		{OrderID: 1, Location: domain.Coordinates{Lon: 73.21, Lat: 22.25}},
		{OrderID: 2, Location: domain.Coordinates{Lon: 73.22, Lat: 22.24}},
		{OrderID: 3, Location: domain.Coordinates{Lon: 400, Lat: 22.24}},
	}}

	p, err := NewHTTPProvider(srv.URL+"/", orders, 4, srv.Client())
	require.NoError(t, err)

	clusters, err := p.ListClusters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]domain.Coordinates{
		{{Lon: 73.22, Lat: 22.24}},
		{{Lon: 73.21, Lat: 22.25}},
	}, clusters)
}

func TestHTTPProviderNoOrdersSkipsService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("clustering service should not be called")
	}))
	defer srv.Close()

	p, err := NewHTTPProvider(srv.URL, stubOrders{}, 0, srv.Client())
	require.NoError(t, err)

	clusters, err := p.ListClusters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clusters)
}

func TestHTTPProviderErrors(t *testing.T) {
	_, err := NewHTTPProvider("", stubOrders{}, 10, nil)
	assert.Error(t, err)

	p, err := NewHTTPProvider("http://127.0.0.1:1", stubOrders{err: errors.New("db down")}, 10, nil)
	require.NoError(t, err)
	_, err = p.ListClusters(context.Background())
	assert.ErrorContains(t, err, "db down")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p, err = NewHTTPProvider(srv.URL, stubOrders{orders: []*domain.Order{{Location: domain.Coordinates{Lon: 1, Lat: 1}}}}, 10, srv.Client())
	require.NoError(t, err)
	_, err = p.ListClusters(context.Background())
	assert.Error(t, err)
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.json")
	require.NoError(t, os.WriteFile(path, []byte(`[[[73.21,22.25],[73.22,22.24]],[[73.19,22.32]]]`), 0o644))

	clusters, err := NewFileProvider(path).ListClusters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]domain.Coordinates{
		{{Lon: 73.21, Lat: 22.25}, {Lon: 73.22, Lat: 22.24}},
		{{Lon: 73.19, Lat: 22.32}},
	}, clusters)
}

func TestFileProviderErrors(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "missing.json")).ListClusters(context.Background())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[[[1,2,3]]]`), 0o644))
	_, err = NewFileProvider(path).ListClusters(context.Background())
	assert.Error(t, err)
}

func TestFileProviderShippedData(t *testing.T) {
	clusters, err := NewFileProvider("../../../data/clusters.json").ListClusters(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, clusters)
}
