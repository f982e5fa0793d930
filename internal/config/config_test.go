package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAPBOX_ACCESS_TOKEN", "pk.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "mapbox", cfg.Provider)
	assert.Equal(t, "data/seeds/orders.json", cfg.StockPath)
	assert.Equal(t, 16, cfg.MaxWaypoints)
	assert.Equal(t, 10, cfg.MaxPointsPerCluster)
	assert.True(t, cfg.ReturnToDepot)
	assert.Equal(t, 1e-6, cfg.Tolerance)
	assert.Equal(t, 10*time.Second, cfg.MatrixTimeout)
	assert.InDelta(t, 73.18431705853321, cfg.Depot.Lon, 1e-12)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROUTE_PROVIDER", "ors")
	t.Setenv("ORS_API_KEY", "key")
	t.Setenv("MAX_WAYPOINTS", "12")
	t.Setenv("MAX_POINTS_PER_CLUSTER", "8")
	t.Setenv("ROUTE_RETURN_TO_DEPOT", "false")
	t.Setenv("DIRECTIONS_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ors", cfg.Provider)
	assert.Equal(t, 12, cfg.MaxWaypoints)
	assert.False(t, cfg.ReturnToDepot)
	assert.Equal(t, 3*time.Second, cfg.DirectionsTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("ROUTE_PROVIDER", "fake")
	t.Setenv("MAX_WAYPOINTS", "40")
	t.Setenv("COORD_TOLERANCE", "abc")
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_WAYPOINTS")
	assert.Contains(t, err.Error(), "COORD_TOLERANCE")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadRequiresProviderCredentials(t *testing.T) {
	t.Setenv("ROUTE_PROVIDER", "mapbox")
	t.Setenv("MAPBOX_ACCESS_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_ACCESS_TOKEN")
}
