package services

import (
	"cluster-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDepot = domain.Coordinates{Lon: 73.18431705853321, Lat: 22.28310051174754}

func testSet(points ...domain.Coordinates) domain.CoordinateSet {
	return domain.NewCoordinateSet(testDepot, points, domain.DefaultTolerance)
}

func TestSequenceRouteReordersWaypoints(t *testing.T) {
	a := domain.Coordinates{Lon: 73.21, Lat: 22.25}
	b := domain.Coordinates{Lon: 73.22, Lat: 22.24}
	c := domain.Coordinates{Lon: 73.20, Lat: 22.26}
	set := testSet(a, b, c)

	stops, path, err := SequenceRoute(set, domain.OptimalTour{Order: []int{0, 3, 1, 2}})
	require.NoError(t, err)

	require.Len(t, stops, 4)
	assert.Equal(t, []domain.Coordinates{testDepot, c, a, b}, path)

	assert.True(t, stops[0].Waypoint.IsDepot)
	assert.Equal(t, 3, stops[1].Index)
	assert.Equal(t, 1, stops[1].Sequence)
	assert.Equal(t, c.Key(), stops[1].Waypoint.ID)
	assert.Equal(t, 2, stops[3].Index)
}

func TestSequenceRouteRejectsMalformedTours(t *testing.T) {
	set := testSet(domain.Coordinates{Lon: 1, Lat: 1}, domain.Coordinates{Lon: 2, Lat: 2})

	cases := map[string][]int{
		"short":        {0, 1},
		"not at depot": {1, 0, 2},
		"duplicate":    {0, 1, 1},
		"out of range": {0, 1, 5},
		"negative":     {0, -1, 2},
	}

	for name, order := range cases {
		_, _, err := SequenceRoute(set, domain.OptimalTour{Order: order})
		assert.ErrorIs(t, err, domain.ErrMalformedTour, name)
	}
}

func TestSequenceRouteDepotOnly(t *testing.T) {
	stops, path, err := SequenceRoute(testSet(), domain.OptimalTour{Order: []int{0}})
	require.NoError(t, err)

	require.Len(t, stops, 1)
	assert.Equal(t, []domain.Coordinates{testDepot}, path)
}
