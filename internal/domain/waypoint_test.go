package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var depot = Coordinates{Lon: 73.18431705853321, Lat: 22.28310051174754}

func TestNewCoordinateSetPutsDepotFirst(t *testing.T) {
	points := []Coordinates{
		{Lon: 73.21668395742037, Lat: 22.25700591168219},
		{Lon: 73.22562220838351, Lat: 22.248142453217334},
		depot,
	}

	set := NewCoordinateSet(depot, points, DefaultTolerance)

	require.Equal(t, 3, set.Len())
	d, ok := set.Depot()
	require.True(t, ok)
	assert.True(t, d.IsDepot)
	assert.Equal(t, depot, d.Coordinates)

	for i := 1; i < set.Len(); i++ {
		assert.False(t, set.At(i).IsDepot, "index %d", i)
	}
	assert.Equal(t, points[0], set.At(1).Coordinates)
	assert.Equal(t, points[1], set.At(2).Coordinates)
}

func TestCoordinateSetWaypointsReturnsCopy(t *testing.T) {
	set := NewCoordinateSet(depot, []Coordinates{{Lon: 1, Lat: 2}}, DefaultTolerance)

	wps := set.Waypoints()
	wps[1].Coordinates.Lon = 99

	assert.Equal(t, 1.0, set.At(1).Coordinates.Lon)
}

func TestCoordinateSetFilterKeepsDepotAndOrder(t *testing.T) {
	set := NewCoordinateSet(depot, []Coordinates{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}, {Lon: 3, Lat: 3}}, DefaultTolerance)

	filtered := set.Filter(func(w Waypoint) bool { return w.Coordinates.Lon != 2 })

	require.Equal(t, 3, filtered.Len())
	assert.True(t, filtered.At(0).IsDepot)
	assert.Equal(t, 1.0, filtered.At(1).Coordinates.Lon)
	assert.Equal(t, 3.0, filtered.At(2).Coordinates.Lon)
	assert.Equal(t, 4, set.Len())
}

func TestEmptyCoordinateSet(t *testing.T) {
	var set CoordinateSet

	assert.True(t, set.IsEmpty())
	_, ok := set.Depot()
	assert.False(t, ok)
	assert.True(t, set.Filter(func(Waypoint) bool { return true }).IsEmpty())
}

func TestCoordinatesNearAndKey(t *testing.T) {
	a := Coordinates{Lon: 73.18972, Lat: 22.29616}
	b := Coordinates{Lon: 73.189720001, Lat: 22.296160002}
	c := Coordinates{Lon: 73.18973, Lat: 22.29616}

	assert.True(t, a.Near(b, DefaultTolerance))
	assert.False(t, a.Near(c, DefaultTolerance))
	assert.Equal(t, "73.189720,22.296160", a.Key())
	assert.Equal(t, a.Key(), b.Key())
}

func TestCoordinatesValid(t *testing.T) {
	assert.True(t, depot.Valid())
	assert.False(t, Coordinates{Lon: 181, Lat: 0}.Valid())
	assert.False(t, Coordinates{Lon: 0, Lat: -91}.Valid())
}
