package services

import (
	"cluster-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTrackerFilterPendingWithinTolerance(t *testing.T) {
	p := NewProgressTracker(domain.DefaultTolerance)
	p.MarkComplete(domain.Coordinates{Lon: 73.18972, Lat: 22.29616})

	jittered := domain.Coordinates{Lon: 73.189720001, Lat: 22.296160002}
	other := domain.Coordinates{Lon: 73.17327747810634, Lat: 22.282763254858214}
	set := testSet(jittered, other)

	pending := p.FilterPending(set)

	require.Equal(t, 2, pending.Len())
	assert.True(t, pending.At(0).IsDepot)
	assert.Equal(t, other, pending.At(1).Coordinates)
	assert.Equal(t, 3, set.Len(), "input set must not change")
}

func TestProgressTrackerMarkCompleteIsIdempotent(t *testing.T) {
	p := NewProgressTracker(domain.DefaultTolerance)
	c := domain.Coordinates{Lon: 73.2, Lat: 22.3}

	assert.True(t, p.MarkComplete(c))
	assert.False(t, p.MarkComplete(c))
	assert.False(t, p.MarkComplete(domain.Coordinates{Lon: 73.2000000005, Lat: 22.3}))
	assert.Equal(t, 1, p.Len())
}

func TestProgressTrackerOutsideToleranceIsDistinct(t *testing.T) {
	p := NewProgressTracker(domain.DefaultTolerance)
	p.MarkComplete(domain.Coordinates{Lon: 73.2, Lat: 22.3})

	assert.False(t, p.IsComplete(domain.Coordinates{Lon: 73.200002, Lat: 22.3}))
}

func TestProgressTrackerKeepsDepot(t *testing.T) {
	p := NewProgressTracker(domain.DefaultTolerance)
	p.MarkComplete(testDepot)

	pending := p.FilterPending(testSet(domain.Coordinates{Lon: 1, Lat: 1}))

	require.Equal(t, 2, pending.Len())
	assert.True(t, pending.At(0).IsDepot)
}

func TestProgressTrackerPreservesRelativeOrder(t *testing.T) {
	a := domain.Coordinates{Lon: 1, Lat: 1}
	b := domain.Coordinates{Lon: 2, Lat: 2}
	c := domain.Coordinates{Lon: 3, Lat: 3}
	d := domain.Coordinates{Lon: 4, Lat: 4}

	p := NewProgressTracker(domain.DefaultTolerance)
	p.MarkComplete(b)

	pending := p.FilterPending(testSet(a, b, c, d))

	require.Equal(t, 4, pending.Len())
	assert.Equal(t, []domain.Coordinates{testDepot, a, c, d}, pending.Coordinates())
}

func TestProgressTrackerResetAndRestore(t *testing.T) {
	p := NewProgressTracker(0)
	assert.Equal(t, domain.DefaultTolerance, p.Tolerance)

	a := domain.Coordinates{Lon: 1, Lat: 1}
	p.Restore([]domain.Coordinates{a, a, {Lon: 2, Lat: 2}})
	assert.Equal(t, 2, p.Len())

	completed := p.Completed()
	completed[0].Lon = 50
	assert.True(t, p.IsComplete(a))

	p.Reset()
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.IsComplete(a))
}
