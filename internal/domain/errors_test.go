package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanErrorMatchesKindAndCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := fmt.Errorf("plan cycle: %w", NewPlanError("fetch matrix", ErrMatrixUnavailable, cause))

	assert.ErrorIs(t, err, ErrMatrixUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, UpstreamError, CategoryOf(err))

	var pe *PlanError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, "fetch matrix", pe.Op)
}

func TestCategoryOf(t *testing.T) {
	cases := []struct {
		err  error
		want Category
	}{
		{ErrEmptyCoordinateSet, InputError},
		{ErrMalformedMatrix, InputError},
		{ErrClusterSizeExceeded, InputError},
		{ErrMatrixUnavailable, UpstreamError},
		{ErrNoRouteFound, UpstreamError},
		{ErrDirectionsUnavailable, UpstreamError},
		{ErrStaleGeneration, StateError},
		{errors.New("other"), Unknown},
		{nil, Unknown},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, CategoryOf(c.err), "%v", c.err)
	}
}

func TestDistanceMatrixValidate(t *testing.T) {
	ok := DistanceMatrix{{0, 1}, {2, 0}}
	assert.NoError(t, ok.Validate(2))

	assert.Error(t, ok.Validate(3))
	assert.Error(t, DistanceMatrix{{0, 1}, {2}}.Validate(2))
	assert.Error(t, DistanceMatrix{{0, math.NaN()}, {2, 0}}.Validate(2))
	assert.Error(t, DistanceMatrix{{0, math.Inf(1)}, {2, 0}}.Validate(2))
	assert.Error(t, DistanceMatrix{{0, -1}, {2, 0}}.Validate(2))
}
