package domain

import (
	"errors"
	"fmt"
)

// Category groups planning failures by how the caller should react.
type Category string

const (
	// InputError: the cycle's data cannot be planned; retrying with the same data will fail again.
	InputError Category = "input"
	// UpstreamError: an external provider failed; the next trigger retries.
	UpstreamError Category = "upstream"
	// StateError: internal bookkeeping outcome, never surfaced to callers.
	StateError Category = "state"
	Unknown    Category = "unknown"
)

var (
	ErrEmptyCoordinateSet  = errors.New("empty coordinate set")
	ErrMalformedMatrix     = errors.New("malformed distance matrix")
	ErrClusterSizeExceeded = errors.New("cluster size exceeds solver bound")
	ErrMalformedTour       = errors.New("malformed tour")

	ErrMatrixUnavailable     = errors.New("distance matrix unavailable")
	ErrNoRouteFound          = errors.New("no route found")
	ErrDirectionsUnavailable = errors.New("directions unavailable")

	ErrStaleGeneration = errors.New("stale planning generation")
)

// PlanError is the typed failure of one planning step.
// errors.Is matches both the sentinel Kind and the underlying cause.
type PlanError struct {
	Op   string
	Kind error
	Err  error
}

func NewPlanError(op string, kind error, err error) *PlanError {
	return &PlanError{Op: op, Kind: kind, Err: err}
}

func (e *PlanError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *PlanError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Category returns the taxonomy bucket of the error's Kind.
func (e *PlanError) Category() Category {
	return CategoryOf(e.Kind)
}

// CategoryOf classifies any error chain against the sentinel taxonomy.
func CategoryOf(err error) Category {
	switch {
	case err == nil:
		return Unknown
	case errors.Is(err, ErrStaleGeneration):
		return StateError
	case errors.Is(err, ErrEmptyCoordinateSet),
		errors.Is(err, ErrMalformedMatrix),
		errors.Is(err, ErrClusterSizeExceeded),
		errors.Is(err, ErrMalformedTour):
		return InputError
	case errors.Is(err, ErrMatrixUnavailable),
		errors.Is(err, ErrNoRouteFound),
		errors.Is(err, ErrDirectionsUnavailable):
		return UpstreamError
	default:
		return Unknown
	}
}
