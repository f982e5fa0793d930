package domain

// Waypoint is a depot or delivery point participating in route planning.
type Waypoint struct {
	ID          string
	Coordinates Coordinates
	IsDepot     bool
}

func NewWaypoint(c Coordinates, isDepot bool) Waypoint {
	return Waypoint{ID: c.Key(), Coordinates: c, IsDepot: isDepot}
}

// CoordinateSet is the ordered list of waypoints for one cluster.
//
// The depot always sits at index 0. A set is never mutated after construction;
// filtering or refreshing produces a new value. The zero value is the empty set.
type CoordinateSet struct {
	waypoints []Waypoint
}

// NewCoordinateSet builds a set with depot first, followed by points in input order.
// Points that coincide with the depot within tol are dropped since upstream clusters
// commonly repeat the start location.
func NewCoordinateSet(depot Coordinates, points []Coordinates, tol float64) CoordinateSet {
	wps := make([]Waypoint, 0, 1+len(points))
	wps = append(wps, NewWaypoint(depot, true))
	for _, p := range points {
		if p.Near(depot, tol) {
			continue
		}
		wps = append(wps, NewWaypoint(p, false))
	}
	return CoordinateSet{waypoints: wps}
}

// Len returns the number of waypoints including the depot.
func (s CoordinateSet) Len() int { return len(s.waypoints) }

func (s CoordinateSet) IsEmpty() bool { return len(s.waypoints) == 0 }

// At returns the waypoint at index i. It panics when i is out of range, like a slice index.
func (s CoordinateSet) At(i int) Waypoint { return s.waypoints[i] }

// Depot returns the depot waypoint and false when the set is empty.
func (s CoordinateSet) Depot() (Waypoint, bool) {
	if len(s.waypoints) == 0 {
		return Waypoint{}, false
	}
	return s.waypoints[0], true
}

// Waypoints returns a copy of the ordered waypoints.
func (s CoordinateSet) Waypoints() []Waypoint {
	out := make([]Waypoint, len(s.waypoints))
	copy(out, s.waypoints)
	return out
}

// Coordinates returns the ordered coordinates, depot first.
func (s CoordinateSet) Coordinates() []Coordinates {
	out := make([]Coordinates, 0, len(s.waypoints))
	for _, w := range s.waypoints {
		out = append(out, w.Coordinates)
	}
	return out
}

// Filter returns a new set holding the depot plus every delivery for which keep
// returns true, preserving relative order.
func (s CoordinateSet) Filter(keep func(Waypoint) bool) CoordinateSet {
	if len(s.waypoints) == 0 {
		return CoordinateSet{}
	}

	out := make([]Waypoint, 0, len(s.waypoints))
	for _, w := range s.waypoints {
		if w.IsDepot || keep(w) {
			out = append(out, w)
		}
	}
	return CoordinateSet{waypoints: out}
}
