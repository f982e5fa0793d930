package services

import (
	"cluster-route-service/internal/domain"
)

// ClusterCycler navigates an ordered list of clusters with wraparound.
// With no clusters every move is a no-op and the active set is empty.
type ClusterCycler struct {
	sets  []domain.CoordinateSet
	index int
}

func NewClusterCycler(sets []domain.CoordinateSet) *ClusterCycler {
	c := &ClusterCycler{}
	c.Replace(sets)
	return c
}

// Next advances to (index + 1) mod count and returns the new index.
func (c *ClusterCycler) Next() int {
	if len(c.sets) == 0 {
		return c.index
	}
	c.index = (c.index + 1) % len(c.sets)
	return c.index
}

// Previous moves to (index - 1 + count) mod count and returns the new index.
func (c *ClusterCycler) Previous() int {
	if len(c.sets) == 0 {
		return c.index
	}
	c.index = (c.index - 1 + len(c.sets)) % len(c.sets)
	return c.index
}

// Select jumps to index i. It returns false when i is out of range.
func (c *ClusterCycler) Select(i int) bool {
	if i < 0 || i >= len(c.sets) {
		return false
	}
	c.index = i
	return true
}

func (c *ClusterCycler) Index() int { return c.index }

func (c *ClusterCycler) Count() int { return len(c.sets) }

// Active returns the selected cluster, or the empty set when there are none.
func (c *ClusterCycler) Active() domain.CoordinateSet {
	if len(c.sets) == 0 {
		return domain.CoordinateSet{}
	}
	return c.sets[c.index]
}

// Replace swaps in a freshly fetched cluster list. The index is kept when it
// is still in range and reset to 0 otherwise.
func (c *ClusterCycler) Replace(sets []domain.CoordinateSet) {
	c.sets = make([]domain.CoordinateSet, len(sets))
	copy(c.sets, sets)
	if c.index >= len(c.sets) {
		c.index = 0
	}
}
