package services

import (
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/obs"
	"cluster-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
)

// OrchestratorConfig wires the collaborators of an Orchestrator.
// Clusters and Store are optional.
type OrchestratorConfig struct {
	Planner   Planner
	Clusters  ports.ClusterProvider
	Store     ports.ProgressStore
	Depot     domain.Coordinates
	Tolerance float64
}

// Orchestrator turns external triggers into planning cycles.
//
// Every trigger bumps the generation, cancels the cycle in flight and starts a
// new one. A finished cycle is applied only if its generation is still the
// latest; anything older is dropped without surfacing an error. The last
// successful plan stays available through failures until a later cycle succeeds.
//
// All mutable state is guarded by mu, which is never held across network
// calls, the solve, or subscriber callbacks. storeMu is taken before mu and
// keeps ProgressStore writes in the same order as the in-memory changes.
type Orchestrator struct {
	planner   Planner
	clusters  ports.ClusterProvider
	store     ports.ProgressStore
	depot     domain.Coordinates
	tolerance float64

	base      context.Context
	closeBase context.CancelFunc

	mu         sync.Mutex
	cycler     *ClusterCycler
	progress   *ProgressTracker
	generation uint64
	cancel     context.CancelFunc
	last       *domain.RoutePlan
	lastErr    error
	subs       map[int]func(domain.RoutePlan)
	nextSubID  int

	// Applied plans waiting for subscribers, in generation order.
	// At most one goroutine drains the queue at a time.
	outbox      []domain.RoutePlan
	dispatching bool

	storeMu sync.Mutex
}

func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Planner == nil {
		return nil, errors.New("new orchestrator: planner must be non-nil")
	}
	if !cfg.Depot.Valid() {
		return nil, fmt.Errorf("new orchestrator: invalid depot %v", cfg.Depot)
	}

	tol := cfg.Tolerance
	if tol <= 0 {
		tol = domain.DefaultTolerance
	}

	base, closeBase := context.WithCancel(context.Background())

	return &Orchestrator{
		planner:   cfg.Planner,
		clusters:  cfg.Clusters,
		store:     cfg.Store,
		depot:     cfg.Depot,
		tolerance: tol,
		base:      base,
		closeBase: closeBase,
		cycler:    NewClusterCycler(nil),
		progress:  NewProgressTracker(tol),
		subs:      make(map[int]func(domain.RoutePlan)),
	}, nil
}

// Cycle is a handle on one triggered planning cycle.
type Cycle struct {
	Generation uint64

	done    chan struct{}
	err     error
	applied bool
}

// Wait blocks until the cycle finishes or ctx is done.
// It returns nil for applied cycles, empty sets and superseded cycles,
// and the typed failure when the latest cycle failed.
func (c *Cycle) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Applied reports whether the cycle's plan became the current route.
// Only meaningful after Wait returned.
func (c *Cycle) Applied() bool {
	select {
	case <-c.done:
		return c.applied
	default:
		return false
	}
}

// Status is a point-in-time summary of the orchestrator state.
type Status struct {
	Generation   uint64
	ClusterIndex int
	ClusterCount int
	Completed    int
	HasRoute     bool
}

// SetClusters replaces the cluster list with raw point groups and starts a cycle.
func (o *Orchestrator) SetClusters(clusters [][]domain.Coordinates) *Cycle {
	sets := o.buildSets(clusters)
	cycle, _ := o.trigger("clusters", func() error {
		o.cycler.Replace(sets)
		return nil
	})
	return cycle
}

// Refresh reloads clusters from the ClusterProvider and starts a cycle.
// On provider failure nothing changes and no cycle is started.
func (o *Orchestrator) Refresh(ctx context.Context) (_ *Cycle, err error) {
	defer obs.Time(ctx, "orchestrator.refresh")(&err)

	if o.clusters == nil {
		return nil, errors.New("refresh clusters: no cluster provider configured")
	}

	clusters, err := o.clusters.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh clusters: %w", err)
	}

	sets := o.buildSets(clusters)
	return o.trigger("refresh", func() error {
		o.cycler.Replace(sets)
		return nil
	})
}

// Next selects the following cluster (with wraparound) and starts a cycle.
func (o *Orchestrator) Next() *Cycle {
	cycle, _ := o.trigger("next", func() error {
		o.cycler.Next()
		return nil
	})
	return cycle
}

// Previous selects the preceding cluster (with wraparound) and starts a cycle.
func (o *Orchestrator) Previous() *Cycle {
	cycle, _ := o.trigger("previous", func() error {
		o.cycler.Previous()
		return nil
	})
	return cycle
}

// Select jumps to cluster i and starts a cycle.
// An out-of-range index starts nothing and leaves the generation unchanged.
func (o *Orchestrator) Select(i int) (*Cycle, error) {
	return o.trigger("select", func() error {
		if !o.cycler.Select(i) {
			return fmt.Errorf("select cluster: index %d out of range [0,%d)", i, o.cycler.Count())
		}
		return nil
	})
}

// Replan starts a cycle over the current state, e.g. after an upstream failure.
func (o *Orchestrator) Replan() *Cycle {
	cycle, _ := o.trigger("replan", nil)
	return cycle
}

// Complete marks c delivered and starts a cycle without it.
// added is false when c was already complete.
func (o *Orchestrator) Complete(ctx context.Context, c domain.Coordinates) (cycle *Cycle, added bool) {
	o.storeMu.Lock()
	defer o.storeMu.Unlock()

	cycle, _ = o.trigger("complete", func() error {
		added = o.progress.MarkComplete(c)
		return nil
	})

	if added && o.store != nil {
		if err := o.store.Append(ctx, c); err != nil {
			log.Printf("progress store append failed: point=%s err=%v", c.Key(), err)
		}
	}
	return cycle, added
}

// ResetProgress clears every completed delivery and starts a cycle.
func (o *Orchestrator) ResetProgress(ctx context.Context) *Cycle {
	o.storeMu.Lock()
	defer o.storeMu.Unlock()

	cycle, _ := o.trigger("reset", func() error {
		o.progress.Reset()
		return nil
	})

	if o.store != nil {
		if err := o.store.Clear(ctx); err != nil {
			log.Printf("progress store clear failed: err=%v", err)
		}
	}
	return cycle
}

// Restore loads persisted progress from the ProgressStore, if any.
// It does not start a cycle.
func (o *Orchestrator) Restore(ctx context.Context) error {
	if o.store == nil {
		return nil
	}

	o.storeMu.Lock()
	defer o.storeMu.Unlock()

	points, err := o.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore progress: %w", err)
	}

	o.mu.Lock()
	o.progress.Restore(points)
	n := o.progress.Len()
	o.mu.Unlock()

	log.Printf("progress restored: completed=%d", n)
	return nil
}

// Current returns the last successfully applied plan (nil before the first
// success) and the failure of the latest cycle, if it failed.
func (o *Orchestrator) Current() (*domain.RoutePlan, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last, o.lastErr
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{
		Generation:   o.generation,
		ClusterIndex: o.cycler.Index(),
		ClusterCount: o.cycler.Count(),
		Completed:    o.progress.Len(),
		HasRoute:     o.last != nil,
	}
}

// Completed returns the completed delivery points.
func (o *Orchestrator) Completed() []domain.Coordinates {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress.Completed()
}

// Subscribe registers fn to be called after every applied plan, in generation order.
// Callbacks run one at a time on a cycle goroutine, after the cycle's Wait has
// returned and with no Orchestrator lock held, so fn may trigger and wait on
// new cycles.
func (o *Orchestrator) Subscribe(fn func(domain.RoutePlan)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextSubID
	o.nextSubID++
	o.subs[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// Close cancels any cycle in flight. Triggers after Close finish immediately.
func (o *Orchestrator) Close() {
	o.closeBase()
}

func (o *Orchestrator) buildSets(clusters [][]domain.Coordinates) []domain.CoordinateSet {
	sets := make([]domain.CoordinateSet, 0, len(clusters))
	for _, points := range clusters {
		sets = append(sets, domain.NewCoordinateSet(o.depot, points, o.tolerance))
	}
	return sets
}

// trigger applies mutate and starts a new cycle. When mutate fails nothing
// else changes and no cycle starts.
func (o *Orchestrator) trigger(reason string, mutate func() error) (*Cycle, error) {
	o.mu.Lock()
	if mutate != nil {
		if err := mutate(); err != nil {
			o.mu.Unlock()
			return nil, err
		}
	}

	o.generation++
	gen := o.generation

	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(o.base)
	o.cancel = cancel

	clusterIdx := o.cycler.Index()
	pending := o.progress.FilterPending(o.cycler.Active())
	o.mu.Unlock()

	log.Printf("gen=%d trigger=%s cluster=%d waypoints=%d", gen, reason, clusterIdx, pending.Len())

	cycle := &Cycle{Generation: gen, done: make(chan struct{})}
	go o.run(obs.WithGeneration(ctx, gen), cancel, cycle, clusterIdx, pending)
	return cycle, nil
}

func (o *Orchestrator) run(
	ctx context.Context,
	cancel context.CancelFunc,
	cycle *Cycle,
	clusterIdx int,
	pending domain.CoordinateSet,
) {
	finish := sync.OnceFunc(func() { close(cycle.done) })
	defer finish()
	defer cancel()

	gen := cycle.Generation

	if pending.IsEmpty() {
		log.Printf("gen=%d cycle skipped: no active cluster", gen)
		return
	}

	plan, err := o.planner.PlanRoute(ctx, pending)

	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		log.Printf("gen=%d cycle discarded: %v (latest=%d)", gen, domain.ErrStaleGeneration, o.latest())
		return
	}

	if err != nil {
		if errors.Is(err, domain.ErrEmptyCoordinateSet) {
			o.mu.Unlock()
			return
		}
		o.lastErr = err
		o.mu.Unlock()

		cycle.err = err
		log.Printf("gen=%d cycle failed: category=%s err=%v", gen, domain.CategoryOf(err), err)
		return
	}

	plan.Generation = gen
	plan.ClusterIndex = clusterIdx
	o.last = plan
	o.lastErr = nil
	// Queued under mu so the outbox stays in generation order.
	o.outbox = append(o.outbox, *plan)
	o.mu.Unlock()

	cycle.applied = true
	finish()
	log.Printf("gen=%d cycle applied: cluster=%d deliveries=%d cost=%.0f duration=%.0fs",
		gen, clusterIdx, len(plan.Pending()), plan.Tour.Cost, plan.Directions.TotalDurationSeconds)

	o.dispatch()
}

func (o *Orchestrator) latest() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generation
}

// dispatch delivers queued plans to subscribers. If another goroutine is
// already dispatching it picks up the queued plans and dispatch returns at once.
func (o *Orchestrator) dispatch() {
	o.mu.Lock()
	if o.dispatching {
		o.mu.Unlock()
		return
	}
	o.dispatching = true

	for len(o.outbox) > 0 {
		plan := o.outbox[0]
		o.outbox = o.outbox[1:]

		ids := make([]int, 0, len(o.subs))
		for id := range o.subs {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		fns := make([]func(domain.RoutePlan), 0, len(ids))
		for _, id := range ids {
			fns = append(fns, o.subs[id])
		}
		o.mu.Unlock()

		for _, fn := range fns {
			fn(plan)
		}

		o.mu.Lock()
	}

	o.dispatching = false
	o.mu.Unlock()
}
