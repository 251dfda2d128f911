// Package eikonal propagates arrival times over a simplicial mesh with the
// Fast Iterative Method: an active list of front nodes is swept repeatedly,
// converged nodes leave the list and wake the neighbors they improve.
package eikonal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/notargets/gofim/mesh"
	"github.com/notargets/gofim/utils"
)

var (
	ErrMaxSweeps = errors.New("active list not empty after the maximum number of sweeps")
	ErrNoSources = errors.New("mesh has no source nodes")
	ErrConfig    = errors.New("invalid engine configuration")
)

// Config controls the propagation. The zero value is not usable, start from
// DefaultConfig.
type Config struct {
	Epsilon        float64 // Convergence threshold on successive node values
	MaxSweeps      int     // Safety valve against a misbehaving local solver
	Parallel       bool
	ParallelDegree int // Goroutines per parallel sweep
	Metrics        *Metrics
	Logf           func(format string, args ...any) // Progress logging, nil is silent
}

func DefaultConfig() *Config {
	return &Config{
		Epsilon:        1e-6,
		MaxSweeps:      100000,
		ParallelDegree: utils.DefaultParallelDegree(),
	}
}

// Stats counts the work done by an engine since Initialize
type Stats struct {
	Sweeps      int
	LocalSolves int
	Activations int
	Settled     int
}

type Engine struct {
	Mesh   *mesh.Mesh
	Adj    *mesh.Adjacency
	Solver LocalSolver
	cfg    Config
	active *ActiveList
	stats  Stats
	ready  bool
}

// NewEngine prepares a propagation over the mesh of adj. A nil solver selects
// the isotropic Hopf-Lax solver, a nil cfg the DefaultConfig.
func NewEngine(adj *mesh.Adjacency, solver LocalSolver, cfg *Config) (e *Engine, err error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	switch {
	case !(cfg.Epsilon > 0):
		return nil, fmt.Errorf("%w: epsilon must be positive, got %g", ErrConfig, cfg.Epsilon)
	case cfg.MaxSweeps < 1:
		return nil, fmt.Errorf("%w: max sweeps must be positive, got %d", ErrConfig, cfg.MaxSweeps)
	case cfg.Parallel && cfg.ParallelDegree < 1:
		return nil, fmt.Errorf("%w: parallel degree must be positive, got %d", ErrConfig, cfg.ParallelDegree)
	}
	m := adj.Mesh()
	if solver == nil {
		if solver, err = NewHopfLax(m.Dim, nil); err != nil {
			return
		}
	}
	e = &Engine{
		Mesh:   m,
		Adj:    adj,
		Solver: solver,
		cfg:    *cfg,
		active: NewActiveList(),
	}
	return
}

// Initialize sets every source to zero and every other node to
// mesh.Unreachable, then seeds the active list with the non-source
// neighbors of the sources.
func (e *Engine) Initialize() error {
	e.active.Reset()
	e.stats = Stats{}
	var nSources int
	for i := range e.Mesh.Nodes {
		node := &e.Mesh.Nodes[i]
		if node.IsSource {
			node.SetU(0)
			nSources++
		} else {
			node.SetU(mesh.Unreachable)
		}
	}
	if nSources == 0 {
		return ErrNoSources
	}
	for i := range e.Mesh.Nodes {
		if !e.Mesh.Nodes[i].IsSource {
			continue
		}
		for _, nbr := range e.Adj.Neighbors(i) {
			if !e.Mesh.Nodes[nbr].IsSource && e.active.Add(nbr) {
				e.stats.Activations++
			}
		}
	}
	e.cfg.Metrics.observeSeed(e.active.Len())
	e.ready = true
	return nil
}

// Active returns the ids in the active list in ascending order
func (e *Engine) Active() []int { return e.active.Snapshot() }

func (e *Engine) Stats() Stats { return e.stats }

// Field returns a copy of the current arrival times, indexed by node id
func (e *Engine) Field() []float64 { return e.Mesh.Field() }

// Solve initializes the engine when needed and sweeps until the active list
// is empty. The context is checked between sweeps.
func (e *Engine) Solve(ctx context.Context) (err error) {
	if !e.ready {
		if err = e.Initialize(); err != nil {
			return
		}
	}
	for e.active.Len() != 0 {
		if err = ctx.Err(); err != nil {
			return
		}
		if e.stats.Sweeps >= e.cfg.MaxSweeps {
			return fmt.Errorf("%w: %d sweeps, %d nodes still active",
				ErrMaxSweeps, e.stats.Sweeps, e.active.Len())
		}
		e.Step()
		if e.cfg.Logf != nil && e.stats.Sweeps%100 == 0 {
			e.cfg.Logf("sweep %d: %d active nodes", e.stats.Sweeps, e.active.Len())
		}
	}
	if e.cfg.Logf != nil {
		e.cfg.Logf("converged after %d sweeps, %d local solves", e.stats.Sweeps, e.stats.LocalSolves)
	}
	return
}

// Step runs one sweep, parallel or sequential as configured
func (e *Engine) Step() {
	if e.cfg.Parallel {
		e.ParallelSweep()
		return
	}
	e.Sweep()
}

// sweepBuffer collects what one worker decided during a sweep. It is merged
// into the active list only after every worker has finished.
type sweepBuffer struct {
	removals  []int
	additions []int
	solves    int
}

// relax recomputes one active node. When the node has converged it is
// scheduled for removal and every inactive, non-source neighbor whose value
// the update lowers is scheduled for addition. Node values change only
// through Node.Lower, so concurrent workers never lose a smaller value.
func (e *Engine) relax(n int, buf *sweepBuffer) {
	var (
		node = e.Mesh.Node(n)
		old  = node.U()
		newU = e.localUpdate(n, buf)
	)
	node.Lower(newU)
	if newU < old && old-newU >= e.cfg.Epsilon {
		return
	}
	buf.removals = append(buf.removals, n)
	for _, m := range e.Adj.Neighbors(n) {
		nbr := e.Mesh.Node(m)
		if nbr.IsSource || e.active.Contains(m) {
			continue
		}
		if q := e.localUpdate(m, buf); nbr.Lower(q) {
			buf.additions = append(buf.additions, m)
		}
	}
}

func (e *Engine) localUpdate(n int, buf *sweepBuffer) float64 {
	buf.solves++
	u := e.Solver.LocalUpdate(e.Mesh, n, e.Adj.Incident(n))
	if math.IsNaN(u) {
		return mesh.Unreachable
	}
	return u
}

// Sweep relaxes every node of the active list snapshot in order, then
// applies the removals and additions.
func (e *Engine) Sweep() {
	snapshot := e.active.Snapshot()
	if len(snapshot) == 0 {
		return
	}
	var buf sweepBuffer
	for _, n := range snapshot {
		e.relax(n, &buf)
	}
	e.merge([]sweepBuffer{buf})
}

// ParallelSweep splits the active list snapshot across ParallelDegree
// goroutines. The active list is only read while they run; their buffers are
// merged once all of them have returned.
func (e *Engine) ParallelSweep() {
	snapshot := e.active.Snapshot()
	if len(snapshot) == 0 {
		return
	}
	var (
		pm   = utils.NewPartitionMap(e.cfg.ParallelDegree, len(snapshot))
		NP   = pm.ParallelDegree
		bufs = make([]sweepBuffer, NP)
		wg   = sync.WaitGroup{}
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			for _, n := range snapshot[kMin:kMax] {
				e.relax(n, &bufs[np])
			}
			wg.Done()
		}(np)
	}
	wg.Wait()
	e.merge(bufs)
}

func (e *Engine) merge(bufs []sweepBuffer) {
	var solves, settled, activated int
	for _, buf := range bufs {
		solves += buf.solves
		for _, n := range buf.removals {
			if e.active.Remove(n) {
				settled++
			}
		}
	}
	for _, buf := range bufs {
		for _, m := range buf.additions {
			if e.active.Add(m) {
				activated++
			}
		}
	}
	e.stats.Sweeps++
	e.stats.LocalSolves += solves
	e.stats.Settled += settled
	e.stats.Activations += activated
	e.cfg.Metrics.observeSweep(solves, settled, activated, e.active.Len())
}
