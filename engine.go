package astar

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// node is an immutable search tree vertex stored in the engine arena.
// A cheaper arrival at the same cell becomes a new node.
type node[StateType any, ControlType any, CostType Number] struct {
	id      uint64
	g       CostType
	f       CostType
	state   StateType
	control ControlType
	// parent is the arena index of the parent node, -1 for the start node.
	parent int
}

// Stats counts the work done since the last Reset.
type Stats struct {
	Expansions int
	Rejected   int
	Dominated  int
	Enqueued   int
	Superseded int
	// Identities is the number of node identities issued, the start node included.
	Identities uint64
}

// Engine is a reusable A* search engine over sampled controls.
//
// StateType is the planning state, ControlType the action applied to it,
// KeyType the discretization key returned by StateType.GridKey and CostType
// the accumulated cost.
type Engine[StateType State[KeyType], ControlType any, KeyType comparable, CostType Number] struct {
	options Options

	// nodes is append-only; indices are stable until Reset.
	nodes       []node[StateType, ControlType, CostType]
	openSet     PriorityQueue[CostType]
	bestPerCell map[KeyType]int

	identityCounter uint64
	stats           Stats
	planID          string
	// pendingReport is set by an expansion and cleared once the plan
	// outcome has been recorded.
	pendingReport bool
}

// New creates an empty engine.
func New[StateType State[KeyType], ControlType any, KeyType comparable, CostType Number](
	options ...Option,
) *Engine[StateType, ControlType, KeyType, CostType] {
	engineOptions := defaultOptions()
	for _, option := range options {
		option(&engineOptions)
	}
	if engineOptions.Logger == nil {
		engineOptions.Logger = defaultOptions().Logger
	}
	if engineOptions.Tracer == nil {
		engineOptions.Tracer = defaultOptions().Tracer
	}

	return &Engine[StateType, ControlType, KeyType, CostType]{
		options:     engineOptions,
		bestPerCell: make(map[KeyType]int),
	}
}

// Reset clears the open set, the best-per-cell map and the parent links so
// the engine can be reused for an unrelated problem.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) Reset() {
	clear(engine.nodes)
	engine.nodes = engine.nodes[:0]
	engine.openSet = engine.openSet[:0]
	clear(engine.bestPerCell)
	engine.identityCounter = 0
	engine.stats = Stats{}
	engine.planID = ""
	engine.pendingReport = false
	engine.options.Metrics.observeSizes(0, 0)
}

// Optimize runs the search to completion from a reset engine.
//
// It returns the trajectory to the first popped node that satisfies
// model.Converge, or ErrUnreachable when the open set runs empty. The
// search itself has no deadline: it stops early only when ctx is done, in
// which case the context error is returned wrapped.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) Optimize(
	ctx context.Context,
	model Model[StateType, ControlType, CostType],
	start StateType,
	goal StateType,
	sampler Sampler[StateType, ControlType, CostType],
) (Trajectory[StateType, ControlType, CostType], error) {
	engine.Reset()
	engine.planID = uuid.NewString()

	ctx, span := engine.startSpan(ctx, spanOptimize)
	defer span.End()

	if model.Converge(start, goal) {
		var noop ControlType
		trajectory := Trajectory[StateType, ControlType, CostType]{
			Waypoints: []Waypoint[StateType, ControlType]{{State: start, Control: noop}},
		}
		engine.finishPlan(ctx, span, trajectory, nil)
		return trajectory, nil
	}

	engine.seed(model, start, goal)

	for engine.openSet.Len() > 0 {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("astar: search interrupted after %d expansions: %w", engine.stats.Expansions, err)
			engine.finishPlan(ctx, span, Trajectory[StateType, ControlType, CostType]{}, err)
			return Trajectory[StateType, ControlType, CostType]{}, err
		}

		currentIndex := engine.pop()
		if engine.expand(ctx, model, currentIndex, goal, sampler) {
			trajectory := engine.unwind(model, currentIndex)
			engine.finishPlan(ctx, span, trajectory, nil)
			return trajectory, nil
		}
	}

	engine.finishPlan(ctx, span, Trajectory[StateType, ControlType, CostType]{}, ErrUnreachable)
	return Trajectory[StateType, ControlType, CostType]{}, ErrUnreachable
}

// seed pushes the start node. The start cell is recorded in the
// best-per-cell map so that no later arrival at it is enqueued.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) seed(
	model Model[StateType, ControlType, CostType],
	start StateType,
	goal StateType,
) {
	var zeroCost CostType
	var noop ControlType
	engine.push(node[StateType, ControlType, CostType]{
		id:      engine.nextIdentity(),
		g:       zeroCost,
		f:       zeroCost + model.Heuristic(start, goal),
		state:   start,
		control: noop,
		parent:  -1,
	})
	engine.bestPerCell[start.GridKey()] = 0
	engine.options.Metrics.observeSizes(engine.openSet.Len(), len(engine.bestPerCell))
}

func (engine *Engine[StateType, ControlType, KeyType, CostType]) nextIdentity() uint64 {
	id := engine.identityCounter
	engine.identityCounter++
	engine.stats.Identities = engine.identityCounter
	return id
}

// push appends n to the arena and the open set and returns its index.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) push(n node[StateType, ControlType, CostType]) int {
	index := len(engine.nodes)
	engine.nodes = append(engine.nodes, n)
	heap.Push(&engine.openSet, PriorityQueueItem[CostType]{NodeIndex: index, FCost: n.f})
	return index
}

func (engine *Engine[StateType, ControlType, KeyType, CostType]) pop() int {
	return heap.Pop(&engine.openSet).(PriorityQueueItem[CostType]).NodeIndex
}

// expand performs one expansion of the node at currentIndex and reports
// whether that node satisfies the goal.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) expand(
	ctx context.Context,
	model Model[StateType, ControlType, CostType],
	currentIndex int,
	goal StateType,
	sampler Sampler[StateType, ControlType, CostType],
) bool {
	current := engine.nodes[currentIndex]
	engine.stats.Expansions++
	engine.pendingReport = true
	engine.options.Metrics.observeExpansion()

	if model.Converge(current.state, goal) {
		return true
	}

	controls := sampler.Sample(model, current.state)
	for _, control := range controls {
		candidate, ok := engine.propose(model, currentIndex, control, goal)
		if !ok {
			engine.record(outcomeRejected)
			continue
		}
		engine.record(engine.relax(currentIndex, candidate))
	}

	engine.options.Metrics.observeSizes(engine.openSet.Len(), len(engine.bestPerCell))
	engine.options.Logger.DebugContext(ctx, "expanded node",
		"plan_id", engine.planID,
		"node_id", current.id,
		"g", current.g,
		"f", current.f,
		"candidates", len(controls),
		"open_set_size", engine.openSet.Len(),
	)
	return false
}
