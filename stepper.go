package astar

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
)

// NextTrajectory expands exactly one node and returns the trajectory to it.
//
// The first call on an empty engine seeds the open set with start. Later
// calls continue the same search; call Reset before switching problems.
// Step.Converged tells whether the popped node satisfies the goal.
// ErrUnreachable is returned when the open set is empty on entry; the
// outcome is reported to metrics and logs once per search, not once per
// call. A done ctx is returned wrapped before any expansion.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) NextTrajectory(
	ctx context.Context,
	model Model[StateType, ControlType, CostType],
	start StateType,
	goal StateType,
	sampler Sampler[StateType, ControlType, CostType],
) (Step[StateType, ControlType, CostType], error) {
	if len(engine.nodes) == 0 {
		engine.planID = uuid.NewString()
		engine.seed(model, start, goal)
	}

	ctx, span := engine.startSpan(ctx, spanNextTrajectory)
	defer span.End()

	if err := ctx.Err(); err != nil {
		err = fmt.Errorf("astar: search interrupted after %d expansions: %w", engine.stats.Expansions, err)
		engine.finishPlan(ctx, span, Trajectory[StateType, ControlType, CostType]{}, err)
		return Step[StateType, ControlType, CostType]{}, err
	}

	if engine.openSet.Len() == 0 {
		if engine.pendingReport {
			engine.finishPlan(ctx, span, Trajectory[StateType, ControlType, CostType]{}, ErrUnreachable)
		} else {
			engine.annotate(span, resultUnreachable)
			span.SetStatus(codes.Error, ErrUnreachable.Error())
		}
		return Step[StateType, ControlType, CostType]{}, ErrUnreachable
	}

	currentIndex := engine.pop()
	converged := engine.expand(ctx, model, currentIndex, goal, sampler)
	trajectory := engine.unwind(model, currentIndex)
	if converged {
		engine.finishPlan(ctx, span, trajectory, nil)
	} else {
		engine.annotate(span, resultProgress)
	}

	return Step[StateType, ControlType, CostType]{Trajectory: trajectory, Converged: converged}, nil
}

// Open iterates over the (state, control) pairs currently in the open set.
// Entries superseded by a cheaper arrival at their cell are included.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) Open() iter.Seq2[StateType, ControlType] {
	return func(yield func(StateType, ControlType) bool) {
		for _, item := range engine.openSet {
			current := engine.nodes[item.NodeIndex]
			if !yield(current.state, current.control) {
				return
			}
		}
	}
}

// Discovered iterates over every discretization key reached so far.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) Discovered() iter.Seq[KeyType] {
	return maps.Keys(engine.bestPerCell)
}

// Len returns the number of entries in the open set.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) Len() int {
	return engine.openSet.Len()
}

// Stats returns the counters accumulated since the last Reset.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) Stats() Stats {
	return engine.stats
}

// StepSnapshot exposes the per-iteration state of a Stepper.
type StepSnapshot[StateType any, ControlType any, KeyType comparable, CostType Number] struct {
	Current    StateType
	Trajectory Trajectory[StateType, ControlType, CostType]
	Open       []StateType
	Discovered []KeyType
	Done       bool
	Found      bool
	StepIndex  int
}

// Stepper binds one planning problem to an Engine and drives it one
// expansion at a time.
type Stepper[StateType State[KeyType], ControlType any, KeyType comparable, CostType Number] struct {
	engine  *Engine[StateType, ControlType, KeyType, CostType]
	model   Model[StateType, ControlType, CostType]
	sampler Sampler[StateType, ControlType, CostType]
	start   StateType
	goal    StateType

	stepCount int
	done      bool
	found     bool
	last      StepSnapshot[StateType, ControlType, KeyType, CostType]
}

// NewStepper resets engine and prepares it to plan from start to goal.
func NewStepper[StateType State[KeyType], ControlType any, KeyType comparable, CostType Number](
	engine *Engine[StateType, ControlType, KeyType, CostType],
	model Model[StateType, ControlType, CostType],
	start StateType,
	goal StateType,
	sampler Sampler[StateType, ControlType, CostType],
) *Stepper[StateType, ControlType, KeyType, CostType] {
	engine.Reset()
	return &Stepper[StateType, ControlType, KeyType, CostType]{
		engine:  engine,
		model:   model,
		sampler: sampler,
		start:   start,
		goal:    goal,
	}
}

// Step advances the search by one node expansion and returns a snapshot.
// An exhausted open set ends the run with Done set and Found unset. Once
// done, every further call returns the final snapshot again without
// touching the engine.
func (s *Stepper[StateType, ControlType, KeyType, CostType]) Step(ctx context.Context) (StepSnapshot[StateType, ControlType, KeyType, CostType], error) {
	if s.done {
		return s.last, nil
	}

	step, err := s.engine.NextTrajectory(ctx, s.model, s.start, s.goal, s.sampler)
	if errors.Is(err, ErrUnreachable) {
		s.done = true
		s.last = s.snapshot(StepSnapshot[StateType, ControlType, KeyType, CostType]{})
		return s.last, nil
	}
	if err != nil {
		return StepSnapshot[StateType, ControlType, KeyType, CostType]{}, err
	}

	s.stepCount++
	snapshot := StepSnapshot[StateType, ControlType, KeyType, CostType]{Trajectory: step.Trajectory}
	snapshot.Current, _ = step.Trajectory.Last()
	if step.Converged {
		s.done = true
		s.found = true
	}
	s.last = s.snapshot(snapshot)
	return s.last, nil
}

func (s *Stepper[StateType, ControlType, KeyType, CostType]) snapshot(
	snapshot StepSnapshot[StateType, ControlType, KeyType, CostType],
) StepSnapshot[StateType, ControlType, KeyType, CostType] {
	snapshot.Open = make([]StateType, 0, s.engine.Len())
	for state := range s.engine.Open() {
		snapshot.Open = append(snapshot.Open, state)
	}
	snapshot.Discovered = make([]KeyType, 0, len(s.engine.bestPerCell))
	for key := range s.engine.Discovered() {
		snapshot.Discovered = append(snapshot.Discovered, key)
	}
	snapshot.Done = s.done
	snapshot.Found = s.found
	snapshot.StepIndex = s.stepCount
	return snapshot
}
