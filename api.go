package astar

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Number is the set of cost types the engine can accumulate and order.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// State is a point in the planning space.
// GridKey returns the discretization key used to detect duplicate states.
// Two states with the same key are treated as the same cell for pruning,
// even when they are not equal.
type State[KeyType comparable] interface {
	GridKey() KeyType
}

// Model supplies the transition, cost, heuristic and goal test over a state space.
type Model[StateType any, ControlType any, CostType Number] interface {
	// Transition applies control to from. The boolean is false when the
	// control is not applicable from that state.
	Transition(from StateType, control ControlType) (StateType, bool)
	// Cost returns the cost of the edge from -> to. It must be deterministic,
	// it is evaluated again when a trajectory is reconstructed.
	Cost(from StateType, to StateType) CostType
	// Heuristic estimates the remaining cost from state to goal.
	Heuristic(state StateType, goal StateType) CostType
	// Converge reports whether state satisfies the goal.
	Converge(state StateType, goal StateType) bool
}

// Validator is implemented by models that expose a separate applicability
// check. When present it is consulted before Transition.
type Validator[StateType any, ControlType any] interface {
	Applicable(from StateType, control ControlType) bool
}

// Sampler produces candidate controls for a state.
type Sampler[StateType any, ControlType any, CostType Number] interface {
	Sample(model Model[StateType, ControlType, CostType], state StateType) []ControlType
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc[StateType any, ControlType any, CostType Number] func(model Model[StateType, ControlType, CostType], state StateType) []ControlType

// Sample calls f(model, state).
func (f SamplerFunc[StateType, ControlType, CostType]) Sample(model Model[StateType, ControlType, CostType], state StateType) []ControlType {
	return f(model, state)
}

// Waypoint is one (state, control) pair of a trajectory. Control is the
// action that produced State from the previous waypoint; it is the zero
// value for the first waypoint.
type Waypoint[StateType any, ControlType any] struct {
	State   StateType
	Control ControlType
}

// Trajectory is an ordered path from the start state to a search node.
type Trajectory[StateType any, ControlType any, CostType Number] struct {
	Cost      CostType
	Waypoints []Waypoint[StateType, ControlType]
}

// Len returns the number of waypoints.
func (trajectory Trajectory[StateType, ControlType, CostType]) Len() int {
	return len(trajectory.Waypoints)
}

// Last returns the final state of the trajectory.
func (trajectory Trajectory[StateType, ControlType, CostType]) Last() (StateType, bool) {
	if len(trajectory.Waypoints) == 0 {
		var zero StateType
		return zero, false
	}
	return trajectory.Waypoints[len(trajectory.Waypoints)-1].State, true
}

// States returns the states of the trajectory in order.
func (trajectory Trajectory[StateType, ControlType, CostType]) States() []StateType {
	states := make([]StateType, 0, len(trajectory.Waypoints))
	for _, waypoint := range trajectory.Waypoints {
		states = append(states, waypoint.State)
	}
	return states
}

// Step is the outcome of one incremental expansion.
type Step[StateType any, ControlType any, CostType Number] struct {
	// Trajectory leads to the node popped in this step.
	Trajectory Trajectory[StateType, ControlType, CostType]
	// Converged is true when the popped node satisfies the goal.
	Converged bool
}

// Options defines the observability hooks of an Engine.
type Options struct {
	Logger  *slog.Logger
	Metrics *Metrics
	Tracer  trace.Tracer
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the structured logger. Expansions are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithMetrics attaches Prometheus collectors created with NewMetrics.
func WithMetrics(metrics *Metrics) Option {
	return func(options *Options) { options.Metrics = metrics }
}

// WithTracer sets the OpenTelemetry tracer used for plan spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(options *Options) { options.Tracer = tracer }
}

func defaultOptions() Options {
	return Options{
		Logger: slog.New(slog.DiscardHandler),
		Tracer: noop.NewTracerProvider().Tracer(tracerName),
	}
}
