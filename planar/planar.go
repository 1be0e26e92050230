// Package planar is a continuous 2D point-robot model for the astar engine.
//
// States are real-valued positions. Duplicates are detected on a square
// lattice of side Resolution, so two positions in the same lattice cell
// are treated as one for pruning. Controls are a heading and a travel
// distance generated by a FanSampler.
package planar

import (
	"math"

	astar "github.com/pdrpinto/motionastar"
)

// Key identifies a lattice cell.
type Key struct {
	I, J int
}

// State is a position together with the lattice resolution used to key it.
type State struct {
	X, Y       float64
	Resolution float64
}

// GridKey returns the lattice cell containing the position.
func (state State) GridKey() Key {
	resolution := state.Resolution
	if resolution <= 0 {
		resolution = 1
	}
	return Key{
		I: int(math.Floor(state.X / resolution)),
		J: int(math.Floor(state.Y / resolution)),
	}
}

// Control moves Distance along Heading (radians). The zero Control does nothing.
type Control struct {
	Heading  float64
	Distance float64
}

// Circle is a circular obstacle.
type Circle struct {
	X, Y, Radius float64
}

func (circle Circle) contains(x, y float64) bool {
	return math.Hypot(x-circle.X, y-circle.Y) <= circle.Radius
}

// Bounds is an axis-aligned workspace. The zero Bounds is unbounded.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (bounds Bounds) contains(x, y float64) bool {
	if bounds == (Bounds{}) {
		return true
	}
	return x >= bounds.MinX && x <= bounds.MaxX && y >= bounds.MinY && y <= bounds.MaxY
}

// Model plans straight segments between positions, avoiding obstacles.
type Model struct {
	// Resolution is the lattice side used for duplicate pruning.
	Resolution float64
	// Tolerance is the goal radius.
	Tolerance float64
	Obstacles []Circle
	Bounds    Bounds
}

// At returns a state at (x, y) keyed with the model resolution.
func (model *Model) At(x, y float64) State {
	return State{X: x, Y: y, Resolution: model.Resolution}
}

// collisionStep is the spacing of collision samples along a segment.
const collisionStep = 0.05

// Applicable reports whether the segment driven by control stays clear of
// obstacles and inside the bounds.
func (model *Model) Applicable(from State, control Control) bool {
	if control.Distance <= 0 {
		return false
	}
	samples := int(math.Ceil(control.Distance/collisionStep)) + 1
	dx, dy := math.Cos(control.Heading), math.Sin(control.Heading)
	for i := 1; i <= samples; i++ {
		travelled := control.Distance * float64(i) / float64(samples)
		x, y := from.X+dx*travelled, from.Y+dy*travelled
		if !model.Bounds.contains(x, y) {
			return false
		}
		for _, obstacle := range model.Obstacles {
			if obstacle.contains(x, y) {
				return false
			}
		}
	}
	return true
}

// Transition drives control from the state. It only rejects the no-op;
// obstacle checks happen in Applicable.
func (model *Model) Transition(from State, control Control) (State, bool) {
	if control.Distance <= 0 {
		return State{}, false
	}
	return model.At(
		from.X+control.Distance*math.Cos(control.Heading),
		from.Y+control.Distance*math.Sin(control.Heading),
	), true
}

// Cost is the Euclidean distance.
func (model *Model) Cost(from State, to State) float64 {
	return math.Hypot(to.X-from.X, to.Y-from.Y)
}

// Heuristic is the Euclidean distance to the edge of the goal disc.
func (model *Model) Heuristic(state State, goal State) float64 {
	return math.Max(0, math.Hypot(goal.X-state.X, goal.Y-state.Y)-model.Tolerance)
}

// Converge reports whether state is within Tolerance of goal.
func (model *Model) Converge(state State, goal State) bool {
	return math.Hypot(goal.X-state.X, goal.Y-state.Y) <= model.Tolerance
}

// Engine is the astar engine instantiated for planar planning.
type Engine = astar.Engine[State, Control, Key, float64]

// NewEngine creates an engine for planar planning.
func NewEngine(options ...astar.Option) *Engine {
	return astar.New[State, Control, Key, float64](options...)
}

var (
	_ astar.Model[State, Control, float64] = (*Model)(nil)
	_ astar.Validator[State, Control]      = (*Model)(nil)
)
