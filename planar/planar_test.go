package planar

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	astar "github.com/pdrpinto/motionastar"
)

func TestState_GridKey(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Key
	}{
		{name: "origin", state: State{X: 0, Y: 0, Resolution: 0.5}, want: Key{0, 0}},
		{name: "inside first cell", state: State{X: 0.49, Y: 0.2, Resolution: 0.5}, want: Key{0, 0}},
		{name: "next cell", state: State{X: 0.5, Y: 1.2, Resolution: 0.5}, want: Key{1, 2}},
		{name: "negative", state: State{X: -0.1, Y: -1.1, Resolution: 0.5}, want: Key{-1, -3}},
		{name: "default resolution", state: State{X: 2.7, Y: -0.3}, want: Key{2, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.GridKey())
		})
	}
}

func TestModel_Applicable(t *testing.T) {
	model := &Model{
		Resolution: 0.5,
		Obstacles:  []Circle{{X: 2, Y: 0, Radius: 0.5}},
		Bounds:     Bounds{MinX: -1, MinY: -1, MaxX: 5, MaxY: 5},
	}

	assert.True(t, model.Applicable(model.At(0, 0), Control{Heading: math.Pi / 2, Distance: 1}))
	assert.False(t, model.Applicable(model.At(1, 0), Control{Heading: 0, Distance: 2}), "passes through the obstacle")
	assert.False(t, model.Applicable(model.At(0, 0), Control{Heading: math.Pi, Distance: 2}), "leaves the bounds")
	assert.False(t, model.Applicable(model.At(0, 0), Control{}), "no-op")

	_, ok := model.Transition(model.At(0, 0), Control{})
	assert.False(t, ok)
	next, ok := model.Transition(model.At(0, 0), Control{Heading: 0, Distance: 1})
	require.True(t, ok)
	assert.InDelta(t, 1, next.X, 1e-9)
	assert.Equal(t, 0.5, next.Resolution)
}

func TestModel_HeuristicNeverExceedsCost(t *testing.T) {
	model := &Model{Resolution: 0.5, Tolerance: 0.5}
	goal := model.At(3, 4)

	assert.InDelta(t, 4.5, model.Heuristic(model.At(0, 0), goal), 1e-9)
	assert.Zero(t, model.Heuristic(model.At(3.2, 4.2), goal))
	assert.True(t, model.Converge(model.At(3.2, 4.2), goal))
	assert.False(t, model.Converge(model.At(0, 0), goal))
}

func TestOptimize_OpenPlane(t *testing.T) {
	model := &Model{Resolution: 0.5, Tolerance: 0.5}
	engine := NewEngine()
	sampler := NewFanSampler(8, 1, 0, 1)

	start, goal := model.At(0, 0), model.At(5, 0)
	trajectory, err := engine.Optimize(context.Background(), model, start, goal, sampler)
	require.NoError(t, err)

	last, ok := trajectory.Last()
	require.True(t, ok)
	assert.True(t, model.Converge(last, goal))
	assert.Equal(t, start, trajectory.Waypoints[0].State)
	assert.InDelta(t, 5, trajectory.Cost, 1e-6)
	assert.Len(t, trajectory.Waypoints, 6)
}

func TestOptimize_AroundObstacle(t *testing.T) {
	obstacle := Circle{X: 2.5, Y: 0, Radius: 1}
	model := &Model{
		Resolution: 0.25,
		Tolerance:  0.5,
		Obstacles:  []Circle{obstacle},
		Bounds:     Bounds{MinX: -3, MinY: -4, MaxX: 8, MaxY: 4},
	}
	engine := NewEngine()
	sampler := NewFanSampler(16, 0.5, 0, 1)

	start, goal := model.At(0, 0), model.At(5, 0)
	trajectory, err := engine.Optimize(context.Background(), model, start, goal, sampler)
	require.NoError(t, err)

	last, _ := trajectory.Last()
	assert.True(t, model.Converge(last, goal))
	assert.Greater(t, trajectory.Cost, 4.5)
	for _, state := range trajectory.States() {
		assert.False(t, obstacle.contains(state.X, state.Y), "waypoint (%.2f, %.2f) collides", state.X, state.Y)
	}
	for i, waypoint := range trajectory.Waypoints[1:] {
		previous := trajectory.Waypoints[i].State
		assert.True(t, model.Applicable(previous, waypoint.Control))
	}
}

func TestOptimize_EnclosedStartIsUnreachable(t *testing.T) {
	model := &Model{
		Resolution: 0.5,
		Tolerance:  0.25,
		Bounds:     Bounds{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2},
	}
	engine := NewEngine()

	_, err := engine.Optimize(context.Background(), model, model.At(1, 1), model.At(10, 10), NewFanSampler(6, 0.5, 0, 1))
	require.ErrorIs(t, err, astar.ErrUnreachable)
	assert.Positive(t, engine.Stats().Expansions)
}

func TestFanSampler(t *testing.T) {
	model := &Model{Resolution: 0.25}

	plain := NewFanSampler(4, 1, 0, 1).Sample(model, model.At(0, 0))
	require.Len(t, plain, 4)
	for i, control := range plain {
		assert.InDelta(t, float64(i)*math.Pi/2, control.Heading, 1e-9)
		assert.Equal(t, 1.0, control.Distance, "step is independent of the model resolution")
	}

	capped := NewFanSampler(4, 1, 0, 1)
	capped.MaxStep = 0.5
	for _, control := range capped.Sample(model, model.At(0, 0)) {
		assert.Equal(t, 0.5, control.Distance)
	}

	first := NewFanSampler(8, 0.25, 0.5, 42).Sample(model, model.At(0, 0))
	second := NewFanSampler(8, 0.25, 0.5, 42).Sample(model, model.At(0, 0))
	assert.Equal(t, first, second)
	spacing := 2 * math.Pi / 8
	for i, control := range first {
		assert.InDelta(t, float64(i)*spacing, control.Heading, 0.5*spacing+1e-9)
	}
}
