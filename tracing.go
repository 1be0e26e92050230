package astar

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/pdrpinto/motionastar"

	spanOptimize       = "astar.optimize"
	spanNextTrajectory = "astar.next_trajectory"
)

const (
	resultConverged   = "converged"
	resultProgress    = "progress"
	resultUnreachable = "unreachable"
	resultCancelled   = "cancelled"
)

func (engine *Engine[StateType, ControlType, KeyType, CostType]) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return engine.options.Tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("astar.plan_id", engine.planID)),
	)
}

// finishPlan records the outcome of a planning call on the span, the
// metrics and the logger.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) finishPlan(
	ctx context.Context,
	span trace.Span,
	trajectory Trajectory[StateType, ControlType, CostType],
	err error,
) {
	result := resultConverged
	switch {
	case errors.Is(err, ErrUnreachable):
		result = resultUnreachable
	case err != nil:
		result = resultCancelled
	}

	engine.pendingReport = false
	engine.annotate(span, result)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetAttributes(
			attribute.Float64("astar.cost", float64(trajectory.Cost)),
			attribute.Int("astar.waypoints", trajectory.Len()),
		)
	}

	engine.options.Metrics.observePlan(result, trajectory.Len())
	engine.options.Logger.InfoContext(ctx, "plan finished",
		"plan_id", engine.planID,
		"result", result,
		"expansions", engine.stats.Expansions,
		"cost", trajectory.Cost,
		"waypoints", trajectory.Len(),
	)
}

// annotate sets the search progress attributes on span.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) annotate(span trace.Span, result string) {
	span.SetAttributes(
		attribute.String("astar.result", result),
		attribute.Int("astar.expansions", engine.stats.Expansions),
		attribute.Int("astar.open_set_size", engine.openSet.Len()),
		attribute.Bool("astar.converged", result == resultConverged),
	)
}
