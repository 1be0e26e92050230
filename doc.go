// Package astar provides a generic best-first (A*) search engine for
// planning over pluggable, possibly continuous state spaces.
//
// The caller supplies a Model (transition, edge cost, heuristic, goal test)
// and a Sampler that generates candidate controls for each expanded state.
// Duplicate states are pruned per discretization cell: only an arrival that
// is strictly cheaper than the best known one for its cell is enqueued.
//
// It exposes two main entry points on an Engine:
//
//   - Optimize: run the search to completion and get a Trajectory.
//   - NextTrajectory: expand one node per call to drive UIs or debugging tools.
//
// An Engine is not safe for concurrent use. Reset it between unrelated
// problems when using NextTrajectory.
package astar
