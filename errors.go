package astar

import "errors"

// ErrUnreachable is returned when the open set is exhausted before a state
// satisfying the goal is popped.
var ErrUnreachable = errors.New("astar: goal unreachable")
