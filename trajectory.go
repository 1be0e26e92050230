package astar

import "github.com/pdrpinto/motionastar/internal"

// unwind rebuilds the trajectory from the start node to the node at index.
// The cost is summed again from model.Cost along the path rather than read
// from the node's accumulated cost.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) unwind(
	model Model[StateType, ControlType, CostType],
	index int,
) Trajectory[StateType, ControlType, CostType] {
	chain := internal.Chain(index, engine.parentOf)

	var totalCost CostType
	waypoints := make([]Waypoint[StateType, ControlType], 0, len(chain))
	for position, nodeIndex := range chain {
		current := engine.nodes[nodeIndex]
		if position > 0 {
			previous := engine.nodes[chain[position-1]]
			totalCost += model.Cost(previous.state, current.state)
		}
		waypoints = append(waypoints, Waypoint[StateType, ControlType]{State: current.state, Control: current.control})
	}

	return Trajectory[StateType, ControlType, CostType]{Cost: totalCost, Waypoints: waypoints}
}

func (engine *Engine[StateType, ControlType, KeyType, CostType]) parentOf(index int) (int, bool) {
	parent := engine.nodes[index].parent
	return parent, parent >= 0
}
