package astar

// candidateOutcome is what happened to one sampled control during expansion.
type candidateOutcome int

const (
	outcomeRejected candidateOutcome = iota
	outcomeDominated
	outcomeEnqueued
	outcomeSuperseded
)

func (outcome candidateOutcome) String() string {
	switch outcome {
	case outcomeRejected:
		return "rejected"
	case outcomeDominated:
		return "dominated"
	case outcomeEnqueued:
		return "enqueued"
	case outcomeSuperseded:
		return "superseded"
	}
	return "unknown"
}

// propose attempts the transition for control from the node at parentIndex.
// A rejected control yields false and consumes no identity.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) propose(
	model Model[StateType, ControlType, CostType],
	parentIndex int,
	control ControlType,
	goal StateType,
) (node[StateType, ControlType, CostType], bool) {
	parent := engine.nodes[parentIndex]

	if validator, ok := model.(Validator[StateType, ControlType]); ok && !validator.Applicable(parent.state, control) {
		return node[StateType, ControlType, CostType]{}, false
	}
	childState, ok := model.Transition(parent.state, control)
	if !ok {
		return node[StateType, ControlType, CostType]{}, false
	}

	tentativeG := parent.g + model.Cost(parent.state, childState)
	return node[StateType, ControlType, CostType]{
		id:      engine.nextIdentity(),
		g:       tentativeG,
		f:       tentativeG + model.Heuristic(childState, goal),
		state:   childState,
		control: control,
		parent:  parentIndex,
	}, true
}

// relax applies the dominance check for child against the best node known
// for its cell. Superseded nodes are left in the open set; popping them
// again later costs an extra expansion but their parent links stay valid.
func (engine *Engine[StateType, ControlType, KeyType, CostType]) relax(
	parentIndex int,
	child node[StateType, ControlType, CostType],
) candidateOutcome {
	key := child.state.GridKey()

	bestIndex, exists := engine.bestPerCell[key]
	if exists && engine.nodes[bestIndex].g <= child.g {
		return outcomeDominated
	}

	child.parent = parentIndex
	engine.bestPerCell[key] = engine.push(child)
	if exists {
		return outcomeSuperseded
	}
	return outcomeEnqueued
}

func (engine *Engine[StateType, ControlType, KeyType, CostType]) record(outcome candidateOutcome) {
	switch outcome {
	case outcomeRejected:
		engine.stats.Rejected++
	case outcomeDominated:
		engine.stats.Dominated++
	case outcomeEnqueued:
		engine.stats.Enqueued++
	case outcomeSuperseded:
		engine.stats.Superseded++
	}
	engine.options.Metrics.observeCandidate(outcome)
}
