package astar

// PriorityQueueItem references a node in the engine arena by index.
type PriorityQueueItem[CostType Number] struct {
	NodeIndex int
	FCost     CostType
}

// PriorityQueue is a min-heap on FCost for use with container/heap.
// Equal FCost entries come out in no particular order.
type PriorityQueue[CostType Number] []PriorityQueueItem[CostType]

func (queue PriorityQueue[CostType]) Len() int           { return len(queue) }
func (queue PriorityQueue[CostType]) Less(i, j int) bool { return queue[i].FCost < queue[j].FCost }
func (queue PriorityQueue[CostType]) Swap(i, j int)      { queue[i], queue[j] = queue[j], queue[i] }

func (queue *PriorityQueue[CostType]) Push(x any) {
	*queue = append(*queue, x.(PriorityQueueItem[CostType]))
}

func (queue *PriorityQueue[CostType]) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	*queue = oldQueue[:n-1]
	return item
}
