package internal

// Chain follows parent indices from current back to the root and returns
// the visited indices in root-first order. parentOf returns false for the
// root. Parents always carry a smaller index than their children, so the
// walk is bounded by current+1 steps.
func Chain(current int, parentOf func(index int) (int, bool)) []int {
	path := []int{current}
	for {
		previous, exists := parentOf(current)
		if !exists {
			break
		}
		path = append(path, previous)
		current = previous
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
