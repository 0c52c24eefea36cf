package dag

// Graph is a collection of nodes and their dependencies. It is built and
// checked by one goroutine during a compile and holds no locks.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order records insertion order so traversals are deterministic.
	order []string
}

// node is a single vertex. It is un-exported to enforce interaction with
// the graph via the public API (using string IDs).
type node struct {
	id string
	// deps holds the set of nodes that this node depends on (predecessors).
	deps map[string]*node
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[string]*node
}

// CycleError reports a cycle found by DetectCycles.
type CycleError struct {
	// Node is the first node found on the cycle.
	Node string
}

func (e *CycleError) Error() string {
	return "cycle detected involving node '" + e.Node + "'"
}
