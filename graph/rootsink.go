// ABOUTME: Cycle-tolerant derivation of root (no callers) and sink (no callees) sets
// ABOUTME: Generation-counter DFS, memoized results, synthetic <root>/<sink> nodes

package graph

// Roots returns the nodes unreachable from any other node. A component
// that is entirely cyclic has no zero-in-degree member, so one node from
// each such cycle is designated a root to break it. The set is computed
// once; afterwards a synthetic "<root>" node exists with an edge to every
// member, and the set is frozen.
func (g *Graph) Roots() []NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.roots == nil {
		g.roots = g.derive(g.callersOf)
		g.rootNode = g.addNode("<root>")
		for _, id := range g.roots {
			g.addEdge(g.rootNode, id, PropSet{})
		}
	}
	return append([]NodeID(nil), g.roots...)
}

// Sinks returns the nodes with no callees, the dual of Roots. One node per
// fully cyclic component is designated a sink. After the first computation
// a synthetic "<sink>" node exists with an edge from every member.
func (g *Graph) Sinks() []NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sinks == nil {
		g.sinks = g.derive(g.calleesOf)
		g.sinkNode = g.addNode("<sink>")
		for _, id := range g.sinks {
			g.addEdge(id, g.sinkNode, PropSet{})
		}
	}
	return append([]NodeID(nil), g.sinks...)
}

// SyntheticRoot returns the "<root>" node if Roots has been computed.
func (g *Graph) SyntheticRoot() (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rootNode, g.rootNode != 0
}

// SyntheticSink returns the "<sink>" node if Sinks has been computed.
func (g *Graph) SyntheticSink() (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sinkNode, g.sinkNode != 0
}

func (g *Graph) callersOf(id NodeID) []NodeID {
	return g.neighbors(g.in[id], func(e Edge) NodeID { return e.Src })
}

func (g *Graph) calleesOf(id NodeID) []NodeID {
	return g.neighbors(g.out[id], func(e Edge) NodeID { return e.Dst })
}

// derive walks each unvisited node toward the leaves of the given
// direction. A generation counter distinguishes "fully explored in a
// previous walk" (prune: already known reachable from an established
// root/sink) from "on the active path" (a cycle: designate the node and
// stop the generation so a cycle yields exactly one representative). A
// node with no further edges is itself a root/sink. The sentinel node 0
// and synthetic nodes are not candidates. Caller holds the lock.
func (g *Graph) derive(next func(NodeID) []NodeID) []NodeID {
	type frame struct {
		id   NodeID
		nbrs []NodeID
		next int
	}

	visited := make(map[NodeID]int)
	onPath := make(map[NodeID]bool)
	member := make(map[NodeID]bool)
	var found []NodeID
	gen := 0

	designate := func(id NodeID) {
		if !member[id] {
			member[id] = true
			found = append(found, id)
		}
	}

	for start := 1; start < len(g.nodes); start++ {
		id := NodeID(start)
		if g.synthetic(id) {
			continue
		}
		if _, ok := visited[id]; ok {
			continue
		}
		gen++
		visited[id] = gen
		onPath[id] = true
		stack := []frame{{id: id, nbrs: next(id)}}

	walk:
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if len(f.nbrs) == 0 {
				designate(f.id) // no further edges: a root/sink
			}
			if f.next >= len(f.nbrs) {
				onPath[f.id] = false
				stack = stack[:len(stack)-1]
				continue
			}
			nb := f.nbrs[f.next]
			f.next++
			if vg, ok := visited[nb]; ok {
				if onPath[nb] {
					// Cycle: break it with an arbitrary representative
					// and end this generation's walk.
					designate(nb)
					break walk
				}
				_ = vg // explored earlier: already reachable from a root/sink
				continue
			}
			visited[nb] = gen
			onPath[nb] = true
			stack = append(stack, frame{id: nb, nbrs: next(nb)})
		}
		for len(stack) > 0 {
			onPath[stack[len(stack)-1].id] = false
			stack = stack[:len(stack)-1]
		}
	}
	return found
}
