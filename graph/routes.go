// ABOUTME: Constrained breadth-first route finding over the call graph
// ABOUTME: Shortest edge path from any origin to any goal under avoidance rules

package graph

// FindPath returns the shortest path, by edge count, from any origin to any
// goal. Nodes in avoidNodes are never entered, and an edge is skipped when
// its All mask intersects avoidProps: a property that merely might hold
// (present only in Any) does not make the edge unsafe to traverse.
//
// Each origin runs its own breadth-first search; the shortest result wins
// and ties go to the earlier origin. An origin that is itself a goal yields
// an empty edge sequence. The second return is false when no goal is
// reachable from any non-excluded origin.
func (g *Graph) FindPath(origins, goals, avoidNodes []NodeID, avoidProps uint32) ([]EdgeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	goalSet := make(map[NodeID]bool, len(goals))
	for _, id := range goals {
		goalSet[id] = true
	}
	avoid := make(map[NodeID]bool, len(avoidNodes))
	for _, id := range avoidNodes {
		avoid[id] = true
	}

	var best []EdgeID
	found := false
	for _, origin := range origins {
		if avoid[origin] {
			continue
		}
		path, ok := g.bfs(origin, goalSet, avoid, avoidProps)
		if !ok {
			continue
		}
		if !found || len(path) < len(best) {
			best = path
			found = true
		}
		if len(best) == 0 {
			break // cannot do better than an empty path
		}
	}
	return best, found
}

// bfs searches forward from one origin, recording the first edge to reach
// each node so the path can be reconstructed backwards. Caller holds the
// lock.
func (g *Graph) bfs(origin NodeID, goals, avoid map[NodeID]bool, avoidProps uint32) ([]EdgeID, bool) {
	if goals[origin] {
		return []EdgeID{}, true
	}

	firstEdge := make(map[NodeID]EdgeID)
	visited := map[NodeID]bool{origin: true}
	queue := []NodeID{origin}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.out[cur] {
			edge := g.edges[e]
			dst := edge.Dst
			if visited[dst] || avoid[dst] {
				continue
			}
			if edge.Props.All&avoidProps != 0 {
				continue // the avoided property is guaranteed on this edge
			}
			visited[dst] = true
			firstEdge[dst] = e
			if goals[dst] {
				return g.reconstruct(origin, dst, firstEdge), true
			}
			queue = append(queue, dst)
		}
	}
	return nil, false
}

// reconstruct follows the recorded predecessor edges from goal back to
// origin and reverses the result.
func (g *Graph) reconstruct(origin, goal NodeID, firstEdge map[NodeID]EdgeID) []EdgeID {
	var path []EdgeID
	for cur := goal; cur != origin; {
		e := firstEdge[cur]
		path = append(path, e)
		cur = g.edges[e].Src
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
