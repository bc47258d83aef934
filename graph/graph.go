// ABOUTME: In-memory call graph store with mirrored forward and reverse adjacency
// ABOUTME: Owns nodes, edges, the stem index, and the property-name table

package graph

import (
	"fmt"
	"sync"
)

// DummyName is the canonical name of the sentinel node 0.
const DummyName = "(dummy node zero)"

// Graph is an append-only call graph. Node and edge IDs are assigned in
// insertion order and stay stable for the life of the store. Every edge
// insertion updates the forward and reverse adjacency lists together, so
// the two directions never disagree.
//
// The intended lifecycle is one writer (the ingestion pipeline) followed by
// any number of concurrent readers; the mutex exists for the lazily derived
// root/sink sets, which are the only post-load mutation.
type Graph struct {
	mu    sync.RWMutex
	nodes []Node
	edges []Edge
	out   [][]EdgeID // out[n] = edges with Src == n
	in    [][]EdgeID // in[n] = edges with Dst == n

	stems map[string][]NodeID
	props *PropTable

	// Derived sets, nil until computed, frozen afterwards.
	roots []NodeID
	sinks []NodeID

	// Synthetic nodes created when the derived sets are frozen. 0 = none
	// (the sentinel can never be synthetic).
	rootNode NodeID
	sinkNode NodeID
}

// New creates an empty graph containing only the sentinel node 0.
func New() *Graph {
	g := &Graph{
		stems: make(map[string][]NodeID),
		props: newPropTable(),
	}
	g.addNode(DummyName)
	return g
}

// addNode appends a node row plus its adjacency rows. Caller holds the lock.
func (g *Graph) addNode(name string) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{Name: name})
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return id
}

// AddFunction appends a new node with the given canonical name and returns
// its identifier, which equals the node's insertion order.
func (g *Graph) AddFunction(name string) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addNode(name)
}

// Rename replaces the canonical name of an existing node. The loader uses
// this to adopt the input's display name for the sentinel entry, which
// exists before the file is read.
func (g *Graph) Rename(id NodeID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id < 0 || int(id) >= len(g.nodes) {
		return fmt.Errorf("function #%d not declared", id)
	}
	g.nodes[id].Name = name
	return nil
}

// AddAltName registers an additional display name for an existing node and
// indexes its stem. It is an error to use an identifier that has not been
// assigned yet.
func (g *Graph) AddAltName(id NodeID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id < 0 || int(id) >= len(g.nodes) {
		return fmt.Errorf("function #%d not declared", id)
	}
	g.nodes[id].Alts = append(g.nodes[id].Alts, name)

	s := stem(name)
	for _, existing := range g.stems[s] {
		if existing == id {
			return nil // a node contributes once per stem
		}
	}
	g.stems[s] = append(g.stems[s], id)
	return nil
}

// AddEdge inserts a forward edge src -> dst and its mirror in the reverse
// direction, both under one lock. The property set is normalized so All
// stays a subset of Any. Identifiers are the caller's responsibility.
func (g *Graph) AddEdge(src, dst NodeID, props PropSet) EdgeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addEdge(src, dst, props)
}

func (g *Graph) addEdge(src, dst NodeID, props PropSet) EdgeID {
	e := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{Src: src, Dst: dst, Props: props.normalize()})
	g.out[src] = append(g.out[src], e)
	g.in[dst] = append(g.in[dst], e)
	return e
}

// NumNodes returns the node count, including the sentinel and any
// synthetic root/sink nodes.
func (g *Graph) NumNodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Node returns a copy of the node record for id.
func (g *Graph) Node(id NodeID) Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := g.nodes[id]
	n.Alts = append([]string(nil), n.Alts...)
	return n
}

// Edge returns the edge record for e.
func (g *Graph) Edge(e EdgeID) Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[e]
}

// Names returns the canonical name followed by the alternate names, in
// registration order.
func (g *Graph) Names(id NodeID) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := g.nodes[id]
	names := make([]string, 0, 1+len(n.Alts))
	names = append(names, n.Name)
	names = append(names, n.Alts...)
	return names
}

// Props returns the graph's property-name table.
func (g *Graph) Props() *PropTable {
	return g.props
}

// Callees returns the distinct nodes id calls, excluding synthetic
// root/sink nodes, in first-edge order.
func (g *Graph) Callees(id NodeID) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.neighbors(g.out[id], func(e Edge) NodeID { return e.Dst })
}

// Callers returns the distinct nodes that call id, excluding synthetic
// root/sink nodes, in first-edge order.
func (g *Graph) Callers(id NodeID) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.neighbors(g.in[id], func(e Edge) NodeID { return e.Src })
}

func (g *Graph) neighbors(adjacent []EdgeID, endpoint func(Edge) NodeID) []NodeID {
	var ids []NodeID
	seen := make(map[NodeID]bool, len(adjacent))
	for _, e := range adjacent {
		n := endpoint(g.edges[e])
		if seen[n] || g.synthetic(n) {
			continue
		}
		seen[n] = true
		ids = append(ids, n)
	}
	return ids
}

func (g *Graph) synthetic(id NodeID) bool {
	return id != 0 && (id == g.rootNode || id == g.sinkNode)
}

// CalleeEdges returns the outgoing edge IDs of id, for callers that need
// the property sets.
func (g *Graph) CalleeEdges(id NodeID) []EdgeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]EdgeID(nil), g.out[id]...)
}

// CallerEdges returns the incoming edge IDs of id.
func (g *Graph) CallerEdges(id NodeID) []EdgeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]EdgeID(nil), g.in[id]...)
}
