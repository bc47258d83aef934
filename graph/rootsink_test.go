// ABOUTME: Tests for cycle-tolerant root and sink derivation
// ABOUTME: Validates zero-degree detection, cycle breaking, and freezing

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootsAcyclic(t *testing.T) {
	// 1 -> 2 -> 3
	//      2 -> 4
	// 5 (isolated)
	g := New()
	n1 := g.AddFunction("n1")
	n2 := g.AddFunction("n2")
	n3 := g.AddFunction("n3")
	n4 := g.AddFunction("n4")
	n5 := g.AddFunction("n5")
	g.AddEdge(n1, n2, PropSet{})
	g.AddEdge(n2, n3, PropSet{})
	g.AddEdge(n2, n4, PropSet{})

	// On an acyclic graph the roots are exactly the zero-in-degree nodes.
	assert.ElementsMatch(t, []NodeID{n1, n5}, g.Roots())
	assert.ElementsMatch(t, []NodeID{n3, n4, n5}, g.Sinks())
}

func TestRootsDiamond(t *testing.T) {
	// 1 -> 2 -> 4, 1 -> 3 -> 4: converging paths must not produce a
	// spurious extra root.
	g := New()
	n1 := g.AddFunction("n1")
	n2 := g.AddFunction("n2")
	n3 := g.AddFunction("n3")
	n4 := g.AddFunction("n4")
	g.AddEdge(n1, n2, PropSet{})
	g.AddEdge(n1, n3, PropSet{})
	g.AddEdge(n2, n4, PropSet{})
	g.AddEdge(n3, n4, PropSet{})

	assert.ElementsMatch(t, []NodeID{n1}, g.Roots())
	assert.ElementsMatch(t, []NodeID{n4}, g.Sinks())
}

func TestRootsSingleCycle(t *testing.T) {
	// 1 -> 2 -> 3 -> 1: no node has zero in-degree, so exactly one node
	// is designated to break the cycle. Any one is acceptable.
	g := New()
	n1 := g.AddFunction("n1")
	n2 := g.AddFunction("n2")
	n3 := g.AddFunction("n3")
	g.AddEdge(n1, n2, PropSet{})
	g.AddEdge(n2, n3, PropSet{})
	g.AddEdge(n3, n1, PropSet{})

	roots := g.Roots()
	require.Len(t, roots, 1)
	assert.Contains(t, []NodeID{n1, n2, n3}, roots[0])

	sinks := g.Sinks()
	require.Len(t, sinks, 1)
	assert.Contains(t, []NodeID{n1, n2, n3}, sinks[0])
}

func TestRootsCycleWithTail(t *testing.T) {
	// 1 -> 2 -> 3 -> 2: node 1 is a true root. The 2<->3 cycle also gets
	// a representative when its walk closes on itself, but never more
	// than one.
	g := New()
	n1 := g.AddFunction("n1")
	n2 := g.AddFunction("n2")
	n3 := g.AddFunction("n3")
	g.AddEdge(n1, n2, PropSet{})
	g.AddEdge(n2, n3, PropSet{})
	g.AddEdge(n3, n2, PropSet{})

	roots := g.Roots()
	assert.Contains(t, roots, n1)
	assert.LessOrEqual(t, len(roots), 2)

	// Toward the leaves everything funnels into the 2<->3 cycle, which
	// yields exactly one sink representative.
	sinks := g.Sinks()
	require.Len(t, sinks, 1)
	assert.Contains(t, []NodeID{n2, n3}, sinks[0])
}

func TestRootsFrozenAfterFirstUse(t *testing.T) {
	g := New()
	n1 := g.AddFunction("n1")
	n2 := g.AddFunction("n2")
	g.AddEdge(n1, n2, PropSet{})

	first := g.Roots()
	assert.Equal(t, []NodeID{n1}, first)

	// Mutating afterwards does not change the frozen set.
	n3 := g.AddFunction("n3")
	g.AddEdge(n3, n1, PropSet{})
	assert.Equal(t, first, g.Roots())
}

func TestSyntheticRootNode(t *testing.T) {
	g := New()
	n1 := g.AddFunction("n1")
	n2 := g.AddFunction("n2")
	n3 := g.AddFunction("n3")
	g.AddEdge(n1, n3, PropSet{})
	g.AddEdge(n2, n3, PropSet{})

	_, ok := g.SyntheticRoot()
	assert.False(t, ok, "no synthetic node before first computation")

	roots := g.Roots()
	rootNode, ok := g.SyntheticRoot()
	require.True(t, ok)
	assert.Equal(t, "<root>", g.Node(rootNode).Name)

	// The synthetic node reaches every member.
	edges := g.CalleeEdges(rootNode)
	require.Len(t, edges, len(roots))
	var targets []NodeID
	for _, e := range edges {
		targets = append(targets, g.Edge(e).Dst)
	}
	assert.ElementsMatch(t, roots, targets)

	// Member adjacency hides the synthetic endpoint.
	assert.NotContains(t, g.Callers(n1), rootNode)

	sinks := g.Sinks()
	sinkNode, ok := g.SyntheticSink()
	require.True(t, ok)
	assert.Equal(t, "<sink>", g.Node(sinkNode).Name)
	require.Len(t, g.CallerEdges(sinkNode), len(sinks))
	assert.NotContains(t, g.Callees(n3), sinkNode)
}

func TestRootsTwoCycles(t *testing.T) {
	// Two disjoint cycles: one representative each.
	g := New()
	a1 := g.AddFunction("a1")
	a2 := g.AddFunction("a2")
	b1 := g.AddFunction("b1")
	b2 := g.AddFunction("b2")
	g.AddEdge(a1, a2, PropSet{})
	g.AddEdge(a2, a1, PropSet{})
	g.AddEdge(b1, b2, PropSet{})
	g.AddEdge(b2, b1, PropSet{})

	roots := g.Roots()
	require.Len(t, roots, 2)
	assert.Condition(t, func() bool {
		inA := roots[0] == a1 || roots[0] == a2 || roots[1] == a1 || roots[1] == a2
		inB := roots[0] == b1 || roots[0] == b2 || roots[1] == b1 || roots[1] == b2
		return inA && inB
	}, "one representative per cycle, got %v", roots)
}
