// ABOUTME: Integration tests for the complete hazlens system
// ABOUTME: Validates end-to-end loading and querying of a call graph file

package hazlens_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hazlens/callgraph"
	"hazlens/graph"
)

func TestEndToEndLoad(t *testing.T) {
	g, err := callgraph.LoadFile("testdata/simple.txt")
	require.NoError(t, err)

	// 5 declared functions, 1 indirect target, <root>, <sink>.
	assert.Equal(t, 8, g.NumNodes())

	ids, err := g.Resolve("main")
	require.NoError(t, err)
	require.Equal(t, []graph.NodeID{1}, ids)

	ids, err = g.Resolve("Collect")
	require.NoError(t, err)
	require.Equal(t, []graph.NodeID{2}, ids)

	assert.Equal(t, []string{"_Z4mainv", "main()"}, g.Names(1))
	assert.Equal(t, "(dummy node zero)", g.Describe(0, graph.Brief))
	assert.Equal(t, "#2 = js::Collect(int)", g.Describe(2, graph.Normal))
}

func TestEndToEndRouting(t *testing.T) {
	g, err := callgraph.LoadFile("testdata/simple.txt")
	require.NoError(t, err)

	main, alloc := graph.NodeID(1), graph.NodeID(3)

	// Unconstrained: two hops, either through collect or the barrier.
	path, ok := g.FindPath([]graph.NodeID{main}, []graph.NodeID{alloc}, nil, 0)
	require.True(t, ok)
	assert.Len(t, path, 2)

	// Avoiding guaranteed GC suppression forces the barrier detour.
	suppress, found := g.Props().Resolve("suppressed-GC")
	require.True(t, found)
	path, ok = g.FindPath([]graph.NodeID{main}, []graph.NodeID{alloc}, nil, suppress)
	require.True(t, ok)
	require.Len(t, path, 2)
	assert.Equal(t, graph.NodeID(4), g.Edge(path[0]).Dst)
	assert.Equal(t, alloc, g.Edge(path[1]).Dst)

	// Additionally avoiding the barrier leaves no safe route.
	_, ok = g.FindPath([]graph.NodeID{main}, []graph.NodeID{alloc}, []graph.NodeID{4}, suppress)
	assert.False(t, ok)
}

func TestEndToEndDerivedSets(t *testing.T) {
	g, err := callgraph.LoadFile("testdata/simple.txt")
	require.NoError(t, err)

	// main has no callers; the self-recursive alloc contributes a
	// cycle-breaking representative of its own.
	assert.Contains(t, g.Roots(), graph.NodeID(1))

	// The indirect target is a true dead end.
	assert.Contains(t, g.Sinks(), graph.NodeID(5))
	assert.Equal(t, "vtable slot js::OnGC", g.Node(5).Name)

	_, ok := g.SyntheticRoot()
	assert.True(t, ok)
	_, ok = g.SyntheticSink()
	assert.True(t, ok)
}

func TestEndToEndProperties(t *testing.T) {
	g, err := callgraph.LoadFile("testdata/simple.txt")
	require.NoError(t, err)

	bit, ok := g.Props().Resolve("in-destructor")
	require.True(t, ok)
	assert.Equal(t, uint32(1<<2), bit)

	// The main -> barrier edge is bounded on every call it represents.
	var described []string
	for _, e := range g.CalleeEdges(1) {
		described = append(described, g.DescribeEdge(e, graph.Brief))
	}
	assert.Contains(t, described, "_Z7barrierv [bounded-by-canscript]")
}
