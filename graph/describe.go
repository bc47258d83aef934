// ABOUTME: Renders nodes and edges as human-readable strings
// ABOUTME: Supports brief, normal, and verbose brevity plus property brackets

package graph

import (
	"fmt"
	"strings"
)

// Describe renders a node at the given brevity:
//
//	Brief    canonical name only
//	Normal   "#id = name", preferring the first alternate name
//	Verbose  "#id = canonical" plus every alternate name on its own line
func (g *Graph) Describe(id NodeID, brevity Brevity) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.describe(id, brevity)
}

func (g *Graph) describe(id NodeID, brevity Brevity) string {
	node := g.nodes[id]
	switch brevity {
	case Brief:
		return node.Name

	case Verbose:
		var b strings.Builder
		fmt.Fprintf(&b, "#%d = %s", id, node.Name)
		for _, alt := range node.Alts {
			b.WriteString("\n  ")
			b.WriteString(alt)
		}
		return b.String()

	default: // Normal
		name := node.Name
		if len(node.Alts) > 0 {
			name = node.Alts[0]
		}
		return fmt.Sprintf("#%d = %s", id, name)
	}
}

// DescribeEdge renders an edge's destination node plus a bracketed
// property description when the edge carries properties. When every
// represented call agrees, the bracket holds one list; otherwise the Any
// and All masks are shown separated by a colon, e.g. "[P1,P2:P1]" meaning
// P1 holds on every call and P2 on some.
func (g *Graph) DescribeEdge(e EdgeID, brevity Brevity) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edge := g.edges[e]
	s := g.describe(edge.Dst, brevity)
	if edge.Props.Any == 0 {
		return s
	}
	if edge.Props.Any == edge.Props.All {
		return fmt.Sprintf("%s [%s]", s, g.props.Describe(edge.Props.Any))
	}
	return fmt.Sprintf("%s [%s:%s]", s, g.props.Describe(edge.Props.Any), g.props.Describe(edge.Props.All))
}
