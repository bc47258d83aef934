// ABOUTME: Core data types for the function call graph
// ABOUTME: Defines NodeID, EdgeID, Node, Edge, and description brevity levels

package graph

// NodeID identifies a function in the graph. IDs are assigned sequentially
// at creation, are never reused, and double as indexes into all parallel
// lookup tables. ID 0 is a sentinel "no function" entry.
type NodeID int

// EdgeID identifies a call edge. Edge IDs index a shared edge arena, so the
// forward and reverse adjacency lists refer to the same underlying edge.
type EdgeID int

// Node represents one function.
type Node struct {
	Name string   // canonical (mangled) name, always present
	Alts []string // alternate (unmangled) names, in registration order
}

// Edge is a directed "caller calls callee" relation with the properties
// that hold on the calls it represents.
type Edge struct {
	Src   NodeID
	Dst   NodeID
	Props PropSet
}

// Brevity selects how much detail Describe renders for a node.
type Brevity int

const (
	// Brief renders the canonical name only.
	Brief Brevity = iota

	// Normal renders "#id = name", preferring the first alternate name.
	Normal

	// Verbose renders the canonical name plus every alternate name.
	Verbose
)
