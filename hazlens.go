// ABOUTME: Root package providing version information and package documentation
// ABOUTME: This is the umbrella package for the call graph analysis library

// Package hazlens analyzes whole-program call graphs for static safety
// auditing, answering questions like "can function A reach function B
// without passing through a GC-safe point". The graph/ package holds the
// store and query algorithms; callgraph/ loads the line-oriented call
// graph description produced by the hazard analysis.
package hazlens

// Version is the semantic version of the hazlens library
const Version = "0.1.0-dev"
