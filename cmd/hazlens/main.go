// ABOUTME: One-shot query CLI over a loaded call graph
// ABOUTME: Maps subcommands onto the core resolve/adjacency/route surface

// Package main provides the hazlens binary entry point. Each invocation
// loads one call graph snapshot and answers a single query against it.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hazlens"
	"hazlens/callgraph"
	"hazlens/graph"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliState carries the flag values shared by every subcommand.
type cliState struct {
	graphPath string
	limit     int
	logLevel  string
	brevity   string
}

func rootCmd() *cobra.Command {
	st := &cliState{}

	cmd := &cobra.Command{
		Use:   "hazlens",
		Short: "Query a whole-program call graph",
		Long: `Hazlens answers reachability and path questions over a call graph
extracted from a compiled codebase, for static safety auditing.

Each invocation loads one call graph description and runs one query.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&st.graphPath, "graph", "g", "", "Call graph description file")
	cmd.PersistentFlags().IntVar(&st.limit, "limit", 0, "Stop reading the graph after this many lines (0 = unlimited)")
	cmd.PersistentFlags().StringVar(&st.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&st.brevity, "brevity", "normal", "Output detail (brief, normal, verbose)")

	cmd.AddCommand(
		resolveCmd(st),
		adjacencyCmd(st, "callees", "List the functions a function calls", (*graph.Graph).Callees),
		adjacencyCmd(st, "callers", "List the functions that call a function", (*graph.Graph).Callers),
		routeCmd(st),
		derivedCmd(st, "roots", "List functions with no callers", (*graph.Graph).Roots),
		derivedCmd(st, "sinks", "List functions with no callees", (*graph.Graph).Sinks),
		infoCmd(st),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hazlens version %s\n", hazlens.Version)
		},
	}
}

func resolveCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <pattern>",
		Short: "Resolve a pattern to function identifiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := st.load()
			if err != nil {
				return err
			}
			ids, err := g.Resolve(args[0])
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(g.Describe(id, st.parseBrevity()))
			}
			return nil
		},
	}
}

func adjacencyCmd(st *cliState, name, short string, adjacent func(*graph.Graph, graph.NodeID) []graph.NodeID) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <pattern>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := st.load()
			if err != nil {
				return err
			}
			id, err := resolveOne(g, args[0])
			if err != nil {
				return err
			}
			for _, n := range adjacent(g, id) {
				fmt.Println(g.Describe(n, st.parseBrevity()))
			}
			return nil
		},
	}
}

func derivedCmd(st *cliState, name, short string, derive func(*graph.Graph) []graph.NodeID) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := st.load()
			if err != nil {
				return err
			}
			ids := derive(g)
			fmt.Printf("%d %s\n", len(ids), name)
			for _, id := range ids {
				fmt.Println(g.Describe(id, st.parseBrevity()))
			}
			return nil
		},
	}
}

func routeCmd(st *cliState) *cobra.Command {
	var avoid []string
	var avoidProps []string

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Find the shortest call path between two function sets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := st.load()
			if err != nil {
				return err
			}
			origins, err := g.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("resolving %q: %w", args[0], err)
			}
			goals, err := g.Resolve(args[1])
			if err != nil {
				return fmt.Errorf("resolving %q: %w", args[1], err)
			}

			var avoidNodes []graph.NodeID
			for _, pattern := range avoid {
				ids, err := g.Resolve(pattern)
				if err != nil {
					return fmt.Errorf("resolving avoided %q: %w", pattern, err)
				}
				avoidNodes = append(avoidNodes, ids...)
			}

			var mask uint32
			for _, flagVal := range avoidProps {
				for _, name := range strings.Split(flagVal, ",") {
					bit, ok := g.Props().Resolve(name)
					if !ok {
						return fmt.Errorf("unknown property %q", name)
					}
					mask |= bit
				}
			}

			path, ok := g.FindPath(origins, goals, avoidNodes, mask)
			if !ok {
				return errors.New("no route found")
			}
			fmt.Printf("route of %d calls found:\n", len(path))
			if len(path) > 0 {
				fmt.Println(g.Describe(g.Edge(path[0]).Src, st.parseBrevity()))
			}
			for _, e := range path {
				fmt.Println(g.DescribeEdge(e, st.parseBrevity()))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&avoid, "avoid", nil, "Pattern for functions the route must not pass through (repeatable)")
	cmd.Flags().StringArrayVar(&avoidProps, "avoid-props", nil, "Comma-separated property names no traversed edge may guarantee")
	return cmd
}

func infoCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print graph statistics and the property universe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := st.load()
			if err != nil {
				return err
			}
			fmt.Printf("functions: %d\n", g.NumNodes())
			fmt.Printf("edges:     %d\n", g.NumEdges())
			fmt.Printf("roots:     %d\n", len(g.Roots()))
			fmt.Printf("sinks:     %d\n", len(g.Sinks()))
			fmt.Println("properties:")
			for _, bit := range g.Props().Bits() {
				name, _ := g.Props().Name(bit)
				fmt.Printf("  %#x %s\n", bit, name)
			}
			return nil
		},
	}
}

// load configures logging and reads the graph named by --graph.
func (st *cliState) load() (*graph.Graph, error) {
	if st.graphPath == "" {
		return nil, errors.New("no call graph file; use --graph")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(st.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", st.logLevel)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	f, err := os.Open(st.graphPath)
	if err != nil {
		return nil, fmt.Errorf("opening call graph: %w", err)
	}
	defer f.Close()
	return callgraph.LoadWith(f, callgraph.Options{MaxLines: st.limit, Logger: logger})
}

func (st *cliState) parseBrevity() graph.Brevity {
	switch st.brevity {
	case "brief":
		return graph.Brief
	case "verbose":
		return graph.Verbose
	default:
		return graph.Normal
	}
}

// resolveOne resolves a pattern that must name exactly one function.
func resolveOne(g *graph.Graph, pattern string) (graph.NodeID, error) {
	ids, err := g.Resolve(pattern)
	if err != nil {
		return 0, fmt.Errorf("resolving %q: %w", pattern, err)
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("pattern %q matches %d functions; narrow it (try #id)", pattern, len(ids))
	}
	return ids[0], nil
}
