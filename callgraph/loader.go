// ABOUTME: Loads the line-oriented call graph description into a graph.Graph
// ABOUTME: Dispatches records by leading character and defers indirect targets

package callgraph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"hazlens/graph"
)

var (
	// ErrBadFormat is returned for a malformed or unrecognized record.
	// Ingestion aborts; partial graphs are never returned.
	ErrBadFormat = errors.New("malformed call graph record")

	// ErrInconsistent is returned when a declared function id does not
	// match the sequentially assigned id, meaning the file was not
	// generated for this loader.
	ErrInconsistent = errors.New("call graph inconsistent with loader")
)

// Options configures a load.
type Options struct {
	// MaxLines stops the scan after this many lines when positive.
	// Useful for truncating very large graphs during experimentation.
	MaxLines int

	// Logger receives load progress and the final summary.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Load reads a call graph description and returns the fully populated
// graph with its root and sink sets already computed, so queries can run
// concurrently without further synchronization concerns.
func Load(r io.Reader) (*graph.Graph, error) {
	return LoadWith(r, Options{})
}

// LoadFile loads a call graph description from a file.
func LoadFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening call graph: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// LoadWith is Load with explicit options.
func LoadWith(r io.Reader, opts Options) (*graph.Graph, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	l := &loader{g: graph.New(), log: log}

	sc := bufio.NewScanner(r)
	// Mangled names can make individual lines very long.
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for sc.Scan() {
		l.lineno++
		if opts.MaxLines > 0 && l.lineno > opts.MaxLines {
			log.Debug("stopping at line limit", "limit", opts.MaxLines)
			break
		}
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if err := l.record(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", l.lineno+1, err)
	}

	l.finish()
	return l.g, nil
}

// loader accumulates state for one scan of the input.
type loader struct {
	g      *graph.Graph
	log    *slog.Logger
	lineno int

	// Indirect calls are collected during the scan and materialized
	// afterwards so they do not perturb the sequential numbering of
	// functions declared later in the file.
	indirect []indirectCall

	stats struct {
		functions int
		edges     int
		altNames  int
		ignored   int
	}
}

// indirectCall is a call through a function pointer or virtual target,
// named by description rather than by identifier.
type indirectCall struct {
	src   graph.NodeID
	desc  string
	props graph.PropSet
}

// record dispatches one input line by its leading character.
func (l *loader) record(line string) error {
	switch line[0] {
	case '#':
		return l.function(line)
	case 'D', 'R':
		return l.call(line)
	case '=':
		return l.altName(line)
	case 'I':
		return l.indirectRecord(line)
	case 'F', 'T', 'V':
		// Field calls, tags, and virtual methods carry no structural
		// effect on the graph.
		l.stats.ignored++
		return nil
	case '!':
		return l.propTable(line)
	default:
		return l.formatErr(line, "unrecognized record type")
	}
}

func (l *loader) formatErr(line, msg string) error {
	return fmt.Errorf("line %d: %s: %q: %w", l.lineno, msg, line, ErrBadFormat)
}

// finish materializes deferred indirect targets and primes the root and
// sink caches.
func (l *loader) finish() {
	type target struct {
		desc  string
		props graph.PropSet
	}
	// Two indirect calls naming the same target under the same property
	// constraint share one synthetic node; a different constraint against
	// the same text gets a distinct node. Nodes are numbered in
	// first-seen order.
	targets := make(map[target]graph.NodeID)
	for _, c := range l.indirect {
		key := target{desc: c.desc, props: c.props}
		id, ok := targets[key]
		if !ok {
			id = l.g.AddFunction(c.desc)
			targets[key] = id
		}
		l.g.AddEdge(c.src, id, c.props)
	}

	roots := l.g.Roots()
	sinks := l.g.Sinks()

	l.log.Info("call graph loaded",
		"lines", l.lineno,
		"functions", l.stats.functions,
		"edges", l.g.NumEdges(),
		"alt_names", l.stats.altNames,
		"indirect_calls", len(l.indirect),
		"indirect_targets", len(targets),
		"roots", len(roots),
		"sinks", len(sinks),
	)
}
