// ABOUTME: Per-record parsers for the call graph input format
// ABOUTME: Handles function, call, alternate-name, indirect, and property records

package callgraph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"hazlens/graph"
)

// function parses "#<id> <name>". The declared id must equal the id the
// store assigns; a mismatch means the file was not generated against this
// numbering and the load cannot continue.
func (l *loader) function(line string) error {
	rest := line[1:]
	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return l.formatErr(line, "missing function name")
	}
	id, err := strconv.ParseUint(rest[:sp], 10, 32)
	if err != nil {
		return l.formatErr(line, "invalid function id")
	}
	if id == 0 {
		// The store creates the sentinel before the file is read, so a
		// leading #0 record restates it rather than appending; adopt the
		// input's display name for it.
		if l.stats.functions != 0 {
			return fmt.Errorf("line %d: function #0 declared out of order: %w",
				l.lineno, ErrInconsistent)
		}
		if err := l.g.Rename(0, rest[sp+1:]); err != nil {
			return l.formatErr(line, err.Error())
		}
		l.stats.functions++
		return nil
	}
	assigned := l.g.AddFunction(rest[sp+1:])
	if graph.NodeID(id) != assigned {
		return fmt.Errorf("line %d: declared function #%d assigned id #%d: %w",
			l.lineno, id, assigned, ErrInconsistent)
	}
	l.stats.functions++
	return nil
}

// call parses "D <src> <dst>" or "R <src> <dst>" with an optional property
// prefix in one of three surface forms: an "all:any" mask pair, a legacy
// "/bits" mask applied to both, or the SUPPRESS_GC keyword.
func (l *loader) call(line string) error {
	fields := strings.Fields(line[1:])
	var props graph.PropSet
	if len(fields) > 0 {
		tok := fields[0]
		switch {
		case tok == "SUPPRESS_GC":
			props = graph.PropSet{All: graph.PropSuppressGC, Any: graph.PropSuppressGC}
			fields = fields[1:]

		case strings.HasPrefix(tok, "/"):
			mask, err := parseMask(tok[1:])
			if err != nil {
				return l.formatErr(line, "invalid property mask")
			}
			props = graph.PropSet{All: mask, Any: mask}
			fields = fields[1:]

		case strings.Contains(tok, ":"):
			parts := strings.SplitN(tok, ":", 2)
			all, errAll := parseMask(parts[0])
			anyMask, errAny := parseMask(parts[1])
			if errAll != nil || errAny != nil {
				return l.formatErr(line, "invalid property mask pair")
			}
			if all&^anyMask != 0 {
				return l.formatErr(line, "all-mask is not a subset of any-mask")
			}
			props = graph.PropSet{All: all, Any: anyMask}
			fields = fields[1:]
		}
	}

	if len(fields) != 2 {
		return l.formatErr(line, "expected caller and callee ids")
	}
	src, err := l.functionID(fields[0])
	if err != nil {
		return l.formatErr(line, err.Error())
	}
	dst, err := l.functionID(fields[1])
	if err != nil {
		return l.formatErr(line, err.Error())
	}

	l.g.AddEdge(src, dst, props)
	l.stats.edges++
	return nil
}

// altName parses "= <id> <name>" and registers an alternate display name
// for a previously declared function.
func (l *loader) altName(line string) error {
	if !strings.HasPrefix(line, "= ") {
		return l.formatErr(line, "malformed alternate-name record")
	}
	rest := line[2:]
	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return l.formatErr(line, "missing alternate name")
	}
	id, err := l.functionID(rest[:sp])
	if err != nil {
		return l.formatErr(line, err.Error())
	}
	if err := l.g.AddAltName(id, rest[sp+1:]); err != nil {
		return l.formatErr(line, err.Error())
	}
	l.stats.altNames++
	return nil
}

// indirectRecord parses "I [/bits] <src> <target description>". The target
// is free text to end of line; node creation is deferred to finish so it
// cannot perturb function numbering.
func (l *loader) indirectRecord(line string) error {
	rest := strings.TrimSpace(line[1:])
	var props graph.PropSet
	if strings.HasPrefix(rest, "/") {
		sp := strings.IndexByte(rest, ' ')
		if sp < 0 {
			return l.formatErr(line, "missing indirect call source")
		}
		mask, err := parseMask(rest[1:sp])
		if err != nil {
			return l.formatErr(line, "invalid property mask")
		}
		props = graph.PropSet{All: mask, Any: mask}
		rest = strings.TrimSpace(rest[sp+1:])
	}

	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return l.formatErr(line, "missing indirect target description")
	}
	src, err := l.functionID(rest[:sp])
	if err != nil {
		return l.formatErr(line, err.Error())
	}
	desc := strings.TrimSpace(rest[sp+1:])
	if desc == "" {
		return l.formatErr(line, "empty indirect target description")
	}

	l.indirect = append(l.indirect, indirectCall{src: src, desc: desc, props: props})
	return nil
}

// propTable parses "!<json>" and merges the named bits into the graph's
// property table. Keys are decimal bit numbers, values display names.
func (l *loader) propTable(line string) error {
	var table struct {
		Properties map[string]string `json:"Properties"`
	}
	if err := json.Unmarshal([]byte(line[1:]), &table); err != nil {
		return l.formatErr(line, "invalid property table JSON")
	}
	for bitStr, name := range table.Properties {
		n, err := strconv.ParseUint(bitStr, 10, 8)
		if err != nil || n > 31 {
			return l.formatErr(line, "property bit number out of range")
		}
		l.g.Props().Add(uint32(1)<<n, name)
		l.log.Debug("registered property", "bit", n, "name", name)
	}
	return nil
}

// functionID parses a declared function id and range-checks it against the
// functions seen so far.
func (l *loader) functionID(s string) (graph.NodeID, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid function id %q", s)
	}
	if int(id) >= l.g.NumNodes() {
		return 0, fmt.Errorf("function id %d out of range", id)
	}
	return graph.NodeID(id), nil
}

func parseMask(s string) (uint32, error) {
	mask, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(mask), nil
}
