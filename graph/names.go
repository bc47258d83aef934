// ABOUTME: Name resolution over stems, regexes, IDs, and raw name scans
// ABOUTME: Implements the multi-strategy Resolve and the ad-hoc Matcher

package graph

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoMatch is returned by Resolve when no strategy produces a match.
var ErrNoMatch = errors.New("no matching function")

// stemRE captures the bare identifier immediately preceding the first
// parenthesis of an unmangled name.
var stemRE = regexp.MustCompile(`([\w]+)\(`)

// stem truncates an unmangled name at its first parenthesis, grouping
// overloads of the same named function. Names without a parenthesis are
// their own stem.
func stem(raw string) string {
	if m := stemRE.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

// Resolve maps a pattern to the set of node identifiers it names. The
// strategies are tried in priority order:
//
//  1. an empty pattern matches nothing;
//  2. exact match against a stem in the name index;
//  3. "/.../" compiles the interior as a regular expression and scans every
//     node except the sentinel, matching the canonical name or any
//     alternate name; this strategy always succeeds, so a zero-match
//     regex yields an empty result rather than ErrNoMatch;
//  4. "#id" names a single in-range identifier;
//  5. exact match against canonical names;
//  6. substring match against alternate names, each node contributing once.
//
// A nil result with ErrNoMatch means no strategy applied; an invalid regex
// is reported as an error.
func (g *Graph) Resolve(pattern string) ([]NodeID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if pattern == "" {
		return nil, ErrNoMatch
	}

	if ids, ok := g.stems[pattern]; ok {
		return append([]NodeID(nil), ids...), nil
	}

	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
		}
		results := make([]NodeID, 0)
		for i := 1; i < len(g.nodes); i++ {
			if g.nodeMatches(NodeID(i), re.MatchString) {
				results = append(results, NodeID(i))
			}
		}
		return results, nil
	}

	if strings.HasPrefix(pattern, "#") {
		n, err := strconv.ParseUint(pattern[1:], 10, 32)
		if err != nil || int(n) >= len(g.nodes) {
			return nil, ErrNoMatch
		}
		return []NodeID{NodeID(n)}, nil
	}

	var results []NodeID
	for i, node := range g.nodes {
		if node.Name == pattern {
			results = append(results, NodeID(i))
		}
	}

	if len(results) == 0 {
		for i, node := range g.nodes {
			for _, alt := range node.Alts {
				if strings.Contains(alt, pattern) {
					results = append(results, NodeID(i))
					break
				}
			}
		}
	}

	if len(results) == 0 {
		return nil, ErrNoMatch
	}
	return results, nil
}

// nodeMatches reports whether any of the node's names satisfies match.
// Caller holds the lock.
func (g *Graph) nodeMatches(id NodeID, match func(string) bool) bool {
	node := g.nodes[id]
	if match(node.Name) {
		return true
	}
	for _, alt := range node.Alts {
		if match(alt) {
			return true
		}
	}
	return false
}

// Matcher filters nodes by name independently of Resolve. The pattern is
// either a "/.../"-delimited regular expression or a plain substring.
type Matcher struct {
	re     *regexp.Regexp
	substr string
}

// NewMatcher compiles a matcher from a pattern.
func NewMatcher(pattern string) (*Matcher, error) {
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
		}
		return &Matcher{re: re}, nil
	}
	return &Matcher{substr: pattern}, nil
}

// Match reports whether the node's canonical or any alternate name matches.
func (m *Matcher) Match(g *Graph, id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodeMatches(id, m.matches)
}

func (m *Matcher) matches(name string) bool {
	if m.re != nil {
		return m.re.MatchString(name)
	}
	return strings.Contains(name, m.substr)
}
