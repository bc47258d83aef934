// ABOUTME: Property set bitmask pair and the property-name table
// ABOUTME: Tracks which named boolean properties hold on every vs. some call

package graph

import (
	"fmt"
	"sort"
	"strings"
)

// PropSet describes the boolean properties of the calls an edge represents.
// Any is the union of properties holding on some call; All is the subset
// holding on every call. All is always a subset of Any.
type PropSet struct {
	All uint32
	Any uint32
}

// Default property bits. The table can be extended by ingested data, but
// these two are always present.
const (
	// PropSuppressGC marks calls made with garbage collection suppressed.
	PropSuppressGC uint32 = 1 << 0

	// PropBoundedByCanScript marks calls bounded by a CanScript check.
	PropBoundedByCanScript uint32 = 1 << 1
)

// Empty reports whether no property holds on any represented call.
func (p PropSet) Empty() bool {
	return p.Any == 0 && p.All == 0
}

// Valid reports whether the All-subset-of-Any invariant holds.
func (p PropSet) Valid() bool {
	return p.All&^p.Any == 0
}

// normalize folds All into Any so the subset invariant holds.
func (p PropSet) normalize() PropSet {
	p.Any |= p.All
	return p
}

// PropTable maps property bits to display names and back. Each graph owns
// one table, populated with defaults at construction and extendable by
// ingested property tables.
type PropTable struct {
	byBit  map[uint32]string
	byName map[string]uint32
}

func newPropTable() *PropTable {
	t := &PropTable{
		byBit:  make(map[uint32]string),
		byName: make(map[string]uint32),
	}
	t.Add(PropSuppressGC, "suppressed-GC")
	t.Add(PropBoundedByCanScript, "bounded-by-canscript")
	return t
}

// Add registers a name for a single property bit, replacing any previous
// name for that bit.
func (t *PropTable) Add(bit uint32, name string) {
	if old, ok := t.byBit[bit]; ok {
		delete(t.byName, old)
	}
	t.byBit[bit] = name
	t.byName[name] = bit
}

// Resolve returns the bit for a property name.
func (t *PropTable) Resolve(name string) (uint32, bool) {
	bit, ok := t.byName[name]
	return bit, ok
}

// Name returns the display name for a single property bit.
func (t *PropTable) Name(bit uint32) (string, bool) {
	name, ok := t.byBit[bit]
	return name, ok
}

// Describe renders a bitmask as a comma-joined list of property names,
// lowest bit first. Bits without a registered name render as "1<<n".
func (t *PropTable) Describe(mask uint32) string {
	if mask == 0 {
		return ""
	}
	var parts []string
	for n := 0; n < 32; n++ {
		bit := uint32(1) << n
		if mask&bit == 0 {
			continue
		}
		if name, ok := t.byBit[bit]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("1<<%d", n))
		}
	}
	return strings.Join(parts, ",")
}

// Bits returns all registered bits in ascending order. Intended for
// presentation layers that want to list the property universe.
func (t *PropTable) Bits() []uint32 {
	bits := make([]uint32, 0, len(t.byBit))
	for bit := range t.byBit {
		bits = append(bits, bit)
	}
	sort.Slice(bits, func(i, j int) bool { return bits[i] < bits[j] })
	return bits
}
