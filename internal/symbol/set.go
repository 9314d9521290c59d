package symbol

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// TermSet is a set of terminal names (or the epsilon marker) used to hold
// FIRST, FOLLOW, and predict sets. It is backed by a sorted tree set so that
// String output and error messages are deterministic without a separate sort
// step at every call site.
type TermSet struct {
	t *treeset.Set
}

// NewTermSet creates an empty TermSet, optionally seeded with the given
// terminal names.
func NewTermSet(names ...string) *TermSet {
	ts := &TermSet{t: treeset.NewWith(utils.StringComparator)}
	for _, n := range names {
		ts.t.Add(n)
	}
	return ts
}

// Add adds a terminal name (or EpsilonName) to the set. No-op if already
// present.
func (ts *TermSet) Add(name string) {
	ts.t.Add(name)
}

// Remove removes a terminal name from the set. No-op if not present.
func (ts *TermSet) Remove(name string) {
	ts.t.Remove(name)
}

// Has reports whether name is in the set.
func (ts *TermSet) Has(name string) bool {
	return ts.t.Contains(name)
}

// Len returns the number of elements in the set.
func (ts *TermSet) Len() int {
	return ts.t.Size()
}

// Empty reports whether the set has no elements.
func (ts *TermSet) Empty() bool {
	return ts.t.Empty()
}

// AddAll adds every element of o to ts.
func (ts *TermSet) AddAll(o *TermSet) {
	if o == nil {
		return
	}
	for _, v := range o.t.Values() {
		ts.t.Add(v)
	}
}

// Union returns a new TermSet containing every element of ts and o.
func (ts *TermSet) Union(o *TermSet) *TermSet {
	n := ts.Copy()
	n.AddAll(o)
	return n
}

// Copy returns a shallow duplicate of ts.
func (ts *TermSet) Copy() *TermSet {
	n := NewTermSet()
	n.AddAll(ts)
	return n
}

// Elements returns the set's contents in sorted order.
func (ts *TermSet) Elements() []string {
	vals := ts.t.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}

// Equal reports whether ts and o contain exactly the same elements.
func (ts *TermSet) Equal(o *TermSet) bool {
	if ts.Len() != o.Len() {
		return false
	}
	for _, e := range ts.Elements() {
		if !o.Has(e) {
			return false
		}
	}
	return true
}

// String renders the set's contents in sorted, comma-separated form between
// braces, e.g. "{a, b, c}".
func (ts *TermSet) String() string {
	elems := ts.Elements()
	sort.Strings(elems)
	return "{" + strings.Join(elems, ", ") + "}"
}
