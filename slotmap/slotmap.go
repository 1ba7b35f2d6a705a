// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package slotmap implements SlotMap, a total finite function between two
// slot sets, stored as two parallel sorted arrays of keys and values.
package slotmap

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/slotted-egraph/egraph/internal/xerrors"
	"github.com/slotted-egraph/egraph/slot"
)

// SlotMap is a total, finite function slot->slot. The zero value is the
// empty map. Keys are always kept sorted and unique; callers must not
// construct a SlotMap by hand outside of this package.
type SlotMap struct {
	keys   []slot.Slot
	values []slot.Slot
}

// Pair is one key/value entry used to build a SlotMap from an unordered
// iterable.
type Pair struct {
	Key, Value slot.Slot
}

// New returns the empty SlotMap.
func New() SlotMap {
	return SlotMap{}
}

// FromPairs builds a SlotMap from an unordered, possibly duplicated-key
// iterable of pairs. Later pairs overwrite earlier ones with the same key.
func FromPairs(pairs ...Pair) SlotMap {
	m := make(map[slot.Slot]slot.Slot, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return fromGoMap(m)
}

func fromGoMap(m map[slot.Slot]slot.Slot) SlotMap {
	keys := make([]slot.Slot, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	values := make([]slot.Slot, len(keys))
	for i, k := range keys {
		values[i] = m[k]
	}
	return SlotMap{keys: keys, values: values}
}

// Identity returns the identity map over set.
func Identity(set slot.SlotSet) SlotMap {
	keys := set.Slice()
	values := append([]slot.Slot(nil), keys...)
	return SlotMap{keys: keys, values: values}
}

// FreshBijection returns a bijection from set to freshly generated slots,
// drawn from gen (or the package-level generator if gen is nil).
func FreshBijection(set slot.SlotSet, gen *slot.Generator) SlotMap {
	keys := set.Slice()
	values := make([]slot.Slot, len(keys))
	for i := range keys {
		if gen != nil {
			values[i] = gen.Fresh()
		} else {
			values[i] = slot.Fresh()
		}
	}
	return SlotMap{keys: keys, values: values}
}

// Len returns the number of entries in m.
func (m SlotMap) Len() int {
	return len(m.keys)
}

// IsEmpty reports whether m has no entries.
func (m SlotMap) IsEmpty() bool {
	return len(m.keys) == 0
}

// Get returns the value mapped to k and whether k is a key of m.
func (m SlotMap) Get(k slot.Slot) (slot.Slot, bool) {
	i, ok := slices.BinarySearch(m.keys, k)
	if !ok {
		return 0, false
	}
	return m.values[i], true
}

// Apply returns the image of s under m, or s itself if m does not map s.
// This is the renaming convention used throughout canonicalization.
func (m SlotMap) Apply(s slot.Slot) slot.Slot {
	if v, ok := m.Get(s); ok {
		return v
	}
	return s
}

// Keys returns m's domain as a SlotSet.
func (m SlotMap) Keys() slot.SlotSet {
	return slot.SlotSet(append([]slot.Slot(nil), m.keys...))
}

// ValueSet returns the sorted, duplicate-free set of m's values (m's image).
func (m SlotMap) ValueSet() slot.SlotSet {
	return slot.NewSlotSet(m.values...)
}

// IsBijection reports whether m is one-to-one: distinct keys map to
// distinct values.
func (m SlotMap) IsBijection() bool {
	return m.ValueSet().Len() == len(m.keys)
}

// IsPermutation reports whether m is a bijection whose key set equals its
// value set, i.e. a permutation of a single slot set.
func (m SlotMap) IsPermutation() bool {
	return m.IsBijection() && slot.Equal(m.Keys(), m.ValueSet())
}

// Inverse returns the inverse of m, defined only when m is a bijection.
func (m SlotMap) Inverse() (SlotMap, error) {
	if !m.IsBijection() {
		return SlotMap{}, xerrors.NotBijection
	}
	pairs := make([]Pair, len(m.keys))
	for i, k := range m.keys {
		pairs[i] = Pair{Key: m.values[i], Value: k}
	}
	return FromPairs(pairs...), nil
}

// Concat returns the set-theoretic union of m's and other's entries; on key
// collision, other wins.
func (m SlotMap) Concat(other SlotMap) SlotMap {
	out := make([]Pair, 0, len(m.keys)+len(other.keys))
	i, j := 0, 0
	for i < len(m.keys) && j < len(other.keys) {
		switch {
		case m.keys[i] < other.keys[j]:
			out = append(out, Pair{m.keys[i], m.values[i]})
			i++
		case m.keys[i] > other.keys[j]:
			out = append(out, Pair{other.keys[j], other.values[j]})
			j++
		default:
			out = append(out, Pair{other.keys[j], other.values[j]})
			i++
			j++
		}
	}
	for ; i < len(m.keys); i++ {
		out = append(out, Pair{m.keys[i], m.values[i]})
	}
	for ; j < len(other.keys); j++ {
		out = append(out, Pair{other.keys[j], other.values[j]})
	}
	return buildSorted(out)
}

// buildSorted assumes pairs already have unique keys (as produced by the
// merges in this file) and only needs sorting, not deduplication-by-map.
func buildSorted(pairs []Pair) SlotMap {
	slices.SortFunc(pairs, func(a, b Pair) bool { return a.Key < b.Key })
	keys := make([]slot.Slot, len(pairs))
	values := make([]slot.Slot, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
		values[i] = p.Value
	}
	return SlotMap{keys: keys, values: values}
}

// Compose returns other ∘ m: for each k->v in m, the result maps k to
// other(v). Every v must be a key of other; otherwise Compose fails with
// xerrors.IntermediateNotCovered. Reserved for sites that have already
// checked covering.
func (m SlotMap) Compose(other SlotMap) (SlotMap, error) {
	values := make([]slot.Slot, len(m.values))
	for i, v := range m.values {
		w, ok := other.Get(v)
		if !ok {
			return SlotMap{}, xerrors.IntermediateNotCovered
		}
		values[i] = w
	}
	return SlotMap{keys: append([]slot.Slot(nil), m.keys...), values: values}, nil
}

// ComposePartial is like Compose but drops entries whose intermediate value
// is not a key of other. Never fails.
func (m SlotMap) ComposePartial(other SlotMap) SlotMap {
	keys := make([]slot.Slot, 0, len(m.keys))
	values := make([]slot.Slot, 0, len(m.keys))
	for i, v := range m.values {
		if w, ok := other.Get(v); ok {
			keys = append(keys, m.keys[i])
			values = append(values, w)
		}
	}
	return SlotMap{keys: keys, values: values}
}

// ComposeRetain is like Compose but keeps k->v unchanged when v is not a
// key of other. Never fails.
func (m SlotMap) ComposeRetain(other SlotMap) SlotMap {
	values := make([]slot.Slot, len(m.values))
	for i, v := range m.values {
		if w, ok := other.Get(v); ok {
			values[i] = w
		} else {
			values[i] = v
		}
	}
	return SlotMap{keys: append([]slot.Slot(nil), m.keys...), values: values}
}

// ComposeFresh is like ComposeRetain but substitutes a fresh slot, drawn
// from gen (or the package-level generator if nil), for every value not
// covered by other. The same missing source value always receives the same
// fresh slot within one ComposeFresh call, so entries that shared an
// eliminated value stay identified with each other. Used to isolate
// redundant slots during union (spec §4.1, §4.6).
func (m SlotMap) ComposeFresh(other SlotMap, gen *slot.Generator) SlotMap {
	fresh := make(map[slot.Slot]slot.Slot)
	values := make([]slot.Slot, len(m.values))
	for i, v := range m.values {
		if w, ok := other.Get(v); ok {
			values[i] = w
			continue
		}
		f, ok := fresh[v]
		if !ok {
			if gen != nil {
				f = gen.Fresh()
			} else {
				f = slot.Fresh()
			}
			fresh[v] = f
		}
		values[i] = f
	}
	return SlotMap{keys: append([]slot.Slot(nil), m.keys...), values: values}
}

// FilterKeys returns the restriction of m to keys satisfying pred.
func (m SlotMap) FilterKeys(pred func(slot.Slot) bool) SlotMap {
	keys := make([]slot.Slot, 0, len(m.keys))
	values := make([]slot.Slot, 0, len(m.keys))
	for i, k := range m.keys {
		if pred(k) {
			keys = append(keys, k)
			values = append(values, m.values[i])
		}
	}
	return SlotMap{keys: keys, values: values}
}

// Rename rewrites both m's keys and values through renaming, conjugating m
// by renaming. Entries renaming does not mention keep their original key or
// value (per SlotMap.Apply's identity-outside-domain convention).
func (m SlotMap) Rename(renaming SlotMap) SlotMap {
	pairs := make([]Pair, len(m.keys))
	for i, k := range m.keys {
		pairs[i] = Pair{Key: renaming.Apply(k), Value: renaming.Apply(m.values[i])}
	}
	return FromPairs(pairs...)
}

// Equal reports whether m and other have identical entries.
func Equal(m, other SlotMap) bool {
	return slices.Equal(m.keys, other.keys) && slices.Equal(m.values, other.values)
}

// Compare orders m and other lexicographically by sorted keys, then by
// corresponding values; it is the order canonicalization uses to choose
// among symmetry-equivalent shape variants (spec §4 "Canonical shape").
func Compare(m, other SlotMap) int {
	if c := compareSlotSlice(m.keys, other.keys); c != 0 {
		return c
	}
	return compareSlotSlice(m.values, other.values)
}

func compareSlotSlice(a, b []slot.Slot) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// String renders m for debugging, e.g. "{$1->$2, $3->$4}".
func (m SlotMap) String() string {
	parts := make([]string, len(m.keys))
	for i, k := range m.keys {
		parts[i] = k.String() + "->" + m.values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
