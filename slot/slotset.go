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

package slot

import (
	"strings"

	"golang.org/x/exp/slices"
)

// SlotSet is a sorted, duplicate-free slice of Slot. The zero value is the
// empty set. All constructors and combinators in this package return a
// SlotSet that maintains the sorted-unique invariant; callers must not
// append to a SlotSet directly.
type SlotSet []Slot

// NewSlotSet builds a SlotSet from an unordered, possibly duplicated
// iterable of slots.
func NewSlotSet(ss ...Slot) SlotSet {
	out := append(SlotSet(nil), ss...)
	slices.Sort([]Slot(out))
	return SlotSet(slices.Compact([]Slot(out)))
}

// Contains reports whether x is a member of s, via binary search.
func (s SlotSet) Contains(x Slot) bool {
	_, ok := slices.BinarySearch([]Slot(s), x)
	return ok
}

// Len returns the number of slots in s.
func (s SlotSet) Len() int {
	return len(s)
}

// IsEmpty reports whether s has no members.
func (s SlotSet) IsEmpty() bool {
	return len(s) == 0
}

// Slice returns a copy of s's members in sorted order.
func (s SlotSet) Slice() []Slot {
	return append([]Slot(nil), s...)
}

// Insert returns a new SlotSet containing every member of s plus x.
func (s SlotSet) Insert(x Slot) SlotSet {
	i, ok := slices.BinarySearch([]Slot(s), x)
	if ok {
		return s
	}
	out := make(SlotSet, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, x)
	out = append(out, s[i:]...)
	return out
}

// Remove returns a new SlotSet containing every member of s except x.
func (s SlotSet) Remove(x Slot) SlotSet {
	i, ok := slices.BinarySearch([]Slot(s), x)
	if !ok {
		return s
	}
	out := make(SlotSet, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// Equal reports whether a and b contain the same slots.
func Equal(a, b SlotSet) bool {
	return slices.Equal([]Slot(a), []Slot(b))
}

// Union returns the sorted union of a and b, an O(len(a)+len(b)) merge.
func Union(a, b SlotSet) SlotSet {
	out := make(SlotSet, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// UnionAll merges a variadic list of sets.
func UnionAll(sets ...SlotSet) SlotSet {
	var out SlotSet
	for _, s := range sets {
		out = Union(out, s)
	}
	return out
}

// Intersect returns the sorted intersection of a and b.
func Intersect(a, b SlotSet) SlotSet {
	out := make(SlotSet, 0, minInt(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Diff returns the slots in a that are not in b (set difference a - b).
func Diff(a, b SlotSet) SlotSet {
	out := make(SlotSet, 0, len(a))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			j++
		default:
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return out
}

// SubsetOf reports whether every slot in a is also in b.
func SubsetOf(a, b SlotSet) bool {
	i, j := 0, 0
	for i < len(a) {
		if j >= len(b) {
			return false
		}
		switch {
		case a[i] < b[j]:
			return false
		case a[i] > b[j]:
			j++
		default:
			i++
			j++
		}
	}
	return true
}

// String renders s for debugging, e.g. "{$1, $2}".
func (s SlotSet) String() string {
	parts := make([]string, len(s))
	for i, x := range s {
		parts[i] = x.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
