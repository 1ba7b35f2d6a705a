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

// SlotSeq is an ordered sequence of slots that may contain duplicates; it
// backs an ENode's defs and uses, where position and repetition matter.
type SlotSeq []Slot

// NewSlotSeq builds a SlotSeq preserving order and duplicates.
func NewSlotSeq(ss ...Slot) SlotSeq {
	return append(SlotSeq(nil), ss...)
}

// Len returns the number of (possibly repeated) slots in q.
func (q SlotSeq) Len() int {
	return len(q)
}

// AsSet collapses q into its sorted, duplicate-free SlotSet.
func (q SlotSeq) AsSet() SlotSet {
	return NewSlotSet([]Slot(q)...)
}

// SeqEqual reports whether a and b are the same sequence, in the same order.
func SeqEqual(a, b SlotSeq) bool {
	return slices.Equal([]Slot(a), []Slot(b))
}

// Map applies f to every slot in q, preserving order and duplicates.
func (q SlotSeq) Map(f func(Slot) Slot) SlotSeq {
	out := make(SlotSeq, len(q))
	for i, s := range q {
		out[i] = f(s)
	}
	return out
}

// Contains reports whether x occurs anywhere in q.
func (q SlotSeq) Contains(x Slot) bool {
	return slices.Contains([]Slot(q), x)
}

// String renders q for debugging, e.g. "[$1, $2]".
func (q SlotSeq) String() string {
	parts := make([]string, len(q))
	for i, x := range q {
		parts[i] = x.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
