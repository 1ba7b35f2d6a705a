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

package tree

import (
	"testing"

	"github.com/slotted-egraph/egraph/slot"
)

type testOp int

func (o testOp) Less(other testOp) bool  { return o < other }
func (o testOp) Equal(other testOp) bool { return o == other }

func TestAtomRoundTrip(t *testing.T) {
	leaf := NewAtom[testOp, int](42)
	if !leaf.IsAtom() {
		t.Fatalf("IsAtom() = false, want true")
	}
	v, ok := leaf.Atom()
	if !ok || v != 42 {
		t.Errorf("Atom() = (%v, %v), want (42, true)", v, ok)
	}
}

func TestNodeHoldsChildrenAndSlots(t *testing.T) {
	leaf := NewAtom[testOp, int](1)
	n := NewNode[testOp, int](0, slot.NewSlotSeq(1), slot.NewSlotSeq(2, 3), leaf, leaf)
	if n.IsAtom() {
		t.Fatalf("IsAtom() = true, want false")
	}
	if len(n.Children()) != 2 {
		t.Errorf("len(Children()) = %d, want 2", len(n.Children()))
	}
	if !slot.SeqEqual(n.Uses(), slot.NewSlotSeq(2, 3)) {
		t.Errorf("Uses() = %v, want [2, 3]", n.Uses())
	}
}

func TestAtomOnNodeFieldsIsZero(t *testing.T) {
	n := NewNode[testOp, int](0, nil, nil)
	v, ok := n.Atom()
	if ok || v != 0 {
		t.Errorf("Atom() on a Node = (%v, %v), want (0, false)", v, ok)
	}
}
