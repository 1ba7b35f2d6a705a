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

package egraph

import (
	"testing"

	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/enode"
	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/slotmap"
)

func TestAddDeduplicatesIdenticalLeaf(t *testing.T) {
	e := New[testOp]()
	n := leaf()

	o1, err := e.Add(n)
	if err != nil {
		t.Fatalf("Add #1: %v", err)
	}
	if o1.Result != Added {
		t.Errorf("first Add = %v, want Added", o1.Result)
	}

	o2, err := e.Add(n)
	if err != nil {
		t.Fatalf("Add #2: %v", err)
	}
	if o2.Result != AlreadyThere {
		t.Errorf("second Add = %v, want AlreadyThere", o2.Result)
	}
	if o1.Call.Ref != o2.Call.Ref {
		t.Errorf("Add #1 and #2 landed in different classes: %v vs %v", o1.Call.Ref, o2.Call.Ref)
	}
}

// TestAddVariableSharesClassAcrossSlots exercises spec §8 S3's setup:
// var(x) and var(y) canonicalize to the identical placeholder shape
// var(uses=[$0]), so they hash-cons into one class, distinguished only by
// each call's own Args (uses=[x] vs uses=[y]) — not by AreSame, since the
// class has not been told x and y denote the same value yet.
func TestAddVariableSharesClassAcrossSlots(t *testing.T) {
	e := New[testOp]()
	x, y := slot.Fresh(), slot.Fresh()

	ox, err := e.Add(variable(x))
	if err != nil {
		t.Fatalf("Add(x): %v", err)
	}
	oy, err := e.Add(variable(y))
	if err != nil {
		t.Fatalf("Add(y): %v", err)
	}
	if ox.Call.Ref != oy.Call.Ref {
		t.Errorf("var(x) and var(y) landed in different classes: %v vs %v", ox.Call.Ref, oy.Call.Ref)
	}
	if e.AreSame(ox.Call, oy.Call) {
		t.Errorf("AreSame(var(x), var(y)) = true before any union asserted x == y")
	}
}

func TestUnionSameCallIsNoop(t *testing.T) {
	e := New[testOp]()
	o, err := e.Add(leaf())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	equivalences, err := e.Union(o.Call, o.Call)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	if len(equivalences) != 0 {
		t.Errorf("Union(c, c) reported %d equivalence group(s), want 0", len(equivalences))
	}
	if !e.AreSame(o.Call, o.Call) {
		t.Errorf("AreSame(c, c) = false")
	}
}

func TestUnionMergesTwoDistinctClasses(t *testing.T) {
	e := New[testOp]()
	a, err := e.Add(leaf())
	if err != nil {
		t.Fatalf("Add(leaf): %v", err)
	}
	other := enode.New[testOp](mulOp, nil, nil, nil)
	b, err := e.Add(other)
	if err != nil {
		t.Fatalf("Add(other): %v", err)
	}
	if a.Call.Ref == b.Call.Ref {
		t.Fatalf("setup: leaf and other already share a class")
	}

	equivalences, err := e.Union(a.Call, b.Call)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	if len(equivalences) != 1 {
		t.Fatalf("Union reported %d equivalence group(s), want 1", len(equivalences))
	}
	if got := len(equivalences[0].Calls); got != 2 {
		t.Errorf("equivalence group has %d call(s), want 2", got)
	}
	if !e.AreSame(a.Call, b.Call) {
		t.Errorf("AreSame(a, b) = false after Union(a, b)")
	}
}

func TestUsersTracksParent(t *testing.T) {
	e := New[testOp]()
	l, err := e.Add(leaf())
	if err != nil {
		t.Fatalf("Add(leaf): %v", err)
	}
	_, err = e.Add(binOp(addOp, l.Call, l.Call))
	if err != nil {
		t.Fatalf("Add(add(leaf,leaf)): %v", err)
	}

	users, err := e.Users(l.Call.Ref)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("len(Users) = %d, want 1", len(users))
	}
	if !users[0].Op.Equal(addOp) {
		t.Errorf("Users()[0].Op = %v, want addOp", users[0].Op)
	}
}

// TestSymmetryDiscoveredByUnionEnablesSharedHashcons exercises the
// self-permutation discovery path end to end: a two-slot leaf class is
// declared symmetric under swapping its two slots by unioning it with
// itself under a permuted argument map, and a subsequent insertion that
// wraps the class with its arguments swapped is shown to land in the same
// class as the unswapped wrapping, because the swap is now a known
// permutation of the argument class.
func TestSymmetryDiscoveredByUnionEnablesSharedHashcons(t *testing.T) {
	e := New[testOp]()
	s1, s2 := slot.Fresh(), slot.Fresh()
	pairNode := enode.New[testOp](addOp, nil, slot.NewSlotSeq(s1, s2), nil)

	pair, err := e.Add(pairNode)
	if err != nil {
		t.Fatalf("Add(pair): %v", err)
	}

	keys := pair.Call.Args.Keys().Slice()
	if len(keys) != 2 {
		t.Fatalf("pair class exposes %d slot(s), want 2", len(keys))
	}
	v0, _ := pair.Call.Args.Get(keys[0])
	v1, _ := pair.Call.Args.Get(keys[1])
	swappedArgs := slotmap.FromPairs(
		slotmap.Pair{Key: keys[0], Value: v1},
		slotmap.Pair{Key: keys[1], Value: v0},
	)
	swapped := classref.EClassCall{Ref: pair.Call.Ref, Args: swappedArgs}

	if _, err := e.Union(pair.Call, swapped); err != nil {
		t.Fatalf("Union(pair, swapped): %v", err)
	}

	wrap1, err := e.Add(enode.New[testOp](mulOp, nil, nil, []classref.EClassCall{pair.Call}))
	if err != nil {
		t.Fatalf("Add(wrap1): %v", err)
	}
	wrap2, err := e.Add(enode.New[testOp](mulOp, nil, nil, []classref.EClassCall{swapped}))
	if err != nil {
		t.Fatalf("Add(wrap2): %v", err)
	}
	if wrap1.Call.Ref != wrap2.Call.Ref {
		t.Errorf("wrap1 and wrap2 landed in different classes (%v vs %v): discovered symmetry was not honored", wrap1.Call.Ref, wrap2.Call.Ref)
	}
}

// TestUnionTriggersUpwardMerge exercises spec §8 S2: f(a) and f(b) start in
// distinct classes; unioning a's and b's classes must force f(a) and f(b)
// to merge too (congruence closure's upward merge), leaving a single node
// shape in the merged class.
func TestUnionTriggersUpwardMerge(t *testing.T) {
	e := New[testOp]()
	a, err := e.Add(enode.New[testOp](aOp, nil, nil, nil))
	if err != nil {
		t.Fatalf("Add(a): %v", err)
	}
	b, err := e.Add(enode.New[testOp](bOp, nil, nil, nil))
	if err != nil {
		t.Fatalf("Add(b): %v", err)
	}

	f1, err := e.Add(unaryOp(fOp, a.Call))
	if err != nil {
		t.Fatalf("Add(f(a)): %v", err)
	}
	f2, err := e.Add(unaryOp(fOp, b.Call))
	if err != nil {
		t.Fatalf("Add(f(b)): %v", err)
	}
	if f1.Call.Ref == f2.Call.Ref {
		t.Fatalf("setup: f(a) and f(b) already share a class")
	}

	if _, err := e.Union(a.Call, b.Call); err != nil {
		t.Fatalf("Union(a, b): %v", err)
	}

	if !e.AreSame(f1.Call, f2.Call) {
		t.Errorf("AreSame(f(a), f(b)) = false after Union(a, b): upward merge did not fire")
	}
	nodes, err := e.Nodes(f1.Call)
	if err != nil {
		t.Fatalf("Nodes(f1): %v", err)
	}
	if len(nodes) != 1 {
		t.Errorf("Nodes(f1) has %d shape(s) after merge, want 1", len(nodes))
	}
}

// TestSymmetryDiscoveredByUnionOnAdd exercises spec §8 S4: two separate Add
// calls for the same operator with its two uses in opposite order land in
// one class (first-occurrence placeholder assignment already normalizes
// them to the same shape) with different argument maps; unioning those two
// calls records the x<->y swap as a permutation, and a subsequent wrapper
// node built over either ordering lands in the same class.
func TestSymmetryDiscoveredByUnionOnAdd(t *testing.T) {
	e := New[testOp]()
	x, y := slot.Fresh(), slot.Fresh()

	a, err := e.Add(enode.New[testOp](addOp, nil, slot.NewSlotSeq(x, y), nil))
	if err != nil {
		t.Fatalf("Add(uses=[x,y]): %v", err)
	}
	b, err := e.Add(enode.New[testOp](addOp, nil, slot.NewSlotSeq(y, x), nil))
	if err != nil {
		t.Fatalf("Add(uses=[y,x]): %v", err)
	}
	if a.Call.Ref != b.Call.Ref {
		t.Fatalf("setup: uses=[x,y] and uses=[y,x] landed in different classes")
	}

	if _, err := e.Union(a.Call, b.Call); err != nil {
		t.Fatalf("Union(a, b): %v", err)
	}

	wrap1, err := e.Add(unaryOp(mulOp, a.Call))
	if err != nil {
		t.Fatalf("Add(wrap1): %v", err)
	}
	wrap2, err := e.Add(unaryOp(mulOp, b.Call))
	if err != nil {
		t.Fatalf("Add(wrap2): %v", err)
	}
	if wrap1.Call.Ref != wrap2.Call.Ref {
		t.Errorf("wrap1 and wrap2 landed in different classes (%v vs %v): discovered x<->y symmetry was not honored", wrap1.Call.Ref, wrap2.Call.Ref)
	}
}

// TestTryAddManyDedupsHundredEquivalentNodes exercises spec §8 S5: a single
// batch carrying 100 copies of the same node must produce exactly one
// Added outcome and 99 AlreadyThere outcomes, and the graph ends up with
// exactly one class, regardless of the batch's internal processing order.
func TestTryAddManyDedupsHundredEquivalentNodes(t *testing.T) {
	e := New[testOp]()
	n := variable(slot.Fresh())
	nodes := make([]enode.ENode[testOp], 100)
	for i := range nodes {
		nodes[i] = n
	}

	outcomes, err := e.TryAddMany(nodes, nil)
	if err != nil {
		t.Fatalf("TryAddMany: %v", err)
	}
	var added, already int
	for _, o := range outcomes {
		switch o.Result {
		case Added:
			added++
		case AlreadyThere:
			already++
		}
	}
	if added != 1 {
		t.Errorf("Added count = %d, want 1", added)
	}
	if already != 99 {
		t.Errorf("AlreadyThere count = %d, want 99", already)
	}
	if got := len(e.Classes()); got != 1 {
		t.Errorf("Classes() = %d, want 1", got)
	}
}

// TestUnionEliminatesSubtractedSlot exercises spec §8 S6: Minus(Var(x),
// Var(x)) unioned with a distinct zero-arg constant proves x redundant, so
// the subtraction class's canonical call ends up exposing no slots at all.
func TestUnionEliminatesSubtractedSlot(t *testing.T) {
	e := New[testOp]()
	x := slot.Fresh()

	vx, err := e.Add(variable(x))
	if err != nil {
		t.Fatalf("Add(var(x)): %v", err)
	}
	sub, err := e.Add(binOp(subOp, vx.Call, vx.Call))
	if err != nil {
		t.Fatalf("Add(sub(x,x)): %v", err)
	}
	if keys := sub.Call.Args.Keys().Slice(); len(keys) != 1 {
		t.Fatalf("setup: sub(x,x) class exposes %d slot(s), want 1", len(keys))
	}

	zero, err := e.Add(enode.New[testOp](zeroOp, nil, nil, nil))
	if err != nil {
		t.Fatalf("Add(zero): %v", err)
	}

	if _, err := e.Union(sub.Call, zero.Call); err != nil {
		t.Fatalf("Union(sub, zero): %v", err)
	}

	canon, err := e.Canonicalize(sub.Call.Ref)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got := canon.Args.Len(); got != 0 {
		t.Errorf("sub(x,x) class exposes %d slot(s) after unioning with zero, want 0", got)
	}
}

// TestUnionEliminatesWholeOrbit exercises spec §8's "Orbit-induced
// elimination" boundary: a class with a discovered x<->y swap symmetry,
// unioned with a class whose node mentions only x, must drop both x and y
// (the whole orbit), not merely x.
func TestUnionEliminatesWholeOrbit(t *testing.T) {
	e := New[testOp]()
	x, y := slot.Fresh(), slot.Fresh()
	pairNode := enode.New[testOp](addOp, nil, slot.NewSlotSeq(x, y), nil)

	pair, err := e.Add(pairNode)
	if err != nil {
		t.Fatalf("Add(pair): %v", err)
	}
	keys := pair.Call.Args.Keys().Slice()
	if len(keys) != 2 {
		t.Fatalf("pair class exposes %d slot(s), want 2", len(keys))
	}
	v0, _ := pair.Call.Args.Get(keys[0])
	v1, _ := pair.Call.Args.Get(keys[1])
	swappedArgs := slotmap.FromPairs(
		slotmap.Pair{Key: keys[0], Value: v1},
		slotmap.Pair{Key: keys[1], Value: v0},
	)
	swapped := classref.EClassCall{Ref: pair.Call.Ref, Args: swappedArgs}
	if _, err := e.Union(pair.Call, swapped); err != nil {
		t.Fatalf("Union(pair, swapped): %v", err)
	}

	single, err := e.Add(variable(x))
	if err != nil {
		t.Fatalf("Add(var(x)): %v", err)
	}

	if _, err := e.Union(pair.Call, single.Call); err != nil {
		t.Fatalf("Union(pair, single): %v", err)
	}

	canon, err := e.Canonicalize(pair.Call.Ref)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got := canon.Args.Len(); got != 0 {
		t.Errorf("pair class exposes %d slot(s) after orbit elimination, want 0", got)
	}
}
