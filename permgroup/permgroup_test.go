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

package permgroup

import (
	"testing"

	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/slotmap"
)

func swap(a, b slot.Slot) slotmap.SlotMap {
	return slotmap.FromPairs(slotmap.Pair{Key: a, Value: b}, slotmap.Pair{Key: b, Value: a})
}

func TestTrivialGroup(t *testing.T) {
	g := New(slot.NewSlotSet(1, 2))
	if !g.IsTrivial() {
		t.Errorf("fresh group should be trivial")
	}
	if !g.Contains(g.Identity()) {
		t.Errorf("trivial group must contain identity")
	}
	if g.Contains(swap(1, 2)) {
		t.Errorf("trivial group must not contain a nontrivial swap")
	}
}

func TestTryAddSetSwap(t *testing.T) {
	g := New(slot.NewSlotSet(1, 2))
	g2, added := g.TryAddSet([]slotmap.SlotMap{swap(1, 2)})
	if !added {
		t.Fatalf("TryAddSet should report the swap as novel")
	}
	if g2.IsTrivial() {
		t.Errorf("group with the swap added should not be trivial")
	}
	if !g2.Contains(swap(1, 2)) {
		t.Errorf("group should contain the swap it was given")
	}
	if !g2.Contains(g2.Identity()) {
		t.Errorf("group should contain identity")
	}
}

func TestTryAddSetIdempotent(t *testing.T) {
	g := New(slot.NewSlotSet(1, 2))
	g2, added := g.TryAddSet([]slotmap.SlotMap{swap(1, 2)})
	if !added {
		t.Fatalf("setup: TryAddSet should add the swap")
	}
	if _, added := g2.TryAddSet(g2.Generators()); added {
		t.Errorf("TryAddSet(g.Generators()) should report no novel generator, got added=true")
	}
}

func TestOrbit(t *testing.T) {
	g := New(slot.NewSlotSet(1, 2, 3))
	g2, _ := g.TryAddSet([]slotmap.SlotMap{swap(1, 2)})
	if got := g2.Orbit(1); !slot.Equal(got, slot.NewSlotSet(1, 2)) {
		t.Errorf("Orbit(1) = %v, want {1,2}", got)
	}
	if got := g2.Orbit(3); !slot.Equal(got, slot.NewSlotSet(3)) {
		t.Errorf("Orbit(3) = %v, want {3} (untouched slot)", got)
	}
}

func TestAllPermsOfSymmetricGroupOnThreePoints(t *testing.T) {
	g := New(slot.NewSlotSet(1, 2, 3))
	cycle := slotmap.FromPairs(
		slotmap.Pair{Key: 1, Value: 2},
		slotmap.Pair{Key: 2, Value: 3},
		slotmap.Pair{Key: 3, Value: 1},
	)
	g2, _ := g.TryAddSet([]slotmap.SlotMap{swap(1, 2), cycle})
	perms := g2.AllPerms()
	if len(perms) != 6 {
		t.Fatalf("len(AllPerms()) = %d, want 6 (S_3)", len(perms))
	}
}

func TestContainsRejectsUnrelatedPermutation(t *testing.T) {
	g := New(slot.NewSlotSet(1, 2, 3))
	g2, _ := g.TryAddSet([]slotmap.SlotMap{swap(1, 2)})
	if g2.Contains(swap(2, 3)) {
		t.Errorf("group generated by swap(1,2) should not contain swap(2,3)")
	}
}

func TestRestrictTo(t *testing.T) {
	g := New(slot.NewSlotSet(1, 2, 3))
	g2, _ := g.TryAddSet([]slotmap.SlotMap{swap(1, 2)})
	restricted := g2.RestrictTo(slot.NewSlotSet(1))
	if !restricted.IsTrivial() {
		t.Errorf("restricting away slot 2 should leave only the trivial group over {1}")
	}
}
