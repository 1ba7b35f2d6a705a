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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSlotSetDedupesAndSorts(t *testing.T) {
	got := NewSlotSet(3, 1, 2, 1, 3)
	want := SlotSet{1, 2, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewSlotSet(3,1,2,1,3) mismatch (-want +got):\n%s", diff)
	}
}

func TestSlotSetContains(t *testing.T) {
	s := NewSlotSet(1, 3, 5)
	for _, tt := range []struct {
		x    Slot
		want bool
	}{
		{1, true}, {3, true}, {5, true},
		{0, false}, {2, false}, {6, false},
	} {
		if got := s.Contains(tt.x); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestSlotSetInsertRemove(t *testing.T) {
	s := NewSlotSet(1, 3)
	s2 := s.Insert(2)
	if diff := cmp.Diff(SlotSet{1, 2, 3}, s2); diff != "" {
		t.Errorf("Insert(2) mismatch (-want +got):\n%s", diff)
	}
	// Original set must be unaffected (no aliasing).
	if diff := cmp.Diff(SlotSet{1, 3}, s); diff != "" {
		t.Errorf("original set mutated by Insert (-want +got):\n%s", diff)
	}
	s3 := s2.Remove(2)
	if diff := cmp.Diff(SlotSet{1, 3}, s3); diff != "" {
		t.Errorf("Remove(2) mismatch (-want +got):\n%s", diff)
	}
	if got := s2.Remove(99); !Equal(got, s2) {
		t.Errorf("Remove of absent slot changed the set: %v", got)
	}
}

func TestUnionIntersectDiff(t *testing.T) {
	a := NewSlotSet(1, 2, 3)
	b := NewSlotSet(2, 3, 4)

	if diff := cmp.Diff(SlotSet{1, 2, 3, 4}, Union(a, b)); diff != "" {
		t.Errorf("Union mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(SlotSet{2, 3}, Intersect(a, b)); diff != "" {
		t.Errorf("Intersect mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(SlotSet{1}, Diff(a, b)); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(SlotSet{4}, Diff(b, a)); diff != "" {
		t.Errorf("Diff(b,a) mismatch (-want +got):\n%s", diff)
	}
}

func TestSubsetOf(t *testing.T) {
	a := NewSlotSet(1, 2)
	b := NewSlotSet(1, 2, 3)
	if !SubsetOf(a, b) {
		t.Errorf("SubsetOf(%v, %v) = false, want true", a, b)
	}
	if SubsetOf(b, a) {
		t.Errorf("SubsetOf(%v, %v) = true, want false", b, a)
	}
	if !SubsetOf(NewSlotSet(), b) {
		t.Errorf("empty set must be a subset of everything")
	}
}

func TestUnionAll(t *testing.T) {
	got := UnionAll(NewSlotSet(1), NewSlotSet(2, 3), NewSlotSet(3, 4))
	if diff := cmp.Diff(SlotSet{1, 2, 3, 4}, got); diff != "" {
		t.Errorf("UnionAll mismatch (-want +got):\n%s", diff)
	}
}
