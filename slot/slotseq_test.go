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

func TestSlotSeqAsSet(t *testing.T) {
	q := NewSlotSeq(3, 1, 3, 2)
	if diff := cmp.Diff(SlotSet{1, 2, 3}, q.AsSet()); diff != "" {
		t.Errorf("AsSet mismatch (-want +got):\n%s", diff)
	}
}

func TestSlotSeqMapPreservesOrderAndDupes(t *testing.T) {
	q := NewSlotSeq(1, 1, 2)
	got := q.Map(func(s Slot) Slot { return s + 10 })
	want := SlotSeq{11, 11, 12}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}
}

func TestSeqEqual(t *testing.T) {
	if !SeqEqual(NewSlotSeq(1, 2), NewSlotSeq(1, 2)) {
		t.Errorf("identical sequences reported unequal")
	}
	if SeqEqual(NewSlotSeq(1, 2), NewSlotSeq(2, 1)) {
		t.Errorf("order-sensitive sequences reported equal despite different order")
	}
}

func TestSlotSeqContains(t *testing.T) {
	q := NewSlotSeq(5, 6, 7)
	if !q.Contains(6) {
		t.Errorf("Contains(6) = false, want true")
	}
	if q.Contains(8) {
		t.Errorf("Contains(8) = true, want false")
	}
}
