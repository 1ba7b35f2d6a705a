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

// Package sizeanalysis is a minimal reference metadata.Metadata
// implementation: it tracks, per canonical class, how many distinct e-node
// shapes the class currently owns. It exists to exercise the Metadata hook
// contract end to end, not to ship a real cost model.
package sizeanalysis

import (
	"sync"

	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/egraph"
	"github.com/slotted-egraph/egraph/enode"
	"github.com/slotted-egraph/egraph/metadata"
	"github.com/slotted-egraph/egraph/parallelmap"
)

// Tracker counts nodes per class as the engine mutates. Build one with New;
// the zero value has no count map and panics on its first OnAddMany or
// OnUnionMany.
type Tracker[O enode.Op[O]] struct {
	mu     sync.Mutex
	counts map[classref.EClassRef]int
}

// New returns an empty Tracker.
func New[O enode.Op[O]]() *Tracker[O] {
	return &Tracker[O]{counts: make(map[classref.EClassRef]int)}
}

// Count returns how many distinct shapes ref's class owned as of the last
// OnAddMany/OnUnionMany call, or 0 if ref has never been observed.
func (t *Tracker[O]) Count(ref classref.EClassRef) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[ref]
}

// OnAddMany increments the new class's count for every Added pair. added
// only ever lists genuinely new classes, so there is nothing to check here
// that CanonicalizeNode hasn't already decided.
func (t *Tracker[O]) OnAddMany(added []metadata.Added[O], graph *egraph.Engine[O], pm parallelmap.ParallelMap) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, a := range added {
		t.counts[a.Call.Ref]++
	}
	return nil
}

// OnUnionMany re-derives the surviving root's count directly from the live
// engine rather than trying to fold counts across the equivalence groups:
// equivalences partitions EClassCall values (spec §6 "onUnionMany
// (equivalences, graphAfter)"), and every member of one group already
// shares the same Ref, so the group itself carries no record of which Refs
// were distinct before the union. graphAfter lets the tracker recount the
// merged class's current node set directly.
//
// Count(ref) for a ref that the union folded into some other class still
// returns its last count from before the merge, not the merged total: ask
// graphAfter.Canonicalize(ref) for the surviving root first if the current
// merged count is what's wanted. There is no way to evict those stale
// entries from here, since equivalences never reports which ref used to
// name the class before the merge.
func (t *Tracker[O]) OnUnionMany(equivalences []egraph.Equivalence, graph *egraph.Engine[O]) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, eq := range equivalences {
		root, err := graph.Canonicalize(eq.Root)
		if err != nil {
			return err
		}
		nodes, err := graph.Nodes(root)
		if err != nil {
			return err
		}
		t.counts[eq.Root] = len(nodes)
	}
	return nil
}

// Emptied returns a fresh Tracker with no observed classes.
func (t *Tracker[O]) Emptied() metadata.Metadata[O] {
	return New[O]()
}
