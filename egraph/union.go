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
	"golang.org/x/exp/slices"

	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/enode"
	"github.com/slotted-egraph/egraph/internal/dbg"
	"github.com/slotted-egraph/egraph/parallelmap"
	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/slotmap"
)

// Pair is one requested union: l and r must denote the same value (spec §6
// "unionMany").
type Pair struct {
	L, R classref.EClassCall
}

// Equivalence is one group of previously-distinct classes that became a
// single class during a UnionMany call, reported as each original class's
// post-union canonical call (spec §4.6 "Output equivalences").
type Equivalence struct {
	Root  classref.EClassRef
	Calls []classref.EClassCall
}

// worklist is the single dirty-node queue the union algorithm drains (spec
// §9 "Union worklist": "a single queue of dirty nodes is simplest and
// sufficient; separate shrink and repair queues create race conditions").
// Pending unify requests and dirty node-shapes share one loop: unify can
// enqueue dirty shapes (repair candidates), and repair can enqueue further
// unify requests or re-dirty shapes (after a shrink). Dirty shapes are
// deduplicated by key; pending unify requests are queued in order as given,
// without deduplication.
type worklist[O enode.Op[O]] struct {
	pending []Pair
	dirty   map[string]enode.ENode[O]
	touched map[classref.EClassRef]bool
}

func newWorklist[O enode.Op[O]]() *worklist[O] {
	return &worklist[O]{dirty: make(map[string]enode.ENode[O])}
}

func (w *worklist[O]) addPending(l, r classref.EClassCall) {
	w.pending = append(w.pending, Pair{L: l, R: r})
}

func (w *worklist[O]) addDirty(shape enode.ENode[O]) {
	w.dirty[shape.Key()] = shape
}

func (w *worklist[O]) touch(ref classref.EClassRef) {
	if w.touched == nil {
		w.touched = make(map[classref.EClassRef]bool)
	}
	w.touched[ref] = true
}

func (w *worklist[O]) popDirty() (enode.ENode[O], bool) {
	for k, shape := range w.dirty {
		delete(w.dirty, k)
		return shape, true
	}
	var zero enode.ENode[O]
	return zero, false
}

// UnionMany unions every pair, mutating the engine so every touched class
// converges to a single congruence-closed, symmetry-complete representative
// (spec §4.6, §6 "unionMany"). The returned Equivalence groups are
// set-semantic: order of pairs does not affect the final partition (spec
// §5).
func (e *Engine[O]) UnionMany(pairs []Pair, pm parallelmap.ParallelMap) ([]Equivalence, error) {
	if pm == nil {
		pm = parallelmap.NewSequential()
	}
	w := newWorklist[O]()
	for _, p := range pairs {
		w.addPending(p.L, p.R)
	}

	for len(w.pending) > 0 || len(w.dirty) > 0 {
		for len(w.pending) > 0 {
			p := w.pending[0]
			w.pending = w.pending[1:]
			if err := e.unify(p.L, p.R, w); err != nil {
				return nil, err
			}
		}
		if shape, ok := w.popDirty(); ok {
			if err := e.repairNode(shape, w); err != nil {
				return nil, err
			}
		}
	}

	e.unlinkEmptyClasses()
	return e.buildEquivalences(w)
}

// Union is a single-pair convenience wrapper around UnionMany.
func (e *Engine[O]) Union(l, r classref.EClassCall) ([]Equivalence, error) {
	return e.UnionMany([]Pair{{L: l, R: r}}, nil)
}

// unify is worklist primitive (a) (spec §4.6a): canonicalize both sides; if
// they already resolve to the same root under the same argument map, this is
// a no-op (spec §8 "union(a, a) is a no-op"). If they resolve to the same
// root under different argument maps, the discrepancy is a new symmetry of
// that one class. If they resolve to different roots, shrink whichever
// exposes slots the other does not, or — once their slot sets agree — merge
// the two roots (mergeRoots decides which one survives).
func (e *Engine[O]) unify(l, r classref.EClassCall, w *worklist[O]) error {
	lc, err := e.uf.FindOrNullCall(l)
	if err != nil {
		return err
	}
	rc, err := e.uf.FindOrNullCall(r)
	if err != nil {
		return err
	}

	if lc.Ref == rc.Ref {
		if slotmap.Equal(lc.Args, rc.Args) {
			return nil
		}
		return e.recordSelfPermutation(lc, rc, w)
	}

	w.touch(lc.Ref)
	w.touch(rc.Ref)

	extL := lc.Args.ValueSet()
	extR := rc.Args.ValueSet()
	if !slot.Equal(extL, extR) {
		common := slot.Intersect(extL, extR)
		if err := e.shrinkToExternalFrame(lc, common, w); err != nil {
			return err
		}
		if err := e.shrinkToExternalFrame(rc, common, w); err != nil {
			return err
		}
		// The shrunk class's identity changed; re-resolve on the next pass.
		w.addPending(l, r)
		return nil
	}

	return e.mergeRoots(lc, rc, w)
}

// recordSelfPermutation handles the "roots agree, argument maps differ"
// branch of unify: the discrepancy between lc.Args and rc.Args (both
// root-slots -> caller frame) pulls back, through lc.Args, to a permutation
// of the root's own slots (spec §4.6a). When that pullback is not a clean
// permutation of the class's slots — some slot's image escapes the class's
// own slot set, or two slots collapse onto the same image — the offending
// slots cannot be reconciled as parameters and must be eliminated instead
// (spec §8 "Slot elimination", "Orbit-induced elimination"): S3's
// `add(uses=[x])` and `add(uses=[y])` unioned is the paradigm case, where the
// class's one parameter slot pulls back to a caller-side slot the class does
// not expose and so cannot survive as a parameter at all.
func (e *Engine[O]) recordSelfPermutation(lc, rc classref.EClassCall, w *worklist[O]) error {
	cd, ok := e.classes[lc.Ref]
	if !ok {
		return nil
	}
	invL, err := lc.Args.Inverse()
	if err != nil {
		// lc.Args not a bijection: nothing to pull back cleanly; leave the
		// discrepancy unrecorded rather than guessing.
		return nil
	}
	perm := rc.Args.ComposeRetain(invL).FilterKeys(cd.slots.Contains)
	if perm.IsPermutation() {
		if newGroup, added := cd.permutations.TryAddSet([]slotmap.SlotMap{perm}); added {
			cd.permutations = newGroup
			for _, u := range cd.users {
				w.addDirty(u)
			}
		}
		return nil
	}
	return e.shrink(lc.Ref, consistentDomain(perm), w)
}

// consistentDomain returns the largest subset of perm's domain on which perm
// restricts to a self-contained injection: every kept key's image also lies
// in the subset, and no two kept keys share an image. The keys it drops are
// exactly the ones a degenerate self-permutation cannot reconcile — either
// their image escapes the domain entirely, or it collides with another kept
// key's image — and shrink expands their removal to the orbit of each under
// the class's current permutation group (spec §4.6c).
func consistentDomain(perm slotmap.SlotMap) slot.SlotSet {
	domain := perm.Keys()
	for {
		imageOf := make(map[slot.Slot]slot.Slot, domain.Len())
		counts := make(map[slot.Slot]int, domain.Len())
		for _, k := range domain.Slice() {
			v, _ := perm.Get(k)
			if !domain.Contains(v) {
				continue
			}
			imageOf[k] = v
			counts[v]++
		}
		next := make([]slot.Slot, 0, len(imageOf))
		for k, v := range imageOf {
			if counts[v] == 1 {
				next = append(next, k)
			}
		}
		narrowed := slot.NewSlotSet(next...)
		if slot.Equal(narrowed, domain) {
			return narrowed
		}
		domain = narrowed
	}
}

// shrinkToExternalFrame restricts call's class to the subset of its slots
// whose external image lies in target, then shrinks it (spec §4.6a "shrink
// the larger class first").
func (e *Engine[O]) shrinkToExternalFrame(call classref.EClassCall, target slot.SlotSet, w *worklist[O]) error {
	keep := call.Args.FilterKeys(func(s slot.Slot) bool {
		v, _ := call.Args.Get(s)
		return target.Contains(v)
	}).Keys()
	return e.shrink(call.Ref, keep, w)
}

// mergeRoots is worklist primitive (a)'s "different roots, same slot-set
// size" branch: merge the subordinate root into the dominant one (spec
// §4.6a). The lower-numbered ref is always kept as the dominant survivor;
// the sizes of the two classes are not consulted.
func (e *Engine[O]) mergeRoots(lc, rc classref.EClassCall, w *worklist[O]) error {
	domCall, subCall := lc, rc
	if subCall.Ref < domCall.Ref {
		domCall, subCall = subCall, domCall
	}
	domData, ok := e.classes[domCall.Ref]
	if !ok {
		return nil
	}
	subData, ok := e.classes[subCall.Ref]
	if !ok {
		return nil
	}

	invDom, err := domCall.Args.Inverse()
	if err != nil {
		return err
	}
	// sub.slots -> external (subCall.Args), then external -> dom.slots
	// (invDom): sub.slots -> dom.slots.
	mapping := subCall.Args.ComposeRetain(invDom)

	e.uf.Update(subCall.Ref, classref.EClassCall{Ref: domCall.Ref, Args: mapping})

	for key, entry := range subData.nodes {
		newRenaming := entry.renaming.ComposeFresh(mapping, e.gen)
		domData.nodes[key] = nodeEntry[O]{shape: entry.shape, renaming: newRenaming}
		e.hc.Insert(entry.shape, domCall.Ref)
	}
	for key, shape := range subData.users {
		domData.users[key] = shape
		w.addDirty(shape)
	}
	for _, shape := range domData.users {
		w.addDirty(shape)
	}

	if renamedGens := renamePerms(subData.permutations.Generators(), mapping); len(renamedGens) > 0 {
		if newGroup, added := domData.permutations.TryAddSet(renamedGens); added {
			domData.permutations = newGroup
		}
	}

	subData.nodes = make(map[string]nodeEntry[O])
	subData.users = make(map[string]enode.ENode[O])

	dbg.Print("merge %s <- %s via %s", domCall.Ref, subCall.Ref, mapping)
	return nil
}

// renamePerms conjugates every generator by mapping (sub.slots -> dom.slots),
// leaving unchanged any slot a map has no entry for (ComposeRetain) so a
// generator narrower than mapping's domain still renames the part that
// applies.
func renamePerms(gens []slotmap.SlotMap, mapping slotmap.SlotMap) []slotmap.SlotMap {
	out := make([]slotmap.SlotMap, 0, len(gens))
	inv, err := mapping.Inverse()
	if err != nil {
		return nil
	}
	for _, g := range gens {
		out = append(out, inv.ComposeRetain(g).ComposeRetain(mapping))
	}
	return out
}

// repairNode is worklist primitive (b) (spec §4.6b): re-canonicalize shape
// in the current graph and reconcile the result with whatever class
// currently owns it.
func (e *Engine[O]) repairNode(shape enode.ENode[O], w *worklist[O]) error {
	ref, ok := e.hc.Lookup(shape)
	if !ok {
		// Already superseded by an earlier repair this batch.
		return nil
	}
	cd, ok := e.classes[ref]
	if !ok {
		return nil
	}
	oldKey := shape.Key()
	oldEntry, ok := cd.nodes[oldKey]
	if !ok {
		return nil
	}

	variants, err := e.enumerateVariants(shape)
	if err != nil {
		return err
	}
	best, ties := bestVariant(variants)

	// best.bij maps shape's own slots to the new canonical placeholders;
	// its inverse (placeholders -> shape's own slots) composed with
	// oldEntry.renaming (shape's own slots -> class slots) gives the new
	// placeholders -> class-slots renaming to store, mirroring
	// CanonicalizeNode's own Renaming derivation.
	invBest, err := best.bij.Inverse()
	if err != nil {
		return err
	}
	candidateRenaming := invBest.ComposeRetain(oldEntry.renaming)
	newKey := best.node.Key()

	if best.node.Equal(shape) && slotmap.Equal(candidateRenaming, oldEntry.renaming) {
		return nil
	}

	if otherRef, ok := e.hc.Lookup(best.node); ok && otherRef != ref {
		invCandidate, err := candidateRenaming.Inverse()
		if err != nil {
			return err
		}
		otherEntry := e.classes[otherRef].nodes[newKey]
		invOther, err := otherEntry.renaming.Inverse()
		if err != nil {
			return err
		}
		delete(cd.nodes, oldKey)
		e.hc.Delete(shape)
		w.touch(ref)
		w.touch(otherRef)
		w.addPending(
			classref.EClassCall{Ref: ref, Args: invCandidate},
			classref.EClassCall{Ref: otherRef, Args: invOther},
		)
		return nil
	}

	delete(cd.nodes, oldKey)
	if oldKey != newKey {
		e.hc.Delete(shape)
	}
	e.hc.Insert(best.node, ref)
	cd.nodes[newKey] = nodeEntry[O]{shape: best.node, renaming: candidateRenaming}

	e.propagateSymmetry(cd, candidateRenaming, best, ties)

	used := classUsedSlots(cd)
	if !slot.Equal(used, cd.slots) {
		return e.shrink(ref, used, w)
	}
	return nil
}

// classUsedSlots computes the union, across every node currently in cd, of
// the node's renaming values that lie within cd's currently exposed slots
// (spec §8 invariant 3). Values outside cd.slots are an entry's own
// redundant, class-local slots and are not part of the exposed signature.
func classUsedSlots[O enode.Op[O]](cd *classData[O]) slot.SlotSet {
	used := slot.SlotSet(nil)
	for _, entry := range cd.nodes {
		used = slot.Union(used, slot.Intersect(entry.renaming.ValueSet(), cd.slots))
	}
	return used
}

// shrink is worklist primitive (c) (spec §4.6c): restrict ref's class to
// newSlots, expanded by the orbit of every eliminated slot under the
// class's current permutation group (an eliminated slot drags its whole
// orbit down with it, since the group asserts those positions are
// interchangeable).
func (e *Engine[O]) shrink(ref classref.EClassRef, newSlots slot.SlotSet, w *worklist[O]) error {
	cd, ok := e.classes[ref]
	if !ok {
		return nil
	}
	eliminated := slot.Diff(cd.slots, newSlots)
	if eliminated.Len() == 0 {
		return nil
	}
	orbitClosure := slot.SlotSet(nil)
	for _, s := range eliminated {
		orbitClosure = slot.Union(orbitClosure, slot.Intersect(cd.permutations.Orbit(s), cd.slots))
	}
	finalSlots := slot.Diff(cd.slots, orbitClosure)

	idOverFinal := slotmap.Identity(finalSlots)
	for key, entry := range cd.nodes {
		cd.nodes[key] = nodeEntry[O]{
			shape:    entry.shape,
			renaming: entry.renaming.ComposeFresh(idOverFinal, e.gen),
		}
	}

	cd.permutations = cd.permutations.RestrictTo(finalSlots)
	cd.slots = finalSlots
	e.uf.Update(ref, classref.EClassCall{Ref: ref, Args: slotmap.Identity(finalSlots)})

	for _, u := range cd.users {
		w.addDirty(u)
	}
	dbg.Print("shrink %s to %s", ref, finalSlots)
	return nil
}

// unlinkEmptyClasses removes every class whose node set migrated away
// entirely during this batch from classData (spec §3 "Lifecycles", §4.6
// "Post-processing"). The union-find entry is left in place so stale
// callers still resolve correctly.
func (e *Engine[O]) unlinkEmptyClasses() {
	for ref, cd := range e.classes {
		if len(cd.nodes) == 0 {
			if isRoot, _ := e.uf.IsRoot(ref); !isRoot {
				delete(e.classes, ref)
			}
		}
	}
}

// buildEquivalences recovers, for every class touched during this batch, its
// post-union canonical call, and groups those by final root (spec §4.6
// "Output equivalences").
func (e *Engine[O]) buildEquivalences(w *worklist[O]) ([]Equivalence, error) {
	buckets := make(map[classref.EClassRef][]classref.EClassCall)
	order := make([]classref.EClassRef, 0, len(w.touched))
	for ref := range w.touched {
		// call is ref's own canonical call: {Ref: finalRoot, Args: root's
		// current slots -> ref's own original slots}, i.e. ref's class
		// viewed through ref's own naming (spec §4.6 "recover its
		// post-union canonical call").
		call, err := e.uf.FindOrNull(ref)
		if err != nil {
			continue
		}
		if _, ok := buckets[call.Ref]; !ok {
			order = append(order, call.Ref)
		}
		buckets[call.Ref] = append(buckets[call.Ref], call)
	}
	slices.Sort(order)
	var out []Equivalence
	for _, root := range order {
		calls := buckets[root]
		if len(calls) < 2 {
			continue
		}
		out = append(out, Equivalence{Root: root, Calls: calls})
	}
	return out, nil
}
