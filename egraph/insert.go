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
	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/enode"
	"github.com/slotted-egraph/egraph/parallelmap"
	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/slotmap"
)

// AddResult distinguishes a freshly-created class from a lookup hit.
type AddResult int

const (
	// Added means the node created a new class.
	Added AddResult = iota
	// AlreadyThere means the node's canonical shape was already hash-consed.
	AlreadyThere
)

// AddOutcome is the per-node result of TryAddMany.
type AddOutcome struct {
	Result AddResult
	Call   classref.EClassCall
}

// TryAddMany inserts every node, mutating the engine so every returned call
// is valid (spec §4.5, §6 "tryAddMany"). Argument pre-canonicalization runs
// through pm, which may execute sequentially or in parallel with no change
// in outcome (spec §5).
func (e *Engine[O]) TryAddMany(nodes []enode.ENode[O], pm parallelmap.ParallelMap) ([]AddOutcome, error) {
	if pm == nil {
		pm = parallelmap.NewSequential()
	}
	type prepared struct {
		best variant[O]
		ties []variant[O]
	}
	results, err := pm.Apply(len(nodes), func(i int) (any, error) {
		variants, err := e.enumerateVariants(nodes[i])
		if err != nil {
			return nil, err
		}
		best, ties := bestVariant(variants)
		return prepared{best: best, ties: ties}, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]AddOutcome, len(nodes))
	for i, r := range results {
		p := r.(prepared)
		outcome, err := e.insertOne(p.best, p.ties)
		if err != nil {
			return nil, err
		}
		out[i] = outcome
	}
	return out, nil
}

// Add is a single-node convenience wrapper around TryAddMany.
func (e *Engine[O]) Add(node enode.ENode[O]) (AddOutcome, error) {
	out, err := e.TryAddMany([]enode.ENode[O]{node}, nil)
	if err != nil {
		return AddOutcome{}, err
	}
	return out[0], nil
}

// insertOne performs hashcons lookup-or-insert for one already-canonicalized
// variant, mutating the engine (spec §4.5 steps 3–5).
func (e *Engine[O]) insertOne(best variant[O], ties []variant[O]) (AddOutcome, error) {
	invBij, err := best.bij.Inverse()
	if err != nil {
		return AddOutcome{}, err
	}

	if ref, ok := e.hc.Lookup(best.node); ok {
		cd := e.classes[ref]
		existing := cd.nodes[best.node.Key()]
		e.propagateSymmetry(cd, existing.renaming, best, ties)

		inv, err := existing.renaming.Inverse()
		if err != nil {
			return AddOutcome{}, err
		}
		args := inv.ComposeRetain(invBij).FilterKeys(cd.slots.Contains)
		return AddOutcome{Result: AlreadyThere, Call: classref.EClassCall{Ref: ref, Args: args}}, nil
	}

	classSlots := best.node.SlotSet()
	freshBij := slotmap.FreshBijection(classSlots, e.gen)
	realClassSlots := freshBij.ValueSet()

	rootCall := e.uf.Add(realClassSlots)
	cd := newClassData[O](realClassSlots)
	cd.nodes[best.node.Key()] = nodeEntry[O]{shape: best.node, renaming: freshBij}
	e.classes[rootCall.Ref] = cd
	e.hc.Insert(best.node, rootCall.Ref)

	for _, a := range best.node.Args {
		if argCD, ok := e.classes[a.Ref]; ok {
			argCD.users[best.node.Key()] = best.node
		}
	}

	e.propagateSymmetry(cd, freshBij, best, ties)

	inv, err := freshBij.Inverse()
	if err != nil {
		return AddOutcome{}, err
	}
	callArgs := inv.ComposeRetain(invBij)
	return AddOutcome{Result: Added, Call: classref.EClassCall{Ref: rootCall.Ref, Args: callArgs}}, nil
}

// extToClass derives the "real, original-call slot -> class slot"
// correspondence implied by one variant's bijection (real -> shape
// placeholder), composed through classRenaming (shape placeholder -> class
// slot, or a redundant slot local to the shape if classRenaming maps it
// outside the class's current signature), restricted to the class's
// currently exposed slots. The restriction must happen after composing
// through classRenaming: bij's own values are placeholders, not class
// slots, so filtering on bij's raw value before composing would filter on
// the wrong space (a placeholder accidentally sharing a numeric id with a
// class slot) and discard almost everything.
func extToClass(bij slotmap.SlotMap, classSlots slot.SlotSet, classRenaming slotmap.SlotMap) slotmap.SlotMap {
	composed := bij.ComposeRetain(classRenaming)
	return composed.FilterKeys(func(s slot.Slot) bool {
		v, _ := composed.Get(s)
		return classSlots.Contains(v)
	})
}

// propagateSymmetry compares every tie's implied class-slot correspondence
// against best's, adding any discrepancy as a newly-discovered permutation
// of cd (spec §4.5 step 5, "for every compatible-variant equality found
// during step 2"). Ties come only from enumerating one insertion's own
// argument-permutation combinations; cross-call discrepancies (the same
// shape reached through two separately-canonicalized calls) are instead
// discovered by unionMany's unify step when the caller unions them (spec
// §4.6a) — see DESIGN.md.
func (e *Engine[O]) propagateSymmetry(cd *classData[O], classRenaming slotmap.SlotMap, best variant[O], ties []variant[O]) {
	extBest := extToClass(best.bij, cd.slots, classRenaming)
	invBest, err := extBest.Inverse()
	if err != nil {
		return
	}
	for _, t := range ties {
		extT := extToClass(t.bij, cd.slots, classRenaming)
		perm := invBest.ComposeRetain(extT)
		if newGroup, added := cd.permutations.TryAddSet([]slotmap.SlotMap{perm}); added {
			cd.permutations = newGroup
		}
	}
}
