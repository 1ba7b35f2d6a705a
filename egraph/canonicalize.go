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
	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/slotmap"
)

// buildShape assigns canonical placeholder slots to node in order of first
// occurrence — defs, then uses, then each argument's renaming values taken
// in the argument's own sorted-key order — and renames node through the
// resulting bijection. Two structurally-equivalent nodes (same operator,
// same slot-occurrence pattern) always produce an identical shape,
// regardless of which real Slot values they happened to use, which is what
// lets HashCons recognize them as the same e-node (spec §3 "Canonical
// shape"). The returned SlotMap maps node's own occurring slots to their
// assigned placeholders; its inverse is the ShapeCall.Renaming.
func buildShape[O enode.Op[O]](node enode.ENode[O]) (enode.ENode[O], slotmap.SlotMap) {
	next := slot.Slot(0)
	assigned := make(map[slot.Slot]slot.Slot)
	var pairs []slotmap.Pair
	assign := func(s slot.Slot) {
		if _, ok := assigned[s]; ok {
			return
		}
		assigned[s] = next
		pairs = append(pairs, slotmap.Pair{Key: s, Value: next})
		next++
	}
	for _, d := range node.Defs {
		assign(d)
	}
	for _, u := range node.Uses {
		assign(u)
	}
	for _, a := range node.Args {
		for _, k := range a.Args.Keys().Slice() {
			v, _ := a.Args.Get(k)
			assign(v)
		}
	}
	bij := slotmap.FromPairs(pairs...)
	return node.Rename(bij), bij
}

// variant is one combination of per-argument permutation choices considered
// while canonicalizing an insertion (spec §4.5 step 2).
type variant[O enode.Op[O]] struct {
	node enode.ENode[O]
	bij  slotmap.SlotMap // node's own occurring slots -> placeholders, this combo
}

// enumerateVariants canonicalizes node's arguments to union-find roots, then
// produces every combination of (argRef, perm ∘ argRenaming) across each
// argument's current permutation group, building the resulting shape for
// each. An argument whose ref has no class data is treated as having the
// trivial group.
func (e *Engine[O]) enumerateVariants(node enode.ENode[O]) ([]variant[O], error) {
	canonArgs := make([]classref.EClassCall, len(node.Args))
	for i, a := range node.Args {
		root, err := e.uf.FindOrNullCall(a)
		if err != nil {
			return nil, err
		}
		canonArgs[i] = root
	}
	base := enode.New(node.Op, node.Defs, node.Uses, canonArgs)

	choices := make([][]slotmap.SlotMap, len(canonArgs))
	for i, a := range canonArgs {
		cd, ok := e.classes[a.Ref]
		if !ok || cd.permutations.IsTrivial() {
			choices[i] = []slotmap.SlotMap{slotmap.Identity(a.Args.Keys())}
			continue
		}
		choices[i] = cd.permutations.AllPerms()
		if len(choices[i]) == 0 {
			choices[i] = []slotmap.SlotMap{slotmap.Identity(a.Args.Keys())}
		}
	}

	var out []variant[O]
	combos := cartesian(choices)
	for _, combo := range combos {
		args := make([]classref.EClassCall, len(canonArgs))
		for i, pi := range combo {
			// Group elements list only the slots they move; extend pi over the
			// argument's full key set so unmoved slots are kept.
			full := slotmap.Identity(canonArgs[i].Args.Keys()).ComposeRetain(pi)
			args[i] = classref.EClassCall{Ref: canonArgs[i].Ref, Args: full.ComposeRetain(canonArgs[i].Args)}
		}
		candidate := enode.New(base.Op, base.Defs, base.Uses, args)
		shape, bij := buildShape(candidate)
		out = append(out, variant[O]{node: shape, bij: bij})
	}
	return out, nil
}

// cartesian returns every combination choosing one element from each slice
// in choices, in the order built. Empty input (no arguments) yields a
// single empty combination.
func cartesian(choices [][]slotmap.SlotMap) [][]slotmap.SlotMap {
	combos := [][]slotmap.SlotMap{{}}
	for _, options := range choices {
		var next [][]slotmap.SlotMap
		for _, combo := range combos {
			for _, opt := range options {
				appended := append(append([]slotmap.SlotMap(nil), combo...), opt)
				next = append(next, appended)
			}
		}
		combos = next
	}
	return combos
}

// bestVariant picks the variant whose original-to-placeholder bijection
// (bij) is smallest under slotmap.Compare (spec §4.5 step 2, "select the
// variant whose shape.slotSet is lexicographically minimal"), along with
// the set of other variants that tie with it exactly in shape (used for
// symmetry propagation).
func bestVariant[O enode.Op[O]](variants []variant[O]) (variant[O], []variant[O]) {
	best := variants[0]
	for _, v := range variants[1:] {
		if slotmap.Compare(v.bij, best.bij) < 0 {
			best = v
		}
	}
	var ties []variant[O]
	for _, v := range variants {
		if v.node.Equal(best.node) {
			ties = append(ties, v)
		}
	}
	return best, ties
}

// CanonicalizeNode computes node's canonical ShapeCall without mutating the
// engine: the winning variant's shape together with the renaming back to
// node's own slots (spec §6 "canonicalize(node)").
func (e *Engine[O]) CanonicalizeNode(node enode.ENode[O]) (enode.ShapeCall[O], error) {
	variants, err := e.enumerateVariants(node)
	if err != nil {
		return enode.ShapeCall[O]{}, err
	}
	best, _ := bestVariant(variants)
	inv, err := best.bij.Inverse()
	if err != nil {
		return enode.ShapeCall[O]{}, err
	}
	return enode.ShapeCall[O]{Shape: best.node, Renaming: inv}, nil
}

// Canonicalize returns ref's current canonical call (spec §6
// "canonicalize(ref)").
func (e *Engine[O]) Canonicalize(ref classref.EClassRef) (classref.EClassCall, error) {
	return e.uf.FindOrNull(ref)
}

// CanonicalizeCall re-resolves call through the current union-find chain,
// composing call's own argument renaming with whatever renaming the chain
// has accumulated since call was captured.
func (e *Engine[O]) CanonicalizeCall(call classref.EClassCall) (classref.EClassCall, error) {
	return e.uf.FindOrNullCall(call)
}

// AreSame reports whether a and b denote the same class under the same
// argument renaming once both are canonicalized (spec §6 "areSame").
func (e *Engine[O]) AreSame(a, b classref.EClassCall) bool {
	ca, err := e.uf.FindOrNullCall(a)
	if err != nil {
		return false
	}
	cb, err := e.uf.FindOrNullCall(b)
	if err != nil {
		return false
	}
	return classref.Equal(ca, cb)
}
