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

// Package permgroup implements PermutationGroup, a finitely-generated group
// of SlotMap permutations stored as a Schreier-Sims stabilizer chain (a
// base plus, at each level, the orbit of the base point and a transversal
// element reaching every orbit point).
//
// Group elements are represented sparsely: a SlotMap member of the group
// lists only the slots it moves. SlotMap.Apply already treats any slot
// outside a map's keys as fixed, so a sparse representation and a
// domain-wide one denote the same permutation; sparse keeps Contains and
// the chain small in the common case where most nodes bind few slots.
package permgroup

import (
	"golang.org/x/exp/slices"

	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/slotmap"
)

// level is one step of the stabilizer chain: the orbit of basePoint under
// gens, recorded as a transversal (orbit point -> a group element mapping
// basePoint to that point), plus the generating set that produced it.
type level struct {
	basePoint slot.Slot
	orbit     map[slot.Slot]slotmap.SlotMap
	gens      []slotmap.SlotMap
}

// PermutationGroup is a finite group of permutations of domain, given by a
// base and a stabilizer chain built from a set of generators. The identity
// is always a member.
type PermutationGroup struct {
	domain     slot.SlotSet
	generators []slotmap.SlotMap
	chain      []level
}

// New returns the trivial group (identity only) acting on domain.
func New(domain slot.SlotSet) *PermutationGroup {
	return &PermutationGroup{domain: domain}
}

// sparsify drops every k->v entry of m where k == v, so a SlotMap built
// with explicit identity pairs compares equal (by emptiness) to one built
// without them.
func sparsify(m slotmap.SlotMap) slotmap.SlotMap {
	return m.FilterKeys(func(k slot.Slot) bool {
		v, _ := m.Get(k)
		return v != k
	})
}

func isIdentity(m slotmap.SlotMap) bool {
	return sparsify(m).Len() == 0
}

func compose(a, b slotmap.SlotMap) slotmap.SlotMap {
	// Apply a first, then b, extending both as identity outside their keys
	// (ComposeRetain), since group elements are stored sparsely.
	keys := slot.Union(a.Keys(), b.Keys())
	pairs := make([]slotmap.Pair, 0, keys.Len())
	for _, k := range keys.Slice() {
		pairs = append(pairs, slotmap.Pair{Key: k, Value: b.Apply(a.Apply(k))})
	}
	return sparsify(slotmap.FromPairs(pairs...))
}

func dedupe(perms []slotmap.SlotMap) []slotmap.SlotMap {
	type key = string
	seen := make(map[key]bool)
	var out []slotmap.SlotMap
	for _, p := range perms {
		p = sparsify(p)
		if p.Len() == 0 {
			continue
		}
		k := p.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

// Domain returns the slot set this group acts on.
func (g *PermutationGroup) Domain() slot.SlotSet {
	return g.domain
}

// Generators returns the generating set accumulated so far (via New plus
// every successful TryAddSet), sparsely represented.
func (g *PermutationGroup) Generators() []slotmap.SlotMap {
	return append([]slotmap.SlotMap(nil), g.generators...)
}

// IsTrivial reports whether the group contains only the identity.
func (g *PermutationGroup) IsTrivial() bool {
	return len(g.chain) == 0
}

// Identity returns the group's identity element (the empty SlotMap).
func (g *PermutationGroup) Identity() slotmap.SlotMap {
	return slotmap.New()
}

// Contains reports whether p is a member of g, by sifting p through the
// stabilizer chain: polynomial in the base size (spec §4.2).
func (g *PermutationGroup) Contains(p slotmap.SlotMap) bool {
	cur := sparsify(p)
	for _, lvl := range g.chain {
		o := cur.Apply(lvl.basePoint)
		u, ok := lvl.orbit[o]
		if !ok {
			return false
		}
		invU, err := u.Inverse()
		if err != nil {
			// A transversal element built by this package is always a
			// bijection on its support; reaching here is a bug, not a
			// user error, so treat conservatively as non-membership.
			return false
		}
		cur = compose(cur, invU)
	}
	return isIdentity(cur)
}

// Orbit returns the set of slots reachable from s under g, computed by a
// BFS over the current generating set.
func (g *PermutationGroup) Orbit(s slot.Slot) slot.SlotSet {
	visited := map[slot.Slot]bool{s: true}
	queue := []slot.Slot{s}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, gen := range g.generators {
			q := gen.Apply(p)
			if !visited[q] {
				visited[q] = true
				queue = append(queue, q)
			}
		}
	}
	out := make([]slot.Slot, 0, len(visited))
	for s := range visited {
		out = append(out, s)
	}
	return slot.NewSlotSet(out...)
}

// TryAddSet returns a new group with candidates added as generators if at
// least one candidate is not already a member of g, and true. If every
// candidate is already in g, it returns (nil, false) and g is unchanged
// (PermutationGroup is treated as persistent/immutable by its callers).
func (g *PermutationGroup) TryAddSet(candidates []slotmap.SlotMap) (*PermutationGroup, bool) {
	novel := false
	for _, c := range candidates {
		if !g.Contains(c) {
			novel = true
			break
		}
	}
	if !novel {
		return nil, false
	}
	newGens := dedupe(append(append([]slotmap.SlotMap(nil), g.generators...), candidates...))
	out := &PermutationGroup{domain: g.domain, generators: newGens}
	out.chain = buildChain(newGens)
	return out, true
}

// RestrictTo rebuilds the group over a smaller domain, dropping every
// generator entry outside newDomain. Used by the engine's shrink step
// (spec §4.6c) once slots have been proven redundant and eliminated from a
// class's exposed signature.
func (g *PermutationGroup) RestrictTo(newDomain slot.SlotSet) *PermutationGroup {
	restricted := make([]slotmap.SlotMap, 0, len(g.generators))
	for _, gen := range g.generators {
		r := gen.FilterKeys(func(k slot.Slot) bool {
			v, _ := gen.Get(k)
			return newDomain.Contains(k) && newDomain.Contains(v)
		})
		restricted = append(restricted, r)
	}
	out := &PermutationGroup{domain: newDomain, generators: dedupe(restricted)}
	out.chain = buildChain(out.generators)
	return out
}

// AllPerms enumerates every element of g. Spec §4.2/§9: reserved for
// canonicalizing the small set of compatible variants of one e-node; never
// call this on a group with a large orbit product.
func (g *PermutationGroup) AllPerms() []slotmap.SlotMap {
	return enumerate(g.chain)
}

func enumerate(levels []level) []slotmap.SlotMap {
	if len(levels) == 0 {
		return []slotmap.SlotMap{slotmap.New()}
	}
	lvl := levels[0]
	subElems := enumerate(levels[1:])
	out := make([]slotmap.SlotMap, 0, len(lvl.orbit)*len(subElems))
	for _, u := range lvl.orbit {
		for _, h := range subElems {
			out = append(out, compose(u, h))
		}
	}
	return out
}

// buildChain runs (a non-incremental variant of) Schreier-Sims over gens,
// returning a stabilizer chain. Rebuilding from scratch on every generator
// addition is simpler than threading incremental updates through the
// chain and is still polynomial in the (small) base size this package is
// meant for.
func buildChain(gens []slotmap.SlotMap) []level {
	var chain []level
	cur := dedupe(gens)
	for len(cur) > 0 {
		bp, ok := pickBasePoint(cur)
		if !ok {
			break
		}
		orbit := computeOrbit(bp, cur)
		chain = append(chain, level{basePoint: bp, orbit: orbit, gens: cur})
		cur = dedupe(schreierGenerators(orbit, cur))
	}
	return chain
}

// pickBasePoint deterministically chooses the smallest slot moved by any
// generator in gens.
func pickBasePoint(gens []slotmap.SlotMap) (slot.Slot, bool) {
	var candidates []slot.Slot
	for _, g := range gens {
		for _, k := range g.Keys() {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	slices.Sort(candidates)
	return candidates[0], true
}

// computeOrbit BFS-explores the orbit of bp under gens, recording for each
// reached point o a transversal element u with u.Apply(bp) == o.
func computeOrbit(bp slot.Slot, gens []slotmap.SlotMap) map[slot.Slot]slotmap.SlotMap {
	orbit := map[slot.Slot]slotmap.SlotMap{bp: slotmap.New()}
	queue := []slot.Slot{bp}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		up := orbit[p]
		for _, g := range gens {
			q := g.Apply(p)
			if _, ok := orbit[q]; ok {
				continue
			}
			orbit[q] = compose(up, g)
			queue = append(queue, q)
		}
	}
	return orbit
}

// schreierGenerators applies Schreier's lemma: for every orbit point o
// (reached via transversal u_o) and every generator g, u_o ∘ g ∘
// u_{g(o)}^{-1} fixes bp and the resulting set of such elements generates
// the stabilizer of bp within the group generated by gens.
func schreierGenerators(orbit map[slot.Slot]slotmap.SlotMap, gens []slotmap.SlotMap) []slotmap.SlotMap {
	var out []slotmap.SlotMap
	for o, uo := range orbit {
		for _, g := range gens {
			target := g.Apply(o)
			uTarget, ok := orbit[target]
			if !ok {
				continue
			}
			invUTarget, err := uTarget.Inverse()
			if err != nil {
				continue
			}
			s := compose(compose(uo, g), invUTarget)
			if !isIdentity(s) {
				out = append(out, s)
			}
		}
	}
	return out
}
