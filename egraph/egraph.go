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

// Package egraph implements the slotted e-graph engine: hash-consing of
// e-nodes modulo slot renaming, slot-aware union-find, congruence closure
// and symmetry tracking (spec §4.4–§4.6, §6).
//
// Engine is single-owner and not safe for concurrent mutation (spec §5):
// callers serialize all writes to one instance themselves. Parallelism is
// delegated per call to a parallelmap.ParallelMap collaborator; no engine
// invariant depends on it actually running concurrently.
package egraph

import (
	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/enode"
	"github.com/slotted-egraph/egraph/hashcons"
	"github.com/slotted-egraph/egraph/permgroup"
	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/slotmap"
)

// nodeEntry is one e-node shape stored in a class: renaming maps the
// shape's own (placeholder) slots to the class's parameter slots, or to
// redundant slots local to the shape if the node mentions slots the class
// does not expose (spec §4.4).
type nodeEntry[O enode.Op[O]] struct {
	shape    enode.ENode[O]
	renaming slotmap.SlotMap
}

// classData is the per-canonical-class record (spec §3 "EClassData").
type classData[O enode.Op[O]] struct {
	slots       slot.SlotSet
	nodes       map[string]nodeEntry[O]
	permutations *permgroup.PermutationGroup
	users       map[string]enode.ENode[O]
}

func newClassData[O enode.Op[O]](slots slot.SlotSet) *classData[O] {
	return &classData[O]{
		slots:        slots,
		nodes:        make(map[string]nodeEntry[O]),
		permutations: permgroup.New(slots),
		users:        make(map[string]enode.ENode[O]),
	}
}

// clone deep-copies cd's maps; slots and permutations are never mutated in
// place (only replaced wholesale), so sharing those values across a clone is
// safe.
func (cd *classData[O]) clone() *classData[O] {
	nodes := make(map[string]nodeEntry[O], len(cd.nodes))
	for k, v := range cd.nodes {
		nodes[k] = v
	}
	users := make(map[string]enode.ENode[O], len(cd.users))
	for k, v := range cd.users {
		users[k] = v
	}
	return &classData[O]{
		slots:        cd.slots,
		nodes:        nodes,
		permutations: cd.permutations,
		users:        users,
	}
}

// Engine is the mutable slotted e-graph instance.
type Engine[O enode.Op[O]] struct {
	uf      *classref.UnionFind
	hc      *hashcons.HashCons[O]
	classes map[classref.EClassRef]*classData[O]
	gen     *slot.Generator
}

// New returns an empty engine. gen aliases the package-level slot generator
// (slot.Global) rather than a private one: callers mint use-slots via
// slot.Fresh on the same global source, and class/redundant slots minted
// internally during insertion and union must draw from that same source so
// the two never collide numerically within one e-graph (spec §3).
func New[O enode.Op[O]]() *Engine[O] {
	return &Engine[O]{
		uf:      classref.New(),
		hc:      hashcons.New[O](),
		classes: make(map[classref.EClassRef]*classData[O]),
		gen:     slot.Global(),
	}
}

// Emptied returns a fresh empty engine of the same configuration as e (spec
// §6 "Write API"). The configuration here is simply the operator type O, so
// this is equivalent to New but documents the collaborator contract
// explicitly for callers that hold an Engine value through an interface.
func (e *Engine[O]) Emptied() *Engine[O] {
	return New[O]()
}

// clone returns a deep, independent copy of e: the functional engine surface
// (Functional) runs every write against a clone, so the receiver is never
// mutated and stays valid for concurrent reads (spec §5, §9 "Shared state
// for the mutable engine"). The slot generator is shared rather than copied,
// so slots minted by the clone stay distinct from every other slot.
func (e *Engine[O]) clone() *Engine[O] {
	out := &Engine[O]{
		uf:      e.uf.Clone(),
		hc:      e.hc.Clone(),
		classes: make(map[classref.EClassRef]*classData[O], len(e.classes)),
		gen:     e.gen,
	}
	for ref, cd := range e.classes {
		out.classes[ref] = cd.clone()
	}
	return out
}
