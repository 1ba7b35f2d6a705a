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
	"github.com/slotted-egraph/egraph/tree"
)

// Functional is the persistent engine surface (spec §5 "a functional
// instance that returns a new value and leaves the receiver usable"). Every
// write method runs the same mutating algorithm as Engine, but against a
// structural snapshot: the receiver is left untouched and remains a valid,
// independently-usable value, so a caller can hold on to an older Functional
// while building on a newer one (e.g. to compare states, or to give
// concurrent readers a version that will never change under them).
//
// There is no intermediate state a caller could observe mid-operation: Go
// has no implicit goroutine yield inside a single function call, so the
// worklist in UnionMany/TryAddMany always runs to completion against the
// clone before any read method becomes callable on the result (spec §9, the
// "functional instance cannot observe pre-rebuild state" open question).
type Functional[O enode.Op[O]] struct {
	eng *Engine[O]
}

// NewFunctional returns an empty functional engine.
func NewFunctional[O enode.Op[O]]() *Functional[O] {
	return &Functional[O]{eng: New[O]()}
}

// Emptied returns a fresh empty functional engine of the same configuration
// (spec §6 "emptied()").
func (f *Functional[O]) Emptied() *Functional[O] {
	return NewFunctional[O]()
}

// TryAddMany returns a new Functional with every node inserted, plus the
// same per-node outcomes TryAddMany would produce on a mutable Engine. f
// itself is unchanged and remains usable.
func (f *Functional[O]) TryAddMany(nodes []enode.ENode[O], pm parallelmap.ParallelMap) (*Functional[O], []AddOutcome, error) {
	next := f.eng.clone()
	out, err := next.TryAddMany(nodes, pm)
	if err != nil {
		return f, nil, err
	}
	return &Functional[O]{eng: next}, out, nil
}

// Add is a single-node convenience wrapper around TryAddMany.
func (f *Functional[O]) Add(node enode.ENode[O]) (*Functional[O], AddOutcome, error) {
	next, out, err := f.TryAddMany([]enode.ENode[O]{node}, nil)
	if err != nil {
		return f, AddOutcome{}, err
	}
	return next, out[0], nil
}

// UnionMany returns a new Functional with every pair unioned, plus the
// resulting equivalence partition. f itself is unchanged and remains usable.
func (f *Functional[O]) UnionMany(pairs []Pair, pm parallelmap.ParallelMap) (*Functional[O], []Equivalence, error) {
	next := f.eng.clone()
	out, err := next.UnionMany(pairs, pm)
	if err != nil {
		return f, nil, err
	}
	return &Functional[O]{eng: next}, out, nil
}

// Union is a single-pair convenience wrapper around UnionMany.
func (f *Functional[O]) Union(l, r classref.EClassCall) (*Functional[O], []Equivalence, error) {
	return f.UnionMany([]Pair{{L: l, R: r}}, nil)
}

// AddTree inserts t, returning a new Functional and t's root call. f itself
// is unchanged and remains usable.
func (f *Functional[O]) AddTree(t tree.MixedTree[O, classref.EClassCall]) (*Functional[O], classref.EClassCall, error) {
	next := f.eng.clone()
	call, err := next.AddTree(t)
	if err != nil {
		return f, classref.EClassCall{}, err
	}
	return &Functional[O]{eng: next}, call, nil
}

// Classes, Nodes, Users, Find, Canonicalize, CanonicalizeCall,
// CanonicalizeNode and AreSame delegate to the underlying snapshot; none of
// them mutate f.

func (f *Functional[O]) Classes() []classref.EClassRef { return f.eng.Classes() }

func (f *Functional[O]) Nodes(call classref.EClassCall) ([]enode.ENode[O], error) {
	return f.eng.Nodes(call)
}

func (f *Functional[O]) Users(ref classref.EClassRef) ([]enode.ENode[O], error) {
	return f.eng.Users(ref)
}

func (f *Functional[O]) Find(node enode.ENode[O]) (classref.EClassCall, error) {
	return f.eng.Find(node)
}

func (f *Functional[O]) Canonicalize(ref classref.EClassRef) (classref.EClassCall, error) {
	return f.eng.Canonicalize(ref)
}

func (f *Functional[O]) CanonicalizeCall(call classref.EClassCall) (classref.EClassCall, error) {
	return f.eng.CanonicalizeCall(call)
}

func (f *Functional[O]) CanonicalizeNode(node enode.ENode[O]) (enode.ShapeCall[O], error) {
	return f.eng.CanonicalizeNode(node)
}

func (f *Functional[O]) AreSame(a, b classref.EClassCall) bool {
	return f.eng.AreSame(a, b)
}
