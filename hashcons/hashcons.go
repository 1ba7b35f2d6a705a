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

// Package hashcons implements HashCons, the total map from canonical e-node
// shapes to the class reference that contains them (spec §4.4).
package hashcons

import (
	"golang.org/x/exp/maps"

	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/enode"
)

// entry pairs a stored shape with its owning ref, so Shapes can recover the
// original structured value even though the map itself is keyed by string.
type entry[O enode.Op[O]] struct {
	shape enode.ENode[O]
	ref   classref.EClassRef
}

// HashCons maps canonical e-node shapes to the class that contains them.
// Invariant (spec §8.1): a shape is in HashCons iff it appears in some
// class's node table, under the same ref.
type HashCons[O enode.Op[O]] struct {
	byKey map[string]entry[O]
}

// New returns an empty HashCons.
func New[O enode.Op[O]]() *HashCons[O] {
	return &HashCons[O]{byKey: make(map[string]entry[O])}
}

// Lookup returns the ref owning shape, if any.
func (h *HashCons[O]) Lookup(shape enode.ENode[O]) (classref.EClassRef, bool) {
	e, ok := h.byKey[shape.Key()]
	if !ok {
		return 0, false
	}
	return e.ref, true
}

// Insert records that shape belongs to ref, overwriting any prior owner.
func (h *HashCons[O]) Insert(shape enode.ENode[O], ref classref.EClassRef) {
	h.byKey[shape.Key()] = entry[O]{shape: shape, ref: ref}
}

// Delete removes shape from the hash-cons, if present.
func (h *HashCons[O]) Delete(shape enode.ENode[O]) {
	delete(h.byKey, shape.Key())
}

// Len returns the number of distinct shapes currently hash-consed.
func (h *HashCons[O]) Len() int {
	return len(h.byKey)
}

// Shapes returns every currently hash-consed shape. Order is unspecified;
// callers that need determinism should sort via ENode.Less.
func (h *HashCons[O]) Shapes() []enode.ENode[O] {
	out := make([]enode.ENode[O], 0, len(h.byKey))
	for _, e := range maps.Values(h.byKey) {
		out = append(out, e.shape)
	}
	return out
}

// Clone returns a deep copy of h, used by the functional engine surface to
// take a structural snapshot before running a mutating batch (spec §5
// "functional instance").
func (h *HashCons[O]) Clone() *HashCons[O] {
	byKey := make(map[string]entry[O], len(h.byKey))
	for k, v := range h.byKey {
		byKey[k] = v
	}
	return &HashCons[O]{byKey: byKey}
}
