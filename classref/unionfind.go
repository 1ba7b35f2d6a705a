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

package classref

import (
	"github.com/slotted-egraph/egraph/internal/xerrors"
	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/slotmap"
)

// UnionFind is a disjoint-set over EClassRef whose edges carry a slot
// renaming (spec §4.3). A root ref maps to itself with the identity
// SlotMap over its current parameter slots. Write operations are not
// thread-safe; reads may run concurrently with other reads only (spec
// §4.3, §5).
type UnionFind struct {
	parents map[EClassRef]EClassCall
	next    EClassRef
}

// New returns an empty UnionFind.
func New() *UnionFind {
	return &UnionFind{parents: make(map[EClassRef]EClassCall)}
}

// Add allocates a fresh root ref with parameter slots, returning the
// identity call over it.
func (uf *UnionFind) Add(slots slot.SlotSet) EClassCall {
	uf.next++
	ref := uf.next
	call := EClassCall{Ref: ref, Args: slotmap.Identity(slots)}
	uf.parents[ref] = call
	return call
}

// Update sets ref's union-find entry directly. Used both to reparent ref
// into a dominant class (merge) and to reset ref to a fresh identity over a
// reduced slot set (shrink).
func (uf *UnionFind) Update(ref EClassRef, call EClassCall) {
	uf.parents[ref] = call
}

// IsRoot reports whether ref currently maps to itself.
func (uf *UnionFind) IsRoot(ref EClassRef) (bool, error) {
	entry, ok := uf.parents[ref]
	if !ok {
		return false, xerrors.NotPresent
	}
	return entry.Ref == ref, nil
}

// FindOrNull returns the canonical call for ref: the EClassCall entry is
// itself "ref's current definition in terms of its root", i.e. its Args
// maps the root's current slots to ref's own (original) slots, exactly
// like any other EClassCall (root's parameter slots -> the caller's
// slots, with ref playing the role of caller here). Path compression
// rewrites every visited intermediate entry to point straight at the
// root.
func (uf *UnionFind) FindOrNull(ref EClassRef) (EClassCall, error) {
	entry, ok := uf.parents[ref]
	if !ok {
		return EClassCall{}, xerrors.NotPresent
	}
	if entry.Ref == ref {
		return entry, nil
	}
	rootCall, err := uf.FindOrNull(entry.Ref)
	if err != nil {
		return EClassCall{}, err
	}
	// rootCall.Args: root-slots -> entry.Ref's-slots. entry.Args:
	// entry.Ref's-slots -> ref's-slots. Composed: root-slots -> ref's-slots.
	combined := rootCall.Args.ComposeRetain(entry.Args)
	compressed := EClassCall{Ref: rootCall.Ref, Args: combined}
	uf.parents[ref] = compressed
	return compressed, nil
}

// FindOrNullCall resolves call.Ref to its root and expresses call.Args (ref
// slots -> the caller's frame) as an equivalent map from the root's current
// slots to that same caller frame.
func (uf *UnionFind) FindOrNullCall(call EClassCall) (EClassCall, error) {
	rootCall, err := uf.FindOrNull(call.Ref)
	if err != nil {
		return EClassCall{}, err
	}
	// rootCall.Args: root-slots -> ref's-slots. call.Args: ref's-slots ->
	// caller frame. Composed: root-slots -> caller frame.
	return EClassCall{Ref: rootCall.Ref, Args: rootCall.Args.ComposeRetain(call.Args)}, nil
}

// CurrentSlots returns the parameter slots currently exposed by ref,
// assuming ref is already a root (i.e. the caller has resolved it via
// FindOrNull first).
func (uf *UnionFind) CurrentSlots(ref EClassRef) (slot.SlotSet, error) {
	entry, ok := uf.parents[ref]
	if !ok {
		return nil, xerrors.NotPresent
	}
	if entry.Ref != ref {
		return nil, xerrors.NotPresent
	}
	return entry.Args.Keys(), nil
}

// Roots returns every ref currently mapping to itself.
func (uf *UnionFind) Roots() []EClassRef {
	var out []EClassRef
	for ref, call := range uf.parents {
		if call.Ref == ref {
			out = append(out, ref)
		}
	}
	return out
}

// Contains reports whether ref has ever been allocated (it may since have
// been merged away, but is still resolvable).
func (uf *UnionFind) Contains(ref EClassRef) bool {
	_, ok := uf.parents[ref]
	return ok
}

// Clone returns a deep copy of uf, used by the functional engine surface to
// take a structural snapshot before running a mutating batch (spec §5
// "functional instance").
func (uf *UnionFind) Clone() *UnionFind {
	parents := make(map[EClassRef]EClassCall, len(uf.parents))
	for k, v := range uf.parents {
		parents[k] = v
	}
	return &UnionFind{parents: parents, next: uf.next}
}
