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

// Package enode defines the raw term-node representation the engine
// operates over: an opaque operator tag plus binder/use slots and
// references to argument classes.
package enode

import (
	"strings"

	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/slotmap"
)

// Op is the caller-supplied operator alphabet. The engine treats operators
// opaquely: it needs only a total order (for canonicalization's
// lexicographic tie-breaking and deterministic iteration) and equality. T is
// always the implementing type itself (e.g. `type Token int; func (Token)
// Less(Token) bool`), the usual self-referencing generic shape for an
// orderable value type.
type Op[T any] interface {
	Less(other T) bool
	Equal(other T) bool
}

// ENode is a raw term node: an operator applied to defs (slots it binds),
// uses (free slots from the enclosing context) and args (references to
// child classes, each carrying its own renaming).
type ENode[O Op[O]] struct {
	Op   O
	Defs slot.SlotSeq
	Uses slot.SlotSeq
	Args []classref.EClassCall
}

// New builds an ENode, copying defs/uses/args defensively.
func New[O Op[O]](op O, defs, uses slot.SlotSeq, args []classref.EClassCall) ENode[O] {
	return ENode[O]{
		Op:   op,
		Defs: slot.NewSlotSeq(defs...),
		Uses: slot.NewSlotSeq(uses...),
		Args: append([]classref.EClassCall(nil), args...),
	}
}

// SlotSet returns the slots visible at this node: every use, plus every
// slot visible through an argument's renaming (the values of its SlotMap,
// since those are the caller-frame slots the child is rendered under here),
// minus the node's own defs (spec §3 "ENode").
func (n ENode[O]) SlotSet() slot.SlotSet {
	acc := n.Uses.AsSet()
	for _, a := range n.Args {
		acc = slot.Union(acc, a.Args.ValueSet())
	}
	return slot.Diff(acc, n.Defs.AsSet())
}

// Rename conjugates every slot this node exposes through renaming: defs and
// uses are remapped directly, and each argument's renaming values (the
// caller-visible slots, i.e. this node's own frame) are remapped via
// ComposeRetain so positions renaming does not mention are left alone.
func (n ENode[O]) Rename(renaming slotmap.SlotMap) ENode[O] {
	args := make([]classref.EClassCall, len(n.Args))
	for i, a := range n.Args {
		args[i] = classref.EClassCall{Ref: a.Ref, Args: a.Args.ComposeRetain(renaming)}
	}
	return ENode[O]{
		Op:   n.Op,
		Defs: n.Defs.Map(renaming.Apply),
		Uses: n.Uses.Map(renaming.Apply),
		Args: args,
	}
}

// Equal reports whether n and other are structurally identical: same
// operator, same defs/uses sequences, same argument calls in order.
func (n ENode[O]) Equal(other ENode[O]) bool {
	if !n.Op.Equal(other.Op) {
		return false
	}
	if !slot.SeqEqual(n.Defs, other.Defs) || !slot.SeqEqual(n.Uses, other.Uses) {
		return false
	}
	if len(n.Args) != len(other.Args) {
		return false
	}
	for i := range n.Args {
		if !classref.Equal(n.Args[i], other.Args[i]) {
			return false
		}
	}
	return true
}

// Less is a total order over ENode values: operator first, then defs, uses,
// then args pairwise by ref and then by argument SlotMap (spec §9
// "operator ordering" is the only ordering primitive the engine demands of
// the caller; this extends it structurally over a whole node so shapes can
// be sorted deterministically during canonicalization and tracing).
func (n ENode[O]) Less(other ENode[O]) bool {
	if !n.Op.Equal(other.Op) {
		return n.Op.Less(other.Op)
	}
	if c := compareSlotSeq(n.Defs, other.Defs); c != 0 {
		return c < 0
	}
	if c := compareSlotSeq(n.Uses, other.Uses); c != 0 {
		return c < 0
	}
	if len(n.Args) != len(other.Args) {
		return len(n.Args) < len(other.Args)
	}
	for i := range n.Args {
		a, b := n.Args[i], other.Args[i]
		if a.Ref != b.Ref {
			return a.Ref < b.Ref
		}
		if c := slotmap.Compare(a.Args, b.Args); c != 0 {
			return c < 0
		}
	}
	return false
}

func compareSlotSeq(a, b slot.SlotSeq) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Key renders a canonical string identity for n, stable under Equal. Used
// as a Go map key by hashcons.HashCons, since ENode itself (holding slices
// and a caller Op type of unknown comparability) is not guaranteed to be a
// valid map key.
func (n ENode[O]) Key() string {
	var b strings.Builder
	b.WriteString(n.opString())
	b.WriteByte('|')
	b.WriteString(n.Defs.String())
	b.WriteByte('|')
	b.WriteString(n.Uses.String())
	b.WriteByte('|')
	for _, a := range n.Args {
		b.WriteString(a.Ref.String())
		b.WriteString(a.Args.String())
		b.WriteByte(';')
	}
	return b.String()
}

func (n ENode[O]) opString() string {
	if s, ok := any(n.Op).(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// String renders n for debugging.
func (n ENode[O]) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.opString() + n.Defs.String() + n.Uses.String() + "(" + strings.Join(parts, ", ") + ")"
}

// ShapeCall pairs a canonical shape with the renaming that recovers the
// original (caller-frame) node: Renaming maps shape's slots to caller
// slots, so ShapeCall denotes the same tree as the raw e-node it was built
// from (spec §3 "ShapeCall").
type ShapeCall[O Op[O]] struct {
	Shape    ENode[O]
	Renaming slotmap.SlotMap
}

// String renders a ShapeCall for debugging.
func (c ShapeCall[O]) String() string {
	return c.Shape.String() + " via " + c.Renaming.String()
}
