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

// Package tree implements MixedTree, the external-facing term
// representation used both for building terms for insertion and for
// extraction results (spec §4.7).
package tree

import (
	"strings"

	"github.com/slotted-egraph/egraph/enode"
	"github.com/slotted-egraph/egraph/slot"
)

// MixedTree is a recursive term with two variants: Node (mirrors ENode
// structure: an operator, defs, uses, and child subtrees) and Atom (a
// pointer into the graph, of caller-chosen type A — typically
// classref.EClassCall). A zero MixedTree is invalid; build one with NewNode
// or NewAtom.
type MixedTree[O enode.Op[O], A any] struct {
	isAtom   bool
	atom     A
	op       O
	defs     slot.SlotSeq
	uses     slot.SlotSeq
	children []MixedTree[O, A]
}

// NewNode builds the Node variant.
func NewNode[O enode.Op[O], A any](op O, defs, uses slot.SlotSeq, children ...MixedTree[O, A]) MixedTree[O, A] {
	return MixedTree[O, A]{
		op:       op,
		defs:     slot.NewSlotSeq(defs...),
		uses:     slot.NewSlotSeq(uses...),
		children: append([]MixedTree[O, A](nil), children...),
	}
}

// NewAtom builds the Atom variant wrapping a.
func NewAtom[O enode.Op[O], A any](a A) MixedTree[O, A] {
	return MixedTree[O, A]{isAtom: true, atom: a}
}

// IsAtom reports whether t is the Atom variant.
func (t MixedTree[O, A]) IsAtom() bool {
	return t.isAtom
}

// Atom returns t's wrapped value and true, or the zero value and false if t
// is a Node.
func (t MixedTree[O, A]) Atom() (A, bool) {
	if !t.isAtom {
		var zero A
		return zero, false
	}
	return t.atom, true
}

// Op returns t's operator; only meaningful when IsAtom() is false.
func (t MixedTree[O, A]) Op() O {
	return t.op
}

// Defs returns t's binder slots; only meaningful when IsAtom() is false.
func (t MixedTree[O, A]) Defs() slot.SlotSeq {
	return t.defs
}

// Uses returns t's free-slot uses; only meaningful when IsAtom() is false.
func (t MixedTree[O, A]) Uses() slot.SlotSeq {
	return t.uses
}

// Children returns t's child subtrees; only meaningful when IsAtom() is
// false.
func (t MixedTree[O, A]) Children() []MixedTree[O, A] {
	return append([]MixedTree[O, A](nil), t.children...)
}

// String renders t for debugging.
func (t MixedTree[O, A]) String() string {
	if t.isAtom {
		return "atom"
	}
	parts := make([]string, len(t.children))
	for i, c := range t.children {
		parts[i] = c.String()
	}
	return t.defs.String() + t.uses.String() + "(" + strings.Join(parts, ", ") + ")"
}
