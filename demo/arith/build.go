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

package arith

import (
	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/slot"
	"github.com/slotted-egraph/egraph/tree"
)

// Term is the tree shape arith builds and the engine consumes for bulk
// insertion (spec §4.7).
type Term = tree.MixedTree[Op, classref.EClassCall]

// Lit builds a constant leaf.
func Lit(n int64) Term {
	return tree.NewNode[Op, classref.EClassCall](Const(n), nil, nil)
}

// Ref builds a variable leaf bound to s — s is a free slot from the
// caller's point of view; callers that want two Refs to denote the same
// variable pass the same Slot to both.
func Ref(s slot.Slot) Term {
	return tree.NewNode[Op, classref.EClassCall](Var(), nil, slot.SlotSeq{s})
}

// Plus builds a + b.
func Plus(a, b Term) Term {
	return tree.NewNode[Op, classref.EClassCall](Add(), nil, nil, a, b)
}

// Times builds a * b.
func Times(a, b Term) Term {
	return tree.NewNode[Op, classref.EClassCall](Mul(), nil, nil, a, b)
}

// Minus builds a - b.
func Minus(a, b Term) Term {
	return tree.NewNode[Op, classref.EClassCall](Sub(), nil, nil, a, b)
}

// FromClass wraps an existing class call as an atom leaf, letting a caller
// graft a previously-inserted subterm into a larger tree without
// re-building it (spec §4.7 "Atom").
func FromClass(call classref.EClassCall) Term {
	return tree.NewAtom[Op, classref.EClassCall](call)
}
