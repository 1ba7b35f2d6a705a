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
)

// testOp is a tiny operator alphabet shared by this package's tests: Leaf
// holds no slots, Var is a single-use variable reference, Add is a
// commutative-in-spirit binary operator whose commutativity is discovered
// by the tests (not baked into the engine, which treats every Op
// opaquely) rather than declared up front. aOp/bOp are two more distinct
// zero-arg leaves, fOp a unary wrapper, subOp a binary "minus", and zeroOp
// a distinct "constant zero" leaf — the extra vocabulary spec §8's S2 and
// S6 scenarios need (an upward-merge wrapper and a subtraction/zero pair).
type testOp int

const (
	leafOp testOp = iota
	varOp
	addOp
	mulOp
	aOp
	bOp
	fOp
	subOp
	zeroOp
)

func (o testOp) Less(other testOp) bool  { return o < other }
func (o testOp) Equal(other testOp) bool { return o == other }
func (o testOp) String() string {
	return [...]string{"leaf", "var", "add", "mul", "a", "b", "f", "sub", "zero"}[o]
}

func leaf() enode.ENode[testOp] {
	return enode.New[testOp](leafOp, nil, nil, nil)
}

func variable(use slot.Slot) enode.ENode[testOp] {
	return enode.New[testOp](varOp, nil, slot.NewSlotSeq(use), nil)
}

func binOp(op testOp, a, b classref.EClassCall) enode.ENode[testOp] {
	return enode.New[testOp](op, nil, nil, []classref.EClassCall{a, b})
}

func unaryOp(op testOp, a classref.EClassCall) enode.ENode[testOp] {
	return enode.New[testOp](op, nil, nil, []classref.EClassCall{a})
}
