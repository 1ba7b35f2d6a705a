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

// Package arith is a small worked operator alphabet for the engine: integer
// constants, variables, and commutative/associative addition and
// multiplication, plus subtraction. It exists to give cmd/egraphctl and the
// engine's tests a concrete, easy-to-reason-about Op, the way a tutorial
// calculator language exercises a parser generator (spec §9, demo package).
package arith

import (
	"fmt"

	"github.com/slotted-egraph/egraph/internal/symtab"
)

var symbols = symtab.New()

var (
	constTok = symbols.Intern("const")
	varTok   = symbols.Intern("var")
	addTok   = symbols.Intern("add")
	mulTok   = symbols.Intern("mul")
	subTok   = symbols.Intern("sub")
)

// Op is the arith operator alphabet: a small symtab-interned tag plus an
// optional integer literal, used only by Const. It satisfies enode.Op[Op].
type Op struct {
	tag symtab.Token
	lit int64
}

// Const builds the Op for an integer literal.
func Const(n int64) Op { return Op{tag: constTok, lit: n} }

// Var builds the Op for a variable reference (the e-node's Uses slot
// carries which variable).
func Var() Op { return Op{tag: varTok} }

// Add builds the Op for commutative addition.
func Add() Op { return Op{tag: addTok} }

// Mul builds the Op for commutative multiplication.
func Mul() Op { return Op{tag: mulTok} }

// Sub builds the Op for (non-commutative) subtraction.
func Sub() Op { return Op{tag: subTok} }

// IsConst reports whether o is a Const, returning its literal.
func (o Op) IsConst() (int64, bool) {
	if o.tag == constTok {
		return o.lit, true
	}
	return 0, false
}

// IsVar reports whether o is a Var.
func (o Op) IsVar() bool { return o.tag == varTok }

// IsCommutative reports whether argument order does not matter for o —
// Add and Mul are; Sub, Const and Var are not (Const and Var take no
// arguments, so the question does not apply to them).
func (o Op) IsCommutative() bool {
	return o.tag == addTok || o.tag == mulTok
}

// Equal reports whether o and other are the same operator (same tag, and
// for Const, the same literal).
func (o Op) Equal(other Op) bool {
	return o.tag == other.tag && o.lit == other.lit
}

// Less is a total order over Op: by tag first, then by literal (only
// Const instances ever differ by literal alone).
func (o Op) Less(other Op) bool {
	if o.tag != other.tag {
		return o.tag.Less(other.tag)
	}
	return o.lit < other.lit
}

// String renders o for debugging/tracing.
func (o Op) String() string {
	if n, ok := o.IsConst(); ok {
		return fmt.Sprintf("%d", n)
	}
	return symbols.Name(o.tag)
}
