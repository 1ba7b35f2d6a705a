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

// Package slot implements Slot, the opaque, totally-ordered identity used
// throughout the engine for variable/alpha-equivalence names.
package slot

import (
	"fmt"
	"sync/atomic"
)

// Slot is an opaque identity for a variable or alpha-name. Slots are totally
// ordered by their numeric id, which is otherwise meaningless outside of
// ordering and equality.
type Slot uint64

// Less reports whether s sorts before other.
func (s Slot) Less(other Slot) bool {
	return s < other
}

// String renders a slot for debugging, e.g. "$7".
func (s Slot) String() string {
	return fmt.Sprintf("$%d", uint64(s))
}

// Generator hands out fresh, never-before-seen slots. The zero value is
// ready to use.
type Generator struct {
	next atomic.Uint64
}

// Fresh returns a slot that has never been returned by this generator
// before. Safe for concurrent use.
func (g *Generator) Fresh() Slot {
	return Slot(g.next.Add(1))
}

// Load returns the number of slots this generator has handed out so far.
func (g *Generator) Load() uint64 {
	return g.next.Load()
}

// FromCount returns a new Generator that resumes handing out fresh slots
// after n, used to snapshot a generator's position without copying the
// atomic.Uint64 it wraps (copying it would trip go vet's copylocks check).
func FromCount(n uint64) *Generator {
	g := &Generator{}
	g.next.Store(n)
	return g
}

// global is the package-level generator used by Fresh.
var global Generator

// Fresh returns a fresh slot from the package-level generator. Most callers
// should use this; a private Generator is only needed when a caller wants
// fresh slots isolated from the rest of the program (e.g. deterministic
// tests).
func Fresh() Slot {
	return global.Fresh()
}

// Global returns the package-level generator Fresh draws from. Any engine
// that mints its own class/redundant slots (spec §3 "a fresh-generator",
// singular) must draw them from this same source rather than a private
// Generator, or its internally-minted slots can numerically collide with
// slots callers mint via Fresh for use in the same e-graph: EClassCall.Args
// and SlotMap composition rely on slot ids being globally distinct
// identities, not merely distinct within one generator.
func Global() *Generator {
	return &global
}
