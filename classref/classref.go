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

// Package classref defines EClassRef and EClassCall, the engine's class
// identifiers and class references, plus the slot-aware UnionFind that
// resolves a possibly-stale ref to its canonical call.
package classref

import (
	"fmt"

	"github.com/slotted-egraph/egraph/slotmap"
)

// EClassRef is an opaque, dense-integer class identifier. Refs are never
// reused and are stable for the lifetime of the engine that allocated them,
// even after the class they once named has been unioned away or unlinked
// (spec §3 "Lifecycles").
type EClassRef uint64

// String renders a ref for debugging, e.g. "#7".
func (r EClassRef) String() string {
	return fmt.Sprintf("#%d", uint64(r))
}

// EClassCall is a reference to a class together with the argument slot map
// the caller supplies for the class's parameter slots: args maps the
// class's parameter slots to slots visible to the caller.
type EClassCall struct {
	Ref  EClassRef
	Args slotmap.SlotMap
}

// String renders a call for debugging, e.g. "#7[$1->$2]".
func (c EClassCall) String() string {
	return c.Ref.String() + c.Args.String()
}

// Equal reports whether a and b are the same ref with the same argument
// map.
func Equal(a, b EClassCall) bool {
	return a.Ref == b.Ref && slotmap.Equal(a.Args, b.Args)
}
