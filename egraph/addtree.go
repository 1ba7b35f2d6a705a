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
	"github.com/slotted-egraph/egraph/tree"
)

// AddTree inserts t, recursively inserting every child subtree bottom-up
// first, and returns the call denoting t's root (spec §4.7 "the engine
// consumes MixedTree for bulk insertion"). An Atom leaf is returned as-is,
// re-canonicalized against the current graph so a caller building a tree
// from calls captured before earlier rebuilds still lands on a live class.
func (e *Engine[O]) AddTree(t tree.MixedTree[O, classref.EClassCall]) (classref.EClassCall, error) {
	if a, ok := t.Atom(); ok {
		return e.uf.FindOrNullCall(a)
	}
	children := t.Children()
	args := make([]classref.EClassCall, len(children))
	for i, c := range children {
		call, err := e.AddTree(c)
		if err != nil {
			return classref.EClassCall{}, err
		}
		args[i] = call
	}
	node := enode.New(t.Op(), t.Defs(), t.Uses(), args)
	outcome, err := e.Add(node)
	if err != nil {
		return classref.EClassCall{}, err
	}
	return outcome.Call, nil
}

// AddTrees inserts every tree in ts independently, in order, returning each
// root call (spec §6 "tryAddMany" extended to the tree-shaped bulk form).
func (e *Engine[O]) AddTrees(ts []tree.MixedTree[O, classref.EClassCall]) ([]classref.EClassCall, error) {
	out := make([]classref.EClassCall, len(ts))
	for i, t := range ts {
		call, err := e.AddTree(t)
		if err != nil {
			return nil, err
		}
		out[i] = call
	}
	return out, nil
}
