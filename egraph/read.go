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
	"golang.org/x/exp/slices"

	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/enode"
	"github.com/slotted-egraph/egraph/internal/xerrors"
)

// Classes returns every canonical (union-find root, live) class ref, sorted
// for deterministic iteration (spec §6 "classes()"). Order is not mandated
// by the spec; sorting makes tests and tracing deterministic for free.
func (e *Engine[O]) Classes() []classref.EClassRef {
	out := make([]classref.EClassRef, 0, len(e.classes))
	for ref := range e.classes {
		out = append(out, ref)
	}
	slices.Sort(out)
	return out
}

// Nodes returns every e-node shape stored in call's class, each renamed from
// the shape's own slots through call's argument map into the caller's frame
// (spec §6 "nodes(call)").
func (e *Engine[O]) Nodes(call classref.EClassCall) ([]enode.ENode[O], error) {
	canon, err := e.uf.FindOrNullCall(call)
	if err != nil {
		return nil, err
	}
	cd, ok := e.classes[canon.Ref]
	if !ok {
		return nil, xerrors.EmptyClassLookup
	}
	out := make([]enode.ENode[O], 0, len(cd.nodes))
	for _, entry := range cd.nodes {
		out = append(out, entry.shape.Rename(entry.renaming.ComposeRetain(canon.Args)))
	}
	return out, nil
}

// Users returns the shapes of every e-node, in another class, that takes ref
// as an argument (spec §6 "users(ref)").
func (e *Engine[O]) Users(ref classref.EClassRef) ([]enode.ENode[O], error) {
	canon, err := e.uf.FindOrNull(ref)
	if err != nil {
		return nil, err
	}
	cd, ok := e.classes[canon.Ref]
	if !ok {
		return nil, xerrors.EmptyClassLookup
	}
	out := make([]enode.ENode[O], 0, len(cd.users))
	for _, shape := range cd.users {
		out = append(out, shape)
	}
	return out, nil
}

// Find returns node's canonical call if its canonical shape is already
// hash-consed, or xerrors.NotPresent otherwise (spec §6 "find(node)").
func (e *Engine[O]) Find(node enode.ENode[O]) (classref.EClassCall, error) {
	variants, err := e.enumerateVariants(node)
	if err != nil {
		return classref.EClassCall{}, err
	}
	best, _ := bestVariant(variants)

	ref, ok := e.hc.Lookup(best.node)
	if !ok {
		return classref.EClassCall{}, xerrors.NotPresent
	}
	cd, ok := e.classes[ref]
	if !ok {
		return classref.EClassCall{}, xerrors.EmptyClassLookup
	}
	entry, ok := cd.nodes[best.node.Key()]
	if !ok {
		return classref.EClassCall{}, xerrors.NotPresent
	}

	invBij, err := best.bij.Inverse()
	if err != nil {
		return classref.EClassCall{}, err
	}
	invRenaming, err := entry.renaming.Inverse()
	if err != nil {
		return classref.EClassCall{}, err
	}
	args := invRenaming.ComposeRetain(invBij).FilterKeys(cd.slots.Contains)
	return classref.EClassCall{Ref: ref, Args: args}, nil
}
