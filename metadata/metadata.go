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

// Package metadata implements the Metadata hook contract (spec §6): a
// collaborator notified after every mutating batch so it can maintain a
// derived view (a cost model, a size estimate, provenance) alongside the
// engine's own class data without the engine needing to know what that view
// is for.
package metadata

import (
	"github.com/slotted-egraph/egraph/egraph"
	"github.com/slotted-egraph/egraph/classref"
	"github.com/slotted-egraph/egraph/enode"
	"github.com/slotted-egraph/egraph/internal/xerrors"
	"github.com/slotted-egraph/egraph/parallelmap"
	"github.com/slotted-egraph/egraph/tree"
)

// Added describes one newly-created (node, classCall) pair from a TryAddMany
// batch. Nodes whose shape was already hash-consed (AddResult AlreadyThere)
// never appear here: Metadata only hears about genuinely new classes.
type Added[O enode.Op[O]] struct {
	Node enode.ENode[O]
	Call classref.EClassCall
}

// Metadata is notified after every engine mutation, with the engine already
// reflecting that mutation (graphAfter), so a hook can re-query canonical
// state instead of reconstructing it from the batch alone. Implementations
// must treat added/equivalences as sets — ordering must not affect the
// result — and should treat Emptied as the signal to drop all derived state.
type Metadata[O enode.Op[O]] interface {
	// OnAddMany is called once per TryAddMany/Add batch with the pairs
	// that created a new class, the engine as it stands after the
	// batch, and the parallel map the batch itself ran under.
	OnAddMany(added []Added[O], graph *egraph.Engine[O], pm parallelmap.ParallelMap) error
	// OnUnionMany is called once per UnionMany/Union batch, after the
	// engine has already applied the union and rebuilt, with the
	// resulting equivalence groups and the post-rebuild engine.
	OnUnionMany(equivalences []egraph.Equivalence, graph *egraph.Engine[O]) error
	// Emptied returns a fresh Metadata instance with no derived state,
	// mirroring Engine.Emptied.
	Emptied() Metadata[O]
}

// EngineWithMetadata pairs a mutable Engine with a set of Metadata
// collaborators, invoking every collaborator after each mutating call
// completes (spec §6 "Metadata hook contract"). Collaborator fan-out itself
// runs through a parallelmap.ParallelMap child, the same collaborator the
// engine uses for per-node work, so Metadata instances are bound by the same
// "must behave identically whether run sequentially or in parallel"
// contract as the rest of the engine (spec §5).
type EngineWithMetadata[O enode.Op[O]] struct {
	Engine *egraph.Engine[O]
	hooks  []Metadata[O]
	pm     parallelmap.ParallelMap
}

// New wraps eng with hooks, notified in order after every mutating call. pm
// may be nil, in which case fan-out runs sequentially.
func New[O enode.Op[O]](eng *egraph.Engine[O], pm parallelmap.ParallelMap, hooks ...Metadata[O]) *EngineWithMetadata[O] {
	if pm == nil {
		pm = parallelmap.NewSequential()
	}
	return &EngineWithMetadata[O]{Engine: eng, hooks: append([]Metadata[O](nil), hooks...), pm: pm}
}

// Emptied returns a fresh EngineWithMetadata of the same configuration: an
// empty engine paired with every hook's own Emptied().
func (m *EngineWithMetadata[O]) Emptied() *EngineWithMetadata[O] {
	hooks := make([]Metadata[O], len(m.hooks))
	for i, h := range m.hooks {
		hooks[i] = h.Emptied()
	}
	return &EngineWithMetadata[O]{Engine: m.Engine.Emptied(), hooks: hooks, pm: m.pm}
}

// TryAddMany inserts nodes into the engine, then notifies every hook with
// the resulting outcomes. A hook error does not undo the insertion — the
// engine's own state always reflects what the hashcons actually holds — but
// is reported to the caller, aggregated if more than one hook fails.
func (m *EngineWithMetadata[O]) TryAddMany(nodes []enode.ENode[O], pm parallelmap.ParallelMap) ([]egraph.AddOutcome, error) {
	outcomes, err := m.Engine.TryAddMany(nodes, pm)
	if err != nil {
		return nil, err
	}
	var added []Added[O]
	for i, o := range outcomes {
		if o.Result == egraph.Added {
			added = append(added, Added[O]{Node: nodes[i], Call: o.Call})
		}
	}
	return outcomes, m.notifyAdd(added, pm)
}

// Add is a single-node convenience wrapper around TryAddMany.
func (m *EngineWithMetadata[O]) Add(node enode.ENode[O]) (egraph.AddOutcome, error) {
	out, err := m.TryAddMany([]enode.ENode[O]{node}, nil)
	if err != nil {
		return egraph.AddOutcome{}, err
	}
	return out[0], nil
}

// UnionMany unions pairs on the engine, then notifies every hook with the
// resulting equivalences.
func (m *EngineWithMetadata[O]) UnionMany(pairs []egraph.Pair, pm parallelmap.ParallelMap) ([]egraph.Equivalence, error) {
	equivalences, err := m.Engine.UnionMany(pairs, pm)
	if err != nil {
		return nil, err
	}
	return equivalences, m.notifyUnion(equivalences)
}

// Union is a single-pair convenience wrapper around UnionMany.
func (m *EngineWithMetadata[O]) Union(l, r classref.EClassCall) ([]egraph.Equivalence, error) {
	return m.UnionMany([]egraph.Pair{{L: l, R: r}}, nil)
}

// AddTree mirrors Engine.AddTree, but routes every node insertion through
// Add so hooks are notified for each new class the tree introduces, not
// just the root.
func (m *EngineWithMetadata[O]) AddTree(t tree.MixedTree[O, classref.EClassCall]) (classref.EClassCall, error) {
	if a, ok := t.Atom(); ok {
		return m.Engine.CanonicalizeCall(a)
	}
	children := t.Children()
	args := make([]classref.EClassCall, len(children))
	for i, c := range children {
		call, err := m.AddTree(c)
		if err != nil {
			return classref.EClassCall{}, err
		}
		args[i] = call
	}
	node := enode.New(t.Op(), t.Defs(), t.Uses(), args)
	outcome, err := m.Add(node)
	if err != nil {
		return classref.EClassCall{}, err
	}
	return outcome.Call, nil
}

func (m *EngineWithMetadata[O]) notifyAdd(added []Added[O], batchPM parallelmap.ParallelMap) error {
	fanout := m.pm.Child("metadata.add")
	var errs xerrors.Errors
	for _, h := range m.hooks {
		h := h
		errs = xerrors.Append(errs, fanout.Run(func() error {
			return h.OnAddMany(added, m.Engine, batchPM)
		}))
	}
	return xerrors.OrNil(errs)
}

func (m *EngineWithMetadata[O]) notifyUnion(equivalences []egraph.Equivalence) error {
	fanout := m.pm.Child("metadata.union")
	var errs xerrors.Errors
	for _, h := range m.hooks {
		h := h
		errs = xerrors.Append(errs, fanout.Run(func() error {
			return h.OnUnionMany(equivalences, m.Engine)
		}))
	}
	return xerrors.OrNil(errs)
}
