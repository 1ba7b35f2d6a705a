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

// Package parallelmap implements the parallel-map collaborator the engine
// delegates fan-out to (spec §5, §6 "Parallel map contract"): per-node
// canonicalization during tryAddMany and per-metadata fan-out after a
// batch. No engine invariant depends on execution actually being parallel;
// Sequential and WorkerPool must be interchangeable.
package parallelmap

import (
	"context"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/slotted-egraph/egraph/internal/xerrors"
)

// ParallelMap applies a function across a slice of inputs, optionally in
// parallel, and runs bare thunks for side-effecting fan-out (metadata
// notification). Output order always matches input order.
type ParallelMap interface {
	// Apply calls f once per element of in, returning results in the same
	// order as in. If any call returns an error, Apply returns the first
	// one observed (not necessarily the first by index) and the partial
	// results slice is invalid.
	Apply(in int, f func(i int) (any, error)) ([]any, error)

	// Run executes thunk, a bare side-effecting step (e.g. one metadata
	// instance's notification), participating in the same cancellation and
	// concurrency policy as Apply.
	Run(thunk func() error) error

	// Child returns a named collaborator for nested work, used only for
	// timing/observability; implementations may return themselves.
	Child(name string) ParallelMap
}

// Cancelable wraps base so every unit of work first checks token, aborting
// the whole call with xerrors.Canceled as soon as it is observed set.
func Cancelable(base ParallelMap, token *CancelToken) ParallelMap {
	return &cancelable{base: base, token: token}
}

type cancelable struct {
	base  ParallelMap
	token *CancelToken
}

func (c *cancelable) Apply(n int, f func(i int) (any, error)) ([]any, error) {
	return c.base.Apply(n, func(i int) (any, error) {
		if c.token.Canceled() {
			return nil, xerrors.Canceled
		}
		return f(i)
	})
}

func (c *cancelable) Run(thunk func() error) error {
	if c.token.Canceled() {
		return xerrors.Canceled
	}
	return c.base.Run(thunk)
}

func (c *cancelable) Child(name string) ParallelMap {
	return &cancelable{base: c.base.Child(name), token: c.token}
}

// Sequential runs every unit of work on the calling goroutine, in order.
// This is the reference implementation every engine invariant must hold
// under, since spec §5 requires correctness independent of parallelism.
type Sequential struct {
	name string
}

// NewSequential returns a Sequential parallel map.
func NewSequential() *Sequential {
	return &Sequential{name: "root"}
}

func (s *Sequential) Apply(n int, f func(i int) (any, error)) ([]any, error) {
	out := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := f(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Sequential) Run(thunk func() error) error {
	return thunk()
}

func (s *Sequential) Child(name string) ParallelMap {
	return &Sequential{name: s.name + "/" + name}
}

// WorkerPool bounds concurrency to a fixed number of goroutines via
// golang.org/x/sync/errgroup, the pattern this module's teacher pack uses
// for per-file parallel resolution with indexed result slices (see
// DESIGN.md). Child returns a separate WorkerPool with a nested name and the
// same limit value; each Apply call builds its own errgroup, so concurrent
// calls on a pool and its children are each bounded separately.
type WorkerPool struct {
	name  string
	limit int
}

// NewWorkerPool returns a WorkerPool that runs at most limit units of work
// concurrently. limit <= 0 means "let errgroup pick no limit" (unbounded).
func NewWorkerPool(limit int) *WorkerPool {
	return &WorkerPool{name: "root", limit: limit}
}

func (w *WorkerPool) Apply(n int, f func(i int) (any, error)) ([]any, error) {
	out := make([]any, n)
	g, ctx := errgroup.WithContext(context.Background())
	if w.limit > 0 {
		g.SetLimit(w.limit)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			v, err := f(i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (w *WorkerPool) Run(thunk func() error) error {
	return thunk()
}

func (w *WorkerPool) Child(name string) ParallelMap {
	glog.V(2).Infof("parallelmap: forking child %s/%s", w.name, name)
	return &WorkerPool{name: w.name + "/" + name, limit: w.limit}
}
