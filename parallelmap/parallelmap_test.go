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

package parallelmap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/slotted-egraph/egraph/internal/xerrors"
)

func square(i int) (any, error) { return i * i, nil }

func TestSequentialApplyPreservesOrder(t *testing.T) {
	pm := NewSequential()
	out, err := pm.Apply(5, square)
	if err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	for i, v := range out {
		if v.(int) != i*i {
			t.Errorf("out[%d] = %v, want %d", i, v, i*i)
		}
	}
}

func TestWorkerPoolApplyPreservesOrder(t *testing.T) {
	pm := NewWorkerPool(4)
	out, err := pm.Apply(50, square)
	if err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	for i, v := range out {
		if v.(int) != i*i {
			t.Errorf("out[%d] = %v, want %d", i, v, i*i)
		}
	}
}

func TestWorkerPoolApplyPropagatesError(t *testing.T) {
	pm := NewWorkerPool(2)
	boom := errors.New("boom")
	_, err := pm.Apply(10, func(i int) (any, error) {
		if i == 5 {
			return nil, boom
		}
		return i, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Apply error = %v, want boom", err)
	}
}

func TestCancelableAbortsOnToken(t *testing.T) {
	token := NewCancelToken()
	pm := Cancelable(NewSequential(), token)
	token.Cancel()
	_, err := pm.Apply(3, square)
	if !errors.Is(err, xerrors.Canceled) {
		t.Errorf("Apply after cancel error = %v, want Canceled", err)
	}
}

func TestCancelableRunChecksToken(t *testing.T) {
	token := NewCancelToken()
	pm := Cancelable(NewSequential(), token)
	ran := false
	if err := pm.Run(func() error { ran = true; return nil }); err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if !ran {
		t.Errorf("Run did not execute thunk before cancellation")
	}

	token.Cancel()
	if err := pm.Run(func() error { return fmt.Errorf("should not run") }); !errors.Is(err, xerrors.Canceled) {
		t.Errorf("Run after cancel error = %v, want Canceled", err)
	}
}

func TestChildNamesNest(t *testing.T) {
	pm := NewSequential()
	child := pm.Child("fanout").(*Sequential)
	if child.name != "root/fanout" {
		t.Errorf("Child name = %q, want %q", child.name, "root/fanout")
	}
}

func TestCancelTokenStartsUncancelled(t *testing.T) {
	token := NewCancelToken()
	if token.Canceled() {
		t.Errorf("fresh CancelToken reports canceled")
	}
}
