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
	"sync/atomic"
	"time"
)

// CancelToken is a thread-safe boolean flag polled cooperatively (spec §5,
// §6 "Cancellation token"). The engine does not read it itself; a
// ParallelMap wrapped with Cancelable checks it before each item of Apply
// and before each Run.
type CancelToken struct {
	canceled atomic.Bool
	timer    *time.Timer
}

// NewCancelToken returns an uncancelled token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the token, observable by any goroutine polling Canceled.
func (t *CancelToken) Cancel() {
	t.canceled.Store(true)
}

// Canceled reports whether Cancel has been called.
func (t *CancelToken) Canceled() bool {
	return t.canceled.Load()
}

// CancelAfter schedules Cancel to run after d elapses. Calling CancelAfter
// again replaces any previously scheduled cancellation.
func (t *CancelToken) CancelAfter(d time.Duration) {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, t.Cancel)
}
