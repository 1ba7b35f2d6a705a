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

// Package dbg implements opt-in tracing for the engine's rebuild worklist.
// It is a package-level toggle rather than a logger threaded through every
// call so that tracing costs nothing when disabled.
package dbg

import (
	"fmt"

	log "github.com/golang/glog"
	"github.com/kylelemons/godebug/pretty"
)

var (
	// tracing controls whether Print emits anything. It is not safe to
	// flip concurrently with engine mutation, matching the single-owner
	// non-reentrant engine design (spec §5, §9).
	tracing = false
	indent  = ""
)

// Enable turns worklist tracing on or off.
func Enable(on bool) {
	tracing = on
}

// Enabled reports whether tracing is currently on.
func Enabled() bool {
	return tracing
}

// Print writes a trace line if tracing is enabled. v has the same shape as
// Printf's arguments.
func Print(format string, v ...interface{}) {
	if !tracing {
		return
	}
	fmt.Println(indent + fmt.Sprintf(format, v...))
}

// In increases the indent level used by Print, meant to bracket one level
// of recursion (e.g. one iteration of the union worklist).
func In() {
	if !tracing {
		return
	}
	indent += ". "
}

// Out decreases the indent level.
func Out() {
	if !tracing {
		return
	}
	if len(indent) >= 2 {
		indent = indent[:len(indent)-2]
	}
}

// Dump renders v as a multi-line structural pretty-print, used in trace
// output and in test failure messages for e-classes and shapes.
func Dump(v interface{}) string {
	return pretty.Sprint(v)
}

// Warn logs a recoverable-but-surprising engine condition, e.g. a repair
// that triggered a shrink the caller's cached call could not anticipate.
func Warn(format string, v ...interface{}) {
	log.Warningf(format, v...)
}
