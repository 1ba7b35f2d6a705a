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

// Package xerrors defines the engine's local error taxonomy and a small
// error-aggregation type used wherever a batch operation can fail in more
// than one independent way.
package xerrors

import "errors"

// Sentinel errors. Callers compare against these with errors.Is.
var (
	// NotPresent is returned when a ref or node is not known to the engine.
	NotPresent = errors.New("not present")
	// NotBijection is returned by SlotMap.Inverse when the map is not one-to-one.
	NotBijection = errors.New("slot map is not a bijection")
	// IntermediateNotCovered is returned by strict SlotMap.Compose when the
	// codomain does not cover every value produced by the first map.
	IntermediateNotCovered = errors.New("intermediate slot not covered by composed map")
	// EmptyClassLookup is returned when class data is requested for a ref
	// that has been unlinked; the caller must canonicalize first.
	EmptyClassLookup = errors.New("class has been unlinked, canonicalize first")
	// Canceled is returned when a long-running operation observes a
	// cancellation token mid-batch.
	Canceled = errors.New("operation canceled")
	// DebugInvariantBroken indicates an assertion failure reachable only
	// when debug assertions are enabled; it always indicates an engine bug.
	DebugInvariantBroken = errors.New("internal invariant broken")
)

// Errors is a slice of error that itself implements error, for batch
// operations that collect more than one independent failure before
// reporting.
type Errors []error

// Error implements the error interface.
func (e Errors) Error() string {
	return ToString([]error(e))
}

// String implements fmt.Stringer.
func (e Errors) String() string {
	return e.Error()
}

// Unwrap allows errors.Is/errors.As to see through an Errors value to its
// members.
func (e Errors) Unwrap() []error {
	return []error(e)
}

// New returns an Errors containing err, or nil if err is nil.
func New(err error) Errors {
	if err == nil {
		return nil
	}
	return Errors{err}
}

// Append appends err to errs if err is non-nil, and returns the result.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}
	return append(errs, err)
}

// AppendAll appends every non-nil error in more to errs and returns the
// result.
func AppendAll(errs Errors, more []error) Errors {
	for _, e := range more {
		errs = Append(errs, e)
	}
	return errs
}

// OrNil returns errs as an error, or nil if errs is empty.
func OrNil(errs Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ToString renders a slice of errors, skipping any nil entries.
func ToString(errs []error) string {
	var out string
	for _, e := range errs {
		if e == nil {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += e.Error()
	}
	return out
}
