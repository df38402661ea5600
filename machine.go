// Copyright 2024 the act-common-src-com-port authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package comport

// MachineResult is the outcome of a compare-and-set style operation on
// a Machine: whether it succeeded, the state observed at the moment of
// invocation, and the state that resulted (equal to observed when the
// call failed).
type MachineResult struct {
	OK       bool
	Observed State
	Result   State
}

// Predicate tests a cached or observed state. Used by both
// Machine.WaitUnconditionally and the predicate-based pool/machine
// waits.
type Predicate func(State) bool

// Machine holds the current state word and capability flags for a
// single channel, and applies StateDiagram transitions to it either
// lock-free (AtomicMachine) or under a mutex (BlockingMachine).
//
// Flags are single-writer: SetFlags must be called at most once,
// before any operation is attempted on the channel, and never
// concurrently with Flags().
type Machine interface {
	// State returns the current state word. Must not tear.
	State() State

	// Flags returns the channel's declared capabilities.
	Flags() Flags

	// SetFlags sets the channel's declared capabilities. Single-writer.
	SetFlags(f Flags)

	// SetState attempts to move from expected to desired, installing
	// guarantee as a fence. On mismatch, OK is false and Observed holds
	// the current value (Result equals Observed).
	SetState(expected, desired State, guarantee Guarantee) MachineResult

	// LockOp consults d against the current state and applies the
	// permitted transition, retrying through spurious contention until
	// either the diagram rejects the operation or the transition
	// commits.
	LockOp(d StateDiagram, op Op) MachineResult

	// UnlockOp is the same shape as LockOp, but evaluates the
	// completion of op given the state the machine was locked with.
	UnlockOp(d StateDiagram, op Op, lockedWith State, opResult OpResult) MachineResult

	// ProvideGuarantee publishes guarantee as a no-op transition: the
	// state is set to itself, so no observer sees a change, but the
	// memory-ordering fence is installed.
	ProvideGuarantee(guarantee Guarantee)

	// WaitUnconditionally blocks (where the implementation supports
	// blocking) until predicate holds, returning true. Implementations
	// that never suspend return false immediately.
	WaitUnconditionally(predicate Predicate) bool
}

// provideGuaranteeViaSetState is the shared provide_guarantee
// algorithm: retry a self-to-self SetState until it commits, installing
// guarantee without changing state. Both Machine implementations use
// it, matching the single default body channel.h gives
// state_machine::provide_guarantee.
func provideGuaranteeViaSetState(m Machine, guarantee Guarantee) {
	observed := m.State()
	for {
		res := m.SetState(observed, observed, guarantee)
		if res.OK {
			return
		}
		observed = res.Observed
	}
}
