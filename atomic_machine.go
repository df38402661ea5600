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

import "sync/atomic"

// AtomicMachine is a lock-free Machine: state transitions are applied
// with a compare-and-swap retry loop, the same shape ilock.Mutex uses
// to register shared/intention locks against a packed state word. It
// never suspends a goroutine; WaitUnconditionally always returns
// false immediately, so callers that need to block for a predicate
// must pair an AtomicMachine with a separate signalling mechanism (a
// ChannelPool, for instance).
type AtomicMachine struct {
	state atomic.Uint32
	flags atomic.Uint32
}

var _ Machine = (*AtomicMachine)(nil)

// NewAtomicMachine returns an AtomicMachine starting in StateNone with
// the given declared flags.
func NewAtomicMachine(flags Flags) *AtomicMachine {
	m := &AtomicMachine{}
	m.flags.Store(flags.Value())
	return m
}

// State implements Machine.
func (m *AtomicMachine) State() State {
	return NewBitField(m.state.Load())
}

// Flags implements Machine.
func (m *AtomicMachine) Flags() Flags {
	return NewBitField(m.flags.Load())
}

// SetFlags implements Machine. Must be called before any operation is
// attempted; concurrent use with Flags or a transition is a race.
func (m *AtomicMachine) SetFlags(f Flags) {
	m.flags.Store(f.Value())
}

// SetState implements Machine via a single CAS attempt.
func (m *AtomicMachine) SetState(expected, desired State, _ Guarantee) MachineResult {
	if m.state.CompareAndSwap(expected.Value(), desired.Value()) {
		return MachineResult{OK: true, Observed: expected, Result: desired}
	}
	observed := NewBitField(m.state.Load())
	return MachineResult{OK: false, Observed: observed, Result: observed}
}

// LockOp implements Machine, retrying the diagram evaluation against
// freshly observed state until either it is rejected or the CAS
// commits, mirroring ilock.Mutex's registerX/registerS retry shape.
func (m *AtomicMachine) LockOp(d StateDiagram, op Op) MachineResult {
	for {
		current := NewBitField(m.state.Load())
		res := d.LockOp(op, current, m.Flags())
		if !res.Permitted {
			return MachineResult{OK: false, Observed: current, Result: current}
		}
		if m.state.CompareAndSwap(current.Value(), res.State.Value()) {
			return MachineResult{OK: true, Observed: current, Result: res.State}
		}
	}
}

// UnlockOp implements Machine, with the same retry shape as LockOp.
func (m *AtomicMachine) UnlockOp(d StateDiagram, op Op, lockedWith State, opResult OpResult) MachineResult {
	for {
		current := NewBitField(m.state.Load())
		res := d.UnlockOp(op, current, lockedWith, m.Flags(), opResult)
		if !res.Permitted {
			return MachineResult{OK: false, Observed: current, Result: current}
		}
		if m.state.CompareAndSwap(current.Value(), res.State.Value()) {
			return MachineResult{OK: true, Observed: current, Result: res.State}
		}
	}
}

// ProvideGuarantee implements Machine using the shared self-to-self
// SetState loop.
func (m *AtomicMachine) ProvideGuarantee(guarantee Guarantee) {
	provideGuaranteeViaSetState(m, guarantee)
}

// WaitUnconditionally implements Machine. An AtomicMachine has no
// condition variable to suspend on, so it always returns false: the
// caller is expected to re-poll or to fall back to a ChannelPool wait.
func (m *AtomicMachine) WaitUnconditionally(_ Predicate) bool {
	return false
}
