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

import (
	"sync"
	"time"
)

// BlockingMachine is a Machine backed by a mutex and condition
// variable, the same pairing ilock.Mutex uses for its XLock/SLock wait
// loops. Unlike AtomicMachine it can genuinely suspend a goroutine
// until a predicate over its state holds, and it exposes a forced
// wakeup (Notify) independent of any state change, using a
// monotonically increasing counter observed at wait entry -- the same
// idiom channel_pool.h calls _force_signals.
type BlockingMachine struct {
	mu       sync.Mutex
	cond     *sync.Cond
	state    State
	flags    Flags
	forceGen uint64
}

var _ Machine = (*BlockingMachine)(nil)

// NewBlockingMachine returns a BlockingMachine starting in StateNone
// with the given declared flags.
func NewBlockingMachine(flags Flags) *BlockingMachine {
	m := &BlockingMachine{flags: flags}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// State implements Machine.
func (m *BlockingMachine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Flags implements Machine.
func (m *BlockingMachine) Flags() Flags {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags
}

// SetFlags implements Machine.
func (m *BlockingMachine) SetFlags(f Flags) {
	m.mu.Lock()
	m.flags = f
	m.mu.Unlock()
}

// SetState implements Machine.
func (m *BlockingMachine) SetState(expected, desired State, _ Guarantee) MachineResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Equal(expected) {
		return MachineResult{OK: false, Observed: m.state, Result: m.state}
	}
	observed := m.state
	m.state = desired
	if !observed.Equal(desired) {
		m.cond.Broadcast()
	}
	return MachineResult{OK: true, Observed: observed, Result: desired}
}

// LockOp implements Machine. Unlike AtomicMachine's CAS retry loop,
// the mutex means the diagram only ever has to be consulted once: no
// other goroutine can change state between the read and the write.
func (m *BlockingMachine) LockOp(d StateDiagram, op Op) MachineResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.state
	res := d.LockOp(op, current, m.flags)
	if !res.Permitted {
		return MachineResult{OK: false, Observed: current, Result: current}
	}
	m.state = res.State
	if !current.Equal(res.State) {
		m.cond.Broadcast()
	}
	return MachineResult{OK: true, Observed: current, Result: res.State}
}

// UnlockOp implements Machine, with the same single-consult shape as
// LockOp.
func (m *BlockingMachine) UnlockOp(d StateDiagram, op Op, lockedWith State, opResult OpResult) MachineResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.state
	res := d.UnlockOp(op, current, lockedWith, m.flags, opResult)
	if !res.Permitted {
		return MachineResult{OK: false, Observed: current, Result: current}
	}
	m.state = res.State
	if !current.Equal(res.State) {
		m.cond.Broadcast()
	}
	return MachineResult{OK: true, Observed: current, Result: res.State}
}

// ProvideGuarantee implements Machine using the shared self-to-self
// SetState loop. State and SetState each take the mutex separately, so
// a transition landing between them makes the loop retry; no observer
// sees a spurious broadcast since the committed state does not change.
func (m *BlockingMachine) ProvideGuarantee(guarantee Guarantee) {
	provideGuaranteeViaSetState(m, guarantee)
}

// WaitUnconditionally implements Machine: it blocks until predicate
// holds against the current state, with no timeout and no way to be
// force-cancelled. It is the degenerate case of Wait with an infinite
// timeout.
func (m *BlockingMachine) WaitUnconditionally(predicate Predicate) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for !predicate(m.state) {
		m.cond.Wait()
	}
	return true
}

// Wait blocks until predicate holds against the current state, the
// state transitions to include StateClosed, the timeout elapses, or
// Notify is called, whichever happens first. It returns the state
// observed at entry, the state observed at return time, and whether
// predicate was satisfied by the latter. A timeout of zero or less
// means "block indefinitely" -- the same convention ChannelPool.Wait
// uses.
//
// Notify's force counter is sampled under the same hold of the mutex
// as the entry checks, before the first cond.Wait, so a Notify racing
// with the start of a Wait call is never missed:
// any generation bump after that sample wakes this waiter's next
// cond.Wait regardless of whether the state itself changed.
func (m *BlockingMachine) Wait(timeout time.Duration, predicate Predicate) (satisfied bool, observedBefore, observedAfter State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := m.state

	if predicate(m.state) {
		return true, before, m.state
	}
	if m.state.HasAny(StateClosed) {
		return false, before, m.state
	}

	generation := m.forceGen

	if timeout <= 0 {
		for {
			if predicate(m.state) {
				return true, before, m.state
			}
			if m.state.HasAny(StateClosed) {
				return false, before, m.state
			}
			if m.forceGen != generation {
				return false, before, m.state
			}
			m.cond.Wait()
		}
	}

	deadline := time.Now().Add(timeout)
	timer := time.AfterFunc(timeout, func() {
		m.mu.Lock()
		m.cond.Broadcast()
		m.mu.Unlock()
	})
	defer timer.Stop()

	for {
		if predicate(m.state) {
			return true, before, m.state
		}
		if m.state.HasAny(StateClosed) {
			return false, before, m.state
		}
		if m.forceGen != generation {
			return false, before, m.state
		}
		if !time.Now().Before(deadline) {
			return false, before, m.state
		}
		m.cond.Wait()
	}
}

// Notify wakes every goroutine blocked in Wait, regardless of whether
// the state changed, by bumping the force-generation counter and
// broadcasting. Mirrors channel_pool.h's signal(), which exists
// precisely because a waiter's predicate can depend on information the
// pool does not track as part of the channel's own state.
func (m *BlockingMachine) Notify() {
	m.mu.Lock()
	m.forceGen++
	m.cond.Broadcast()
	m.mu.Unlock()
}
