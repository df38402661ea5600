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

// DiagramResult is the outcome of evaluating a transition: whether it
// is permitted, the resulting state (unchanged from the input state
// when not permitted), and the memory-ordering guarantee the caller
// should install.
type DiagramResult struct {
	Permitted bool
	State     State
	Guarantee Guarantee
}

// StateDiagram is a pure, stateless transition function pair. Given an
// operation, the state a machine started with, and the channel's
// declared flags, it reports whether the operation is permitted and,
// if so, the new state. It never mutates anything and holds no
// machine-specific data, so a single StateDiagram instance may be
// shared across any number of channels.
type StateDiagram interface {
	// LockOp evaluates whether op may begin given startedWith and the
	// channel's flags. Bits of startedWith not touched by the rule
	// below are preserved verbatim in the returned state.
	LockOp(op Op, startedWith State, flags Flags) DiagramResult

	// UnlockOp evaluates the completion of op, given the machine's
	// current state when the unlock is evaluated (startedWith, which
	// already includes what LockOp applied), the state LockOp produced
	// (lockedWith), and the result the bracketed work produced. When
	// opResult is
	// ResultGuarantee the call is a pure fence: it always succeeds and
	// never changes state.
	UnlockOp(op Op, startedWith, lockedWith State, flags Flags, opResult OpResult) DiagramResult
}

// BasicDiagram is the default StateDiagram: the NONE -> OPENING ->
// OPEN -> CLOSING -> CLOSED lifecycle with independent readable/
// writable modifier bits. It holds no state of its own.
type BasicDiagram struct{}

var _ StateDiagram = BasicDiagram{}

func notPermitted(startedWith State) DiagramResult {
	return DiagramResult{Permitted: false, State: startedWith, Guarantee: GuaranteeAcquire}
}

func notPermittedUnlock(startedWith State) DiagramResult {
	return DiagramResult{Permitted: false, State: startedWith, Guarantee: GuaranteeRelease}
}

// LockOp implements StateDiagram.
func (BasicDiagram) LockOp(op Op, startedWith State, flags Flags) DiagramResult {
	switch op {
	case OpOpen:
		if startedWith.HasAny(mainStateMask) {
			return notPermitted(startedWith)
		}
		next := startedWith
		next.Add(StateOpening)
		return DiagramResult{Permitted: true, State: next, Guarantee: GuaranteeAcquire}

	case OpClose:
		if startedWith.HasAny(StateOpening | StateClosing | StateClosed) {
			return notPermitted(startedWith)
		}
		required := OperableState(flags)
		if !startedWith.HasAll(required.Value()) {
			return notPermitted(startedWith)
		}
		next := startedWith
		next.Clear(StateOpen)
		next.Add(StateClosing)
		return DiagramResult{Permitted: true, State: next, Guarantee: GuaranteeAcquire}

	case OpRead:
		if !startedWith.HasAll(StateOpen | StateReadable) {
			return notPermitted(startedWith)
		}
		next := startedWith
		next.Clear(StateReadable)
		return DiagramResult{Permitted: true, State: next, Guarantee: GuaranteeAcquire}

	case OpWrite:
		if !startedWith.HasAll(StateOpen | StateWritable) {
			return notPermitted(startedWith)
		}
		next := startedWith
		next.Clear(StateWritable)
		return DiagramResult{Permitted: true, State: next, Guarantee: GuaranteeAcquire}

	default:
		return notPermitted(startedWith)
	}
}

// UnlockOp implements StateDiagram.
func (BasicDiagram) UnlockOp(op Op, startedWith, _ State, flags Flags, opResult OpResult) DiagramResult {
	if opResult == ResultGuarantee {
		return DiagramResult{Permitted: true, State: startedWith, Guarantee: GuaranteeRelease}
	}

	switch op {
	case OpOpen:
		if !startedWith.HasAll(StateOpening) {
			return notPermittedUnlock(startedWith)
		}
		next := startedWith
		next.Clear(StateOpening)
		if opResult == ResultSuccess {
			next.Add(StateOpen)
			next.Add(OperableState(flags).Value())
		}
		return DiagramResult{Permitted: true, State: next, Guarantee: GuaranteeRelease}

	case OpClose:
		if !startedWith.HasAll(StateClosing) {
			return notPermittedUnlock(startedWith)
		}
		next := startedWith
		next.Clear(StateClosing)
		next.Add(StateClosed)
		return DiagramResult{Permitted: true, State: next, Guarantee: GuaranteeRelease}

	case OpRead:
		if !startedWith.HasAll(StateOpen) || startedWith.HasAny(StateReadable) {
			return notPermittedUnlock(startedWith)
		}
		next := startedWith
		next.Add(StateReadable)
		return DiagramResult{Permitted: true, State: next, Guarantee: GuaranteeRelease}

	case OpWrite:
		if !startedWith.HasAll(StateOpen) || startedWith.HasAny(StateWritable) {
			return notPermittedUnlock(startedWith)
		}
		next := startedWith
		next.Add(StateWritable)
		return DiagramResult{Permitted: true, State: next, Guarantee: GuaranteeRelease}

	default:
		return notPermittedUnlock(startedWith)
	}
}
