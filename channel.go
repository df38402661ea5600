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
	"errors"
	"sync"

	"github.com/Dqxl1t0AQAave4/act-common-src-com-port/dispatch"
)

// ChannelResult mirrors channel_base's result_t: whether the operation
// went through, the state observed when it was attempted, and the
// state that resulted.
type ChannelResult struct {
	OK       bool
	Observed State
	Result   State
}

// ChannelBase brackets a caller-supplied unit of work with a
// StateDiagram's LockOp/UnlockOp, against a backing Machine. It is
// generic over both so that a channel can be assembled from
// BasicDiagram plus either AtomicMachine or BlockingMachine (or a
// caller-supplied pair satisfying the two interfaces) without any
// runtime indirection.
//
// ChannelBase holds no notion of "open a serial port" or "read N
// bytes" itself, and has no Read, Write, Open, or Close methods. A
// concrete channel type embeds ChannelBase and implements the
// operations it supports by calling DoAs/DoAsAsync from its own
// methods; for an operation it does not support it returns the result
// of Unsupported, which reports ErrUnsupported.
type ChannelBase[D StateDiagram, M Machine] struct {
	Diagram D
	Machine M
	Pool    dispatch.Pool
}

// NewChannelBase constructs a ChannelBase. pool may be nil, in which
// case DoAsAsync falls back to dispatch.Goroutines().
func NewChannelBase[D StateDiagram, M Machine](diagram D, machine M, pool dispatch.Pool) *ChannelBase[D, M] {
	if pool == nil {
		pool = dispatch.Goroutines()
	}
	return &ChannelBase[D, M]{Diagram: diagram, Machine: machine, Pool: pool}
}

// DoAs runs work bracketed by op's lock/unlock pair, blocking the
// caller's goroutine for the duration of work. If op is not permitted
// from the current state, work is never called and ErrUnsupported's
// sibling channel error is returned instead.
//
// work's error return determines the unlock outcome: nil maps to
// ResultSuccess, non-nil to ResultFailure. The unlock step always
// runs once LockOp has succeeded, even when work panics, so a failed
// operation never leaves the channel wedged in a transitional state.
func (c *ChannelBase[D, M]) DoAs(op Op, work func() error) (ChannelResult, error) {
	lock := c.Machine.LockOp(c.Diagram, op)
	if !lock.OK {
		return ChannelResult{Observed: lock.Observed, Result: lock.Result}, NewChannelError(op, "not permitted from current state")
	}

	var workErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				workErr = NewChannelError(op, "panic during channel operation")
			}
		}()
		workErr = work()
	}()

	opResult := ResultSuccess
	if workErr != nil {
		opResult = ResultFailure
	}
	unlock := c.Machine.UnlockOp(c.Diagram, op, lock.Result, opResult)
	return ChannelResult{OK: unlock.OK, Observed: unlock.Observed, Result: unlock.Result}, workErr
}

// DoAsAsync is the non-blocking counterpart to DoAs: if op is
// permitted, work runs on c.Pool. The lock step itself is always
// synchronous, so the caller learns immediately whether the operation
// was even accepted.
//
// work is handed a pair of wrapped continuations, ok and fail, rather
// than returning a plain error, because the async form has three
// outcomes instead of DoAs's two: invoking ok unlocks with
// ResultSuccess and calls onSuccess; invoking fail unlocks with
// ResultFailure and calls onFailure; and returning normally without
// calling either leaves the operation in flight, unlocking only with
// ResultGuarantee -- a pure release fence that does not change state.
// ok and fail may be called from any goroutine, at any point after
// work is invoked, and only the first call of either is honored; work
// itself may also return a synchronous domain error in place of
// calling fail, which the engine treats identically to an explicit
// fail call.
func (c *ChannelBase[D, M]) DoAsAsync(op Op, work func(ok func(), fail func(error)) error, onSuccess func(ChannelResult), onFailure func(ChannelResult, error)) ChannelResult {
	lock := c.Machine.LockOp(c.Diagram, op)
	if !lock.OK {
		result := ChannelResult{Observed: lock.Observed, Result: lock.Result}
		if onFailure != nil {
			onFailure(result, NewChannelError(op, "not permitted from current state"))
		}
		return result
	}

	c.Pool.Go(func() {
		var mu sync.Mutex
		resolved := false

		resolve := func(opResult OpResult, err error) {
			mu.Lock()
			if resolved {
				mu.Unlock()
				return
			}
			resolved = true
			mu.Unlock()

			unlock := c.Machine.UnlockOp(c.Diagram, op, lock.Result, opResult)
			result := ChannelResult{OK: unlock.OK, Observed: unlock.Observed, Result: unlock.Result}
			if opResult == ResultFailure {
				if onFailure != nil {
					onFailure(result, err)
				}
				return
			}
			if onSuccess != nil {
				onSuccess(result)
			}
		}

		ok := func() { resolve(ResultSuccess, nil) }
		fail := func(err error) { resolve(ResultFailure, err) }

		var workErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					workErr = NewChannelError(op, "panic during channel operation")
				}
			}()
			workErr = work(ok, fail)
		}()

		if workErr != nil {
			fail(workErr)
			return
		}

		mu.Lock()
		pending := !resolved
		mu.Unlock()
		if pending {
			c.Machine.UnlockOp(c.Diagram, op, lock.Result, ResultGuarantee)
		}
	})

	return ChannelResult{OK: true, Observed: lock.Observed, Result: lock.Result}
}

// Unsupported is the body a concrete channel type returns from an
// operation it does not implement. Go has no virtual methods to fall
// back on, so nothing calls it implicitly: a concrete type calls
// Unsupported explicitly, or wires its own DoAs call instead. It leaves
// the state untouched and reports ErrUnsupported joined with a
// ChannelError for op.
func (c *ChannelBase[D, M]) Unsupported(op Op) (ChannelResult, error) {
	state := c.Machine.State()
	return ChannelResult{Observed: state, Result: state}, errors.Join(ErrUnsupported, NewChannelError(op, "no override registered"))
}
