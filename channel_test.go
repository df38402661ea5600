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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestChannel(flags Constant) *ChannelBase[BasicDiagram, *BlockingMachine] {
	return NewChannelBase[BasicDiagram, *BlockingMachine](
		BasicDiagram{},
		NewBlockingMachine(NewBitField(flags)),
		nil,
	)
}

func TestChannelBaseDoAsSuccessTransitionsState(t *testing.T) {
	c := newTestChannel(FlagReadable | FlagWritable)

	res, err := c.DoAs(OpOpen, func() error { return nil })
	assert.NoError(t, err)
	assert.True(t, res.OK)
	assert.True(t, res.Result.Equal(NewBitField[Constant](StateOpen|StateReadable|StateWritable)))
}

func TestChannelBaseDoAsFailureStillUnlocks(t *testing.T) {
	c := newTestChannel(0)
	boom := errors.New("boom")

	res, err := c.DoAs(OpOpen, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, res.OK)
	// A failed open reverts to none, per the diagram's unlock rule.
	assert.True(t, res.Result.Equal(NewBitField[Constant](StateNone)))
}

func TestChannelBaseDoAsRejectsDisallowedOp(t *testing.T) {
	c := newTestChannel(FlagReadable)
	called := false

	_, err := c.DoAs(OpRead, func() error { called = true; return nil })
	assert.Error(t, err)
	assert.False(t, called, "work must not run when the op is not permitted")
}

func TestChannelBaseDoAsRecoversPanic(t *testing.T) {
	c := newTestChannel(0)

	res, err := c.DoAs(OpOpen, func() error { panic("oh no") })
	assert.Error(t, err)
	assert.True(t, res.OK, "the unlock step must still run after a panicking op")
}

func TestChannelBaseDoAsAsyncRunsCallback(t *testing.T) {
	c := newTestChannel(FlagReadable)
	done := make(chan ChannelResult, 1)

	lockResult := c.DoAsAsync(OpOpen,
		func(ok func(), fail func(error)) error { ok(); return nil },
		func(r ChannelResult) { done <- r },
		func(ChannelResult, error) { t.Fatal("unexpected failure callback") },
	)
	assert.True(t, lockResult.OK)

	select {
	case r := <-done:
		assert.True(t, r.Result.Equal(NewBitField[Constant](StateOpen|StateReadable)))
	case <-time.After(time.Second):
		t.Fatal("onSuccess callback was never invoked")
	}
}

func TestChannelBaseDoAsAsyncFailureCallback(t *testing.T) {
	c := newTestChannel(0)
	boom := errors.New("async boom")
	done := make(chan error, 1)

	c.DoAsAsync(OpOpen,
		func(ok func(), fail func(error)) error { fail(boom); return nil },
		func(ChannelResult) { t.Fatal("unexpected success callback") },
		func(_ ChannelResult, err error) { done <- err },
	)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("onFailure callback was never invoked")
	}
}

// TestChannelBaseDoAsAsyncSynchronousErrorResolvesAsFailure checks that
// a work function returning a domain error instead of calling fail
// directly is still treated as a resolved failure: the engine unlocks
// with ResultFailure and forwards to onFailure, per spec.md §4.3's
// "work raises a domain error synchronously" branch.
func TestChannelBaseDoAsAsyncSynchronousErrorResolvesAsFailure(t *testing.T) {
	c := newTestChannel(0)
	boom := errors.New("synchronous boom")
	done := make(chan error, 1)

	c.DoAsAsync(OpOpen,
		func(ok func(), fail func(error)) error { return boom },
		func(ChannelResult) { t.Fatal("unexpected success callback") },
		func(_ ChannelResult, err error) { done <- err },
	)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("onFailure callback was never invoked")
	}
}

// TestChannelBaseDoAsAsyncPendingLeavesStateLocked reproduces spec.md
// §4.3's pending branch: work returns normally without invoking either
// callback, so the engine installs a release fence (ResultGuarantee)
// but leaves the channel's state exactly as LockOp left it -- the
// operation is considered in-flight until some other goroutine later
// calls ok or fail.
func TestChannelBaseDoAsAsyncPendingLeavesStateLocked(t *testing.T) {
	c := newTestChannel(FlagReadable)
	started := make(chan struct{})
	release := make(chan func(), 1)

	lockResult := c.DoAsAsync(OpOpen,
		func(ok func(), fail func(error)) error {
			release <- ok
			close(started)
			return nil
		},
		func(ChannelResult) {},
		func(ChannelResult, error) { t.Fatal("unexpected failure callback") },
	)
	assert.True(t, lockResult.OK)

	<-started
	// work has returned without resolving; the channel must still be
	// locked in the transitional OPENING state, not OPEN.
	assert.True(t, c.Machine.State().Equal(NewBitField[Constant](StateOpening)))

	ok := <-release
	ok()

	assert.Eventually(t, func() bool {
		return c.Machine.State().Equal(NewBitField[Constant](StateOpen | StateReadable))
	}, time.Second, time.Millisecond)
}

func TestChannelBaseUnsupportedReportsError(t *testing.T) {
	c := newTestChannel(0)
	_, err := c.Unsupported(OpRead)
	assert.ErrorIs(t, err, ErrUnsupported)
}

// TestChannelBaseCloseGuardedByIdleCapabilities reproduces spec
// scenario 2: a channel declaring both readable and writable flags is
// open with a write in flight (WRITABLE not yet set). Close must be
// rejected while WRITABLE is absent, then succeed once the write
// completes and restores it.
func TestChannelBaseCloseGuardedByIdleCapabilities(t *testing.T) {
	c := newTestChannel(FlagReadable | FlagWritable)

	res, err := c.DoAs(OpOpen, func() error { return nil })
	assert.NoError(t, err)
	assert.True(t, res.Result.Equal(NewBitField[Constant](StateOpen|StateReadable|StateWritable)))

	writeLock := c.Machine.LockOp(c.Diagram, OpWrite)
	assert.True(t, writeLock.OK)
	assert.True(t, writeLock.Result.Equal(NewBitField[Constant](StateOpen|StateReadable)))

	_, closeErr := c.DoAs(OpClose, func() error { return nil })
	assert.Error(t, closeErr, "close must be rejected while a declared capability is mid-operation")
	assert.True(t, c.Machine.State().Equal(NewBitField[Constant](StateOpen|StateReadable)))

	writeUnlock := c.Machine.UnlockOp(c.Diagram, OpWrite, writeLock.Result, ResultSuccess)
	assert.True(t, writeUnlock.OK)
	assert.True(t, c.Machine.State().Equal(NewBitField[Constant](StateOpen|StateReadable|StateWritable)))

	closeRes, err := c.DoAs(OpClose, func() error { return nil })
	assert.NoError(t, err)
	assert.True(t, closeRes.Result.Equal(NewBitField[Constant](StateClosed|StateReadable|StateWritable)))
}
