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

// Package dispatch provides the pluggable async-execution backend that
// ChannelBase's non-blocking DoAs uses to run a channel operation off
// the caller's goroutine. Any of the adapters here may be swapped in
// without the channel engine itself knowing which concurrency library
// is underneath.
package dispatch

import (
	"github.com/gammazero/workerpool"
	"github.com/panjf2000/ants/v2"
	conc "github.com/sourcegraph/conc/pool"
)

// Pool is the common interface every backend satisfies.
type Pool interface {
	// Go submits f to run concurrently. It does not block on f's
	// completion and does not report submission errors: a backend that
	// cannot accept f (e.g. a closed ants.Pool) is expected to run it
	// inline rather than silently drop it.
	Go(f func())
}

// poolWrapper adapts a plain func(func()) into a Pool.
type poolWrapper func(f func())

func (p poolWrapper) Go(f func()) {
	p(f)
}

// Goroutines returns a Pool that launches an unbounded goroutine per
// submission, recovering any panic so one failed channel operation
// cannot bring down the process.
func Goroutines() Pool {
	return poolWrapper(func(f func()) {
		go func() {
			defer func() {
				_ = recover()
			}()
			f()
		}()
	})
}

// OfAnts adapts a github.com/panjf2000/ants/v2 pool. Submission
// failures (the pool is closed, or over capacity with a non-blocking
// strategy) fall back to running f inline, so a channel operation is
// never silently dropped.
func OfAnts(pool *ants.Pool) Pool {
	if pool == nil {
		panic("comport/dispatch: ants pool is nil")
	}
	return poolWrapper(func(f func()) {
		if err := pool.Submit(f); err != nil {
			f()
		}
	})
}

// OfWorkerpool adapts a github.com/gammazero/workerpool pool.
func OfWorkerpool(pool *workerpool.WorkerPool) Pool {
	if pool == nil {
		panic("comport/dispatch: worker pool is nil")
	}
	return poolWrapper(func(f func()) {
		pool.Submit(f)
	})
}

// OfConc adapts a github.com/sourcegraph/conc/pool pool. Unlike the
// other backends, a conc pool propagates a submitted function's panic
// to its own Wait call rather than to the submitter, which is the
// behavior channel operations dispatched through it should expect.
func OfConc(pool *conc.Pool) Pool {
	if pool == nil {
		panic("comport/dispatch: conc pool is nil")
	}
	return poolWrapper(func(f func()) {
		pool.Go(f)
	})
}
