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

package dispatch

import (
	"testing"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/panjf2000/ants/v2"
	conc "github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/assert"
)

func TestGoroutinesRunsSubmittedWork(t *testing.T) {
	p := Goroutines()
	done := make(chan struct{})
	p.Go(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Goroutines pool did not run the submitted function")
	}
}

func TestGoroutinesRecoversPanic(t *testing.T) {
	p := Goroutines()
	done := make(chan struct{})
	p.Go(func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a panicking submission must not prevent the deferred close from running")
	}
}

func TestOfAntsRunsSubmittedWork(t *testing.T) {
	antsPool, err := ants.NewPool(4)
	assert.NoError(t, err)
	defer antsPool.Release()

	p := OfAnts(antsPool)
	done := make(chan struct{})
	p.Go(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ants-backed pool did not run the submitted function")
	}
}

func TestOfWorkerpoolRunsSubmittedWork(t *testing.T) {
	wp := workerpool.New(4)
	defer wp.StopWait()

	p := OfWorkerpool(wp)
	done := make(chan struct{})
	p.Go(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workerpool-backed pool did not run the submitted function")
	}
}

func TestOfConcRunsSubmittedWork(t *testing.T) {
	concPool := conc.New()
	defer concPool.Wait()

	p := OfConc(concPool)
	done := make(chan struct{})
	p.Go(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("conc-backed pool did not run the submitted function")
	}
}

func TestOfAntsPanicsOnNilPool(t *testing.T) {
	assert.Panics(t, func() { OfAnts(nil) })
}

func TestOfWorkerpoolPanicsOnNilPool(t *testing.T) {
	assert.Panics(t, func() { OfWorkerpool(nil) })
}

func TestOfConcPanicsOnNilPool(t *testing.T) {
	assert.Panics(t, func() { OfConc(nil) })
}
