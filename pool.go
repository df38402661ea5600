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
	"sort"
	"sync"
	"time"

	"github.com/Dqxl1t0AQAave4/act-common-src-com-port/telemetry"
)

// Key identifies an entry in a ChannelPool. Keys are assigned by Put
// in strictly increasing order and never reused.
type Key uint64

// entry is a pool's bookkeeping record for one registered channel: the
// channel itself, plus the state last observed for it. The cached
// state is only ever refreshed by Put or Report, never by polling the
// channel directly, exactly as channel_pool.h's map value pair
// behaves.
type entry struct {
	channel any
	state   State
}

// ChannelPool is a registry of channels keyed by insertion order, with
// predicate-driven waiting over the pool's cached view of every
// member's state. One mutex, one condition variable, and one
// force-signal counter guard the whole registry, matching
// basic_channel_pool's single-lock design. The pool never reads a
// channel's machine itself: the cached state of an entry is whatever
// the caller last passed to Put or Report.
//
// Every method below except Close, Closed, and Signal reports
// ErrPoolClosed once the pool has been closed; Signal has no error
// result and still wakes waiters on a closed pool. This matches the
// methods from which channel_pool.h throws
// channel_pool_closed_error from put, get, remove, report, try_get,
// and wait.
type ChannelPool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	entries  map[Key]*entry
	nextKey  Key
	forceGen uint64
	closed   bool
	log      telemetry.Logger
}

// NewChannelPool returns an empty, open ChannelPool. A nil logger
// falls back to telemetry.Discard().
func NewChannelPool(log telemetry.Logger) *ChannelPool {
	if log == nil {
		log = telemetry.Discard()
	}
	p := &ChannelPool{entries: make(map[Key]*entry), log: log}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Put registers channel under a freshly assigned, strictly increasing
// Key, caching state as its current state. It reports ErrPoolClosed if
// the pool has already been closed.
func (p *ChannelPool) Put(channel any, state State) (Key, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrPoolClosed
	}
	p.nextKey++
	key := p.nextKey
	p.entries[key] = &entry{channel: channel, state: state}
	p.cond.Broadcast()
	p.log.Info().Log("channel registered")
	return key, nil
}

// Get returns the channel registered under key, if any. It reports
// ErrPoolClosed if the pool has already been closed.
func (p *ChannelPool) Get(key Key) (channel any, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, false, ErrPoolClosed
	}
	e, ok := p.entries[key]
	if !ok {
		return nil, false, nil
	}
	return e.channel, true, nil
}

// Remove drops key from the pool. It reports whether key was present,
// or ErrPoolClosed if the pool has already been closed.
func (p *ChannelPool) Remove(key Key) (ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false, ErrPoolClosed
	}
	if _, ok := p.entries[key]; !ok {
		return false, nil
	}
	delete(p.entries, key)
	p.cond.Broadcast()
	return true, nil
}

// Report replaces the pool's cached state for key with the
// caller-supplied state; it does not read the channel itself. It
// broadcasts to every waiter only when the new state differs from
// what was cached, matching basic_channel_pool::report's
// change-triggered notification. It reports false if key is not
// registered, or ErrPoolClosed if the pool has already been closed.
func (p *ChannelPool) Report(key Key, state State) (ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false, ErrPoolClosed
	}
	e, ok := p.entries[key]
	if !ok {
		return false, nil
	}
	changed := !e.state.Equal(state)
	e.state = state
	if changed {
		p.cond.Broadcast()
	}
	return true, nil
}

// ChannelPredicate is evaluated against every (key, channel, state)
// triple currently registered in a pool. It reports whether it accepts
// that entry.
type ChannelPredicate func(key Key, channel any, state State) bool

// query runs predicate over every entry in insertion order and returns
// the first match. Must be called with mu held.
func (p *ChannelPool) query(predicate ChannelPredicate) (Key, any, State, bool) {
	keys := make([]Key, 0, len(p.entries))
	for k := range p.entries {
		keys = append(keys, k)
	}
	// Deterministic order keeps TryGet/Wait reproducible across calls
	// even though map iteration itself is not ordered.
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		e := p.entries[k]
		if predicate(k, e.channel, e.state) {
			return k, e.channel, e.state, true
		}
	}
	return 0, nil, State{}, false
}

// TryGet returns the first registered channel matching predicate,
// without waiting. It reports ErrPoolClosed if the pool has already
// been closed.
func (p *ChannelPool) TryGet(predicate ChannelPredicate) (key Key, channel any, state State, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, nil, State{}, false, ErrPoolClosed
	}
	key, channel, state, ok = p.query(predicate)
	return key, channel, state, ok, nil
}

// TryGetState is TryGet restricted to a state-only predicate.
func (p *ChannelPool) TryGetState(predicate func(State) bool) (key Key, channel any, state State, ok bool, err error) {
	return p.TryGet(func(_ Key, _ any, s State) bool { return predicate(s) })
}

// TryGetFlags is TryGet restricted to matching a fixed set of state
// bits: requireAll demands every bit in expected be set, otherwise any
// one of them suffices.
func (p *ChannelPool) TryGetFlags(expected Constant, requireAll bool) (key Key, channel any, state State, ok bool, err error) {
	return p.TryGetState(func(s State) bool {
		if requireAll {
			return s.HasAll(expected)
		}
		return s.HasAny(expected)
	})
}

// Wait blocks until some registered channel matches predicate, the
// pool is closed, Signal is called, or timeout elapses (zero means wait
// indefinitely). It returns the same tuple as TryGet, plus whether the
// wait was satisfied by a match rather than by a forced signal or
// deadline.
//
// If the pool is already closed on entry, Wait reports ErrPoolClosed
// at once, like every other method. After that, a match found at the
// moment the pool closes still wins: on each wakeup the predicate is
// checked before closure, so Wait reports ErrPoolClosed only when
// closure is observed with no satisfying entry in hand. Pool
// closure racing with an in-progress wait therefore surfaces
// ErrPoolClosed, distinct from Signal's plain (false, nil) wakeup,
// exactly as spec.md §7 requires.
//
// Signal and Put both wake every blocked Wait call, even when no
// channel's cached state changed, since a predicate may depend on
// information the pool itself does not track.
func (p *ChannelPool) Wait(timeout time.Duration, predicate ChannelPredicate) (key Key, channel any, state State, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, nil, State{}, false, ErrPoolClosed
	}
	if k, c, s, found := p.query(predicate); found {
		return k, c, s, true, nil
	}

	generation := p.forceGen

	if timeout <= 0 {
		for {
			p.cond.Wait()
			if k, c, s, found := p.query(predicate); found {
				return k, c, s, true, nil
			}
			if p.closed {
				return 0, nil, State{}, false, ErrPoolClosed
			}
			if p.forceGen != generation {
				return 0, nil, State{}, false, nil
			}
		}
	}

	deadline := time.Now().Add(timeout)
	timer := time.AfterFunc(timeout, func() {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	})
	defer timer.Stop()

	for {
		p.cond.Wait()
		if k, c, s, found := p.query(predicate); found {
			return k, c, s, true, nil
		}
		if p.closed {
			return 0, nil, State{}, false, ErrPoolClosed
		}
		if p.forceGen != generation {
			return 0, nil, State{}, false, nil
		}
		if !time.Now().Before(deadline) {
			return 0, nil, State{}, false, nil
		}
	}
}

// WaitState is Wait restricted to a state-only predicate.
func (p *ChannelPool) WaitState(timeout time.Duration, predicate func(State) bool) (key Key, channel any, state State, ok bool, err error) {
	return p.Wait(timeout, func(_ Key, _ any, s State) bool { return predicate(s) })
}

// WaitFlags is Wait restricted to matching a fixed set of state bits,
// with the same requireAll semantics as TryGetFlags.
func (p *ChannelPool) WaitFlags(timeout time.Duration, expected Constant, requireAll bool) (key Key, channel any, state State, ok bool, err error) {
	return p.WaitState(timeout, func(s State) bool {
		if requireAll {
			return s.HasAll(expected)
		}
		return s.HasAny(expected)
	})
}

// Signal force-wakes every blocked Wait call without requiring any
// channel's cached state to have changed, mirroring
// basic_channel_pool::signal().
func (p *ChannelPool) Signal() {
	p.mu.Lock()
	p.forceGen++
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Close marks the pool closed and wakes every blocked Wait call.
// Registered entries are left in place, but every other method starts
// reporting ErrPoolClosed from this point on.
func (p *ChannelPool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.log.Info().Log("channel pool closed")
}

// Closed reports whether Close has been called.
func (p *ChannelPool) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
