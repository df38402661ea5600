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

// Package comport implements the concurrency core of a serial-port I/O
// library: a generic channel lifecycle engine (state diagram + state
// machine + channel facade) and a channel pool with predicate-driven
// waiting. It models any I/O endpoint as a finite state machine whose
// operations (open/read/write/close) are sequenced correctly under
// concurrent access, gated by declared readable/writable capability
// flags.
//
// The package does not implement a serial port, a byte-buffer, or a
// packet codec; it consumes the Device and ByteBuffer interfaces at
// its boundary and leaves concrete I/O to callers.
package comport

// Constant is the underlying integer type for every state, flag, and
// op bit used by the engine. A plain uint32 gives callers 24 bits of
// headroom above the recognized low byte for reserved, caller-defined
// state bits.
type Constant = uint32

// State is a bitfield of the mutually-exclusive main-state bits
// (Opening/Open/Closing/Closed), the independent modifier bits
// (Readable/Writable), and any caller-reserved bits above them.
type State = BitField[Constant]

// Flags declares which capabilities (readable/writable) a channel
// supports. Flags are set once at construction and never change.
type Flags = BitField[Constant]

// Flag bit positions: the capability a channel declares at
// construction time.
const (
	FlagReadable Constant = 1 << 0
	FlagWritable Constant = 1 << 1
)

// Main and modifier state bits. Bits 6 and above are reserved for
// caller use and are preserved verbatim across every transition.
const (
	StateNone     Constant = 0
	StateOpening  Constant = 1 << 0
	StateOpen     Constant = 1 << 1
	StateReadable Constant = 1 << 2
	StateWritable Constant = 1 << 3
	StateClosing  Constant = 1 << 4
	StateClosed   Constant = 1 << 5
)

// mainStateMask covers the mutually-exclusive lifecycle bits.
const mainStateMask Constant = StateOpening | StateOpen | StateClosing | StateClosed

// OperableState maps a declared Flags value to the state bits it
// implies once a channel is open: readable flags imply the Readable
// state bit, writable flags imply the Writable state bit.
func OperableState(f Flags) State {
	var op State
	if f.HasAny(FlagReadable) {
		op.Add(StateReadable)
	}
	if f.HasAny(FlagWritable) {
		op.Add(StateWritable)
	}
	return op
}

// Op identifies one of the four channel operations.
type Op Constant

const (
	OpOpen Op = 1 << iota
	OpRead
	OpWrite
	OpClose
)

// OpResult is the outcome an unlock step is told about: whether the
// bracketed user work succeeded, failed, or is merely requesting a
// release fence without a state transition (the async "detached
// coroutine" case).
type OpResult int

const (
	ResultSuccess OpResult = iota
	ResultFailure
	ResultGuarantee
)

// Guarantee is the memory-ordering fence a transition installs. Neither
// machine branches on it: the atomic machine's sync/atomic operations
// are sequentially consistent, which covers both acquire and release,
// and the blocking machine's mutex subsumes them. The value is still
// threaded through so callers relying on it see consistent behavior
// across both machine implementations.
type Guarantee int

const (
	GuaranteeAcquire Guarantee = iota
	GuaranteeRelease
	GuaranteeAcqRel
)

func (g Guarantee) String() string {
	switch g {
	case GuaranteeAcquire:
		return "acquire"
	case GuaranteeRelease:
		return "release"
	case GuaranteeAcqRel:
		return "acq_rel"
	default:
		return "unknown"
	}
}
