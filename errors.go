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
	"fmt"
)

// ErrPoolClosed is returned by every ChannelPool method that has an
// error result (all but Close, Closed, and Signal) once the pool has
// been closed.
var ErrPoolClosed = errors.New("comport: channel pool is closed")

// ErrUnsupported is the error ChannelBase.Unsupported reports for an
// operation a concrete channel does not implement.
var ErrUnsupported = errors.New("comport: operation unsupported")

// ChannelError is raised by user action closures run inside DoAs. It
// triggers the failure-unlock path and is then re-surfaced to the
// caller (blocking form) or the failure callback (non-blocking form).
type ChannelError struct {
	Op  Op
	Msg string
}

func (e *ChannelError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("comport: channel error during %s", e.Op)
	}
	return fmt.Sprintf("comport: channel error during %s: %s", e.Op, e.Msg)
}

// NewChannelError constructs a ChannelError for op with the given
// message.
func NewChannelError(op Op, msg string) *ChannelError {
	return &ChannelError{Op: op, Msg: msg}
}

// LowLevelError is a ChannelError carrying an OS-level error code. It
// is semantically identical to ChannelError as far as the engine is
// concerned: only the failure-unlock path cares that an error
// occurred, not its provenance.
type LowLevelError struct {
	ChannelError
	Code int
}

func (e *LowLevelError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.ChannelError.Error(), e.Code)
}

func (e *LowLevelError) Unwrap() error {
	return &e.ChannelError
}

// NewLowLevelError constructs a LowLevelError for op carrying the
// given OS-level code.
func NewLowLevelError(op Op, msg string, code int) *LowLevelError {
	return &LowLevelError{ChannelError: ChannelError{Op: op, Msg: msg}, Code: code}
}

func (op Op) String() string {
	switch op {
	case OpOpen:
		return "open"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpClose:
		return "close"
	default:
		return "unknown"
	}
}
