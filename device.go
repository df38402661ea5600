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

import "sync"

// DeviceOptions carries the connection parameters a Device needs to
// open, deliberately left opaque to the engine: a real serial port
// wants baud rate, parity, and line discipline; an in-memory or
// network-backed Device wants something else entirely. The engine
// only ever passes this value through from caller to Device.
type DeviceOptions map[string]any

// Device is the engine's I/O boundary: whatever actually moves bytes
// in and out, gated by the channel lifecycle rather than by the
// device itself. A real implementation wraps a serial port exactly
// the way com_port does; SimpleDevice below is the in-memory reference
// implementation used for testing the engine without any real I/O.
type Device interface {
	Open(options DeviceOptions) error
	Close() error
	// Read fills dst from the device, reporting false on failure. It
	// does not flip dst; callers do that once Read returns.
	Read(dst ByteBuffer) bool
	// Write drains src to the device, reporting false on failure.
	Write(src ByteBuffer) bool
}

// SimpleDevice is an in-memory Device: writes append to an internal
// buffer, reads drain it. It never fails once open, and is meant for
// exercising ChannelBase-derived channel types in tests without a real
// serial port.
type SimpleDevice struct {
	mu      sync.Mutex
	opened  bool
	closed  bool
	pending []byte
}

var _ Device = (*SimpleDevice)(nil)

// NewSimpleDevice returns a SimpleDevice that has not yet been opened.
func NewSimpleDevice() *SimpleDevice {
	return &SimpleDevice{}
}

// Open implements Device.
func (d *SimpleDevice) Open(DeviceOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened = true
	d.closed = false
	return nil
}

// Close implements Device.
func (d *SimpleDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Read implements Device, draining whatever bytes have been queued by
// a prior Write into dst.
func (d *SimpleDevice) Read(dst ByteBuffer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.opened || d.closed {
		return false
	}
	n := len(d.pending) - dst.Put(d.pending)
	d.pending = d.pending[n:]
	return true
}

// Write implements Device, appending src's remaining bytes to the
// queue a subsequent Read will drain.
func (d *SimpleDevice) Write(src ByteBuffer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.opened || d.closed {
		return false
	}
	buf := make([]byte, src.Remaining())
	src.Get(buf)
	d.pending = append(d.pending, buf...)
	return true
}
