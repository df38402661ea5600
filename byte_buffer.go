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

// ByteBuffer is a position/limit/capacity view over a byte slice,
// inspired by java.nio.ByteBuffer the same way the original
// byte_buffer class was. It is the data-plane boundary Read and Write
// operations move bytes through; the engine itself never allocates or
// inspects one beyond calling these methods.
type ByteBuffer interface {
	// Position returns the index of the next byte to read or write.
	Position() int
	// SetPosition moves the read/write cursor.
	SetPosition(pos int) ByteBuffer
	// Limit returns the index one past the last usable byte.
	Limit() int
	// SetLimit moves the limit.
	SetLimit(limit int) ByteBuffer
	// Capacity returns the total number of bytes backing the buffer.
	Capacity() int
	// SetCapacity grows or shrinks the backing storage.
	SetCapacity(capacity int) ByteBuffer
	// Remaining returns Limit - Position.
	Remaining() int
	// Flip sets Limit to the current Position and resets Position to
	// zero, preparing a just-filled buffer to be drained.
	Flip() ByteBuffer
	// Clear resets Position to zero without touching Limit.
	Clear() ByteBuffer
	// Reset resets Position to zero and Limit to Capacity, preparing
	// the buffer to be filled from scratch.
	Reset() ByteBuffer
	// Compact moves the remaining unread bytes to the front of the
	// buffer and positions for more data to be appended after them.
	Compact() ByteBuffer
	// Put copies in into the buffer starting at Position, advancing it,
	// and returns the number of bytes from in that did not fit before
	// Limit was reached.
	Put(in []byte) int
	// Get copies into out starting at Position, advancing it, and
	// returns the number of bytes of out that could not be filled
	// before Limit was reached.
	Get(out []byte) int
	// GetByte reads a single byte, reporting false if none remained.
	GetByte() (b byte, ok bool)
}

// SimpleByteBuffer is the reference ByteBuffer implementation: a flat
// byte slice plus position and limit, grown via SetCapacity exactly as
// byte_buffer::capacity resizes both of its backing vectors.
type SimpleByteBuffer struct {
	data     []byte
	position int
	limit    int
}

var _ ByteBuffer = (*SimpleByteBuffer)(nil)

// NewSimpleByteBuffer returns a SimpleByteBuffer with the given
// initial capacity, limit set to that capacity and position at zero.
func NewSimpleByteBuffer(initial int) *SimpleByteBuffer {
	return &SimpleByteBuffer{data: make([]byte, initial), limit: initial}
}

func (b *SimpleByteBuffer) Position() int { return b.position }

func (b *SimpleByteBuffer) SetPosition(pos int) ByteBuffer {
	b.position = pos
	return b
}

func (b *SimpleByteBuffer) Limit() int { return b.limit }

func (b *SimpleByteBuffer) SetLimit(limit int) ByteBuffer {
	b.limit = limit
	return b
}

func (b *SimpleByteBuffer) Capacity() int { return len(b.data) }

func (b *SimpleByteBuffer) SetCapacity(capacity int) ByteBuffer {
	if capacity <= len(b.data) {
		b.data = b.data[:capacity]
		return b
	}
	grown := make([]byte, capacity)
	copy(grown, b.data)
	b.data = grown
	return b
}

func (b *SimpleByteBuffer) Remaining() int {
	return b.limit - b.position
}

func (b *SimpleByteBuffer) Flip() ByteBuffer {
	b.limit = b.position
	b.position = 0
	return b
}

func (b *SimpleByteBuffer) Clear() ByteBuffer {
	b.position = 0
	return b
}

func (b *SimpleByteBuffer) Reset() ByteBuffer {
	b.position = 0
	b.limit = b.Capacity()
	return b
}

// Compact shifts the unread [position, limit) window to the front of
// the backing slice, then positions the buffer to accept more data
// after it, with the limit restored to the full capacity.
func (b *SimpleByteBuffer) Compact() ByteBuffer {
	remains := b.Remaining()
	if remains == 0 {
		b.position = 0
		b.limit = b.Capacity()
		return b
	}
	copy(b.data, b.data[b.position:b.position+remains])
	b.position = remains
	b.limit = b.Capacity()
	return b
}

// Put implements ByteBuffer.
func (b *SimpleByteBuffer) Put(in []byte) int {
	remains := b.Remaining()
	if len(in) > remains {
		if remains != 0 {
			copy(b.data[b.position:b.limit], in[:remains])
			b.position = b.limit
			return len(in) - remains
		}
		return len(in)
	}
	copy(b.data[b.position:b.position+len(in)], in)
	b.position += len(in)
	return 0
}

// Get implements ByteBuffer.
func (b *SimpleByteBuffer) Get(out []byte) int {
	remains := b.Remaining()
	if len(out) > remains {
		if remains != 0 {
			copy(out, b.data[b.position:b.limit])
			b.position = b.limit
			return len(out) - remains
		}
		return len(out)
	}
	copy(out, b.data[b.position:b.position+len(out)])
	b.position += len(out)
	return 0
}

// GetByte implements ByteBuffer.
func (b *SimpleByteBuffer) GetByte() (byte, bool) {
	var single [1]byte
	if b.Get(single[:]) != 0 {
		return 0, false
	}
	return single[0], true
}
