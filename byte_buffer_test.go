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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleByteBufferPutGetRoundTrip(t *testing.T) {
	b := NewSimpleByteBuffer(8)
	short := b.Put([]byte("hi"))
	assert.Equal(t, 0, short)
	assert.Equal(t, 2, b.Position())

	b.Flip()
	assert.Equal(t, 0, b.Position())
	assert.Equal(t, 2, b.Limit())

	out := make([]byte, 2)
	short = b.Get(out)
	assert.Equal(t, 0, short)
	assert.Equal(t, "hi", string(out))
}

func TestSimpleByteBufferPutReportsOverflow(t *testing.T) {
	b := NewSimpleByteBuffer(4)
	short := b.Put([]byte("hello"))
	assert.Equal(t, 1, short, "one byte of \"hello\" does not fit in a 4-byte buffer")
	assert.Equal(t, 4, b.Position())
}

func TestSimpleByteBufferClearReset(t *testing.T) {
	b := NewSimpleByteBuffer(4)
	b.Put([]byte("ab"))
	b.Clear()
	assert.Equal(t, 0, b.Position())
	assert.Equal(t, 4, b.Limit())

	b.SetPosition(2).SetLimit(4)
	b.Reset()
	assert.Equal(t, 0, b.Position())
	assert.Equal(t, 4, b.Limit())
}

func TestSimpleByteBufferCompactPreservesUnreadBytes(t *testing.T) {
	b := NewSimpleByteBuffer(4)
	b.Put([]byte("abcd"))
	b.Flip()

	out := make([]byte, 1)
	b.Get(out)
	assert.Equal(t, "a", string(out))

	b.Compact()
	assert.Equal(t, 3, b.Position())
	assert.Equal(t, 4, b.Limit())
	assert.Equal(t, "bcd", string(b.data[:3]))
}

func TestSimpleByteBufferGetByte(t *testing.T) {
	b := NewSimpleByteBuffer(1)
	b.Put([]byte{0x42})
	b.Flip()

	v, ok := b.GetByte()
	assert.True(t, ok)
	assert.Equal(t, byte(0x42), v)

	_, ok = b.GetByte()
	assert.False(t, ok)
}

func TestSimpleByteBufferSetCapacityGrows(t *testing.T) {
	b := NewSimpleByteBuffer(2)
	b.Put([]byte("ab"))
	b.SetCapacity(4)
	assert.Equal(t, 4, b.Capacity())
	assert.Equal(t, 2, b.Position(), "growing capacity must not disturb position")
}
