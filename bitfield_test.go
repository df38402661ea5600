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

func TestBitFieldAddPlus(t *testing.T) {
	b := NewBitField[uint32](0b0001)
	b.Add(0b0010)
	assert.Equal(t, uint32(0b0011), b.Value())

	c := b.Plus(0b0100)
	assert.Equal(t, uint32(0b0111), c.Value())
	assert.Equal(t, uint32(0b0011), b.Value(), "Plus must not mutate the receiver")
}

func TestBitFieldClearMinus(t *testing.T) {
	b := NewBitField[uint32](0b0111)
	b.Clear(0b0010)
	assert.Equal(t, uint32(0b0101), b.Value())

	c := b.Minus(0b0100)
	assert.Equal(t, uint32(0b0001), c.Value())
	assert.Equal(t, uint32(0b0101), b.Value(), "Minus must not mutate the receiver")
}

func TestBitFieldHasAll(t *testing.T) {
	b := NewBitField[uint32](0b0111)
	assert.True(t, b.HasAll(0b0101))
	assert.False(t, b.HasAll(0b1000))
	assert.True(t, b.HasAll(0), "the empty set is a subset of anything")
}

func TestBitFieldHasAny(t *testing.T) {
	b := NewBitField[uint32](0b0100)
	assert.True(t, b.HasAny(0b0110))
	assert.False(t, b.HasAny(0b1011))
	assert.False(t, b.HasAny(0), "nothing has any of the empty set")
}

func TestBitFieldEqual(t *testing.T) {
	a := NewBitField[uint32](5)
	b := NewBitField[uint32](5)
	c := NewBitField[uint32](6)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
