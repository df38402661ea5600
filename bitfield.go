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

// Word is the set of integer types a BitField may be packed into.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// BitField is a type-safe bitwise container over a single unsigned
// machine word. It is the Go rendering of the bit_field<T> template
// used throughout the channel state machinery: additive, subtractive,
// and intersection/union tests, but no operator overloading, so each
// gets a named method instead.
//
// The zero value is a BitField with no bits set.
type BitField[T Word] struct {
	value T
}

// NewBitField returns a BitField initialized to v.
func NewBitField[T Word](v T) BitField[T] {
	return BitField[T]{value: v}
}

// Value returns the underlying machine word.
func (b BitField[T]) Value() T {
	return b.value
}

// Add sets the given bits in place and returns the receiver, mirroring
// the C++ operator+=.
func (b *BitField[T]) Add(other T) *BitField[T] {
	b.value |= other
	return b
}

// Plus returns a new BitField with the given bits set, leaving the
// receiver untouched (operator+).
func (b BitField[T]) Plus(other T) BitField[T] {
	return BitField[T]{value: b.value | other}
}

// Clear unsets the given bits in place and returns the receiver
// (operator-=).
func (b *BitField[T]) Clear(other T) *BitField[T] {
	b.value &^= other
	return b
}

// Minus returns a new BitField with the given bits unset, leaving the
// receiver untouched (operator-).
func (b BitField[T]) Minus(other T) BitField[T] {
	return BitField[T]{value: b.value &^ other}
}

// HasAll reports whether every bit in other is set (operator&).
func (b BitField[T]) HasAll(other T) bool {
	return b.value&other == other
}

// HasAny reports whether at least one bit in other is set (operator|).
func (b BitField[T]) HasAny(other T) bool {
	return b.value&other != 0
}

// Equal reports value equality with another BitField of the same word
// type.
func (b BitField[T]) Equal(other BitField[T]) bool {
	return b.value == other.value
}
