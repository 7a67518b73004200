// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package runtime

import (
	"fmt"
	"iter"
	"strings"
	"unsafe"
)

// Numeric is the set of element types a Span can overlay directly
// onto a byte buffer via unsafe casts.
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Span is a zero-copy, fixed-stride view over a []byte window: the
// in-place representation of both a declared array<T,N> field and the
// payload a Vector[T]/FixedVector[T,N] points its header at.
//
// Grounded on idol_array.go's {Bool,Uint8,Int8,...}Array family
// (Len/Get/Iter/Collect/String), adapted from an immutable decoded
// string backing to a mutable []byte window so generated writers can
// mutate elements in place, the way flat_types.h's in-place containers
// do.
type Span[T Numeric] struct {
	buf []byte
}

// NewSpan overlays a Span[T] of n elements starting at byte offset off
// within buf.
func NewSpan[T Numeric](buf []byte, off int, n int) Span[T] {
	var zero T
	width := int(unsafe.Sizeof(zero))
	end := off + n*width
	if end > len(buf) {
		end = len(buf)
	}
	if off > end {
		off = end
	}
	return Span[T]{buf: buf[off:end]}
}

func (s Span[T]) elemWidth() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Len reports the number of elements in the span.
func (s Span[T]) Len() int {
	w := s.elemWidth()
	if w == 0 {
		return 0
	}
	return len(s.buf) / w
}

// Get reads the element at idx, reporting false if idx is out of range.
func (s Span[T]) Get(idx int) (T, bool) {
	var zero T
	if idx < 0 || idx >= s.Len() {
		return zero, false
	}
	w := s.elemWidth()
	return *(*T)(unsafe.Pointer(&s.buf[idx*w])), true
}

// Set overwrites the element at idx in place, reporting false if idx
// is out of range.
func (s Span[T]) Set(idx int, v T) bool {
	if idx < 0 || idx >= s.Len() {
		return false
	}
	w := s.elemWidth()
	*(*T)(unsafe.Pointer(&s.buf[idx*w])) = v
	return true
}

// Iter yields (index, value) pairs across the span in order.
func (s Span[T]) Iter() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		n := s.Len()
		for i := 0; i < n; i++ {
			v, _ := s.Get(i)
			if !yield(i, v) {
				return
			}
		}
	}
}

// Collect copies the span out into a fresh slice.
func (s Span[T]) Collect() []T {
	out := make([]T, s.Len())
	for i, v := range s.Iter() {
		out[i] = v
	}
	return out
}

// Limit returns the leading n elements of the span, clamped to its
// actual length. Used by FixedVector.String to print only the
// populated prefix.
func (s Span[T]) Limit(n int) Span[T] {
	if n < 0 {
		n = 0
	}
	w := s.elemWidth()
	end := n * w
	if end > len(s.buf) {
		end = len(s.buf)
	}
	return Span[T]{buf: s.buf[:end]}
}

func (s Span[T]) String() string {
	var out strings.Builder
	out.WriteByte('[')
	for i, v := range s.Iter() {
		if i > 0 {
			out.WriteString(", ")
		}
		fmt.Fprint(&out, v)
	}
	out.WriteByte(']')
	return out.String()
}

// ReadPrimitive overlays a single T at byte offset off in buf, the
// primitive-scalar case every generated field reader bottoms out at.
func ReadPrimitive[T Numeric](buf []byte, off int) T {
	return *(*T)(unsafe.Pointer(&buf[off]))
}

// WritePrimitive stores v at byte offset off in buf.
func WritePrimitive[T Numeric](buf []byte, off int, v T) {
	*(*T)(unsafe.Pointer(&buf[off])) = v
}

// ByteString is a read-write view over an in-place string/vector<char>
// payload: a Span[byte] with string-friendly accessors, since
// vector<char> is how this schema language spells "string"
// throughout (spec.md's string-as-vector-of-char design note).
type ByteString struct {
	Span[byte]
}

func NewByteString(buf []byte, off, n int) ByteString {
	return ByteString{Span: NewSpan[byte](buf, off, n)}
}

func (s ByteString) String() string {
	return string(s.buf)
}

func (s ByteString) SetString(v string) bool {
	if len(v) != s.Len() {
		return false
	}
	copy(s.buf, v)
	return true
}
