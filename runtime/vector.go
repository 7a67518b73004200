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

import "unsafe"

// VectorHeader is the fixed-size, in-place part of a vector<T> or
// string field: an Offset into the tail region plus a Size recording
// how many elements were placed there. It is exactly
// VectorHeaderSize/VectorHeaderAlign bytes wide regardless of T,
// matching flat.h's "all Vectors are of the same size" rule.
type VectorHeader struct {
	Off Offset
	Len Size
}

// ReadVectorHeader overlays a VectorHeader at byte offset off in buf.
func ReadVectorHeader(buf []byte, off int) VectorHeader {
	return *(*VectorHeader)(unsafe.Pointer(&buf[off]))
}

// WriteVectorHeader stores h at byte offset off in buf.
func WriteVectorHeader(buf []byte, off int, h VectorHeader) {
	*(*VectorHeader)(unsafe.Pointer(&buf[off])) = h
}

// Vector is the read/write facade over a vector<T> field: the header
// plus the Span[T] it points at in the tail. Construction helpers
// mirror direct_accessor.cpp's place_X/place_X_reader/place_X_writer
// split: NewVectorReader reads an existing header, NewVectorWriter
// allocates a fresh tail region and writes the header that points at it.
type Vector[T Numeric] struct {
	buf    []byte
	hdrOff int
}

// NewVectorReader binds a Vector facade to an already-populated header
// at hdrOff.
func NewVectorReader[T Numeric](buf []byte, hdrOff int) Vector[T] {
	return Vector[T]{buf: buf, hdrOff: hdrOff}
}

// NewVectorWriter allocates n elements of T in the tail via a,
// zero-initializes them, writes the header at hdrOff, and returns a
// Vector facade bound to the new payload.
func NewVectorWriter[T Numeric](buf []byte, hdrOff int, a *Allocator, n int) (Vector[T], error) {
	var zero T
	width := int(unsafe.Sizeof(zero))
	off, err := a.Allocate(n * width)
	if err != nil {
		return Vector[T]{}, err
	}
	clear(buf[off : int(off)+n*width])
	WriteVectorHeader(buf, hdrOff, VectorHeader{Off: off, Len: Size(n)})
	return Vector[T]{buf: buf, hdrOff: hdrOff}, nil
}

func (v Vector[T]) header() VectorHeader {
	return ReadVectorHeader(v.buf, v.hdrOff)
}

// Span returns the in-place element span this vector's header points
// at.
func (v Vector[T]) Span() Span[T] {
	h := v.header()
	return NewSpan[T](v.buf, int(h.Off), int(h.Len))
}

func (v Vector[T]) Len() int { return v.Span().Len() }

func (v Vector[T]) Get(idx int) (T, bool) { return v.Span().Get(idx) }

func (v Vector[T]) Set(idx int, val T) bool { return v.Span().Set(idx, val) }

func (v Vector[T]) String() string { return v.Span().String() }
