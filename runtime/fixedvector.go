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

// FixedVector is the read/write facade over a fixed_vector<T,N>
// field: N elements of T stored inline (no tail allocation), preceded
// by a used-count header the same width flat.h's varray header uses
// (OptionalHeaderSize's formula, reused here since both are "a small
// header, then N*sizeof(T) inline payload").
type FixedVector[T Numeric] struct {
	data     Span[T]
	buf      []byte
	countOff int
	countLen int
	cap      int
}

// NewFixedVector binds a FixedVector facade over a field whose header
// (used-count) starts at fieldOff and is headerLen bytes wide, with
// capacity elements of payload immediately after it.
func NewFixedVector[T Numeric](buf []byte, fieldOff, headerLen, capacity int) FixedVector[T] {
	return FixedVector[T]{
		data:     NewSpan[T](buf, fieldOff+headerLen, capacity),
		buf:      buf,
		countOff: fieldOff,
		countLen: min(headerLen, SizeWidth),
		cap:      capacity,
	}
}

// Used reports how many of the capacity slots are populated. The count
// occupies the first min(headerLen, SizeWidth) bytes of the header.
func (f FixedVector[T]) Used() int {
	n := Size(f.buf[f.countOff])
	if f.countLen > 1 {
		n |= Size(f.buf[f.countOff+1]) << 8
	}
	return int(n)
}

func (f FixedVector[T]) setUsed(n int) {
	f.buf[f.countOff] = byte(n)
	if f.countLen > 1 {
		f.buf[f.countOff+1] = byte(n >> 8)
	}
}

// Cap reports the fixed capacity N declared in the schema.
func (f FixedVector[T]) Cap() int {
	return f.cap
}

// Get reads the element at idx, valid only for idx < Used().
func (f FixedVector[T]) Get(idx int) (T, bool) {
	var zero T
	if idx < 0 || idx >= f.Used() {
		return zero, false
	}
	v, _ := f.data.Get(idx)
	return v, true
}

// Push appends v, failing with ErrFixedArrayOverflow once Used
// reaches Cap.
func (f FixedVector[T]) Push(v T) error {
	used := f.Used()
	if used >= f.cap {
		return &Fault{Code: ErrFixedArrayOverflow}
	}
	f.data.Set(used, v)
	f.setUsed(used + 1)
	return nil
}

func (f FixedVector[T]) String() string {
	return f.data.Limit(f.Used()).String()
}
