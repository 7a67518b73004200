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

// Allocator is the per-message bump allocator for a record's tail
// region: the variable-length area beyond its fixed-size layout that
// vector and string payloads and variant branch payloads bump-allocate
// into as they are written (fixed_vectors and optionals stay inline).
//
// Grounded on flat.h's Variable_part{starting_offset, next_offset,
// max, allocate(n)}, generalized so the tail budget (flat.h hard-codes
// max=4096) is a construction-time parameter instead of a compiled-in
// constant, per SPEC_FULL.md §5.
type Allocator struct {
	buf     []byte
	next    int
	budget  int // absolute byte offset the tail may not cross
	start   int
}

// NewAllocator returns an Allocator that bump-allocates into buf
// starting at tailStart, refusing any allocation that would push next
// past tailStart+tailBudget.
func NewAllocator(buf []byte, tailStart, tailBudget int) *Allocator {
	return &Allocator{buf: buf, next: tailStart, start: tailStart, budget: tailStart + tailBudget}
}

// Allocate reserves n bytes at the current tail cursor and advances
// it, returning the offset the caller should write into. It fails
// with ErrTailTooBig exactly where Variable_part::allocate throws
// Bad_variable_part.
func (a *Allocator) Allocate(n int) (Offset, error) {
	if n < 0 || a.next+n > a.budget {
		return 0, &Fault{Code: ErrTailTooBig}
	}
	off := a.next
	a.next += n
	return Offset(off), nil
}

// Place copies src into a freshly allocated tail region and returns
// its offset and size, the common case behind every generated
// place_X helper (direct_accessor.cpp's place_X family).
func (a *Allocator) Place(src []byte) (Offset, Size, error) {
	off, err := a.Allocate(len(src))
	if err != nil {
		return 0, 0, err
	}
	copy(a.buf[off:], src)
	return off, Size(len(src)), nil
}

// Next reports the current tail cursor (the absolute buffer offset of
// the next free tail byte, the runtime equivalent of flat.h's
// next_offset); Used reports the byte count consumed.
func (a *Allocator) Next() int {
	return a.next
}

// Used reports how many tail bytes have been consumed since
// construction.
func (a *Allocator) Used() int {
	return a.next - a.start
}

// Capacity reports the total tail budget this allocator was
// constructed with.
func (a *Allocator) Capacity() int {
	return a.budget - a.start
}

// Buffer returns the backing byte slice the allocator writes into.
func (a *Allocator) Buffer() []byte {
	return a.buf
}
