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

// OptionalHeaderSize is the width of the presence marker an
// optional<T> field reserves ahead of its value, following flat.h's
// inline rule: the marker is sized like a Size field when the element
// is a plain char (so a zero-width alignment never collides with the
// presence byte), and otherwise sized to the element's own alignment
// (so the value that follows lands on its natural boundary for free).
func OptionalHeaderSize(elemAlign int, elemIsChar bool) int {
	if elemIsChar {
		return SizeWidth
	}
	return elemAlign
}

// Optional is the read/write facade over an optional<T> field for a
// Numeric T: a presence byte at the field's offset, followed by the
// value at offset+OptionalHeaderSize, stored inline (no tail
// allocation — unlike Vector, an optional scalar never grows).
type Optional[T Numeric] struct {
	buf       []byte
	fieldOff  int
	headerLen int
}

// NewOptional binds an Optional facade to a field at fieldOff whose
// presence header is headerLen bytes wide.
func NewOptional[T Numeric](buf []byte, fieldOff, headerLen int) Optional[T] {
	return Optional[T]{buf: buf, fieldOff: fieldOff, headerLen: headerLen}
}

func (o Optional[T]) Present() bool {
	return o.buf[o.fieldOff] != 0
}

func (o Optional[T]) valueOff() int {
	return o.fieldOff + o.headerLen
}

// Get returns the value and a nil error if present, or the zero value
// and a Fault with ErrOptionalNotPresent otherwise.
func (o Optional[T]) Get() (T, error) {
	var zero T
	if !o.Present() {
		return zero, &Fault{Code: ErrOptionalNotPresent}
	}
	return *(*T)(unsafe.Pointer(&o.buf[o.valueOff()])), nil
}

// Set stores v and marks the field present.
func (o Optional[T]) Set(v T) {
	o.buf[o.fieldOff] = 1
	*(*T)(unsafe.Pointer(&o.buf[o.valueOff()])) = v
}

// Clear marks the field not present. The stale value byte pattern
// behind it is left untouched, matching the original's
// presence-flag-only reset (no zeroing of the value slot).
func (o Optional[T]) Clear() {
	o.buf[o.fieldOff] = 0
}

// OptionalPresence is the presence-flag-only facade used by
// codegen for optional<record> and optional<view> fields, whose
// payload is accessed through the generated record's own accessor
// rather than through a generic Numeric value. UsedAsOptional on the
// referenced types.Record gates whether this facade is emitted at all
// (spec.md's "optional-of-record" facade design note).
type OptionalPresence struct {
	buf      []byte
	fieldOff int
}

func NewOptionalPresence(buf []byte, fieldOff int) OptionalPresence {
	return OptionalPresence{buf: buf, fieldOff: fieldOff}
}

func (o OptionalPresence) Present() bool { return o.buf[o.fieldOff] != 0 }
func (o OptionalPresence) SetPresent()   { o.buf[o.fieldOff] = 1 }
func (o OptionalPresence) Clear()        { o.buf[o.fieldOff] = 0 }
