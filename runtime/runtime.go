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

// Package runtime is the fixed contract every piece of code the
// flats compiler generates is written against: the byte-buffer
// primitives (Byte, Offset, Size), the bump allocator that hands out
// tail space, and the Error_code values raised by generated accessors.
//
// Grounded on include/flats/flat_types.h's runtime support types, with
// the Go container idiom (generics, buf []byte + unsafe casts,
// iter.Seq2 iterators) adapted from idol/idol_array.go and
// idol/idol_field_builders.go.
package runtime

import "fmt"

// Byte is the element type of every flats buffer.
type Byte = byte

// Offset is an in-buffer byte offset counted from the start of the
// message buffer (the values Allocator hands out, and the pos/off
// fields of variant and vector headers); it is not relative to the
// enclosing record, variant or tail region. Stored as int16 in the
// wire format, matching flat_types.h's Offset typedef.
type Offset int16

// Size is a byte length stored in the wire format, also int16.
type Size int16

const (
	// OffsetWidth is sizeof(Offset) in the wire format.
	OffsetWidth = 2
	// SizeWidth is sizeof(Size) in the wire format.
	SizeWidth = 2
	// VectorHeaderSize is the fixed size of an in-place vector/string
	// descriptor: one Offset (where the tail payload starts) and one
	// Size (how many elements), independent of element type.
	VectorHeaderSize = OffsetWidth + SizeWidth
	// VectorHeaderAlign is the alignment of a vector/string descriptor.
	VectorHeaderAlign = OffsetWidth

	// DefaultTailBudget is the documented default tail size handed to
	// generated envelope constructors when the caller doesn't name
	// one explicitly. Per SPEC_FULL.md §5 this is a default argument
	// value, never a compiled-in ceiling: callers needing more room
	// pass a larger size to the constructor.
	DefaultTailBudget = 4096
)

// ErrorCode enumerates the ways a generated accessor call can fail.
// Grounded on flat_types.h's runtime-check contract (the original's
// thrown exceptions, translated to Go's explicit-error idiom).
type ErrorCode uint8

const (
	OK ErrorCode = iota
	ErrSmallBuffer
	ErrTailTooBig
	ErrOptionalNotPresent
	ErrVariantTag
	ErrBadSpanIndex
	ErrArrayInitializer
	ErrFixedArrayOverflow
	ErrTruncation
	ErrNarrowing
)

func (c ErrorCode) String() string {
	switch c {
	case OK:
		return "ok"
	case ErrSmallBuffer:
		return "buffer too small"
	case ErrTailTooBig:
		return "tail allocation exceeds budget"
	case ErrOptionalNotPresent:
		return "optional value not present"
	case ErrVariantTag:
		return "variant accessed under the wrong tag"
	case ErrBadSpanIndex:
		return "span index out of range"
	case ErrArrayInitializer:
		return "array initializer length mismatch"
	case ErrFixedArrayOverflow:
		return "fixed_vector push beyond declared capacity"
	case ErrTruncation:
		return "value truncated by a narrower field"
	case ErrNarrowing:
		return "narrowing conversion would lose precision"
	default:
		return fmt.Sprintf("ErrorCode(%d)", uint8(c))
	}
}

// Fault is the single error type every generated accessor returns.
// expect is the one check primitive every generated reader/writer
// routes through, matching flat_types.h's assertion contract.
type Fault struct {
	Code ErrorCode
}

func (f *Fault) Error() string {
	return f.Code.String()
}

func expect(ok bool, code ErrorCode) error {
	if ok {
		return nil
	}
	return &Fault{Code: code}
}

// Expect is the exported form of expect, used by generated code
// outside this package.
func Expect(ok bool, code ErrorCode) error {
	return expect(ok, code)
}
