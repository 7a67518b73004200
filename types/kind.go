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

// Package types holds the data model shared by the flats schema
// compiler: type descriptors, record descriptors, field descriptors,
// and the predefined-primitives table they are seeded from.
package types

import "fmt"

// Kind tags every type a flats schema can refer to. The ordering
// mirrors the original flats compiler's Type_id enum: placeholders and
// record kinds first, then primitives, then parameterized kinds, then
// the open-ended Preset range for application-supplied scalars.
type Kind uint16

const (
	Undefined Kind = iota // forward-reference placeholder
	Bad

	Flat
	View
	Message
	Variant
	Enumeration

	Int8
	Int16
	Int24
	Int32
	Int64
	Uint8
	Uint16
	Uint24
	Uint32
	Uint64
	Char
	Float32
	Float64

	String
	Vector
	Optional
	Array
	FixedVector

	// Preset is the first Kind value made available to application-
	// specific primitive-like types supplied via the predefined table.
	// Every seeded Predef entry whose Kind is >= Preset is a "preset"
	// type: a host-native scalar the schema treats as fixed-size and
	// opaque.
	Preset Kind = 100
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Bad:
		return "bad"
	case Flat:
		return "flat"
	case View:
		return "view"
	case Message:
		return "message"
	case Variant:
		return "variant"
	case Enumeration:
		return "enumeration"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int24:
		return "int24"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint24:
		return "uint24"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Char:
		return "char"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Vector:
		return "vector"
	case Optional:
		return "optional"
	case Array:
		return "array"
	case FixedVector:
		return "fixed_vector"
	default:
		if k >= Preset {
			return fmt.Sprintf("preset(%d)", k-Preset)
		}
		return fmt.Sprintf("Kind(%d)", uint16(k))
	}
}

// IsRecordKind reports whether k names a declaration that owns a
// Record (as opposed to a primitive, preset, or parameterized type).
func (k Kind) IsRecordKind() bool {
	switch k {
	case Flat, View, Message, Variant, Enumeration:
		return true
	default:
		return false
	}
}

// IsParameterized reports whether k is one of the type constructors
// (string is included: it is specified as Vector<char> throughout).
func (k Kind) IsParameterized() bool {
	switch k {
	case String, Vector, Optional, Array, FixedVector:
		return true
	default:
		return false
	}
}

// Status is the lifecycle of a single field across schema revisions.
type Status uint8

const (
	Ordinary Status = iota
	Deprecated
	Deleted
	Deprecating
	Deleting
)

func (s Status) String() string {
	switch s {
	case Ordinary:
		return "ordinary"
	case Deprecated:
		return "deprecated"
	case Deleted:
		return "deleted"
	case Deprecating:
		return "deprecating"
	case Deleting:
		return "deleting"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Elided reports whether a field in this status is left out of the
// object map (but still occupies ordinal space in Record.Version()).
func (s Status) Elided() bool {
	return s == Deleting || s == Deprecating || s == Deleted
}
