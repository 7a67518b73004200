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

package types

// Descriptor names a single type reference: a predefined primitive, a
// preset scalar, a parameterized constructor (vector/optional/array/
// fixed_vector/string) applied to an Elem, or a reference to a Record.
//
// Descriptors for record kinds and for forward-referenced names start
// out as Undefined placeholders created by symtab.Table.InsertUndefined
// and are patched in place once the real declaration is parsed, the
// same pointer-identity-preserving strategy the original compiler uses
// for its raw Type* symbol table entries (parser.cpp, check_for_undefined).
type Descriptor struct {
	Name        string
	Kind        Kind
	Elem        *Descriptor // Vector/Optional/Array/FixedVector element type
	Record      *Record     // set when Kind.IsRecordKind()
	NativeNames map[string]string
	Count       int // Array/FixedVector declared length; 1 otherwise
	Size        int
	Align       int
}

// IsUndefined reports whether d is still a forward-reference
// placeholder awaiting resolution.
func (d *Descriptor) IsUndefined() bool {
	return d.Kind == Undefined
}

// NativeName returns the descriptor's name in target, falling back to
// Name when no target-specific override was registered. The predefined
// table seeds this with a "go" entry; user-declared records never need
// an override since their Go name is always their schema name.
func (d *Descriptor) NativeName(target string) string {
	if d.NativeNames != nil {
		if n, ok := d.NativeNames[target]; ok {
			return n
		}
	}
	return d.Name
}

// VariablePart is the compile-time-known portion of a record's tail
// allocation contract: the byte offset at which the fixed-size region
// ends and the bump-allocated tail begins. The runtime bounds (the
// budget a given allocation of the tail may grow to) are a per-message
// construction parameter, not part of the schema, per SPEC_FULL.md §5's
// resolution of the tail-budget open question.
type VariablePart struct {
	Start int
}

// Record is the descriptor body for a flat, view, message, variant, or
// enumeration declaration.
type Record struct {
	Kind           Kind
	Name           string
	Fields         []*Field
	Underlying     *Descriptor // variant's discriminated union is Fields; enumeration's underlying integer type
	Var            VariablePart
	UsedAsOptional bool // true once some field declares optional<Name>
	Packed         bool
	ObjectMap      *ObjectMap
}

// Version is the record's total declared field count, including
// elided (deprecated/deleted) fields: the object map's field count
// shrinks as fields are elided, but Version never does, since it
// counts every ordinal ever assigned.
func (r *Record) Version() int {
	return len(r.Fields)
}

// Field is one member of a record's field list, or (for enumeration
// records) one named constant.
type Field struct {
	Name   string
	Type   *Descriptor
	Value  int // enumeration constant value; unused otherwise
	Index  int // ordinal assigned at first declaration, stable across deprecate/delete
	Offset int
	Size   int
	Status Status
}
