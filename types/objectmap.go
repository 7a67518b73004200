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

// ObjectMapHeader carries the per-record summary line of an object map:
// the record's name, how many fields currently appear in the map body
// (post-elision), and Version, the total ordinal count including
// deprecated/deleted fields.
type ObjectMapHeader struct {
	Name      string
	NumFields int
	Version   int
}

// FieldEntry is one row of an object map body: a field's resolved
// layout alongside enough type information to print it without
// re-walking the Record it came from.
type FieldEntry struct {
	Index    int
	Offset   int
	Size     int
	Kind     Kind
	Count    int // array/fixed_vector length, 1 otherwise
	Name     string
	TypeRepr string // schema-syntax rendering of the field's declared type
}

// ObjectMap is the printable layout artifact produced by the layout
// engine for a single record: a header plus one FieldEntry per
// non-elided field, in declaration order.
type ObjectMap struct {
	Header ObjectMapHeader
	Fields []FieldEntry
}
