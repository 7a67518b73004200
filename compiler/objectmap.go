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

package compiler

import (
	"fmt"

	"github.com/morganstanley-labs/flats/types"
)

// buildObjectMap produces the printable layout artifact for a single
// laid-out record: one FieldEntry per non-elided field, in declaration
// order, plus a header carrying the record's name, its live field
// count, and its Version (total ordinals ever assigned, including
// deprecated/deleted fields).
//
// Grounded on map_generator.cpp's make_object_map, with the offset it
// records coming from the corrected layout (see layout.go).
func buildObjectMap(r *types.Record) *types.ObjectMap {
	om := &types.ObjectMap{
		Header: types.ObjectMapHeader{
			Name:    r.Name,
			Version: r.Version(),
		},
	}
	for _, f := range r.Fields {
		if f.Status.Elided() {
			continue
		}
		if f.Type == nil {
			continue
		}
		om.Fields = append(om.Fields, types.FieldEntry{
			Index: f.Index,
			Offset: f.Offset,
			// Size reads f.Type.Size directly rather than the
			// possibly-stale f.Size snapshot: buildObjectMap only
			// runs after the whole schema is parsed, by which point
			// every forward-referenced variant branch has been
			// patched in place (see layout.go's computeLayout).
			Size:     f.Type.Size,
			Kind:     f.Type.Kind,
			Count:    f.Type.Count,
			Name:     f.Name,
			TypeRepr: renderType(f.Type),
		})
	}
	om.Header.NumFields = len(om.Fields)
	return om
}

// renderType spells a Descriptor back out in schema syntax, the way
// an object map or a debug dump names a field's type.
func renderType(t *types.Descriptor) string {
	if t == nil {
		return "<none>"
	}
	switch t.Kind {
	case types.Optional:
		return fmt.Sprintf("optional<%s>", renderType(t.Elem))
	case types.Vector:
		return fmt.Sprintf("vector<%s>", renderType(t.Elem))
	case types.FixedVector:
		return fmt.Sprintf("fixed_vector<%s,%d>", renderType(t.Elem), t.Count)
	case types.Array:
		return fmt.Sprintf("%s[%d]", renderType(t.Elem), t.Count)
	case types.String:
		return "string"
	default:
		return t.Name
	}
}
