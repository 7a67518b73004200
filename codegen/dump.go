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

package codegen

import (
	"fmt"
	"strings"

	"github.com/morganstanley-labs/flats/types"
)

// writeObjectMap prints one record's object map as plain text: a
// header line (name, live field count, version) followed by one row
// per field (index, offset, size, kind, count, name, type).
//
// Grounded on map_generator.cpp's text rendering of Object_map.
func writeObjectMap(out *strings.Builder, d *types.Descriptor) {
	om := d.Record.ObjectMap
	if om == nil {
		return
	}
	fmt.Fprintf(out, "%s: %d fields, version %d\n", om.Header.Name, om.Header.NumFields, om.Header.Version)
	for _, fe := range om.Fields {
		countSuffix := ""
		if fe.Count > 1 {
			countSuffix = fmt.Sprintf("[%d]", fe.Count)
		}
		fmt.Fprintf(out, "  %3d  offset=%-4d size=%-4d %-12s %s%s %s\n",
			fe.Index, fe.Offset, fe.Size, fe.Kind, fe.Name, countSuffix, fe.TypeRepr)
	}
	out.WriteByte('\n')
}

// writeDebug dumps, for one declared record, its field list, its
// object map, and a one-line description of the direct and view
// accessor surfaces it would generate — the debug action recovered
// from the original's Act::debug (SPEC_FULL.md §4).
func writeDebug(out *strings.Builder, d *types.Descriptor) {
	rec := d.Record
	fmt.Fprintf(out, "=== %s (%s) ===\n", rec.Name, rec.Kind)
	fmt.Fprintf(out, "size=%d align=%d packed=%v used_as_optional=%v\n", d.Size, d.Align, rec.Packed, rec.UsedAsOptional)

	fmt.Fprintf(out, "fields:\n")
	for _, f := range rec.Fields {
		status := f.Status.String()
		if f.Type == nil {
			fmt.Fprintf(out, "  %-20s %-12s (marker)\n", f.Name, status)
			continue
		}
		fmt.Fprintf(out, "  %-20s %-12s offset=%d size=%d type=%s\n", f.Name, status, f.Offset, f.Size, renderType(f.Type))
	}

	if rec.ObjectMap != nil {
		fmt.Fprintf(out, "object map:\n")
		writeObjectMap(out, d)
	}

	switch rec.Kind {
	case types.Flat, types.Variant:
		fmt.Fprintf(out, "direct accessor: %sDirect (%d accessor methods)\n", exportName(rec.Name), countAccessorMethods(rec))
	case types.View:
		fmt.Fprintf(out, "view accessor: %sView (%d accessor methods)\n", exportName(rec.Name), len(rec.Fields))
	case types.Message:
		fmt.Fprintf(out, "message envelope: %s (wraps %s)\n", exportName(rec.Name), exportName(rec.Underlying.Name))
	}
	out.WriteByte('\n')
}

// renderType spells a Descriptor back out in schema syntax for the
// debug dump, mirroring compiler.renderType (duplicated rather than
// exported across packages whose only shared concern is this one
// cosmetic rendering).
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

func countAccessorMethods(rec *types.Record) int {
	n := 0
	for _, f := range rec.Fields {
		if f.Type != nil {
			n++
		}
	}
	return n
}
