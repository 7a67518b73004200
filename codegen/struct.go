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

// writeStruct emits the fixed-layout description of a record: for an
// enumeration, a Go const block; for a message, nothing (the message's
// Go type is declared by writeMessageEnvelope); otherwise a struct whose field
// comments record each member's resolved offset and size, matching
// print_struct's "struct { field; field; }" shape but carrying the
// layout engine's numbers in comments since Go struct fields can't
// declare an explicit byte offset the way C++ field order implies one.
//
// Grounded on direct_accessor.cpp's print_struct/print_member.
func writeStruct(out *strings.Builder, d *types.Descriptor, packed bool) {
	rec := d.Record
	if rec.Kind == types.Enumeration {
		writeEnumConsts(out, d)
		return
	}
	if rec.Kind == types.Message {
		return
	}

	tag := ""
	if packed {
		tag = "_packed"
	}
	fmt.Fprintf(out, "// %s%s is the fixed-layout view of %q (size %d, align %d).\n",
		exportName(rec.Name), tag, rec.Name, d.Size, d.Align)
	fmt.Fprintf(out, "type %s%s struct {\n", exportName(rec.Name), tag)

	if rec.Kind == types.Variant {
		fmt.Fprintf(out, "\t// tag + pos (buffer offset of the payload in the tail) shared by every branch below\n")
		fmt.Fprintf(out, "\ttag runtime.Byte\n\tpos runtime.Offset\n")
		for _, f := range rec.Fields {
			if f.Type == nil {
				continue
			}
			fmt.Fprintf(out, "\t// %s %s // branch %d, payload in tail\n", f.Name, renderGoType(f.Type), f.Index+1)
		}
	} else {
		for _, f := range rec.Fields {
			if f.Type == nil {
				continue
			}
			fmt.Fprintf(out, "\t%s %s // offset %d, size %d\n", exportName(f.Name), renderGoType(f.Type), f.Offset, f.Size)
		}
	}
	fmt.Fprintf(out, "}\n\n")
}

func writeEnumConsts(out *strings.Builder, d *types.Descriptor) {
	rec := d.Record
	fmt.Fprintf(out, "type %s int32\n\n", exportName(rec.Name))
	fmt.Fprintf(out, "const (\n")
	for _, f := range rec.Fields {
		fmt.Fprintf(out, "\t%s%s %s = %d\n", exportName(rec.Name), exportName(f.Name), exportName(rec.Name), f.Value)
	}
	fmt.Fprintf(out, ")\n\n")
}

// renderGoType names the Go type a field's Descriptor reads as,
// through the runtime package's container facades. It recurses through
// any nesting depth; the accessor emitters, not this function, limit
// the generator to the core cases of a container over a primitive or a
// named record (see DESIGN.md).
func renderGoType(t *types.Descriptor) string {
	switch t.Kind {
	case types.Int8:
		return "int8"
	case types.Int16:
		return "int16"
	case types.Int24, types.Int32:
		return "int32"
	case types.Int64:
		return "int64"
	case types.Uint8, types.Char:
		return "uint8"
	case types.Uint16:
		return "uint16"
	case types.Uint24, types.Uint32:
		return "uint32"
	case types.Uint64:
		return "uint64"
	case types.Float32:
		return "float32"
	case types.Float64:
		return "float64"
	case types.String:
		return "runtime.ByteString"
	case types.Vector:
		return fmt.Sprintf("runtime.Vector[%s]", renderGoType(t.Elem))
	case types.Optional:
		if t.Elem.Kind.IsRecordKind() {
			return "runtime.OptionalPresence"
		}
		return fmt.Sprintf("runtime.Optional[%s]", renderGoType(t.Elem))
	case types.FixedVector:
		return fmt.Sprintf("runtime.FixedVector[%s]", renderGoType(t.Elem))
	case types.Array:
		return fmt.Sprintf("runtime.Span[%s]", renderGoType(t.Elem))
	case types.Variant, types.Flat:
		return exportName(t.Name)
	default:
		return exportName(t.Name)
	}
}
