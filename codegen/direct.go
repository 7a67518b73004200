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

// writeDirectAccessor emits the "_direct" facade over a flat or
// variant: a thin wrapper around a buffer and an offset with one
// reader and, where the field's storage allows in-place writes, one
// writer-constructor per member. Variant members additionally route
// through the shared tag+pos header and fail with ErrVariantTag when
// read under the wrong branch (spec.md §4.6's variant tag discipline).
//
// Grounded on direct_accessor.cpp's print_direct / print_variant_direct
// / print_optional_ref.
func writeDirectAccessor(out *strings.Builder, d *types.Descriptor, packed bool) {
	rec := d.Record
	if rec.Kind != types.Flat && rec.Kind != types.Variant {
		return
	}
	tag := ""
	if packed {
		tag = "_packed"
	}
	name := exportName(rec.Name)
	facade := name + tag + "Direct"

	fmt.Fprintf(out, "// %s is the read/write accessor facade over %s%s.\n", facade, name, tag)
	fmt.Fprintf(out, "type %s struct {\n\tbuf []byte\n\toff int\n\talloc *runtime.Allocator\n}\n\n", facade)
	fmt.Fprintf(out, "func New%s(buf []byte, off int, alloc *runtime.Allocator) %s {\n\treturn %s{buf: buf, off: off, alloc: alloc}\n}\n\n",
		facade, facade, facade)

	if rec.Kind == types.Variant {
		writeVariantAccessors(out, rec, facade)
		return
	}

	for _, f := range rec.Fields {
		if f.Type == nil {
			continue // deprecated/deleted: field intentionally has no accessor
		}
		writeFieldAccessor(out, facade, tag, f)
	}
}

func writeVariantAccessors(out *strings.Builder, rec *types.Record, facade string) {
	fmt.Fprintf(out, "func (d %s) Tag() int { return runtime.NewVariant(d.buf, d.off).Tag() }\n\n", facade)
	for _, f := range rec.Fields {
		if f.Type == nil {
			continue
		}
		gname := exportName(f.Name)
		goType := renderGoType(f.Type)
		// A branch's payload lives in the tail at BranchOffset: for a
		// scalar branch the caller reads it straight off the buffer
		// with runtime.ReadPrimitive; for a record branch, through
		// that record's own _direct facade constructed at the
		// returned offset (print_variant_direct's per-branch reader
		// split, carried over as two thin helpers instead of one
		// that would otherwise need a type switch per branch kind).
		tag := f.Index + 1
		fmt.Fprintf(out, "// Get%s returns the %q branch's tail offset; fails with runtime.ErrVariantTag unless Tag() == %d. Read the %s payload at that offset once confirmed.\n", gname, f.Name, tag, goType)
		fmt.Fprintf(out, "func (d %s) Get%s() (runtime.Offset, error) {\n", facade, gname)
		fmt.Fprintf(out, "\tv := runtime.NewVariant(d.buf, d.off)\n")
		fmt.Fprintf(out, "\tif err := v.ExpectTag(%d); err != nil {\n\t\treturn 0, err\n\t}\n", tag)
		fmt.Fprintf(out, "\treturn v.BranchOffset(), nil\n}\n\n")

		fmt.Fprintf(out, "// Set%s allocates payloadSize tail bytes for the %q branch and marks it active, returning where to write the payload.\n", gname, f.Name)
		fmt.Fprintf(out, "func (d %s) Set%s(payloadSize int) (runtime.Offset, error) {\n", facade, gname)
		fmt.Fprintf(out, "\treturn runtime.NewVariant(d.buf, d.off).PlaceBranch(d.alloc, %d, payloadSize)\n}\n\n", tag)
	}
}

// writeFieldAccessor emits one member's reader and, for writable
// storage, its writer-constructor, dispatching on the field's kind
// the way direct_accessor.cpp's as_string_field_accessor /
// as_string_field_constructor switch over Type_id. tag is the facade
// name suffix ("_packed" or "") shared by every facade in one output.
func writeFieldAccessor(out *strings.Builder, facade, tag string, f *types.Field) {
	gname := exportName(f.Name)
	goType := renderGoType(f.Type)

	switch f.Type.Kind {
	case types.Vector:
		elemType := renderGoType(f.Type.Elem)
		fmt.Fprintf(out, "func (d %s) %s() %s {\n\treturn runtime.NewVectorReader[%s](d.buf, d.off+%d)\n}\n\n",
			facade, gname, goType, elemType, f.Offset)
		fmt.Fprintf(out, "func (d %s) New%s(n int) (%s, error) {\n\treturn runtime.NewVectorWriter[%s](d.buf, d.off+%d, d.alloc, n)\n}\n\n",
			facade, gname, goType, elemType, f.Offset)

	case types.String:
		fmt.Fprintf(out, "func (d %s) %s() %s {\n\th := runtime.ReadVectorHeader(d.buf, d.off+%d)\n\treturn runtime.NewByteString(d.buf, int(h.Off), int(h.Len))\n}\n\n",
			facade, gname, goType, f.Offset)
		fmt.Fprintf(out, "func (d %s) New%s(s string) (%s, error) {\n\toff, n, err := d.alloc.Place([]byte(s))\n\tif err != nil {\n\t\tvar zero %s\n\t\treturn zero, err\n\t}\n\truntime.WriteVectorHeader(d.buf, d.off+%d, runtime.VectorHeader{Off: off, Len: n})\n\treturn d.%s(), nil\n}\n\n",
			facade, gname, goType, goType, f.Offset, gname)

	case types.Optional:
		if f.Type.Elem.Kind.IsRecordKind() {
			fmt.Fprintf(out, "func (d %s) %s() %s {\n\treturn runtime.NewOptionalPresence(d.buf, d.off+%d)\n}\n\n",
				facade, gname, goType, f.Offset)
			break
		}
		elemType := renderGoType(f.Type.Elem)
		headerLen := f.Type.Size - f.Type.Elem.Size
		fmt.Fprintf(out, "func (d %s) %s() %s {\n\treturn runtime.NewOptional[%s](d.buf, d.off+%d, %d)\n}\n\n",
			facade, gname, goType, elemType, f.Offset, headerLen)

	case types.FixedVector:
		elemType := renderGoType(f.Type.Elem)
		headerLen := f.Type.Size - f.Type.Count*f.Type.Elem.Size
		fmt.Fprintf(out, "func (d %s) %s() %s {\n\treturn runtime.NewFixedVector[%s](d.buf, d.off+%d, %d, %d)\n}\n\n",
			facade, gname, goType, elemType, f.Offset, headerLen, f.Type.Count)

	case types.Array:
		elemType := renderGoType(f.Type.Elem)
		fmt.Fprintf(out, "func (d %s) %s() %s {\n\treturn runtime.NewSpan[%s](d.buf, d.off+%d, %d)\n}\n\n",
			facade, gname, goType, elemType, f.Offset, f.Type.Count)

	case types.Flat:
		fmt.Fprintf(out, "func (d %s) %s() %s {\n\treturn New%sDirect(d.buf, d.off+%d, d.alloc)\n}\n\n",
			facade, gname, goType+tag+"Direct", goType+tag, f.Offset)

	case types.Variant:
		fmt.Fprintf(out, "func (d %s) %s() %s {\n\treturn New%sDirect(d.buf, d.off+%d, d.alloc)\n}\n\n",
			facade, gname, goType+tag+"Direct", goType+tag, f.Offset)

	default: // fixed-size scalar
		fmt.Fprintf(out, "func (d %s) %s() %s {\n\treturn runtime.ReadPrimitive[%s](d.buf, d.off+%d)\n}\n\n",
			facade, gname, goType, goType, f.Offset)
		fmt.Fprintf(out, "func (d %s) Set%s(v %s) {\n\truntime.WritePrimitive[%s](d.buf, d.off+%d, v)\n}\n\n",
			facade, gname, goType, goType, f.Offset)
	}
}
