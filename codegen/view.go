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

// writeViewAccessor emits the read-only "_view" facade: a buffer plus
// a base offset, with one accessor per projected member reading the
// field's type at base+offset, each member's offset written into its
// method as a constant. No runtime offsets table is emitted, so a view
// reads only the layout computed when the schema was compiled (unlike
// view_accessor.cpp's print_view, which casts "buff+m[index]" per
// field).
func writeViewAccessor(out *strings.Builder, d *types.Descriptor, packed bool) {
	rec := d.Record
	tag := ""
	if packed {
		tag = "_packed"
	}
	facade := exportName(rec.Name) + tag + "View"

	fmt.Fprintf(out, "// %s projects a subset of %s's already-laid-out fields read-only.\n", facade, exportName(rec.Name))
	fmt.Fprintf(out, "type %s struct {\n\tbuf []byte\n\toff int\n}\n\n", facade)
	fmt.Fprintf(out, "func New%s(buf []byte, off int) %s {\n\treturn %s{buf: buf, off: off}\n}\n\n", facade, facade, facade)

	for _, f := range rec.Fields {
		if f.Type == nil {
			continue
		}
		gname := exportName(f.Name)
		goType := renderGoType(f.Type)
		switch f.Type.Kind {
		case types.String:
			fmt.Fprintf(out, "func (v %s) %s() runtime.ByteString {\n\th := runtime.ReadVectorHeader(v.buf, v.off+%d)\n\treturn runtime.NewByteString(v.buf, int(h.Off), int(h.Len))\n}\n\n",
				facade, gname, f.Offset)
		case types.Vector:
			elemType := renderGoType(f.Type.Elem)
			fmt.Fprintf(out, "func (v %s) %s() %s {\n\treturn runtime.NewVectorReader[%s](v.buf, v.off+%d)\n}\n\n",
				facade, gname, goType, elemType, f.Offset)
		case types.Array:
			elemType := renderGoType(f.Type.Elem)
			fmt.Fprintf(out, "func (v %s) %s() %s {\n\treturn runtime.NewSpan[%s](v.buf, v.off+%d, %d)\n}\n\n",
				facade, gname, goType, elemType, f.Offset, f.Type.Count)
		default:
			fmt.Fprintf(out, "func (v %s) %s() %s {\n\treturn runtime.ReadPrimitive[%s](v.buf, v.off+%d)\n}\n\n",
				facade, gname, goType, goType, f.Offset)
		}
	}
}
