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

// needsAllocator reports whether t ever needs the tail's bump
// allocator: string and vector fields always do (their backing bytes
// live in the tail), a variant does too (branch payloads always land
// in the tail via PlaceBranch, regardless of what any branch itself
// contains), optional/array pass the question through to their
// element, and an embedded flat passes it to its own fields.
//
// Grounded on direct_accessor.cpp's needs_allocator(Type*), with one
// deliberate deviation: the original recurses into a variant's own
// fields instead of treating Type_id::variant as unconditionally true,
// which would wrongly omit the allocator for a flat embedding a
// variant field whose branches all happen to be allocator-free
// scalars, even though PlaceBranch always writes into the tail.
func needsAllocator(t *types.Descriptor) bool {
	for t != nil {
		switch t.Kind {
		case types.Flat:
			return needsAllocatorFlat(t.Record)
		case types.Variant:
			return true
		case types.Optional, types.Array:
			t = t.Elem
			continue
		case types.String, types.Vector:
			return true
		default:
			return false
		}
	}
	return false
}

func needsAllocatorFlat(rec *types.Record) bool {
	for _, f := range rec.Fields {
		if f.Type == nil {
			continue
		}
		if needsAllocator(f.Type) {
			return true
		}
	}
	return false
}

// writeMessageEnvelope emits the buffer envelope for a "message of
// Flat" declaration: a fresh-writer constructor (zero-initializes the
// fixed region and hands back an Allocator for the tail, when one is
// needed), a reader-only constructor over an existing buffer, a Clone
// that copies an existing message into a new buffer, and the
// flat/direct/current_size/current_capacity/size/version accessors
// spec.md's envelope interface names.
//
// Grounded on direct_accessor.cpp's print_message, which branches on
// needs_allocator(flt) to omit the allocator member entirely and hard
// -code current_capacity() to 0 when the wrapped flat never writes
// into the tail.
func writeMessageEnvelope(out *strings.Builder, d *types.Descriptor, packed bool) {
	rec := d.Record
	base := rec.Underlying
	tag := ""
	if packed {
		tag = "_packed"
	}
	envelope := exportName(rec.Name) + tag
	baseDirect := exportName(base.Name) + tag + "Direct"
	allo := needsAllocatorFlat(base.Record)

	fmt.Fprintf(out, "// %s is the buffer envelope for %q (wraps %s).\n", envelope, rec.Name, exportName(base.Name))
	if allo {
		fmt.Fprintf(out, "type %s struct {\n\tbuf   []byte\n\talloc *runtime.Allocator\n}\n\n", envelope)
	} else {
		fmt.Fprintf(out, "type %s struct {\n\tbuf []byte\n}\n\n", envelope)
	}

	if allo {
		fmt.Fprintf(out, "// New%s allocates a fresh buffer sized for the fixed region plus tailSize bytes of tail budget, zero-initializes it, and returns the envelope.\n", envelope)
	} else {
		fmt.Fprintf(out, "// New%s allocates a zeroed buffer sized for the fixed region only; tailSize is ignored because %s has no tail-allocating fields.\n", envelope, exportName(base.Name))
	}
	fmt.Fprintf(out, "func New%s(tailSize int) *%s {\n", envelope, envelope)
	if allo {
		fmt.Fprintf(out, "\tif tailSize <= 0 {\n\t\ttailSize = runtime.DefaultTailBudget\n\t}\n")
		fmt.Fprintf(out, "\tbuf := make([]byte, %d+tailSize)\n", base.Size)
		fmt.Fprintf(out, "\treturn &%s{buf: buf, alloc: runtime.NewAllocator(buf, %d, tailSize)}\n}\n\n", envelope, base.Size)
	} else {
		fmt.Fprintf(out, "\tbuf := make([]byte, %d)\n", base.Size)
		fmt.Fprintf(out, "\treturn &%s{buf: buf}\n}\n\n", envelope)
	}

	fmt.Fprintf(out, "// Read%s binds an envelope to an already-populated buffer, for reading.\n", envelope)
	if allo {
		fmt.Fprintf(out, "func Read%s(buf []byte) *%s {\n\treturn &%s{buf: buf, alloc: runtime.NewAllocator(buf, %d, len(buf)-%d)}\n}\n\n",
			envelope, envelope, envelope, base.Size, base.Size)
	} else {
		fmt.Fprintf(out, "func Read%s(buf []byte) *%s {\n\treturn &%s{buf: buf}\n}\n\n", envelope, envelope, envelope)
	}

	fmt.Fprintf(out, "// Clone%s copies src's current contents (fixed region plus used tail) into a fresh, independently-owned buffer.\n", envelope)
	if allo {
		fmt.Fprintf(out, "func Clone%s(src *%s) *%s {\n\tout := make([]byte, len(src.buf))\n\tcopy(out, src.buf)\n\treturn &%s{buf: out, alloc: runtime.NewAllocator(out, %d, src.alloc.Capacity())}\n}\n\n",
			envelope, envelope, envelope, envelope, base.Size)
	} else {
		fmt.Fprintf(out, "func Clone%s(src *%s) *%s {\n\tout := make([]byte, len(src.buf))\n\tcopy(out, src.buf)\n\treturn &%s{buf: out}\n}\n\n",
			envelope, envelope, envelope, envelope)
	}

	fmt.Fprintf(out, "// Flat returns the raw fixed-layout bytes of the wrapped %s, distinct from Direct's accessor facade.\n", exportName(base.Name))
	fmt.Fprintf(out, "func (m *%s) Flat() []byte {\n\treturn []byte(m.buf[:%d])\n}\n\n", envelope, base.Size)

	fmt.Fprintf(out, "// Direct returns the wrapped %s's read/write accessor facade.\n", exportName(base.Name))
	if allo {
		fmt.Fprintf(out, "func (m *%s) Direct() %s {\n\treturn New%s(m.buf, 0, m.alloc)\n}\n\n", envelope, baseDirect, baseDirect)
	} else {
		fmt.Fprintf(out, "func (m *%s) Direct() %s {\n\treturn New%s(m.buf, 0, nil)\n}\n\n", envelope, baseDirect, baseDirect)
	}

	if allo {
		fmt.Fprintf(out, "func (m *%s) CurrentSize() int { return %d + m.alloc.Used() }\n\n", envelope, base.Size)
		fmt.Fprintf(out, "func (m *%s) CurrentCapacity() int { return m.alloc.Capacity() - m.alloc.Used() }\n\n", envelope)
	} else {
		fmt.Fprintf(out, "func (m *%s) CurrentSize() int { return %d }\n\n", envelope, base.Size)
		fmt.Fprintf(out, "func (m *%s) CurrentCapacity() int { return 0 }\n\n", envelope)
	}
	fmt.Fprintf(out, "func (m *%s) Size() int { return m.CurrentSize() + m.CurrentCapacity() }\n\n", envelope)
	fmt.Fprintf(out, "func (m *%s) Version() int { return %d }\n\n", envelope, base.Record.Version())
}
