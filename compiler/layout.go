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
	"github.com/morganstanley-labs/flats/runtime"
	"github.com/morganstanley-labs/flats/types"
)

// roundUp rounds cursor up to the next multiple of align.
func roundUp(cursor, align int) int {
	if align <= 1 {
		return cursor
	}
	rem := cursor % align
	if rem == 0 {
		return cursor
	}
	return cursor + (align - rem)
}

func recordAlign(r *types.Record) int {
	align := 1
	for _, f := range r.Fields {
		if f.Type != nil && f.Type.Align > align {
			align = f.Type.Align
		}
	}
	return align
}

// computeLayout assigns Offset and Size to every field of a flat or
// variant record and sets the record's tail-start (Var.Start).
//
// For a flat, this is spec.md §4.4's algorithm: the cursor rounds up
// to each field's alignment before the offset is recorded (see
// DESIGN.md's "Layout algorithm correction" note — the C++ original's
// map_generator.cpp records the offset before rounding, which this
// repo treats as a bug rather than intended behavior).
//
// For a variant, every branch shares the same inline slot (a tag byte
// plus an Offset giving the payload's buffer position in the tail):
// spec.md's "variant fields all share one offset slot." A branch's
// Field.Size is left unset (see below); its payload size is the
// branch type's own Size.
func computeLayout(r *types.Record) error {
	switch r.Kind {
	case types.Variant:
		for _, f := range r.Fields {
			if f.Type == nil { // deprecating/deleting sentinel
				continue
			}
			f.Offset = 0
			// f.Size is deliberately left unset here: a variant
			// branch may be a forward reference (spec.md's
			// forward-reference arena strategy) whose Descriptor is
			// still Undefined at the moment this record's body
			// closes. The object map reads f.Type.Size
			// directly once the whole schema has been parsed and
			// every placeholder patched in place, rather than
			// trusting a value snapshotted here that could go stale.
		}
		r.Var.Start = runtime.VariantHeaderSize
		return nil

	case types.Flat:
		cursor := 0
		for _, f := range r.Fields {
			if f.Type == nil {
				continue
			}
			if !r.Packed {
				cursor = roundUp(cursor, f.Type.Align)
			}
			f.Offset = cursor
			f.Size = f.Type.Size
			cursor += f.Type.Size
		}
		if r.Packed {
			r.Var.Start = cursor
		} else {
			r.Var.Start = roundUp(cursor, recordAlign(r))
		}
		return nil

	case types.Enumeration:
		// Enumerators carry only a name and a constant Value; they
		// occupy no buffer storage of their own.
		r.Var.Start = 0
		return nil

	default:
		return nil
	}
}

// finalizeViewFields fills in a partial view's per-field Offset/Size
// by copying them from the corresponding field of the base flat,
// since a view never computes its own layout: it is a read-only
// reprojection of an already-laid-out flat (spec.md §4.6's view
// facade). base is the flat Record the view is "of".
func finalizeViewFields(view, base *types.Record) error {
	byName := make(map[string]*types.Field, len(base.Fields))
	for _, f := range base.Fields {
		byName[f.Name] = f
	}
	for _, vf := range view.Fields {
		bf, ok := byName[vf.Name]
		if !ok {
			return errNotAMember(0, vf.Name, base.Name)
		}
		vf.Offset = bf.Offset
		vf.Size = bf.Size
		vf.Index = bf.Index
	}
	view.Var.Start = base.Var.Start
	return nil
}
