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

package runtime

// VariantHeaderSize is the fixed inline size of any variant<...>
// field: a one-byte tag selecting which branch is active, followed by
// an Offset pointing at the branch's payload in the tail. Every
// branch of a variant declaration shares this same inline slot
// (spec.md's layout engine note that "variant fields all share one
// offset slot") — the payload itself is placed in the tail rather
// than embedded, so branches of differing (even forward-referenced,
// not-yet-sized) type never need to share one inline memory layout.
const VariantHeaderSize = 1 + OffsetWidth

// VariantHeaderAlign is the alignment of the tag+pos header.
const VariantHeaderAlign = OffsetWidth

// VariantHeader is the in-place {tag, pos} pair every variant field
// stores inline.
type VariantHeader struct {
	Tag byte
	Pos Offset
}

func ReadVariantHeader(buf []byte, off int) VariantHeader {
	return VariantHeader{Tag: buf[off], Pos: Offset(buf[off+1]) | Offset(buf[off+2])<<8}
}

func WriteVariantHeader(buf []byte, off int, h VariantHeader) {
	buf[off] = h.Tag
	buf[off+1] = byte(h.Pos)
	buf[off+2] = byte(h.Pos >> 8)
}

// Variant is the facade generated accessors build their per-branch
// Get_X/Set_X methods on top of: Tag reports which branch is active,
// and PlaceBranch/BranchOffset manage the shared tail-indirect payload.
type Variant struct {
	buf    []byte
	hdrOff int
}

func NewVariant(buf []byte, hdrOff int) Variant {
	return Variant{buf: buf, hdrOff: hdrOff}
}

// Tag returns the active branch's tag: 0 while no branch has been
// written, otherwise the branch's types.Field.Index plus one.
func (v Variant) Tag() int {
	return int(ReadVariantHeader(v.buf, v.hdrOff).Tag)
}

// BranchOffset returns the tail offset the active branch's payload
// starts at.
func (v Variant) BranchOffset() Offset {
	return ReadVariantHeader(v.buf, v.hdrOff).Pos
}

// PlaceBranch allocates size bytes in the tail via a, records tag and
// the new payload offset in the header, and returns the offset the
// caller should write the branch's value at.
func (v Variant) PlaceBranch(a *Allocator, tag int, size int) (Offset, error) {
	off, err := a.Allocate(size)
	if err != nil {
		return 0, err
	}
	WriteVariantHeader(v.buf, v.hdrOff, VariantHeader{Tag: byte(tag), Pos: off})
	return off, nil
}

// ExpectTag returns ErrVariantTag unless the active branch is want,
// the check every generated Get_X method on a variant routes through
// before reading its branch's payload.
func (v Variant) ExpectTag(want int) error {
	return Expect(v.Tag() == want, ErrVariantTag)
}
