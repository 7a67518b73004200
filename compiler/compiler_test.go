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

package compiler_test

import (
	"testing"

	"github.com/morganstanley-labs/flats/compiler"
	"github.com/morganstanley-labs/flats/types"
)

func findRecord(t *testing.T, res *compiler.Result, name string) *types.Descriptor {
	t.Helper()
	for _, d := range res.Records {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no declared record named %q in %v", name, res.Records)
	return nil
}

func findField(t *testing.T, rec *types.Record, name string) *types.Field {
	t.Helper()
	for _, f := range rec.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("no field named %q in record %q", name, rec.Name)
	return nil
}

// S6 layout monotonicity: every field's offset is rounded up to its
// own alignment, not merely the previous field's end.
func TestLayoutMonotonicity(t *testing.T) {
	t.Parallel()

	res, err := compiler.Compile(`
rec1 : flat {
	a : int32;
	b : int64
}
`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	rec := findRecord(t, res, "rec1").Record

	a := findField(t, rec, "a")
	b := findField(t, rec, "b")
	if a.Offset != 0 || a.Size != 4 {
		t.Errorf("a: offset=%d size=%d, want offset=0 size=4", a.Offset, a.Size)
	}
	if b.Offset != 8 || b.Size != 8 {
		t.Errorf("b: offset=%d size=%d, want offset=8 size=8", b.Offset, b.Size)
	}
	if b.Offset%8 != 0 {
		t.Errorf("b.Offset=%d is not a multiple of its 8-byte alignment", b.Offset)
	}
	if rec.Var.Start != 16 {
		t.Errorf("Var.Start = %d, want 16", rec.Var.Start)
	}
}

func TestPackedLayoutSkipsAlignmentPadding(t *testing.T) {
	t.Parallel()

	src := `
rec1 : flat {
	a : int8;
	b : int32
}
`
	aligned, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	packed, err := compiler.CompilePacked(src)
	if err != nil {
		t.Fatalf("CompilePacked: %v", err)
	}

	alignedB := findField(t, findRecord(t, aligned, "rec1").Record, "b")
	packedB := findField(t, findRecord(t, packed, "rec1").Record, "b")

	if alignedB.Offset != 4 {
		t.Errorf("aligned b.Offset = %d, want 4", alignedB.Offset)
	}
	if packedB.Offset != 1 {
		t.Errorf("packed b.Offset = %d, want 1", packedB.Offset)
	}
}

// Forward references to not-yet-declared flats are rejected inside a
// flat body, since a flat field is embedded inline and needs an
// immediately-known size.
func TestForwardReferenceForbiddenInFlat(t *testing.T) {
	t.Parallel()

	_, err := compiler.Compile(`
A : flat {
	b : B
}
B : flat {
	x : int32
}
`)
	if err == nil {
		t.Fatal("Compile: want error for a flat field referencing a not-yet-declared flat")
	}
}

// Forward references are allowed inside a variant body, since every
// branch is stored tail-indirect (tag + pos) regardless of its size.
func TestForwardReferenceAllowedInVariant(t *testing.T) {
	t.Parallel()

	res, err := compiler.Compile(`
Wrapper : variant {
	b : B
}
B : flat {
	x : int32
}
`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	wrapper := findRecord(t, res, "Wrapper").Record
	b := findField(t, wrapper, "b")
	if b.Type.Kind != types.Flat {
		t.Fatalf("b.Type.Kind = %v, want Flat (forward reference should be patched in place)", b.Type.Kind)
	}
	if b.Type.Size != 4 {
		t.Errorf("b.Type.Size = %d, want 4 (B's resolved layout size)", b.Type.Size)
	}
}

func TestUndefinedAfterParseIsAnError(t *testing.T) {
	t.Parallel()

	_, err := compiler.Compile(`
Wrapper : variant {
	b : NeverDeclared
}
`)
	if err == nil {
		t.Fatal("Compile: want error for a variant branch whose forward reference is never resolved")
	}
}

// optional<optional<T>>, optional<variant>, optional<vector<T>>, and
// optional<string> all collapse the outer optional wrapper away.
func TestOptionalCollapsing(t *testing.T) {
	t.Parallel()

	res, err := compiler.Compile(`
P : flat {
	a : optional<optional<int32>>;
	b : optional<string>
}
`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	rec := findRecord(t, res, "P").Record

	a := findField(t, rec, "a")
	if a.Type.Kind != types.Optional || a.Type.Elem.Kind != types.Int32 {
		t.Errorf("a.Type = %+v, want optional<int32> (nested optional collapsed)", a.Type)
	}

	b := findField(t, rec, "b")
	if b.Type.Kind != types.String {
		t.Errorf("b.Type.Kind = %v, want String (optional<string> collapses to string)", b.Type.Kind)
	}
}

func TestVectorOfVariantRejected(t *testing.T) {
	t.Parallel()

	_, err := compiler.Compile(`
W : variant {
	a : int32
}
P : flat {
	v : vector<W>
}
`)
	if err == nil {
		t.Fatal("Compile: want error for vector<variant>")
	}
}

// Deprecated fields stay visible in the object map (they still occupy
// storage); deleted fields and the deprecate/delete sentinels do not.
// Record.Version always counts every ordinal ever assigned.
func TestDeprecateKeepsObjectMapEntryDeleteElides(t *testing.T) {
	t.Parallel()

	res, err := compiler.Compile(`
Rec : flat {
	a : int32;
	b : int32;
	deprecate a
}
Rec2 : flat {
	a : int32;
	delete a
}
`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	rec := findRecord(t, res, "Rec").Record
	if rec.Version() != 3 {
		t.Errorf("Rec.Version() = %d, want 3 (a, b, and the deprecate sentinel)", rec.Version())
	}
	if rec.ObjectMap.Header.NumFields != 2 {
		t.Errorf("Rec object map NumFields = %d, want 2 (a stays visible while deprecated, b is ordinary)", rec.ObjectMap.Header.NumFields)
	}

	rec2 := findRecord(t, res, "Rec2").Record
	if rec2.Version() != 2 {
		t.Errorf("Rec2.Version() = %d, want 2 (a and the delete sentinel)", rec2.Version())
	}
	if rec2.ObjectMap.Header.NumFields != 0 {
		t.Errorf("Rec2 object map NumFields = %d, want 0 (a is elided once deleted)", rec2.ObjectMap.Header.NumFields)
	}
}

func TestViewProjectsBaseFlatLayout(t *testing.T) {
	t.Parallel()

	res, err := compiler.Compile(`
Pt : flat {
	x : int32;
	y : int32
}
PtView : view of Pt {
	x
}
`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	pt := findRecord(t, res, "Pt").Record
	view := findRecord(t, res, "PtView").Record

	baseX := findField(t, pt, "x")
	viewX := findField(t, view, "x")
	if viewX.Offset != baseX.Offset || viewX.Size != baseX.Size {
		t.Errorf("view x = {offset=%d size=%d}, want the base flat's {offset=%d size=%d}", viewX.Offset, viewX.Size, baseX.Offset, baseX.Size)
	}
}

func TestMessageEnvelopeSharesBaseFlatTailStart(t *testing.T) {
	t.Parallel()

	res, err := compiler.Compile(`
Pt : flat {
	x : int32;
	y : int32
}
Msg : message of Pt
`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	pt := findRecord(t, res, "Pt").Record
	msg := findRecord(t, res, "Msg").Record

	if msg.Var.Start != pt.Var.Start {
		t.Errorf("Msg.Var.Start = %d, want %d (Pt's tail start)", msg.Var.Start, pt.Var.Start)
	}
	if msg.Underlying != findRecord(t, res, "Pt") {
		t.Error("Msg.Underlying does not point at Pt's descriptor")
	}
}

func TestEnumDefaultValueSequence(t *testing.T) {
	t.Parallel()

	res, err := compiler.Compile(`
Color : enum {
	Red;
	Green;
	Blue : 10;
	Indigo
}
`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	rec := findRecord(t, res, "Color").Record
	want := map[string]int{"Red": 0, "Green": 1, "Blue": 10, "Indigo": 11}
	for name, v := range want {
		f := findField(t, rec, name)
		if f.Value != v {
			t.Errorf("%s.Value = %d, want %d", name, f.Value, v)
		}
	}
}

func TestQualifiedEnumeratorReference(t *testing.T) {
	t.Parallel()

	res, err := compiler.Compile(`
Color : enum {
	Red;
	Green;
	Blue
}
P : flat {
	arr : int32[Color::Blue]
}
`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	rec := findRecord(t, res, "P").Record
	arr := findField(t, rec, "arr")
	if arr.Type.Count != 2 {
		t.Errorf("arr.Type.Count = %d, want 2 (Color::Blue's value)", arr.Type.Count)
	}
}
