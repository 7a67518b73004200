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

package symtab_test

import (
	"testing"

	"github.com/morganstanley-labs/flats/symtab"
	"github.com/morganstanley-labs/flats/types"
)

func newTable(t *testing.T) *symtab.Table {
	t.Helper()
	tab, err := symtab.New(types.BuiltinPredefs)
	if err != nil {
		t.Fatalf("symtab.New: %v", err)
	}
	return tab
}

func TestNewSeedsBuiltinPredefs(t *testing.T) {
	t.Parallel()
	tab := newTable(t)

	for _, p := range types.BuiltinPredefs {
		d := tab.Find(p.Name)
		if d == nil {
			t.Fatalf("Find(%q) = nil, want seeded descriptor", p.Name)
		}
		if d.Kind != p.Kind || d.Size != p.Size || d.Align != p.Align {
			t.Errorf("Find(%q) = %+v, want Kind=%v Size=%d Align=%d", p.Name, d, p.Kind, p.Size, p.Align)
		}
	}
}

func TestNewRejectsDuplicatePredef(t *testing.T) {
	t.Parallel()

	dup := append([]types.Predef{}, types.BuiltinPredefs[0], types.BuiltinPredefs[0])
	if _, err := symtab.New(dup); err == nil {
		t.Fatal("symtab.New: want error for duplicate predefined entry")
	}
}

func TestNewRejectsRecordKindPredef(t *testing.T) {
	t.Parallel()

	bad := []types.Predef{{Name: "oops", Kind: types.Flat, Size: 1, Align: 1}}
	if _, err := symtab.New(bad); err == nil {
		t.Fatal("symtab.New: want error for a predefined entry claiming a record kind")
	}
}

func TestInsertUndefinedThenDeclarePatchesInPlace(t *testing.T) {
	t.Parallel()
	tab := newTable(t)

	placeholder := tab.InsertUndefined("Point")
	if !placeholder.IsUndefined() {
		t.Fatalf("InsertUndefined: want IsUndefined() true")
	}

	rec := &types.Record{Kind: types.Flat, Name: "Point"}
	resolved, err := tab.Declare("Point", types.Flat, rec)
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}

	if resolved != placeholder {
		t.Fatal("Declare: want the same *Descriptor pointer InsertUndefined returned")
	}
	if placeholder.IsUndefined() {
		t.Error("placeholder still reports IsUndefined() after Declare")
	}
	if placeholder.Kind != types.Flat {
		t.Errorf("placeholder.Kind = %v, want Flat", placeholder.Kind)
	}
}

func TestDeclareRejectsRedeclaration(t *testing.T) {
	t.Parallel()
	tab := newTable(t)

	rec := &types.Record{Kind: types.Flat, Name: "Point"}
	if _, err := tab.Declare("Point", types.Flat, rec); err != nil {
		t.Fatalf("first Declare: %v", err)
	}
	if _, err := tab.Declare("Point", types.Flat, rec); err == nil {
		t.Fatal("second Declare: want error for redeclaring a resolved name")
	}
}

func TestUndefinedListsOnlyUnresolvedEntries(t *testing.T) {
	t.Parallel()
	tab := newTable(t)

	tab.InsertUndefined("Later")
	if _, err := tab.Declare("Point", types.Flat, &types.Record{Kind: types.Flat, Name: "Point"}); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	undef := tab.Undefined()
	if len(undef) != 1 || undef[0].Name != "Later" {
		t.Fatalf("Undefined() = %v, want only [Later]", undef)
	}
}

func TestResolveSetsEnumerationSizeFromUnderlying(t *testing.T) {
	t.Parallel()
	tab := newTable(t)

	int32Desc := tab.Find("int32")
	rec := &types.Record{Kind: types.Enumeration, Name: "Color", Underlying: int32Desc}
	desc, err := tab.Declare("Color", types.Enumeration, rec)
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if desc.Size != int32Desc.Size || desc.Align != int32Desc.Align {
		t.Errorf("Color descriptor size/align = %d/%d, want %d/%d (from int32)", desc.Size, desc.Align, int32Desc.Size, int32Desc.Align)
	}
}
