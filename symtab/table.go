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

// Package symtab implements the flats symbol table: the name-to-
// Descriptor map the parser consults for type references and patches
// in place when a forward-referenced name is finally declared.
//
// Grounded on parser.cpp's Table class (the seeded-constructor sanity
// checks, find, and insert-or-patch behavior around the global
// symbol_table).
package symtab

import (
	"fmt"

	"github.com/morganstanley-labs/flats/types"
)

// Table is the flats symbol table. Entries are inserted in the order
// first referenced or declared; the unexported order list preserves
// that sequence for Undefined (the end-of-parse undefined check) and
// Declared.
type Table struct {
	entries map[string]*types.Descriptor
	order   []string
}

// New builds a Table seeded from the predefined-primitives table,
// running the same sanity checks parser.cpp's Table constructor runs
// over its vector<Predef>: no empty name, no duplicate name, positive
// size and alignment, and a Kind outside the record-owning range (a
// predefined entry can never claim to be a flat/view/message/variant/
// enumeration).
func New(predefs []types.Predef) (*Table, error) {
	t := &Table{entries: make(map[string]*types.Descriptor, len(predefs))}
	for _, p := range predefs {
		if p.Name == "" {
			return nil, fmt.Errorf("symtab: predefined entry has empty name")
		}
		if p.Size <= 0 || p.Align <= 0 {
			return nil, fmt.Errorf("symtab: predefined entry %q has non-positive size/align", p.Name)
		}
		if p.Kind.IsRecordKind() {
			return nil, fmt.Errorf("symtab: predefined entry %q claims a record kind", p.Name)
		}
		if _, dup := t.entries[p.Name]; dup {
			return nil, fmt.Errorf("symtab: duplicate predefined entry %q", p.Name)
		}
		d := &types.Descriptor{
			Name:        p.Name,
			Kind:        p.Kind,
			NativeNames: p.NativeNames,
			Count:       1,
			Size:        p.Size,
			Align:       p.Align,
		}
		t.entries[p.Name] = d
		t.order = append(t.order, p.Name)
	}
	return t, nil
}

// Find returns the descriptor registered under name, or nil if no
// entry (not even an Undefined placeholder) exists yet.
func (t *Table) Find(name string) *types.Descriptor {
	return t.entries[name]
}

// Seed registers an already-fully-formed descriptor directly, for
// built-ins that don't fit the Predef (plain scalar) shape — notably
// "string", which is the parameterized Kind String rather than a
// Predef row. A no-op if an entry under d.Name already exists.
func (t *Table) Seed(d *types.Descriptor) {
	if _, ok := t.entries[d.Name]; ok {
		return
	}
	t.entries[d.Name] = d
	t.order = append(t.order, d.Name)
}

// InsertUndefined registers name as a forward-reference placeholder if
// it is not already present, returning the (possibly pre-existing)
// descriptor either way. This is the arena strategy discussed in
// spec.md's design notes: every reference to a not-yet-declared record
// name gets the same pointer, so later patching via Resolve updates
// every reference simultaneously.
func (t *Table) InsertUndefined(name string) *types.Descriptor {
	if d, ok := t.entries[name]; ok {
		return d
	}
	d := &types.Descriptor{Name: name, Kind: types.Undefined, Count: 1}
	t.entries[name] = d
	t.order = append(t.order, name)
	return d
}

// Declare registers a brand-new record declaration. It is an error to
// declare a name that already has a fully resolved (non-Undefined)
// entry; a name that exists only as an Undefined placeholder is
// patched in place via Resolve instead of being replaced, so that every
// Descriptor pointer handed out earlier by InsertUndefined keeps
// pointing at the live, now-resolved entry.
func (t *Table) Declare(name string, kind types.Kind, record *types.Record) (*types.Descriptor, error) {
	if existing, ok := t.entries[name]; ok {
		if !existing.IsUndefined() {
			return nil, fmt.Errorf("symtab: %q already declared", name)
		}
		return existing, t.Resolve(existing, kind, record)
	}
	d := &types.Descriptor{Name: name, Kind: types.Undefined, Count: 1}
	t.entries[name] = d
	t.order = append(t.order, name)
	return d, t.Resolve(d, kind, record)
}

// Resolve patches an Undefined placeholder in place with its real
// Kind and Record body, preserving the Descriptor's pointer identity
// so every earlier reference to it observes the resolved type.
func (t *Table) Resolve(d *types.Descriptor, kind types.Kind, record *types.Record) error {
	if !d.IsUndefined() {
		return fmt.Errorf("symtab: %q is already resolved", d.Name)
	}
	d.Kind = kind
	d.Record = record
	if kind == types.Enumeration && record.Underlying != nil {
		// An enumeration's storage is whatever integer type its
		// values are held in, not a layout over its (typeless)
		// enumerator list.
		d.Size = record.Underlying.Size
		d.Align = record.Underlying.Align
	} else {
		d.Size = record.Var.Start
		d.Align = recordAlign(record)
	}
	return nil
}

func recordAlign(r *types.Record) int {
	align := 1
	for _, f := range r.Fields {
		if f.Type != nil && f.Type.Align > align {
			align = f.Type.Align
		}
	}
	if align == 1 && len(r.Fields) == 0 && r.Underlying != nil {
		// A complete view or a message has no fields of its own; its
		// alignment follows the flat it projects/wraps.
		align = r.Underlying.Align
	}
	return align
}

// Undefined returns every entry still awaiting resolution, in
// insertion order, for the end-of-parse "undefined type" check
// (parser.cpp's check_for_undefined).
func (t *Table) Undefined() []*types.Descriptor {
	var out []*types.Descriptor
	for _, name := range t.order {
		if d := t.entries[name]; d.IsUndefined() {
			out = append(out, d)
		}
	}
	return out
}

// Declared returns every resolved record descriptor, in the order each
// name was first referenced or declared (a forward-referenced record
// appears where it was first referenced, not where it was declared).
func (t *Table) Declared() []*types.Descriptor {
	var out []*types.Descriptor
	for _, name := range t.order {
		if d := t.entries[name]; !d.IsUndefined() && d.Kind.IsRecordKind() {
			out = append(out, d)
		}
	}
	return out
}
