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
	"fmt"

	"github.com/morganstanley-labs/flats/lexer"
	"github.com/morganstanley-labs/flats/runtime"
	"github.com/morganstanley-labs/flats/symtab"
	"github.com/morganstanley-labs/flats/types"
)

// Result is everything a successful Compile call produces: the fully
// resolved symbol table and the declared records in schema order,
// ready for the layout/object-map artifacts already attached to each
// one and for codegen to walk.
type Result struct {
	Table   *symtab.Table
	Records []*types.Descriptor
}

// Compile parses src as a complete flats schema, seeding the symbol
// table from the predefined-primitives table and returning every
// declared record in declaration order. The first error encountered
// aborts compilation immediately (spec.md §7): there is no error
// recovery and no batching of multiple diagnostics.
//
// Grounded on parser.cpp's top-level parse() loop.
func Compile(src string) (*Result, error) {
	return compile(src, false)
}

// CompilePacked is Compile's packed-layout counterpart: every flat and
// variant record is laid out with no inter-field alignment padding
// (spec.md §9's "packed mode is reserved in the interface", implemented
// per SPEC_FULL.md §5's decision rather than rejected). The two layouts
// genuinely differ, so packed output needs its own Compile pass rather
// than reusing Compile's Result.
func CompilePacked(src string) (*Result, error) {
	return compile(src, true)
}

func compile(src string, packed bool) (*Result, error) {
	syms, err := symtab.New(types.BuiltinPredefs)
	if err != nil {
		return nil, err
	}
	seedString(syms)

	p, err := newParser(src, syms)
	if err != nil {
		return nil, err
	}
	p.packed = packed

	for p.tok.Kind != lexer.TEOF {
		if p.tok.Kind == lexer.TIdent && p.tok.Text == "end" {
			break
		}
		if err := p.parseDeclaration(); err != nil {
			return nil, err
		}
	}

	if undef := syms.Undefined(); len(undef) > 0 {
		names := make([]string, len(undef))
		for i, d := range undef {
			names[i] = d.Name
		}
		return nil, errUndefinedAfterParse(p.line(), names)
	}

	for _, d := range p.records {
		if d.Record != nil && (d.Kind == types.Flat || d.Kind == types.Variant || d.Kind == types.View || d.Kind == types.Message) {
			d.Record.ObjectMap = buildObjectMap(d.Record)
		}
	}

	return &Result{Table: syms, Records: p.records}, nil
}

// seedString registers the "string" built-in as vector<char>'s fixed
// header size, matching parser.cpp's preset_types.h row for "string"
// whose size is overwritten to sizeof(Flats::Vector<char>) the first
// time get_type resolves it. "string" is not a Predef row (it is the
// parameterized Kind String, not a plain scalar), so it is seeded
// directly rather than through symtab.New's predefined-table loop.
func seedString(syms *symtab.Table) {
	syms.Seed(&types.Descriptor{
		Name:        "string",
		Kind:        types.String,
		NativeNames: map[string]string{"go": "string"},
		Count:       1,
		Size:        runtime.VectorHeaderSize,
		Align:       runtime.VectorHeaderAlign,
	})
}

type parser struct {
	lex     *lexer.Lexer
	tok     lexer.Token
	syms    *symtab.Table
	records []*types.Descriptor
	packed  bool
}

func newParser(src string, syms *symtab.Table) (*parser, error) {
	p := &parser{lex: lexer.New(src), syms: syms}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) line() int { return p.tok.Line }

func (p *parser) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		if lerr, ok := err.(*lexer.Error); ok {
			return &Error{code: codeUnexpectedEOF, line: lerr.Line, message: lerr.Message}
		}
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expectKind(k lexer.TokenKind, context string) error {
	if p.tok.Kind != k {
		return errExpectedToken(p.line(), k.String(), context)
	}
	return p.advance()
}

// parseName consumes an identifier token and returns its spelling and
// the line it started on.
func (p *parser) parseName() (string, int, error) {
	if p.tok.Kind != lexer.TIdent {
		return "", 0, errExpectedToken(p.line(), "identifier", "")
	}
	name, line := p.tok.Text, p.line()
	if err := p.advance(); err != nil {
		return "", 0, err
	}
	return name, line, nil
}

// eatTerminator consumes an optional trailing ';' or ',' — both are
// accepted and neither is required, matching eat_terminator's
// "optional terminator" contract.
func (p *parser) eatTerminator() error {
	if p.tok.Kind == lexer.TSemicolon || p.tok.Kind == lexer.TComma {
		return p.advance()
	}
	return nil
}

// parseDeclaration parses one top-level "name : kind ..." schema
// declaration and registers it in the symbol table.
func (p *parser) parseDeclaration() error {
	name, line, err := p.parseName()
	if err != nil {
		return err
	}
	if existing := p.syms.Find(name); existing != nil && !existing.IsUndefined() {
		return errAlreadyDefined(line, name)
	}

	if err := p.expectKind(lexer.TColon, fmt.Sprintf("after global name %q", name)); err != nil {
		return err
	}

	kindName, kline, err := p.parseName()
	if err != nil {
		return err
	}

	var kind types.Kind
	var rec *types.Record
	switch kindName {
	case "flat":
		kind = types.Flat
		rec, err = p.parseFlatOrVariantBody(name, types.Flat)
	case "variant":
		kind = types.Variant
		rec, err = p.parseFlatOrVariantBody(name, types.Variant)
	case "view":
		kind = types.View
		rec, err = p.parseViewBody(name)
	case "enum":
		kind = types.Enumeration
		rec, err = p.parseEnumBody(name)
	case "message":
		kind = types.Message
		rec, err = p.parseMessageBody(name)
	default:
		return errUnexpectedDeclKind(kline, kindName)
	}
	if err != nil {
		return err
	}

	if err := p.eatTerminator(); err != nil {
		return err
	}

	desc, err := p.syms.Declare(name, kind, rec)
	if err != nil {
		return err
	}
	p.records = append(p.records, desc)
	return nil
}

// parseFlatOrVariantBody parses '{' field* '}' for a flat or variant
// declaration. kind selects which forward-reference rule applies to
// field types (spec.md's forward-reference arena strategy: variant
// branches may reference not-yet-declared flats, flat fields may not).
func (p *parser) parseFlatOrVariantBody(name string, kind types.Kind) (*types.Record, error) {
	rec := &types.Record{Kind: kind, Name: name, Packed: p.packed}
	if err := p.expectKind(lexer.TLBrace, "for "+name); err != nil {
		return nil, err
	}
	for p.tok.Kind != lexer.TRBrace {
		fld, err := p.parseField(rec, kind)
		if err != nil {
			return nil, err
		}
		fld.Index = len(rec.Fields)
		rec.Fields = append(rec.Fields, fld)
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}
	if err := computeLayout(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// parseField parses one flat/variant member: "deprecate name",
// "delete name", or "name ':' type".
func (p *parser) parseField(rec *types.Record, ctx types.Kind) (*types.Field, error) {
	name, line, err := p.parseName()
	if err != nil {
		return nil, err
	}
	switch name {
	case "deprecate":
		return p.modifyField(rec, types.Deprecating, line)
	case "delete":
		return p.modifyField(rec, types.Deleting, line)
	}
	if findField(rec, name) != nil {
		return nil, errDuplicateMember(line, name)
	}
	if err := p.expectKind(lexer.TColon, fmt.Sprintf("after member name %q", name)); err != nil {
		return nil, err
	}
	typ, err := p.parseType(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.eatTerminator(); err != nil {
		return nil, err
	}
	return &types.Field{Name: name, Type: typ, Status: types.Ordinary}, nil
}

// modifyField implements the "deprecate name" / "delete name"
// dispatch: it flips the named field's Status to the terminal form
// (Deprecated/Deleted) and returns a typeless sentinel field carrying
// the transitional form (Deprecating/Deleting), matching
// modify_field's "make a deleting or deprecating field" comment.
func (p *parser) modifyField(rec *types.Record, transitional types.Status, line int) (*types.Field, error) {
	name, nline, err := p.parseName()
	if err != nil {
		return nil, err
	}
	existing := findField(rec, name)
	if existing == nil {
		label := "deprecated"
		if transitional == types.Deleting {
			label = "deleted"
		}
		return nil, errFieldNotFound(nline, label, name)
	}
	if transitional == types.Deprecating {
		existing.Status = types.Deprecated
	} else {
		existing.Status = types.Deleted
	}
	if err := p.eatTerminator(); err != nil {
		return nil, err
	}
	return &types.Field{Name: name, Type: nil, Status: transitional}, nil
}

func findField(rec *types.Record, name string) *types.Field {
	for _, f := range rec.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// parseViewBody parses "'of' name ['{' member* '}']" for a view
// declaration: either a complete view of an existing flat, or a
// partial view naming a subset of the base flat's members.
func (p *parser) parseViewBody(name string) (*types.Record, error) {
	if _, _, err := p.expectName("of"); err != nil {
		return nil, err
	}
	baseName, bline, err := p.parseName()
	if err != nil {
		return nil, err
	}
	base := p.syms.Find(baseName)
	if base == nil || base.Kind != types.Flat {
		return nil, errBaseNotFound(bline, baseName)
	}

	rec := &types.Record{Kind: types.View, Name: name}
	if p.tok.Kind == lexer.TLBrace {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.tok.Kind != lexer.TRBrace {
			mname, mline, err := p.parseName()
			if err != nil {
				return nil, err
			}
			if err := p.eatTerminator(); err != nil {
				return nil, err
			}
			bf := findField(base.Record, mname)
			if bf == nil {
				return nil, errNotAMember(mline, mname, baseName)
			}
			rec.Fields = append(rec.Fields, &types.Field{Name: mname, Type: bf.Type})
		}
		if err := p.advance(); err != nil { // consume '}'
			return nil, err
		}
		if err := finalizeViewFields(rec, base.Record); err != nil {
			return nil, err
		}
	} else {
		rec.Underlying = base
		rec.Var.Start = base.Record.Var.Start
	}
	return rec, nil
}

// parseMessageBody parses "'of' name" for a message declaration: the
// buffer envelope wrapping one flat.
func (p *parser) parseMessageBody(name string) (*types.Record, error) {
	if _, _, err := p.expectName("of"); err != nil {
		return nil, err
	}
	baseName, bline, err := p.parseName()
	if err != nil {
		return nil, err
	}
	base := p.syms.Find(baseName)
	if base == nil || base.Kind != types.Flat {
		return nil, errBaseNotFound(bline, baseName)
	}
	return &types.Record{
		Kind:       types.Message,
		Name:       name,
		Underlying: base,
		Var:        types.VariablePart{Start: base.Record.Var.Start},
	}, nil
}

// parseEnumBody parses '{' enumerator* '}'. Each enumerator is a name
// with an optional explicit value; omitting the value continues the
// sequence from the previous enumerator's value plus one (C's default
// enumerator rule, carried over verbatim from get_enumerator).
func (p *parser) parseEnumBody(name string) (*types.Record, error) {
	underlying := p.syms.Find("int32")
	rec := &types.Record{Kind: types.Enumeration, Name: name, Underlying: underlying}
	if err := p.expectKind(lexer.TLBrace, "for "+name); err != nil {
		return nil, err
	}
	next := 0
	for p.tok.Kind != lexer.TRBrace {
		ename, _, err := p.parseName()
		if err != nil {
			return nil, err
		}
		value := next
		if p.tok.Kind == lexer.TColon {
			if err := p.advance(); err != nil {
				return nil, err
			}
			v, err := p.parseNumber()
			if err != nil {
				return nil, err
			}
			value = int(v)
		}
		if err := p.eatTerminator(); err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, &types.Field{Name: ename, Value: value, Index: len(rec.Fields)})
		next = value + 1
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}
	return rec, nil
}

// expectName consumes an identifier and requires it to spell want
// exactly (used for the grammar's bare keyword positions like "of").
func (p *parser) expectName(want string) (string, int, error) {
	name, line, err := p.parseName()
	if err != nil {
		return "", 0, err
	}
	if name != want {
		if want == "of" {
			return "", 0, errExpectedOf(line)
		}
		return "", 0, errExpectedToken(line, fmt.Sprintf("%q", want), "")
	}
	return name, line, nil
}

// parseNumber parses a decimal literal or an "Enum::member" qualified
// enumerator reference, matching get_number's "no general expression
// evaluator" contract.
func (p *parser) parseNumber() (int64, error) {
	if p.tok.Kind == lexer.TInt {
		v := p.tok.IntValue
		if err := p.advance(); err != nil {
			return 0, err
		}
		return v, nil
	}
	if p.tok.Kind == lexer.TIdent {
		enumName, eline, err := p.parseName()
		if err != nil {
			return 0, err
		}
		if err := p.expectKind(lexer.TColonColon, "in qualified enumerator"); err != nil {
			return 0, err
		}
		member, mline, err := p.parseName()
		if err != nil {
			return 0, err
		}
		enumType := p.syms.Find(enumName)
		if enumType == nil || enumType.Kind != types.Enumeration {
			return 0, errBadEnumQualifier(eline, enumName)
		}
		f := findField(enumType.Record, member)
		if f == nil {
			return 0, errBadEnumerator(mline, enumName, member)
		}
		return int64(f.Value), nil
	}
	return 0, errExpectedToken(p.line(), "number", "")
}

// parseType parses "name | optional<T> | vector<T> | fixed_vector<T,N>
// | string" with an optional trailing "[n]" array suffix applied
// left-to-right (spec.md §4.3's type grammar), resolving named
// references against the symbol table. ctx is the enclosing record's
// Kind: forward references to not-yet-declared flats are rejected when
// ctx is Flat and accepted (as a placeholder, patched later) when ctx
// is Variant — see parser.cpp's get_type and the forward-reference
// arena design note.
func (p *parser) parseType(ctx types.Kind) (*types.Descriptor, error) {
	name, line, err := p.parseName()
	if err != nil {
		return nil, err
	}

	var t *types.Descriptor
	switch name {
	case "optional":
		t, err = p.parseOptOrVec(types.Optional, ctx)
	case "vector":
		t, err = p.parseOptOrVec(types.Vector, ctx)
	case "fixed_vector":
		t, err = p.parseFixedVector(ctx)
	case "string":
		t = p.syms.Find("string")
	default:
		existing := p.syms.Find(name)
		if existing != nil && existing.IsUndefined() && ctx == types.Flat {
			return nil, errRecursiveFlat(line, name)
		}
		if existing == nil {
			if ctx == types.Flat {
				return nil, errUndefinedType(line, name, "flat")
			}
			existing = p.syms.InsertUndefined(name)
		}
		t = existing
	}
	if err != nil {
		return nil, err
	}

	for p.tok.Kind == lexer.TLBracket {
		bline := p.line()
		if err := p.advance(); err != nil {
			return nil, err
		}
		count, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		if count < 1 {
			return nil, errNonPositiveCount(bline, count)
		}
		if err := p.expectKind(lexer.TRBracket, "after array count"); err != nil {
			return nil, err
		}
		t = &types.Descriptor{
			Kind:  types.Array,
			Elem:  t,
			Count: int(count),
			Size:  int(count) * t.Size,
			Align: t.Align,
		}
	}
	return t, nil
}

// parseOptOrVec parses the "<T>" suffix shared by optional<T> and
// vector<T>, applying optional's collapsing rules (optional<optional>,
// optional<variant>, optional<vector>, and optional<string> all
// eliminate the optional wrapper and return T unchanged) and vector's
// "vector of variant is not supported" restriction.
func (p *parser) parseOptOrVec(kind types.Kind, ctx types.Kind) (*types.Descriptor, error) {
	if err := p.expectKind(lexer.TLAngle, "after vector or optional"); err != nil {
		return nil, err
	}
	elem, err := p.parseType(ctx)
	if err != nil {
		return nil, err
	}
	line := p.line()
	if err := p.expectKind(lexer.TRAngle, "after vector or optional"); err != nil {
		return nil, err
	}

	if kind == types.Optional {
		switch elem.Kind {
		case types.Optional, types.Variant, types.Vector, types.String:
			return elem, nil
		case types.Flat:
			elem.Record.UsedAsOptional = true
		}
		headerLen := runtime.OptionalHeaderSize(elem.Align, elem.Kind == types.Char)
		return &types.Descriptor{
			Kind:  types.Optional,
			Elem:  elem,
			Count: 1,
			Size:  headerLen + elem.Size,
			Align: elem.Align,
		}, nil
	}

	if elem.Kind == types.Variant {
		return nil, errVectorOfVariant(line)
	}
	return &types.Descriptor{
		Kind:  types.Vector,
		Elem:  elem,
		Count: 1,
		Size:  runtime.VectorHeaderSize,
		Align: runtime.VectorHeaderAlign,
	}, nil
}

// parseFixedVector parses fixed_vector<T,N>'s "<T,N>" suffix.
func (p *parser) parseFixedVector(ctx types.Kind) (*types.Descriptor, error) {
	if err := p.expectKind(lexer.TLAngle, "after 'fixed_vector'"); err != nil {
		return nil, err
	}
	elem, err := p.parseType(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.expectKind(lexer.TComma, "after type in fixed_vector"); err != nil {
		return nil, err
	}
	cline := p.line()
	n, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, errNonPositiveCount(cline, n)
	}
	vline := p.line()
	if err := p.expectKind(lexer.TRAngle, "after size in fixed_vector"); err != nil {
		return nil, err
	}
	if elem.Kind == types.Variant {
		return nil, errFixedVectorOfVariant(vline)
	}
	headerLen := runtime.OptionalHeaderSize(elem.Align, elem.Kind == types.Char)
	return &types.Descriptor{
		Kind:  types.FixedVector,
		Elem:  elem,
		Count: int(n),
		Size:  headerLen + int(n)*elem.Size,
		Align: elem.Align,
	}, nil
}
