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

package lexer_test

import (
	"testing"

	"github.com/morganstanley-labs/flats/lexer"
)

func scanAll(t *testing.T, src string) []lexer.Token {
	t.Helper()
	lx := lexer.New(src)
	var toks []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			t.Fatalf("Next(): %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == lexer.TEOF {
			return toks
		}
	}
}

func TestLexerPunctuationAndIdents(t *testing.T) {
	t.Parallel()

	toks := scanAll(t, "point : flat { x : int32; y : int32 }")
	kinds := make([]lexer.TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	want := []lexer.TokenKind{
		lexer.TIdent, lexer.TColon, lexer.TIdent, lexer.TLBrace,
		lexer.TIdent, lexer.TColon, lexer.TIdent, lexer.TSemicolon,
		lexer.TIdent, lexer.TColon, lexer.TIdent, lexer.TRBrace, lexer.TEOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
	if toks[0].Text != "point" {
		t.Errorf("toks[0].Text = %q, want %q", toks[0].Text, "point")
	}
}

func TestLexerColonColon(t *testing.T) {
	t.Parallel()

	toks := scanAll(t, "Color::Red")
	want := []lexer.TokenKind{lexer.TIdent, lexer.TColonColon, lexer.TIdent, lexer.TEOF}
	for i, tok := range toks {
		if tok.Kind != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, tok.Kind, want[i])
		}
	}
}

func TestLexerInteger(t *testing.T) {
	t.Parallel()

	toks := scanAll(t, "42")
	if toks[0].Kind != lexer.TInt || toks[0].IntValue != 42 {
		t.Fatalf("got %+v, want TInt(42)", toks[0])
	}
}

func TestLexerSkipsComments(t *testing.T) {
	t.Parallel()

	toks := scanAll(t, "a // line comment\nb /* block\ncomment */ c")
	var idents []string
	for _, tok := range toks {
		if tok.Kind == lexer.TIdent {
			idents = append(idents, tok.Text)
		}
	}
	want := []string{"a", "b", "c"}
	if len(idents) != len(want) {
		t.Fatalf("got idents %v, want %v", idents, want)
	}
	for i := range want {
		if idents[i] != want[i] {
			t.Errorf("idents[%d] = %q, want %q", i, idents[i], want[i])
		}
	}
}

func TestLexerLineTracking(t *testing.T) {
	t.Parallel()

	toks := scanAll(t, "a\nb\n\nc")
	lines := map[string]int{}
	for _, tok := range toks {
		if tok.Kind == lexer.TIdent {
			lines[tok.Text] = tok.Line
		}
	}
	if lines["a"] != 1 || lines["b"] != 2 || lines["c"] != 4 {
		t.Fatalf("got lines %v, want a=1 b=2 c=4", lines)
	}
}

func TestLexerUnrecognizedCharacter(t *testing.T) {
	t.Parallel()

	lx := lexer.New("@")
	if _, err := lx.Next(); err == nil {
		t.Fatal("Next(): want error for '@'")
	}
}

func TestLexerUnterminatedBlockComment(t *testing.T) {
	t.Parallel()

	lx := lexer.New("/* never closed")
	if _, err := lx.Next(); err == nil {
		t.Fatal("Next(): want error for unterminated block comment")
	}
}
