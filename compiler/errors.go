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

import "fmt"

// Error is a single compile-time diagnostic. The schema language
// reports errors by source line (SPEC_FULL.md §2), not by byte span,
// so Error carries a Line instead of the teacher's Span.
//
// One constructor function per diagnostic, matching
// idol/compiler/compiler_errors.go's errXxx(...) *Error convention.
type Error struct {
	code    uint32
	message string
	line    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.message)
}

func (e *Error) Code() uint32 {
	return e.code
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) Line() int {
	return e.line
}

const (
	codeUnexpectedEOF uint32 = 1000 + iota
	codeExpectedToken
	codeUnexpectedDeclKind
	codeAlreadyDefined
	codeUndefinedType
	codeRecursiveFlat
	codeVectorOfVariant
	codeFixedVectorOfVariant
	codeNonPositiveCount
	codeDuplicateMember
	codeFieldNotFound
	codeExpectedOf
	codeBaseNotFound
	codeNotAMember
	codeUndefinedAfterParse
	codeBadEnumQualifier
	codeBadEnumerator
	codeTailTooBig
)

func errUnexpectedEOF(line int) *Error {
	return &Error{code: codeUnexpectedEOF, line: line, message: "unexpected end of input"}
}

func errExpectedToken(line int, want, context string) *Error {
	return &Error{code: codeExpectedToken, line: line, message: fmt.Sprintf("%s expected %s", want, context)}
}

func errUnexpectedDeclKind(line int, got string) *Error {
	return &Error{code: codeUnexpectedDeclKind, line: line, message: fmt.Sprintf("unexpected %q at start of declaration", got)}
}

func errAlreadyDefined(line int, name string) *Error {
	return &Error{code: codeAlreadyDefined, line: line, message: fmt.Sprintf("%q already defined", name)}
}

func errUndefinedType(line int, name, context string) *Error {
	return &Error{code: codeUndefinedType, line: line, message: fmt.Sprintf("%q is undefined type in %s", name, context)}
}

func errRecursiveFlat(line int, name string) *Error {
	return &Error{code: codeRecursiveFlat, line: line, message: fmt.Sprintf("recursive definition of flat %q", name)}
}

func errVectorOfVariant(line int) *Error {
	return &Error{code: codeVectorOfVariant, line: line, message: "vector of variant is not supported"}
}

func errFixedVectorOfVariant(line int) *Error {
	return &Error{code: codeFixedVectorOfVariant, line: line, message: "fixed_vector of variant is not supported"}
}

func errNonPositiveCount(line int, n int64) *Error {
	return &Error{code: codeNonPositiveCount, line: line, message: fmt.Sprintf("non-positive array count %d", n)}
}

func errDuplicateMember(line int, name string) *Error {
	return &Error{code: codeDuplicateMember, line: line, message: fmt.Sprintf("member %q defined twice", name)}
}

func errFieldNotFound(line int, status, name string) *Error {
	return &Error{code: codeFieldNotFound, line: line, message: fmt.Sprintf("%s type not found: %q", status, name)}
}

func errExpectedOf(line int) *Error {
	return &Error{code: codeExpectedOf, line: line, message: "'of' expected"}
}

func errBaseNotFound(line int, name string) *Error {
	return &Error{code: codeBaseNotFound, line: line, message: fmt.Sprintf("%q flat definition not found", name)}
}

func errNotAMember(line int, name, base string) *Error {
	return &Error{code: codeNotAMember, line: line, message: fmt.Sprintf("%q is not a member of %q", name, base)}
}

func errUndefinedAfterParse(line int, names []string) *Error {
	return &Error{code: codeUndefinedAfterParse, line: line, message: fmt.Sprintf("undefined variants or flats: %v", names)}
}

func errBadEnumQualifier(line int, name string) *Error {
	return &Error{code: codeBadEnumQualifier, line: line, message: fmt.Sprintf("undefined enum qualifier %q", name)}
}

func errBadEnumerator(line int, enumName, member string) *Error {
	return &Error{code: codeBadEnumerator, line: line, message: fmt.Sprintf("undefined enumerator %q in %q", member, enumName)}
}

func errTailTooBig(line int, name string) *Error {
	return &Error{code: codeTailTooBig, line: line, message: fmt.Sprintf("record %q overflows its tail budget", name)}
}
