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

package types

// Predef is one row of the predefined-primitives table: a fixed-size
// scalar type built into the schema language (or supplied by a host
// application as a "preset" type) together with its per-target native
// spelling.
//
// Grounded on preset_types.h's table of { name, cpp_native_name,
// java_native_name, java_flat_name, id, size, align } rows, generalized
// from fixed cpp/java columns to a NativeNames map keyed by target name
// so additional code-generation targets can be added without changing
// the struct shape.
type Predef struct {
	Name        string
	NativeNames map[string]string
	Kind        Kind
	Size        int
	Align       int
}

func nn(goName string) map[string]string {
	return map[string]string{"go": goName}
}

// BuiltinPredefs is the fixed table of scalar primitives every flats
// schema has available without declaring them: the integer widths
// (including the deliberately 4-byte/4-aligned int24, see
// SPEC_FULL.md §5), the two floats, and char, matching preset_types.h's
// int8/char/int16/int24/int32/int64/uint8/uint16/uint32/uint64/float32/
// float64 rows. "string" is not a Predef row: it is the parameterized
// Kind String (vector<char>), constructed by the parser rather than
// looked up in this table.
var BuiltinPredefs = []Predef{
	{Name: "int8", NativeNames: nn("int8"), Kind: Int8, Size: 1, Align: 1},
	{Name: "char", NativeNames: nn("byte"), Kind: Char, Size: 1, Align: 1},
	{Name: "int16", NativeNames: nn("int16"), Kind: Int16, Size: 2, Align: 2},
	{Name: "int24", NativeNames: nn("int32"), Kind: Int24, Size: 4, Align: 4},
	{Name: "int32", NativeNames: nn("int32"), Kind: Int32, Size: 4, Align: 4},
	{Name: "int64", NativeNames: nn("int64"), Kind: Int64, Size: 8, Align: 8},
	{Name: "uint8", NativeNames: nn("uint8"), Kind: Uint8, Size: 1, Align: 1},
	{Name: "uint16", NativeNames: nn("uint16"), Kind: Uint16, Size: 2, Align: 2},
	{Name: "uint24", NativeNames: nn("uint32"), Kind: Uint24, Size: 4, Align: 4},
	{Name: "uint32", NativeNames: nn("uint32"), Kind: Uint32, Size: 4, Align: 4},
	{Name: "uint64", NativeNames: nn("uint64"), Kind: Uint64, Size: 8, Align: 8},
	{Name: "float32", NativeNames: nn("float32"), Kind: Float32, Size: 4, Align: 4},
	{Name: "float64", NativeNames: nn("float64"), Kind: Float64, Size: 8, Align: 8},
}

// PresetPredef declares a host-supplied scalar type under the
// open-ended Preset range: a fixed size and alignment with no further
// structure, the way preset_types.h lists application scalars like
// TimeStamp and exchange_id alongside the language built-ins. ord
// selects the Kind value (Preset+ord); callers are responsible for
// keeping ord unique within one symbol table.
func PresetPredef(name string, ord uint16, size, align int) Predef {
	return Predef{
		Name:        name,
		NativeNames: nn(name),
		Kind:        Preset + Kind(ord),
		Size:        size,
		Align:       align,
	}
}
