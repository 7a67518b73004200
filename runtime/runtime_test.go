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

package runtime_test

import (
	"testing"

	"github.com/morganstanley-labs/flats/runtime"
)

func TestAllocatorAllocateAdvancesCursor(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 16+32)
	a := runtime.NewAllocator(buf, 16, 32)

	off, err := a.Allocate(8)
	if err != nil {
		t.Fatalf("Allocate(8): %v", err)
	}
	if off != 16 {
		t.Errorf("first Allocate(8) = %d, want 16", off)
	}

	off2, err := a.Allocate(4)
	if err != nil {
		t.Fatalf("Allocate(4): %v", err)
	}
	if off2 != 24 {
		t.Errorf("second Allocate(4) = %d, want 24", off2)
	}
	if a.Used() != 12 {
		t.Errorf("Used() = %d, want 12", a.Used())
	}
}

func TestAllocatorTailTooBig(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 16+8)
	a := runtime.NewAllocator(buf, 16, 8)

	if _, err := a.Allocate(9); err == nil {
		t.Fatal("Allocate(9) over an 8-byte budget: want ErrTailTooBig")
	} else if fault, ok := err.(*runtime.Fault); !ok || fault.Code != runtime.ErrTailTooBig {
		t.Fatalf("Allocate(9): got %v, want ErrTailTooBig", err)
	}
}

func TestAllocatorPlaceCopiesBytes(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 8+16)
	a := runtime.NewAllocator(buf, 8, 16)

	off, size, err := a.Place([]byte("hello"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if size != 5 {
		t.Errorf("Place size = %d, want 5", size)
	}
	got := string(buf[off : int(off)+int(size)])
	if got != "hello" {
		t.Errorf("Place copied %q, want %q", got, "hello")
	}
}

func TestSpanGetSet(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 16)
	s := runtime.NewSpan[int32](buf, 0, 4)

	if !s.Set(2, 99) {
		t.Fatal("Set(2, 99) = false, want true")
	}
	got, ok := s.Get(2)
	if !ok || got != 99 {
		t.Fatalf("Get(2) = (%d, %v), want (99, true)", got, ok)
	}
	if _, ok := s.Get(4); ok {
		t.Fatal("Get(4) on a 4-element span: want false")
	}
}

func TestSpanCollectAndString(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 12)
	s := runtime.NewSpan[int32](buf, 0, 3)
	s.Set(0, 1)
	s.Set(1, 2)
	s.Set(2, 3)

	got := s.Collect()
	want := []int32{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Collect() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Collect()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if s.String() != "[1, 2, 3]" {
		t.Errorf("String() = %q, want %q", s.String(), "[1, 2, 3]")
	}
}

func TestSpanLimit(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 16)
	s := runtime.NewSpan[int32](buf, 0, 4)
	s.Set(0, 10)
	s.Set(1, 20)

	limited := s.Limit(2)
	if limited.Len() != 2 {
		t.Fatalf("Limit(2).Len() = %d, want 2", limited.Len())
	}
	if got, _ := limited.Get(1); got != 20 {
		t.Errorf("Limit(2).Get(1) = %d, want 20", got)
	}
}

func TestReadWritePrimitive(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 8)
	runtime.WritePrimitive[int64](buf, 0, 0x0102030405060708)
	got := runtime.ReadPrimitive[int64](buf, 0)
	if got != 0x0102030405060708 {
		t.Errorf("ReadPrimitive = %#x, want %#x", got, 0x0102030405060708)
	}
}

func TestByteStringRoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 5)
	s := runtime.NewByteString(buf, 0, 5)
	if !s.SetString("hello") {
		t.Fatal("SetString: want true for matching length")
	}
	if s.String() != "hello" {
		t.Errorf("String() = %q, want %q", s.String(), "hello")
	}
	if s.SetString("too long") {
		t.Fatal("SetString: want false for mismatched length")
	}
}

func TestVectorWriterThenReader(t *testing.T) {
	t.Parallel()

	const hdrOff = 0
	buf := make([]byte, runtime.VectorHeaderSize+32)
	a := runtime.NewAllocator(buf, runtime.VectorHeaderSize, 32)

	w, err := runtime.NewVectorWriter[int32](buf, hdrOff, a, 3)
	if err != nil {
		t.Fatalf("NewVectorWriter: %v", err)
	}
	w.Set(0, 10)
	w.Set(1, 20)
	w.Set(2, 30)

	r := runtime.NewVectorReader[int32](buf, hdrOff)
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	for i, want := range []int32{10, 20, 30} {
		got, ok := r.Get(i)
		if !ok || got != want {
			t.Errorf("Get(%d) = (%d, %v), want (%d, true)", i, got, ok, want)
		}
	}
}

func TestOptionalPresence(t *testing.T) {
	t.Parallel()

	headerLen := runtime.OptionalHeaderSize(4, false)
	buf := make([]byte, headerLen+4)
	o := runtime.NewOptional[int32](buf, 0, headerLen)

	if o.Present() {
		t.Fatal("fresh Optional: want Present() false")
	}
	if _, err := o.Get(); err == nil {
		t.Fatal("Get() on absent optional: want ErrOptionalNotPresent")
	}

	o.Set(42)
	if !o.Present() {
		t.Fatal("after Set: want Present() true")
	}
	got, err := o.Get()
	if err != nil || got != 42 {
		t.Fatalf("Get() = (%d, %v), want (42, nil)", got, err)
	}

	o.Clear()
	if o.Present() {
		t.Fatal("after Clear: want Present() false")
	}
}

func TestOptionalHeaderSizeCharVsAligned(t *testing.T) {
	t.Parallel()

	if got := runtime.OptionalHeaderSize(1, true); got != runtime.SizeWidth {
		t.Errorf("OptionalHeaderSize(1, isChar=true) = %d, want %d", got, runtime.SizeWidth)
	}
	if got := runtime.OptionalHeaderSize(8, false); got != 8 {
		t.Errorf("OptionalHeaderSize(8, isChar=false) = %d, want 8", got)
	}
}

func TestFixedVectorPushAndOverflow(t *testing.T) {
	t.Parallel()

	headerLen := runtime.OptionalHeaderSize(4, false)
	const cap = 2
	buf := make([]byte, headerLen+cap*4)
	fv := runtime.NewFixedVector[int32](buf, 0, headerLen, cap)

	if fv.Used() != 0 {
		t.Fatalf("fresh FixedVector: Used() = %d, want 0", fv.Used())
	}
	if err := fv.Push(1); err != nil {
		t.Fatalf("Push(1): %v", err)
	}
	if err := fv.Push(2); err != nil {
		t.Fatalf("Push(2): %v", err)
	}
	if err := fv.Push(3); err == nil {
		t.Fatal("Push beyond capacity: want ErrFixedArrayOverflow")
	}
	if fv.Used() != 2 {
		t.Errorf("Used() after overflowed push = %d, want 2", fv.Used())
	}
	if got, ok := fv.Get(1); !ok || got != 2 {
		t.Errorf("Get(1) = (%d, %v), want (2, true)", got, ok)
	}
	if fv.String() != "[1, 2]" {
		t.Errorf("String() = %q, want %q", fv.String(), "[1, 2]")
	}
}

func TestVariantTagDiscipline(t *testing.T) {
	t.Parallel()

	buf := make([]byte, runtime.VariantHeaderSize+16)
	a := runtime.NewAllocator(buf, runtime.VariantHeaderSize, 16)
	v := runtime.NewVariant(buf, 0)

	off, err := v.PlaceBranch(a, 1, 4)
	if err != nil {
		t.Fatalf("PlaceBranch: %v", err)
	}
	runtime.WritePrimitive[int32](buf, int(off), 7)

	if v.Tag() != 1 {
		t.Fatalf("Tag() = %d, want 1", v.Tag())
	}
	if err := v.ExpectTag(1); err != nil {
		t.Fatalf("ExpectTag(1) on a tag-1 variant: %v", err)
	}
	if err := v.ExpectTag(0); err == nil {
		t.Fatal("ExpectTag(0) on a tag-1 variant: want ErrVariantTag")
	} else if fault, ok := err.(*runtime.Fault); !ok || fault.Code != runtime.ErrVariantTag {
		t.Fatalf("ExpectTag(0): got %v, want ErrVariantTag", err)
	}

	got := runtime.ReadPrimitive[int32](buf, int(v.BranchOffset()))
	if got != 7 {
		t.Errorf("branch payload = %d, want 7", got)
	}
}
