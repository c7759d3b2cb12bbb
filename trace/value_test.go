// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"bytes"
	"testing"
)

func newAssembler(data []byte, version uint64) *CallAssembler {
	w := newWireReader(bytes.NewReader(data))
	return newCallAssembler(w, version, newDiagnostics(nil))
}

func TestParseValueScalars(t *testing.T) {
	cases := []struct {
		name string
		enc  []byte
		want Value
	}{
		{"null", newBuf().valNull().bytes(), Value{kind: KindNull}},
		{"false", newBuf().valFalse().bytes(), Value{kind: KindBool, b: false}},
		{"true", newBuf().valTrue().bytes(), Value{kind: KindBool, b: true}},
		{"sint", newBuf().valSInt(-7).bytes(), Value{kind: KindSInt, i: -7}},
		{"uint", newBuf().valUInt(42).bytes(), Value{kind: KindUInt, u: 42}},
		{"opaque", newBuf().valOpaque(0xdeadbeef).bytes(), Value{kind: KindPointer, u: 0xdeadbeef}},
		{"string", newBuf().valString("foo").bytes(), Value{kind: KindString, raw: []byte("foo")}},
		{"blob", newBuf().valBlob("bar").bytes(), Value{kind: KindBlob, raw: []byte("bar")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := newAssembler(c.enc, Version)
			got, err := d.parseValue()
			if err != nil {
				t.Fatalf("parseValue: %v", err)
			}
			if got.kind != c.want.kind || got.b != c.want.b || got.i != c.want.i ||
				got.u != c.want.u || !bytes.Equal(got.raw, c.want.raw) {
				t.Errorf("parseValue() = %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestParseValueFloats(t *testing.T) {
	d := newAssembler(newBuf().valFloat32(0x3FC00000).bytes(), Version)
	v, err := d.parseValue()
	if err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	if v.Kind() != KindFloat || v.Float32() != 1.5 {
		t.Errorf("parseValue() = %+v, want Float32(1.5)", v)
	}

	d2 := newAssembler(newBuf().valFloat64(0x3FF8000000000000).bytes(), Version)
	v2, err := d2.parseValue()
	if err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	if v2.Kind() != KindDouble || v2.Float64() != 1.5 {
		t.Errorf("parseValue() = %+v, want Double(1.5)", v2)
	}
}

func TestParseValueArray(t *testing.T) {
	enc := newBuf().valArrayHeader(3).valUInt(1).valUInt(2).valUInt(3).bytes()
	d := newAssembler(enc, Version)
	v, err := d.parseValue()
	if err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	if v.Kind() != KindArray || len(v.Elems()) != 3 {
		t.Fatalf("parseValue() = %+v, want a 3-element array", v)
	}
	for i, want := range []uint64{1, 2, 3} {
		if got := v.Elems()[i].UInt(); got != want {
			t.Errorf("elem %d = %d, want %d", i, got, want)
		}
	}
}

func TestParseValueStruct(t *testing.T) {
	enc := newBuf().
		valStructHeader().structSigDef(0, "Point", "x", "y").
		valSInt(-1).valUInt(2).
		bytes()
	d := newAssembler(enc, Version)
	v, err := d.parseValue()
	if err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	if v.Kind() != KindStruct {
		t.Fatalf("parseValue() kind = %v, want struct", v.Kind())
	}
	if v.StructSig().Name != "Point" {
		t.Errorf("struct name = %q, want Point", v.StructSig().Name)
	}
	if got := v.Elems()[0].SInt(); got != -1 {
		t.Errorf("member x = %d, want -1", got)
	}
	if got := v.Elems()[1].UInt(); got != 2 {
		t.Errorf("member y = %d, want 2", got)
	}
}

func TestParseValueEnumModern(t *testing.T) {
	entries := []EnumEntry{{Name: "GL_FOO", Value: 1}, {Name: "GL_BAR", Value: 2}}
	enc := newBuf().
		valEnumHeader().enumSigDefModern(0, entries...).
		sintField(2). // trailing value field, version >= enumLegacyVersion
		bytes()
	d := newAssembler(enc, Version)
	v, err := d.parseValue()
	if err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	if v.Kind() != KindEnum {
		t.Fatalf("kind = %v, want enum", v.Kind())
	}
	if v.EnumValue() != 2 || v.EnumName() != "GL_BAR" {
		t.Errorf("EnumValue/EnumName = %d/%q, want 2/GL_BAR", v.EnumValue(), v.EnumName())
	}
}

func TestParseValueEnumLegacy(t *testing.T) {
	// version < enumLegacyVersion: no trailing sint field; the value comes
	// solely from the signature's single cached entry.
	enc := newBuf().valEnumHeader().enumSigDefLegacy(0, "GL_BAZ", 9).bytes()
	d := newAssembler(enc, enumLegacyVersion-1)
	v, err := d.parseValue()
	if err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	if v.EnumValue() != 9 || v.EnumName() != "GL_BAZ" {
		t.Errorf("EnumValue/EnumName = %d/%q, want 9/GL_BAZ", v.EnumValue(), v.EnumName())
	}
}

func TestParseValueBitmask(t *testing.T) {
	entries := []BitmaskEntry{{Name: "FLAG_NONE", Value: 0}, {Name: "FLAG_A", Value: 1}}
	enc := newBuf().valBitmaskHeader().bitmaskSigDef(0, entries...).uvarint(1).bytes()
	d := newAssembler(enc, Version)
	v, err := d.parseValue()
	if err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	if v.Kind() != KindBitmask || v.UInt() != 1 {
		t.Errorf("parseValue() = %+v, want Bitmask(1)", v)
	}
	if v.BitmaskSig().Flags[1].Name != "FLAG_A" {
		t.Errorf("bitmask flag 1 name = %q, want FLAG_A", v.BitmaskSig().Flags[1].Name)
	}
}

// TestScanValueMatchesParseValuePosition exercises property P2: scanValue
// must consume exactly as many bytes as parseValue for the same encoding,
// so Scan mode and Full mode stay interchangeable at every value boundary.
func TestScanValueMatchesParseValuePosition(t *testing.T) {
	enc := newBuf().
		valArrayHeader(2).
		valStructHeader().structSigDef(0, "P", "x", "y").valSInt(-3).valUInt(4).
		valEnumHeader().enumSigDefModern(0, EnumEntry{Name: "E", Value: -1}).sintField(-1).
		raw(0xFF). // sentinel byte after the value, to confirm the cursor lands exactly here
		bytes()

	parsed := newAssembler(enc, Version)
	if _, err := parsed.parseValue(); err != nil {
		t.Fatalf("parseValue: %v", err)
	}
	if got, err := parsed.w.readByte(); err != nil || got != 0xFF {
		t.Fatalf("byte after parseValue = %x, %v, want 0xFF, nil", got, err)
	}

	scanned := newAssembler(enc, Version)
	if err := scanned.scanValue(); err != nil {
		t.Fatalf("scanValue: %v", err)
	}
	if got, err := scanned.w.readByte(); err != nil || got != 0xFF {
		t.Fatalf("byte after scanValue = %x, %v, want 0xFF, nil", got, err)
	}
	if parsed.w.offset() != scanned.w.offset() {
		t.Errorf("offsets diverge: parseValue ended at %d, scanValue at %d", parsed.w.offset(), scanned.w.offset())
	}
}

func TestParseValueUnknownTag(t *testing.T) {
	d := newAssembler([]byte{0x7F}, Version)
	if _, err := d.parseValue(); err == nil {
		t.Fatal("parseValue with an unknown tag: want error, got nil")
	}
}
