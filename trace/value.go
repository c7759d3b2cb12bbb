// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindSInt
	KindUInt
	KindFloat
	KindDouble
	KindString
	KindBlob
	KindPointer
	KindEnum
	KindBitmask
	KindArray
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindSInt:
		return "sint"
	case KindUInt:
		return "uint"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBlob:
		return "blob"
	case KindPointer:
		return "pointer"
	case KindEnum:
		return "enum"
	case KindBitmask:
		return "bitmask"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Value is a single node in a call's argument/return value tree. It's a
// fixed-layout tagged union rather than an interface hierarchy: every
// field is meaningful only for certain Kinds, mirroring the handful of
// wire shapes the format actually has.
type Value struct {
	kind Kind

	b   bool
	i   int64
	u   uint64
	f32 float32
	f64 float64
	raw []byte // String, Blob

	enumSig    *EnumSig
	bitmaskSig *BitmaskSig
	structSig  *StructSig

	elems []Value // Array elements, or Struct member values
}

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) Bool() bool { return v.b }

func (v *Value) SInt() int64 { return v.i }

func (v *Value) UInt() uint64 { return v.u }

func (v *Value) Pointer() uint64 { return v.u }

func (v *Value) Float32() float32 { return v.f32 }

func (v *Value) Float64() float64 { return v.f64 }

func (v *Value) String() string { return string(v.raw) }

func (v *Value) Bytes() []byte { return v.raw }

func (v *Value) EnumSig() *EnumSig { return v.enumSig }

func (v *Value) BitmaskSig() *BitmaskSig { return v.bitmaskSig }

func (v *Value) StructSig() *StructSig { return v.structSig }

func (v *Value) Elems() []Value { return v.elems }

// EnumValue returns the enum's raw selected value.
func (v *Value) EnumValue() int64 { return v.i }

// EnumName resolves the enum's current selection to the matching entry's
// name, or "" if the raw value doesn't match any entry (a recorder writing
// a value outside the enum's declared set, which the format permits).
func (v *Value) EnumName() string {
	if v.enumSig == nil {
		return ""
	}
	for _, e := range v.enumSig.Values {
		if e.Value == v.i {
			return e.Name
		}
	}
	return ""
}

// parseValue reads one value tree from the stream, resolving any enum,
// bitmask or struct signature references against the interner along the way.
func (d *CallAssembler) parseValue() (Value, error) {
	tag, err := d.w.readByte()
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case typeNull:
		return Value{kind: KindNull}, nil
	case typeFalse:
		return Value{kind: KindBool, b: false}, nil
	case typeTrue:
		return Value{kind: KindBool, b: true}, nil
	case typeSInt:
		u, err := d.w.readUint()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindSInt, i: -int64(u)}, nil
	case typeUInt:
		u, err := d.w.readUint()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindUInt, u: u}, nil
	case typeFloat:
		f, err := d.w.readFloat32()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindFloat, f32: f}, nil
	case typeDouble:
		f, err := d.w.readFloat64()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindDouble, f64: f}, nil
	case typeString:
		s, err := d.w.readString()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindString, raw: s}, nil
	case typeBlob:
		b, err := d.w.readString()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindBlob, raw: b}, nil
	case typeOpaque:
		u, err := d.w.readUint()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindPointer, u: u}, nil
	case typeEnum:
		sig, err := d.interner.lookupEnum(d.w)
		if err != nil {
			return Value{}, err
		}
		i, err := d.interner.readEnumValue(d.w, sig)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindEnum, enumSig: sig, i: i}, nil
	case typeBitmask:
		sig, err := d.interner.lookupBitmask(d.w)
		if err != nil {
			return Value{}, err
		}
		u, err := d.w.readUint()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindBitmask, bitmaskSig: sig, u: u}, nil
	case typeArray:
		n, err := d.w.readUint()
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, n)
		for i := range elems {
			elems[i], err = d.parseValue()
			if err != nil {
				return Value{}, xerrors.Errorf("trace: array element %d: %w", i, err)
			}
		}
		return Value{kind: KindArray, elems: elems}, nil
	case typeStruct:
		sig, err := d.interner.lookupStruct(d.w)
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, len(sig.MemberNames))
		for i := range elems {
			elems[i], err = d.parseValue()
			if err != nil {
				return Value{}, xerrors.Errorf("trace: struct %s member %d (%s): %w", sig.Name, i, sig.MemberNames[i], err)
			}
		}
		return Value{kind: KindStruct, structSig: sig, elems: elems}, nil
	default:
		return Value{}, xerrors.Errorf("trace: unknown value type tag 0x%02x", tag)
	}
}

// scanValue walks the same grammar as parseValue but discards the payload,
// advancing the stream offset without allocating a tree. It's used for
// CALL_ARG and CALL_RET values in Scan mode.
func (d *CallAssembler) scanValue() error {
	tag, err := d.w.readByte()
	if err != nil {
		return err
	}
	switch tag {
	case typeNull, typeFalse, typeTrue:
		return nil
	case typeSInt:
		return d.w.skipUint()
	case typeUInt:
		return d.w.skipUint()
	case typeFloat:
		return d.w.skipFloat32()
	case typeDouble:
		return d.w.skipFloat64()
	case typeString, typeBlob:
		return d.w.skipString()
	case typeOpaque:
		return d.w.skipUint()
	case typeEnum:
		if _, err := d.interner.lookupEnum(d.w); err != nil {
			return err
		}
		return d.interner.scanEnumValue(d.w)
	case typeBitmask:
		if _, err := d.interner.lookupBitmask(d.w); err != nil {
			return err
		}
		return d.w.skipUint()
	case typeArray:
		n, err := d.w.readUint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			if err := d.scanValue(); err != nil {
				return xerrors.Errorf("trace: array element %d: %w", i, err)
			}
		}
		return nil
	case typeStruct:
		sig, err := d.interner.lookupStruct(d.w)
		if err != nil {
			return err
		}
		for i := range sig.MemberNames {
			if err := d.scanValue(); err != nil {
				return xerrors.Errorf("trace: struct %s member %d: %w", sig.Name, i, err)
			}
		}
		return nil
	default:
		return xerrors.Errorf("trace: unknown value type tag 0x%02x", tag)
	}
}

// GoString implements a debugging representation distinct from the normal
// formatted one, matching fmt's convention for types with a custom String.
func (v *Value) GoString() string {
	return fmt.Sprintf("Value{kind: %v}", v.kind)
}
