// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import "encoding/binary"

// buf is a small fluent byte-stream builder used across this package's
// tests to construct wire fixtures by the same grammar parseValue,
// lookupFunction and the rest decode, rather than transcribing hex.
type buf struct{ b []byte }

func newBuf() *buf { return &buf{} }

func (w *buf) raw(bs ...byte) *buf {
	w.b = append(w.b, bs...)
	return w
}

func (w *buf) uvarint(v uint64) *buf {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.b = append(w.b, tmp[:n]...)
	return w
}

// sintField appends a self-tagged signed field as read by wireReader.readSInt:
// a type tag followed by a plain varint magnitude.
func (w *buf) sintField(v int64) *buf {
	if v < 0 {
		return w.raw(typeSInt).uvarint(uint64(-v))
	}
	return w.raw(typeUInt).uvarint(uint64(v))
}

func (w *buf) str(s string) *buf {
	w.uvarint(uint64(len(s)))
	w.b = append(w.b, s...)
	return w
}

func (w *buf) f32(v uint32) *buf {
	var tmp [4]byte
	tmp[0] = byte(v)
	tmp[1] = byte(v >> 8)
	tmp[2] = byte(v >> 16)
	tmp[3] = byte(v >> 24)
	w.b = append(w.b, tmp[:]...)
	return w
}

func (w *buf) f64(v uint64) *buf {
	var tmp [8]byte
	for i := 0; i < 8; i++ {
		tmp[i] = byte(v >> (8 * i))
	}
	w.b = append(w.b, tmp[:]...)
	return w
}

func (w *buf) bytes() []byte { return w.b }

// funcSigDef appends a first-time FunctionSig definition: id, name,
// num_args, arg_names.
func (w *buf) funcSigDef(id uint64, name string, argNames ...string) *buf {
	w.uvarint(id).str(name).uvarint(uint64(len(argNames)))
	for _, a := range argNames {
		w.str(a)
	}
	return w
}

// funcSigRef appends a bare reference to an already-defined FunctionSig.
func (w *buf) funcSigRef(id uint64) *buf { return w.uvarint(id) }

// enterNewFunc appends a full ENTER event (tag, thread_id, function signature)
// for wire versions at or above threadIDVersion.
func (w *buf) enterNewFunc(threadID uint64, id uint64, name string, argNames ...string) *buf {
	return w.raw(evEnter).uvarint(threadID).funcSigDef(id, name, argNames...)
}

func (w *buf) enterRefFunc(threadID uint64, id uint64) *buf {
	return w.raw(evEnter).uvarint(threadID).funcSigRef(id)
}

func (w *buf) callArgUInt(index uint64, v uint64) *buf {
	return w.raw(callArg).uvarint(index).raw(typeUInt).uvarint(v)
}

func (w *buf) callEnd() *buf { return w.raw(callEnd) }

func (w *buf) leaveUInt(callTime uint64, callNo uint64) *buf {
	return w.raw(evLeave).raw(typeUInt).uvarint(callTime).uvarint(callNo)
}

// The valXxx helpers each append one complete Value, tag included, in the
// shape parseValue/scanValue expect to read.

func (w *buf) valNull() *buf  { return w.raw(typeNull) }
func (w *buf) valFalse() *buf { return w.raw(typeFalse) }
func (w *buf) valTrue() *buf  { return w.raw(typeTrue) }

// valSInt appends a Value of KindSInt. The wire can only represent
// non-positive magnitudes this way (the body is negated on read), matching
// the source format's SInt being reserved for negative numbers.
func (w *buf) valSInt(v int64) *buf {
	if v > 0 {
		panic("valSInt: wire format can't represent a positive SInt")
	}
	return w.raw(typeSInt).uvarint(uint64(-v))
}

func (w *buf) valUInt(v uint64) *buf { return w.raw(typeUInt).uvarint(v) }

func (w *buf) valFloat32(bits uint32) *buf { return w.raw(typeFloat).f32(bits) }
func (w *buf) valFloat64(bits uint64) *buf { return w.raw(typeDouble).f64(bits) }

func (w *buf) valString(s string) *buf { return w.raw(typeString).str(s) }
func (w *buf) valBlob(s string) *buf   { return w.raw(typeBlob).str(s) }
func (w *buf) valOpaque(v uint64) *buf { return w.raw(typeOpaque).uvarint(v) }

// valArrayHeader appends an array's tag and element count; callers append
// each element Value (any valXxx call) immediately after.
func (w *buf) valArrayHeader(n uint64) *buf { return w.raw(typeArray).uvarint(n) }

// structSigDef appends a first-time StructSig definition.
func (w *buf) structSigDef(id uint64, name string, memberNames ...string) *buf {
	w.uvarint(id).str(name).uvarint(uint64(len(memberNames)))
	for _, m := range memberNames {
		w.str(m)
	}
	return w
}

func (w *buf) structSigRef(id uint64) *buf { return w.uvarint(id) }

// valStructHeader appends a struct Value's tag; the caller appends the
// signature reference/definition and then one Value per member.
func (w *buf) valStructHeader() *buf { return w.raw(typeStruct) }

// enumSigDefModern appends a first-time, version>=3 EnumSig definition.
func (w *buf) enumSigDefModern(id uint64, entries ...EnumEntry) *buf {
	w.uvarint(id).uvarint(uint64(len(entries)))
	for _, e := range entries {
		w.str(e.Name).sintField(e.Value)
	}
	return w
}

func (w *buf) enumSigDefLegacy(id uint64, name string, value int64) *buf {
	return w.uvarint(id).str(name).sintField(value)
}

func (w *buf) enumSigRef(id uint64) *buf { return w.uvarint(id) }

// valEnumHeader appends an enum Value's tag; the caller appends the
// signature reference/definition and then the trailing sint field.
func (w *buf) valEnumHeader() *buf { return w.raw(typeEnum) }

func (w *buf) bitmaskSigDef(id uint64, entries ...BitmaskEntry) *buf {
	w.uvarint(id).uvarint(uint64(len(entries)))
	for _, e := range entries {
		w.str(e.Name).uvarint(e.Value)
	}
	return w
}

func (w *buf) bitmaskSigRef(id uint64) *buf { return w.uvarint(id) }

func (w *buf) valBitmaskHeader() *buf { return w.raw(typeBitmask) }
