// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"golang.org/x/xerrors"
)

// FunctionSig is the interned, immutable description of one function as
// seen on the wire: its name, the names of its declared arguments (order
// matters; argument values are matched to these positionally), and the
// CallFlags derived from its name at definition time.
type FunctionSig struct {
	ID       uint64
	Name     string
	ArgNames []string
	Flags    CallFlags

	firstDefOffset int64
}

// StructSig is the interned description of a struct-shaped value: its
// name and the ordered names of its members.
type StructSig struct {
	ID          uint64
	Name        string
	MemberNames []string

	firstDefOffset int64
}

// EnumEntry is one (name, value) pair of an enum signature's value table.
type EnumEntry struct {
	Name  string
	Value int64
}

// EnumSig is the interned description of an enum type. Traces recorded
// with a wire version below enumLegacyVersion always carry exactly one
// entry here, and every Value referencing this signature repeats that
// single cached value rather than reading one of its own.
type EnumSig struct {
	ID     uint64
	Values []EnumEntry

	firstDefOffset int64
}

// BitmaskEntry is one (name, value) pair of a bitmask signature's flag
// table.
type BitmaskEntry struct {
	Name  string
	Value uint64
}

// BitmaskSig is the interned description of a bitmask type: its ordered
// set of named flag values.
type BitmaskSig struct {
	ID    uint64
	Flags []BitmaskEntry

	firstDefOffset int64
}

// signatureInterner holds the four append-only, ID-keyed signature tables
// and implements the offset-based first-definition detection described by
// invariants I1/I2: an ID is "defined" the first time it's seen, and any
// later occurrence of the same ID is a full re-definition only if the
// current stream offset precedes that first definition's recorded end
// offset — which happens when a bookmark rewinds the stream to before the
// point where the definition was originally read. A naive "first textual
// occurrence wins, everything else is a bare reference" rule breaks that
// case, since a rewind revisits the defining bytes again.
type signatureInterner struct {
	version uint64

	funcs     []*FunctionSig
	structs   []*StructSig
	enums     []*EnumSig
	bitmasks  []*BitmaskSig

	glGetError *FunctionSig

	diag *diagnostics
}

func newSignatureInterner(version uint64, diag *diagnostics) *signatureInterner {
	return &signatureInterner{version: version, diag: diag}
}

func growSlots[T any](s []*T, n uint64) []*T {
	for uint64(len(s)) <= n {
		s = append(s, nil)
	}
	return s
}

func (in *signatureInterner) lookupFunction(w *wireReader) (*FunctionSig, error) {
	id, err := w.readUint()
	if err != nil {
		return nil, err
	}
	in.funcs = growSlots(in.funcs, id)
	sig := in.funcs[id]
	if sig == nil {
		name, err := w.readString()
		if err != nil {
			return nil, xerrors.Errorf("trace: function sig %d: name: %w", id, err)
		}
		numArgs, err := w.readUint()
		if err != nil {
			return nil, xerrors.Errorf("trace: function sig %d: num_args: %w", id, err)
		}
		argNames := make([]string, numArgs)
		for i := range argNames {
			s, err := w.readString()
			if err != nil {
				return nil, xerrors.Errorf("trace: function sig %d: arg_name %d: %w", id, i, err)
			}
			argNames[i] = string(s)
		}
		sig = &FunctionSig{
			ID:             id,
			Name:           string(name),
			ArgNames:       argNames,
			Flags:          lookupCallFlags(string(name)),
			firstDefOffset: w.offset(),
		}
		in.funcs[id] = sig
		if sig.Name == "glGetError" && numArgs == 0 {
			in.glGetError = sig
		}
		return sig, nil
	}
	if w.offset() < sig.firstDefOffset {
		if err := skipFunctionFields(w); err != nil {
			return nil, xerrors.Errorf("trace: function sig %d: re-definition: %w", id, err)
		}
	}
	return sig, nil
}

func skipFunctionFields(w *wireReader) error {
	if err := w.skipString(); err != nil {
		return err
	}
	numArgs, err := w.readUint()
	if err != nil {
		return err
	}
	for i := uint64(0); i < numArgs; i++ {
		if err := w.skipString(); err != nil {
			return err
		}
	}
	return nil
}

func (in *signatureInterner) lookupStruct(w *wireReader) (*StructSig, error) {
	id, err := w.readUint()
	if err != nil {
		return nil, err
	}
	in.structs = growSlots(in.structs, id)
	sig := in.structs[id]
	if sig == nil {
		name, err := w.readString()
		if err != nil {
			return nil, xerrors.Errorf("trace: struct sig %d: name: %w", id, err)
		}
		numMembers, err := w.readUint()
		if err != nil {
			return nil, xerrors.Errorf("trace: struct sig %d: num_members: %w", id, err)
		}
		memberNames := make([]string, numMembers)
		for i := range memberNames {
			s, err := w.readString()
			if err != nil {
				return nil, xerrors.Errorf("trace: struct sig %d: member_name %d: %w", id, i, err)
			}
			memberNames[i] = string(s)
		}
		sig = &StructSig{
			ID:             id,
			Name:           string(name),
			MemberNames:    memberNames,
			firstDefOffset: w.offset(),
		}
		in.structs[id] = sig
		return sig, nil
	}
	if w.offset() < sig.firstDefOffset {
		if err := w.skipString(); err != nil {
			return nil, err
		}
		numMembers, err := w.readUint()
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < numMembers; i++ {
			if err := w.skipString(); err != nil {
				return nil, err
			}
		}
	}
	return sig, nil
}

// lookupEnum interns the enum signature for the value about to follow and
// returns it. The trailing value field is read separately by
// readEnumValue, since its shape is version-dependent.
func (in *signatureInterner) lookupEnum(w *wireReader) (*EnumSig, error) {
	if in.version < enumLegacyVersion {
		return in.lookupLegacyEnum(w)
	}
	return in.lookupModernEnum(w)
}

func (in *signatureInterner) lookupModernEnum(w *wireReader) (*EnumSig, error) {
	id, err := w.readUint()
	if err != nil {
		return nil, err
	}
	in.enums = growSlots(in.enums, id)
	sig := in.enums[id]
	if sig == nil {
		numValues, err := w.readUint()
		if err != nil {
			return nil, xerrors.Errorf("trace: enum sig %d: num_values: %w", id, err)
		}
		values := make([]EnumEntry, numValues)
		for i := range values {
			name, err := w.readString()
			if err != nil {
				return nil, xerrors.Errorf("trace: enum sig %d: entry %d name: %w", id, i, err)
			}
			v, err := w.readSInt()
			if err != nil {
				return nil, xerrors.Errorf("trace: enum sig %d: entry %d value: %w", id, i, err)
			}
			values[i] = EnumEntry{Name: string(name), Value: v}
		}
		sig = &EnumSig{ID: id, Values: values, firstDefOffset: w.offset()}
		in.enums[id] = sig
		return sig, nil
	}
	if w.offset() < sig.firstDefOffset {
		numValues, err := w.readUint()
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < numValues; i++ {
			if err := w.skipString(); err != nil {
				return nil, err
			}
			if err := w.skipSInt(); err != nil {
				return nil, err
			}
		}
	}
	return sig, nil
}

func (in *signatureInterner) lookupLegacyEnum(w *wireReader) (*EnumSig, error) {
	id, err := w.readUint()
	if err != nil {
		return nil, err
	}
	in.enums = growSlots(in.enums, id)
	sig := in.enums[id]
	if sig == nil {
		name, err := w.readString()
		if err != nil {
			return nil, xerrors.Errorf("trace: legacy enum sig %d: name: %w", id, err)
		}
		v, err := w.readSInt()
		if err != nil {
			return nil, xerrors.Errorf("trace: legacy enum sig %d: value: %w", id, err)
		}
		sig = &EnumSig{
			ID:             id,
			Values:         []EnumEntry{{Name: string(name), Value: v}},
			firstDefOffset: w.offset(),
		}
		in.enums[id] = sig
		return sig, nil
	}
	if w.offset() < sig.firstDefOffset {
		if err := w.skipString(); err != nil {
			return nil, err
		}
		if err := w.skipSInt(); err != nil {
			return nil, err
		}
	}
	return sig, nil
}

// readEnumValue reads the portion of an enum Value that follows its
// signature reference. Wire versions before enumLegacyVersion have no
// trailing field at all: the value is whatever the signature's sole entry
// carries.
func (in *signatureInterner) readEnumValue(w *wireReader, sig *EnumSig) (int64, error) {
	if in.version < enumLegacyVersion {
		return sig.Values[0].Value, nil
	}
	return w.readSInt()
}

func (in *signatureInterner) scanEnumValue(w *wireReader) error {
	if in.version < enumLegacyVersion {
		return nil
	}
	return w.skipSInt()
}

func (in *signatureInterner) lookupBitmask(w *wireReader) (*BitmaskSig, error) {
	id, err := w.readUint()
	if err != nil {
		return nil, err
	}
	in.bitmasks = growSlots(in.bitmasks, id)
	sig := in.bitmasks[id]
	if sig == nil {
		numFlags, err := w.readUint()
		if err != nil {
			return nil, xerrors.Errorf("trace: bitmask sig %d: num_flags: %w", id, err)
		}
		flags := make([]BitmaskEntry, numFlags)
		for i := range flags {
			name, err := w.readString()
			if err != nil {
				return nil, xerrors.Errorf("trace: bitmask sig %d: flag %d name: %w", id, i, err)
			}
			v, err := w.readUint()
			if err != nil {
				return nil, xerrors.Errorf("trace: bitmask sig %d: flag %d value: %w", id, i, err)
			}
			flags[i] = BitmaskEntry{Name: string(name), Value: v}
		}
		sig = &BitmaskSig{ID: id, Flags: flags, firstDefOffset: w.offset()}
		in.bitmasks[id] = sig
		in.checkBitmaskZeroFirst(sig)
		return sig, nil
	}
	if w.offset() < sig.firstDefOffset {
		numFlags, err := w.readUint()
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < numFlags; i++ {
			if err := w.skipString(); err != nil {
				return nil, err
			}
			if err := w.skipUint(); err != nil {
				return nil, err
			}
		}
	}
	return sig, nil
}

// checkBitmaskZeroFirst implements invariant I6: a zero-valued flag must be
// the first entry in its signature's table. Violations are reported to the
// diagnostic sink and otherwise ignored; they don't change parse output.
func (in *signatureInterner) checkBitmaskZeroFirst(sig *BitmaskSig) {
	for i, f := range sig.Flags {
		if f.Value == 0 && i != 0 {
			in.diag.warn("bitmask zero-valued flag is not first entry",
				"bitmask_id", sig.ID, "flag_name", f.Name)
			return
		}
	}
}
