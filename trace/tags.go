// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

// Version is the wire format version this package was written against.
// A trace whose header reports a version higher than Version cannot be
// opened, since it may use event or type tags this package doesn't know
// about yet.
const Version = 4

// Event tags identify the kind of record that follows at the top level of
// the event stream.
const (
	evEnter byte = 0x00
	evLeave byte = 0x01
)

// Call detail tags identify the kind of record nested inside an ENTER or
// LEAVE payload.
const (
	callEnd byte = 0x00
	callArg byte = 0x01
	callRet byte = 0x02
)

// Value type tags identify the shape of the value that follows. The
// numbering isn't contiguous: TYPE_SINT, TYPE_UINT and TYPE_STRING carry
// fixed assignments inherited from the wire format and shared with the
// recorder, so the remaining tags fill in around them.
const (
	typeNull    byte = 0x00
	typeFalse   byte = 0x01
	typeTrue    byte = 0x02
	typeSInt    byte = 0x04
	typeUInt    byte = 0x05
	typeFloat   byte = 0x06
	typeDouble  byte = 0x07
	typeString  byte = 0x08
	typeEnum    byte = 0x09
	typeBitmask byte = 0x0A
	typeArray   byte = 0x0B
	typeStruct  byte = 0x0C
	typeBlob    byte = 0x0D
	typeOpaque  byte = 0x0E
)

// enumLegacyVersion is the first wire version whose enum signatures carry a
// full value table; versions below it carry exactly one (name, value) entry.
const enumLegacyVersion = 3

// threadIDVersion is the first wire version whose ENTER events carry an
// explicit thread_id field.
const threadIDVersion = 4
