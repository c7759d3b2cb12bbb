// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"bufio"
	"io"

	"golang.org/x/xerrors"
)

// wireReader decodes the base-128 varint primitives that every other value
// on the wire is built from. It wraps a bufio.Reader so single-byte reads
// during varint decoding don't each cost a syscall.
//
// wireReader tracks the number of bytes consumed since it was created so
// callers can compare stream offsets against a signature's recorded
// first-definition offset without threading a separate counter through
// every call site.
type wireReader struct {
	r   *bufio.Reader
	off int64
}

func newWireReader(r io.Reader) *wireReader {
	return &wireReader{r: bufio.NewReaderSize(r, 32*1024)}
}

// offset reports the number of bytes read from the underlying stream so far.
func (w *wireReader) offset() int64 { return w.off }

func (w *wireReader) readByte() (byte, error) {
	b, err := w.r.ReadByte()
	if err != nil {
		return 0, err
	}
	w.off++
	return b, nil
}

func (w *wireReader) readFull(buf []byte) error {
	n, err := io.ReadFull(w.r, buf)
	w.off += int64(n)
	return err
}

// readUint reads a base-128 little-endian varint with no zig-zag encoding,
// as used for signature IDs, call numbers, thread IDs, array element
// counts, and string/blob lengths. Tags are single bytes read by readByte.
func (w *wireReader) readUint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		if shift >= 64 {
			return 0, xerrors.New("trace: varint overflows 64 bits")
		}
		b, err := w.readByte()
		if err != nil {
			if err == io.EOF && shift > 0 {
				return 0, xerrors.Errorf("trace: truncated varint: %w", io.ErrUnexpectedEOF)
			}
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// readSInt reads a self-tagged signed field: a one-byte type tag (typeSInt
// or typeUInt) followed by a plain varint magnitude, negated when the tag
// was typeSInt. This is distinct from the SInt variant inside a Value tree
// (see parseValue), which has already had its tag consumed by the caller;
// readSInt is for standalone signed fields that carry their own tag, such
// as an enum signature's per-entry value.
func (w *wireReader) readSInt() (int64, error) {
	tag, err := w.readByte()
	if err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, err
	}
	u, err := w.readUint()
	if err != nil {
		return 0, err
	}
	switch tag {
	case typeSInt:
		return -int64(u), nil
	case typeUInt:
		return int64(u), nil
	default:
		return 0, xerrors.Errorf("trace: read_sint: unexpected type tag 0x%02x", tag)
	}
}

// skipUint discards a varint without materializing its value. It's used by
// scan mode, which walks the exact same grammar as full parsing but drops
// the payload.
func (w *wireReader) skipUint() error {
	_, err := w.readUint()
	return err
}

func (w *wireReader) skipSInt() error {
	_, err := w.readSInt()
	return err
}

// readString reads a length-prefixed byte string: a varint length followed
// by that many raw bytes. Blobs use the same framing as strings, so both
// call this.
func (w *wireReader) readString() ([]byte, error) {
	n, err := w.readUint()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := w.readFull(buf); err != nil {
		return nil, xerrors.Errorf("trace: truncated string/blob of length %d: %w", n, err)
	}
	return buf, nil
}

func (w *wireReader) skipString() error {
	n, err := w.readUint()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, w.r, int64(n)); err != nil {
		return xerrors.Errorf("trace: truncated string/blob of length %d: %w", n, err)
	}
	w.off += int64(n)
	return nil
}

func (w *wireReader) readFloat32() (float32, error) {
	var buf [4]byte
	if err := w.readFull(buf[:]); err != nil {
		return 0, err
	}
	return leFloat32(buf[:]), nil
}

func (w *wireReader) readFloat64() (float64, error) {
	var buf [8]byte
	if err := w.readFull(buf[:]); err != nil {
		return 0, err
	}
	return leFloat64(buf[:]), nil
}

func (w *wireReader) skipFloat32() error {
	var buf [4]byte
	return w.readFull(buf[:])
}

func (w *wireReader) skipFloat64() error {
	var buf [8]byte
	return w.readFull(buf[:])
}
