// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bytesource provides the default file-backed implementation of
// the seekable byte stream trace.Open expects, memory-mapping the file
// for sequential access and transparently decompressing gzip-compressed
// traces on open.
package bytesource

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"

	"golang.org/x/xerrors"

	"github.com/tracecap/tracecap/mmap"
)

// gzipMagic is the two-byte header every gzip stream starts with.
var gzipMagic = [2]byte{0x1f, 0x8b}

// Open opens path for reading and returns a seekable byte source. A
// gzip-compressed file is detected by its magic header and decompressed
// in full into memory, since a compressed stream can't be seeked into
// without an auxiliary index; an uncompressed file is memory-mapped and
// read/sought directly against the mapping, avoiding the copy.
func Open(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var magic [2]byte
	n, _ := io.ReadFull(f, magic[:])
	f.Close()
	if n == 2 && magic == gzipMagic {
		return openGzip(path)
	}
	return openMapped(path)
}

func openGzip(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, xerrors.Errorf("bytesource: %s: %w", path, err)
	}
	defer gz.Close()
	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, xerrors.Errorf("bytesource: %s: decompressing: %w", path, err)
	}
	return &memSource{r: bytes.NewReader(data)}, nil
}

// memSource adapts a *bytes.Reader, which is already a ReadSeeker, to
// ReadSeekCloser with a no-op Close.
type memSource struct {
	r *bytes.Reader
}

func (m *memSource) Read(p []byte) (int, error)                { return m.r.Read(p) }
func (m *memSource) Seek(off int64, whence int) (int64, error) { return m.r.Seek(off, whence) }
func (m *memSource) Close() error                              { return nil }

func openMapped(path string) (io.ReadSeekCloser, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("bytesource: %s: %w", path, err)
	}
	return &mappedSource{r: r, size: r.Size()}, nil
}

// mappedSource turns an io.ReaderAt-only mmap.Reader into a sequential
// ReadSeekCloser by tracking its own cursor, the same pattern io.SectionReader
// uses for an arbitrary ReaderAt.
type mappedSource struct {
	r    *mmap.Reader
	size int64
	pos  int64
}

func (m *mappedSource) Read(p []byte) (int, error) {
	if m.pos >= m.size {
		return 0, io.EOF
	}
	n, err := m.r.ReadAt(p, m.pos)
	m.pos += int64(n)
	return n, err
}

func (m *mappedSource) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = m.size + offset
	default:
		return 0, xerrors.New("bytesource: invalid whence")
	}
	if abs < 0 {
		return 0, xerrors.New("bytesource: negative seek position")
	}
	m.pos = abs
	return abs, nil
}

func (m *mappedSource) Close() error { return m.r.Close() }
