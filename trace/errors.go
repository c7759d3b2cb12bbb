// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import "golang.org/x/xerrors"

// ErrVersionTooNew is returned by Open when the trace's header declares a
// wire version newer than this package understands.
var ErrVersionTooNew = xerrors.New("trace: wire version too new")

// ErrEndOfStream is returned by Parser.Parse once every event and every
// in-flight Call has been drained.
var ErrEndOfStream = xerrors.New("trace: end of stream")

// CorruptionError wraps a structural decoding failure: an unknown event,
// detail, or value type tag encountered at a position where a valid one
// was expected. Per the error handling design, this always terminates
// parsing; there's no way to resynchronize with a self-delimited varint
// stream once a tag is misread.
type CorruptionError struct {
	Offset int64
	err    error
}

func (e *CorruptionError) Error() string {
	return xerrors.Errorf("trace: corrupt stream at offset %d: %w", e.Offset, e.err).Error()
}

func (e *CorruptionError) Unwrap() error { return e.err }
