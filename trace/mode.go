// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

// Mode selects how deeply Parser.Parse materializes the values it reads.
type Mode int

const (
	// Full materializes every value into a Value tree. Use this when the
	// caller needs argument and return data.
	Full Mode = iota

	// Scan walks the same grammar as Full but discards value payloads as
	// it goes, only advancing the stream offset and interning signatures.
	// It's substantially cheaper and is what Parser uses internally to
	// build an offset index (see Index).
	Scan
)
