// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagsink

import "github.com/rs/zerolog"

// Zerolog adapts a zerolog.Logger to trace.DiagnosticSink.
type Zerolog struct {
	L zerolog.Logger
}

func NewZerolog(l zerolog.Logger) Zerolog { return Zerolog{L: l} }

func (z Zerolog) Warn(msg string, kv ...interface{}) {
	ev := z.L.Warn()
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}
