// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagsink

import (
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// GoKit adapts a go-kit/log.Logger to trace.DiagnosticSink.
type GoKit struct {
	L kitlog.Logger
}

func NewGoKit(l kitlog.Logger) GoKit { return GoKit{L: l} }

func (a GoKit) Warn(msg string, kv ...interface{}) {
	args := append([]interface{}{"msg", msg}, kv...)
	level.Warn(a.L).Log(args...)
}
