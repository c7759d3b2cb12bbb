// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagsink

import "github.com/go-logr/logr"

// Logr adapts a logr.Logger to trace.DiagnosticSink.
type Logr struct {
	L logr.Logger
}

func NewLogr(l logr.Logger) Logr { return Logr{L: l} }

func (a Logr) Warn(msg string, kv ...interface{}) {
	a.L.Info(msg, kv...)
}
