// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diagsink adapts popular structured logging libraries to the
// trace.DiagnosticSink interface, so a caller can plug in whichever one
// their program already uses instead of writing a bespoke adapter.
package diagsink

import "go.uber.org/zap"

// Zap adapts a *zap.Logger to trace.DiagnosticSink.
type Zap struct {
	L *zap.Logger
}

func NewZap(l *zap.Logger) Zap { return Zap{L: l} }

func (z Zap) Warn(msg string, kv ...interface{}) {
	z.L.Sugar().Warnw(msg, kv...)
}
