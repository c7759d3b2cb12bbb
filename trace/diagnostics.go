// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"fmt"

	"github.com/tracecap/tracecap/hashset"
)

// DiagnosticSink receives non-fatal semantic warnings produced while
// parsing, such as invariant I6 violations. A nil sink disables reporting;
// parse output is never affected either way.
type DiagnosticSink interface {
	Warn(msg string, kv ...interface{})
}

// diagnostics wraps a DiagnosticSink with warn-once dedup: a warning whose
// message and fields are identical to one already reported through the
// same diagnostics value is dropped.
type diagnostics struct {
	sink DiagnosticSink
	seen hashset.HashSet[string]
}

func newDiagnostics(sink DiagnosticSink) *diagnostics {
	return &diagnostics{sink: sink, seen: hashset.New[string]()}
}

func (d *diagnostics) warn(msg string, kv ...interface{}) {
	if d == nil || d.sink == nil {
		return
	}
	key := fmt.Sprint(append([]interface{}{msg}, kv...)...)
	if d.seen.Contains(key) {
		return
	}
	d.seen.Add(key)
	d.sink.Warn(msg, kv...)
}
