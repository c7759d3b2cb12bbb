// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagsink

import "github.com/sirupsen/logrus"

// Logrus adapts a logrus.FieldLogger to trace.DiagnosticSink.
type Logrus struct {
	L logrus.FieldLogger
}

func NewLogrus(l logrus.FieldLogger) Logrus { return Logrus{L: l} }

func (a Logrus) Warn(msg string, kv ...interface{}) {
	a.L.WithFields(kvToFields(kv)).Warn(msg)
}

func kvToFields(kv []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	return fields
}
