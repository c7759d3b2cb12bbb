// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

// Bookmark is an opaque snapshot of parser position that can be restored
// later to re-parse a previously visited region of the stream. Bookmarks
// must only be captured and restored at an event-tag boundary — i.e.
// immediately before or after a call to Parser.Parse, never from inside
// one.
type Bookmark struct {
	offset     int64
	nextCallNo uint64
}

// Offset reports the byte position a bookmark will seek to. It's exposed
// for diagnostics and index building; callers restoring a bookmark should
// use Parser.SetBookmark rather than seeking the byte source directly,
// since next_call_no also needs to be restored.
func (b Bookmark) Offset() int64 { return b.offset }
