// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"context"
	"sort"

	"golang.org/x/xerrors"
)

// Index maps call numbers to bookmarks captured immediately before the
// event sequence that produces them, built with a single Scan-mode pass.
// This is the same random-access pattern apitrace's own UI relies on to
// let a user scrub a capture by call number without re-decoding
// everything before the target: the expensive Scan pass runs once, and
// thereafter Parser.SetBookmark plus a Full-mode Parse jumps directly to
// any indexed call.
type indexEntry struct {
	callNo   uint64
	bookmark Bookmark
}

type Index struct {
	entries []indexEntry
}

// BuildIndex runs p forward in Scan mode until end of stream, recording a
// bookmark before each Call's underlying events. p must be freshly opened
// or bookmarked back to its start; BuildIndex consumes it sequentially and
// leaves it positioned at end of stream when done.
//
// Calls are emitted in LEAVE order (spec.md §5), not ascending call-number
// order, so the recorded entries are sorted by call number once at the end
// rather than relying on emission order — sort.Search in Lookup requires
// an ascending slice.
func BuildIndex(ctx context.Context, p *Parser) (*Index, error) {
	var idx Index
	for {
		bm := p.GetBookmark()
		call, err := p.Parse(ctx, Scan)
		if err == ErrEndOfStream {
			sort.Slice(idx.entries, func(i, j int) bool { return idx.entries[i].callNo < idx.entries[j].callNo })
			return &idx, nil
		}
		if err != nil {
			return nil, xerrors.Errorf("trace: BuildIndex: %w", err)
		}
		idx.entries = append(idx.entries, indexEntry{callNo: call.No, bookmark: bm})
	}
}

// Len reports how many calls the index covers.
func (idx *Index) Len() int { return len(idx.entries) }

// Lookup returns the bookmark positioned so that the next Parse will
// (re-)produce the call numbered callNo, and true if that call was
// present when the index was built.
//
// The returned bookmark sits wherever the stream was immediately before
// the Parse call that produced callNo during indexing — not necessarily
// at that call's own ENTER, since Parse may consume other calls' ENTER
// events first. Restoring it and parsing forward reproduces callNo
// whenever callNo's own ENTER lies at or after that offset; for a call
// whose ENTER was already consumed earlier in the same indexing pass
// (a sibling call from another thread completed first), the bookmark
// only replays correctly from an earlier index entry, since
// SetBookmark drops in-flight state along with everything after it.
func (idx *Index) Lookup(callNo uint64) (Bookmark, bool) {
	i := sort.Search(len(idx.entries), func(i int) bool { return idx.entries[i].callNo >= callNo })
	if i >= len(idx.entries) || idx.entries[i].callNo != callNo {
		return Bookmark{}, false
	}
	return idx.entries[i].bookmark, true
}
