// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"

	syncutil "github.com/tracecap/tracecap/sync"
)

// defaultTracer is resolved at most once per process: otel.Tracer looks up
// (and may register) an instrumentation scope against the global provider,
// which every Parser opened without WithTracer would otherwise repeat.
var defaultTracer = syncutil.Once(func() (oteltrace.Tracer, error) {
	return otel.Tracer("github.com/tracecap/tracecap/trace"), nil
})

// Option configures a Parser at Open time.
type Option func(*Parser)

// WithDiagnostics routes non-fatal semantic warnings (see DiagnosticSink)
// to sink instead of discarding them.
func WithDiagnostics(sink DiagnosticSink) Option {
	return func(p *Parser) { p.diagSink = sink }
}

// WithTracer attaches an OpenTelemetry tracer; every Parse call, including
// those that only drain incomplete Calls at end of stream, is wrapped in a
// span. Without this option, Open uses
// the global otel tracer provider's default tracer, which is a no-op
// unless the caller has configured a provider.
func WithTracer(tracer oteltrace.Tracer) Option {
	return func(p *Parser) { p.tracer = tracer }
}

// Parser is the top-level decoder described by the package: it owns a
// wire reader over a caller-supplied byte source, the signature interner,
// and the call assembler, and exposes Parse as the single operation that
// advances all three in lockstep.
type Parser struct {
	src     io.ReadSeekCloser
	w       *wireReader
	asm     *CallAssembler
	version uint64

	diagSink DiagnosticSink
	tracer   oteltrace.Tracer
}

// Open reads the trace header from src and returns a ready Parser. src
// must support Seek, since SetBookmark relies on random access
// (signature redefinitions are skipped by reading forward); a ByteSource that can only stream
// forward should wrap itself to buffer or reject Seek calls that go
// backward, per the external ByteSource contract.
func Open(src io.ReadSeekCloser, opts ...Option) (*Parser, error) {
	w := newWireReader(src)
	version, err := w.readUint()
	if err != nil {
		src.Close()
		return nil, xerrors.Errorf("trace: reading header: %w", err)
	}
	if version > Version {
		src.Close()
		return nil, xerrors.Errorf("%w: got %d, support up to %d", ErrVersionTooNew, version, Version)
	}

	tracer, _ := defaultTracer()
	p := &Parser{src: src, w: w, version: version, tracer: tracer}
	for _, opt := range opts {
		opt(p)
	}
	diag := newDiagnostics(p.diagSink)
	p.asm = newCallAssembler(w, version, diag)
	return p, nil
}

// Close releases the underlying byte source. It does not otherwise reset
// parser state; a closed Parser must not be used again.
func (p *Parser) Close() error {
	return p.src.Close()
}

// Version reports the wire version captured at Open.
func (p *Parser) Version() uint64 { return p.version }

// Parse implements the §4.7 state machine: it reads event tags, routing
// ENTER events to the assembler and returning the first Call a LEAVE
// completes. At end of stream it drains in-flight Calls as incomplete,
// one per call, before finally returning ErrEndOfStream.
func (p *Parser) Parse(ctx context.Context, mode Mode) (*Call, error) {
	_, span := p.tracer.Start(ctx, "trace.Parse")
	defer span.End()

	for {
		tag, err := p.w.readByte()
		if err != nil {
			if isTruncation(err) {
				if call, ok := p.asm.drainIncomplete(); ok {
					return call, nil
				}
				return nil, ErrEndOfStream
			}
			return nil, err
		}
		switch tag {
		case evEnter:
			if _, err := p.asm.handleEnter(mode); err != nil {
				return nil, &CorruptionError{Offset: p.w.offset(), err: err}
			}
		case evLeave:
			call, err := p.asm.handleLeave(mode)
			if err != nil {
				return nil, &CorruptionError{Offset: p.w.offset(), err: err}
			}
			if call != nil {
				return call, nil
			}
		default:
			return nil, &CorruptionError{Offset: p.w.offset(), err: xerrors.Errorf("unknown event tag 0x%02x", tag)}
		}
	}
}

// GetBookmark captures the current stream offset and next call number.
// Bookmarks are only valid to capture between calls to Parse, at an
// event-tag boundary.
func (p *Parser) GetBookmark() Bookmark {
	return Bookmark{offset: p.w.offset(), nextCallNo: p.asm.nextCallNo}
}

// SetBookmark seeks the byte source to b's offset, restores next_call_no,
// and drops every in-flight Call: they belong to a future the rewind has
// just undone.
func (p *Parser) SetBookmark(b Bookmark) error {
	if _, err := p.src.Seek(b.offset, io.SeekStart); err != nil {
		return xerrors.Errorf("trace: SetBookmark: seek: %w", err)
	}
	p.w = newWireReader(p.src)
	p.w.off = b.offset
	p.asm.w = p.w
	p.asm.reset(b.nextCallNo)
	return nil
}
