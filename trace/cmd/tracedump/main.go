// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tracedump decodes a capture file and prints each reassembled
// Call to stdout, one line per call.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.opentelemetry.io/otel"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/tracecap/tracecap/diagsink"
	"github.com/tracecap/tracecap/trace"
	"github.com/tracecap/tracecap/trace/internal/bytesource"
)

var (
	scanOnly  = flag.Bool("scan", false, "walk the stream in Scan mode instead of materializing values")
	traceSpan = flag.Bool("otel", false, "export a span per Parse call to stdout via the OpenTelemetry stdout exporter")
	verbose   = flag.Bool("v", false, "include calls flagged CallFlagVerbose")
)

func init() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] capture-file\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("expected exactly one positional argument: the capture file to decode; see -h output")
	}

	if *traceSpan {
		shutdown, err := installStdoutTracing()
		if err != nil {
			log.Fatalf("installing OpenTelemetry stdout exporter: %v", err)
		}
		defer shutdown()
	}

	src, err := bytesource.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	p, err := trace.Open(src, trace.WithDiagnostics(diagsink.NewZap(logger)))
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	mode := trace.Full
	if *scanOnly {
		mode = trace.Scan
	}

	ctx := context.Background()
	for {
		call, err := p.Parse(ctx, mode)
		if err != nil {
			if err == trace.ErrEndOfStream {
				return
			}
			log.Fatal(err)
		}
		if call.Flags&trace.CallFlagVerbose != 0 && !*verbose {
			continue
		}
		printCall(call)
	}
}

func printCall(call *trace.Call) {
	fmt.Printf("%d/%d %s(", call.No, call.ThreadID, call.Sig.Name)
	for i, a := range call.Args {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(a.Kind())
	}
	fmt.Print(")")
	if call.Ret != nil {
		fmt.Printf(" = %v", call.Ret.Kind())
	}
	if call.Flags&trace.CallFlagIncomplete != 0 {
		fmt.Print(" [incomplete]")
	}
	fmt.Println()
}

// installStdoutTracing registers a global TracerProvider that writes every
// span to stdout, so -otel makes Parser.Parse's per-call spans visible
// without requiring an external collector.
func installStdoutTracing() (shutdown func(), err error) {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	return func() {
		_ = tp.Shutdown(context.Background())
	}, nil
}
