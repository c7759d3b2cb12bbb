// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

// CallFlags is a bitset of properties attached to a Call, partly inherited
// from its FunctionSig (computed once at signature definition) and partly
// set per-Call during post-completion adjustment.
type CallFlags uint32

const (
	// CallFlagRender marks a call believed to trigger rendering output,
	// e.g. a draw or present call. Derived from the function name.
	CallFlagRender CallFlags = 1 << iota

	// CallFlagSwapBuffers marks a call that presents a completed frame.
	CallFlagSwapBuffers

	// CallFlagIncomplete marks a Call that was surfaced at end-of-stream
	// with no matching LEAVE: its call_time is absent, and it carries only
	// the arguments and return value its ENTER payload recorded.
	CallFlagIncomplete

	// CallFlagVerbose marks a call that's uninteresting enough to be
	// filtered from default output — classically, a glGetError call that
	// returned no error.
	CallFlagVerbose
)

// lookupCallFlags derives a function's static flags from its name. This
// mirrors the recorder's assumption that certain calls are always
// meaningful by name alone, so the cost of classifying them is paid once
// at signature definition rather than on every Call.
func lookupCallFlags(name string) CallFlags {
	switch name {
	case "glSwapBuffers", "glXSwapBuffers", "wglSwapBuffers", "eglSwapBuffers",
		"CGLFlushDrawable", "IDXGISwapChain::Present", "IDXGISwapChain1::Present1":
		return CallFlagRender | CallFlagSwapBuffers
	case "glDrawArrays", "glDrawElements", "glDrawArraysInstanced",
		"glDrawElementsInstanced", "glMultiDrawArrays", "glMultiDrawElements",
		"glClear", "glClearBuffer", "vkCmdDraw", "vkCmdDrawIndexed":
		return CallFlagRender
	default:
		return 0
	}
}

// Call is a single reassembled function invocation: its signature, thread,
// arguments, optional return value and wall-clock annotation, plus the
// flags accumulated from both its signature and post-completion
// adjustment.
type Call struct {
	No       uint64
	ThreadID uint32
	Sig      *FunctionSig
	Args     []Value
	Ret      *Value
	CallTime *Value
	Flags    CallFlags
}

// Arg returns the value at the given argument index, or the zero Value if
// the index was never written (invariant I5: argument indices may be
// sparse).
func (c *Call) Arg(i int) Value {
	if i < 0 || i >= len(c.Args) {
		return Value{}
	}
	return c.Args[i]
}

// setArg grows Args on demand so sparse indices leave empty slots behind
// rather than requiring a map.
func (c *Call) setArg(index uint64, v Value) {
	for uint64(len(c.Args)) <= index {
		c.Args = append(c.Args, Value{})
	}
	c.Args[index] = v
}
