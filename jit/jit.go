// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package jit is the third execution backend: a native-code compiler for
// the numeric/bool-only subset of expressions schema.Analyze marks
// JIT-compatible. Rather than emitting machine code through an assembler
// or cgo dependency, it lowers the AST into a tree of Go closures, each
// closed over the byte offsets schema.Schema computed for its operands;
// the closure itself performs the same direct typed-load-at-offset access
// pattern real codegen would, just expressed as a Go call chain instead of
// an instruction stream. This keeps the backend buildable on every
// platform Go itself targets, trading the last few nanoseconds a real
// JIT would shave off for zero platform-specific build machinery.
//
// Because there is no code-emission backend in this build, UnsupportedTarget
// is reserved for the one precondition this backend genuinely cannot work
// around: compiling against a nil Schema. A future machine-code backend
// would also return it on architectures it doesn't support.
package jit

import (
	"sync/atomic"
	"unsafe"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/schema"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

// DebugVerifyFingerprint controls whether Call checks the caller-supplied
// record fingerprint against the one a CompiledNativeExpr was compiled
// for. Hosts set this false in release builds to skip the check for
// speed, matching spec's debug/release split; it defaults on since an
// accidental schema/record mismatch is undefined behavior, not a
// recoverable error, and catching it early is worth the comparison.
var DebugVerifyFingerprint = true

// CompiledNativeExpr is an opaque handle to a closure-compiled expression.
// It stays valid only as long as the Arena that produced it is open;
// calling through a handle after its arena is closed returns an error
// instead of running, since nothing below guarantees the closure doesn't
// capture state the arena owns.
type CompiledNativeExpr struct {
	arena          *Arena
	fn             nativeFn
	fingerprint    uint64
	accessedFields []string
	callingConv    string
	codeBytes      int
}

// nativeFn reads whatever fields it needs directly off rec at the byte
// offsets captured at compile time and returns a native (unboxed) scalar.
type nativeFn func(rec unsafe.Pointer) (nativeVal, error)

// AccessedFields returns the schema field names this handle reads,
// deduplicated, in the order Analyze discovered them.
func (h *CompiledNativeExpr) AccessedFields() []string { return append([]string(nil), h.accessedFields...) }

// CallingConvention names the ABI this handle expects of its record
// pointer; currently always "schema-record-v1", the layout schema.Schema
// describes.
func (h *CompiledNativeExpr) CallingConvention() string { return h.callingConv }

// Call invokes the compiled expression against rec, a pointer to a record
// laid out exactly per the schema fingerprint carries. recordFingerprint
// must be the fingerprint of the schema the caller laid rec out against;
// when DebugVerifyFingerprint is set, a mismatch is reported as a JitError
// instead of silently reading misaligned memory.
func (h *CompiledNativeExpr) Call(recordFingerprint uint64, rec unsafe.Pointer) (value.Value, error) {
	if h.arena.closed.Load() {
		return value.Null, xerr.ErrJit(xerr.CodegenFailed, "call through a handle whose arena has been closed")
	}
	if DebugVerifyFingerprint && recordFingerprint != h.fingerprint {
		return value.Null, xerr.ErrJit(xerr.IncompatibleExpression, "record fingerprint %x does not match compiled schema fingerprint %x", recordFingerprint, h.fingerprint)
	}
	nv, err := h.fn(rec)
	if err != nil {
		return value.Null, err
	}
	return nv.box(), nil
}

// Compile lowers e into a CompiledNativeExpr backed by arena, rejecting it
// up front if schema.Analyze finds it outside the native subset. s must be
// non-nil: compiling without a schema has no record layout to read
// against, so it is reported as UnsupportedTarget rather than attempting a
// codegen that could never run.
func Compile(arena *Arena, e ast.Expr, s *schema.Schema) (*CompiledNativeExpr, error) {
	if s == nil {
		arena.recordFailure()
		return nil, xerr.ErrJit(xerr.UnsupportedTarget, "native compilation requires a schema describing the record layout")
	}
	analysis := schema.Analyze(e, s)
	if !analysis.JITCompatible {
		arena.recordFailure()
		return nil, xerr.ErrJit(xerr.IncompatibleExpression, "%s", analysis.Reason)
	}

	c := &compiler{schema: s}
	fn, size, err := c.compile(e)
	if err != nil {
		arena.recordFailure()
		return nil, xerr.ErrJit(xerr.CodegenFailed, "%v", err)
	}

	h := &CompiledNativeExpr{
		arena:          arena,
		fn:             fn,
		fingerprint:    s.Fingerprint(),
		accessedFields: analysis.AccessedFields,
		callingConv:    "schema-record-v1",
		codeBytes:      size,
	}
	arena.recordSuccess(h)
	return h, nil
}

// Arena owns every handle compiled through it and the running stats()
// counters spec.md §4.7 requires. Closing an arena invalidates every
// handle it produced; it does not free Go memory (the closures are
// ordinary garbage-collected values), but flips the dead flag every
// handle's Call checks so a caller cannot keep using a handle whose
// owning ruleset has been torn down.
type Arena struct {
	closed  atomic.Bool
	success atomic.Int64
	failure atomic.Int64
	bytes   atomic.Int64
}

func NewArena() *Arena { return &Arena{} }

func (a *Arena) recordSuccess(h *CompiledNativeExpr) {
	a.success.Add(1)
	a.bytes.Add(int64(h.codeBytes))
}

func (a *Arena) recordFailure() { a.failure.Add(1) }

// Close invalidates every handle this arena produced. Safe to call more
// than once.
func (a *Arena) Close() { a.closed.Store(true) }

// Stats is the stats() tuple spec.md §4.7 requires the JIT to expose.
type Stats struct {
	SuccessfulCompiles int64
	FailedCompiles     int64
	TotalCodeBytes     int64
}

func (a *Arena) Stats() Stats {
	return Stats{
		SuccessfulCompiles: a.success.Load(),
		FailedCompiles:     a.failure.Load(),
		TotalCodeBytes:     a.bytes.Load(),
	}
}
