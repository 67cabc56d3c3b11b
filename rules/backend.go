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

package rules

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/bytecode"
	"github.com/rulekit/rulekit/interp"
	"github.com/rulekit/rulekit/jit"
	"github.com/rulekit/rulekit/value"
)

// CompiledExpr holds one expression compiled against every backend the
// ruleset's configuration permits, and applies spec.md §4.8's selection
// policy at evaluation time: native if a handle exists and the caller
// presents a schema-layout record, else the bytecode VM, with the
// interpreter reserved for debug/trace-level-full mode.
type CompiledExpr struct {
	Source    string
	Optimized ast.Expr
	Bytecode  *bytecode.Compiled
	Native    *jit.CompiledNativeExpr
}

// Eval runs expr against ctx through a pooled bytecode VM, the path
// every evaluation takes unless the caller both compiled with JIT
// enabled and presents a raw schema-layout record via EvalNative.
func (e *CompiledExpr) Eval(ctx context.Context, pool *bytecode.Pool, vctx *value.Context) (value.Value, error) {
	return pool.Run(ctx, e.Bytecode, vctx)
}

// EvalNative runs expr through its native handle against rec, a pointer
// to a record laid out per the schema the handle was compiled against.
// Callers must only take this path when Native is non-nil and rec's
// layout actually matches recordFingerprint.
func (e *CompiledExpr) EvalNative(recordFingerprint uint64, rec unsafe.Pointer) (value.Value, error) {
	return e.Native.Call(recordFingerprint, rec)
}

// EvalInterp runs expr through the tree-walking interpreter, used only
// when the executor was asked for trace-level-full.
func (e *CompiledExpr) EvalInterp(it *interp.Interp, ctx *value.Context) (value.Value, error) {
	return it.Eval(e.Optimized, ctx)
}

// evalBackend chooses and runs the backend per spec.md §4.8's policy,
// given the record presentation the caller has available for this step.
func evalBackend(goCtx context.Context, e *CompiledExpr, rc *recordContext) (value.Value, error) {
	if e == nil {
		return value.Null, nil
	}
	if rc.traceFull {
		return e.EvalInterp(rc.interp, rc.ctx)
	}
	if e.Native != nil && rc.nativeRec != nil {
		return e.EvalNative(rc.schemaFingerprint, rc.nativeRec)
	}
	return e.Eval(goCtx, rc.pool, rc.ctx)
}

// recordContext bundles the per-evaluation state evalBackend and the
// executor's effect handling need: the interpreter context, the pooled
// VM to run bytecode against, the optional raw record pointer a caller
// may have presented for native calls, and the host collaborators
// effects dispatch to.
type recordContext struct {
	ctx               *value.Context
	pool              *bytecode.Pool
	interp            *interp.Interp
	traceFull         bool
	nativeRec         unsafe.Pointer
	schemaFingerprint uint64
	logger            *slog.Logger
	metrics           MetricSink
}
