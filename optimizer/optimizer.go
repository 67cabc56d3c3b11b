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

// Package optimizer rewrites an expression tree bottom-up into an
// equivalent, cheaper tree: constant folding, algebraic simplification,
// dead-branch elimination and coalesce collapse. The pass never mutates
// a node in place; every rewrite allocates a fresh node, so a caller
// holding the original tree still sees the unoptimized shape.
package optimizer

import (
	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/interp"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/tokens"
	"github.com/rulekit/rulekit/value"
)

// Stats counts how many times each rewrite class fired, so callers can
// assert on optimizer behavior without inspecting the rewritten tree.
type Stats struct {
	ConstantFolds      int
	Simplifications    int
	DeadBranches       int
	CoalesceCollapses  int
}

// Optimizer holds the function registry used to decide purity for
// constant-folding Call nodes; stock registry functions are all pure, but
// a host-registered entry may opt out (registry.Entry.Pure).
type Optimizer struct {
	reg   *registry.Registry
	stats Stats
}

func New(reg *registry.Registry) *Optimizer {
	return &Optimizer{reg: reg}
}

// Stats returns a snapshot of rewrite counters accumulated since New.
func (o *Optimizer) Stats() Stats { return o.stats }

// Optimize runs a single bottom-up rewrite pass over e. It is idempotent:
// running it again on its own output reports zero further rewrites.
func (o *Optimizer) Optimize(e ast.Expr) ast.Expr {
	return o.rewrite(e)
}

func (o *Optimizer) rewrite(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		return o.rewriteBinary(n)
	case *ast.UnaryExpr:
		return o.rewriteUnary(n)
	case *ast.ConditionalExpr:
		return o.rewriteConditional(n)
	case *ast.CoalesceExpr:
		return o.rewriteCoalesce(n)
	case *ast.CallExpr:
		return o.rewriteCall(n)
	case *ast.MembershipExpr:
		return &ast.MembershipExpr{Range: n.Range, Op: n.Op, Left: o.rewrite(n.Left), Right: o.rewrite(n.Right)}
	case *ast.ExistsExpr:
		return &ast.ExistsExpr{Range: n.Range, Path: n.Path}
	case *ast.FieldAccess:
		return &ast.FieldAccess{Range: n.Range, Target: o.rewrite(n.Target), Name: n.Name}
	case *ast.IndexAccess:
		return &ast.IndexAccess{Range: n.Range, Target: o.rewrite(n.Target), Index: o.rewrite(n.Index)}
	case *ast.ArrayLiteral:
		elems := make([]ast.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = o.rewrite(el)
		}
		return &ast.ArrayLiteral{Range: n.Range, Elements: elems}
	case *ast.ObjectLiteral:
		entries := make([]ast.ObjectEntry, len(n.Entries))
		for i, en := range n.Entries {
			entries[i] = ast.ObjectEntry{Key: en.Key, Value: o.rewrite(en.Value)}
		}
		return &ast.ObjectLiteral{Range: n.Range, Entries: entries}
	default:
		// literals and identifiers carry nothing to rewrite.
		return e
	}
}

func isLiteral(e ast.Expr) bool {
	switch e.(type) {
	case *ast.NullLiteral, *ast.BoolLiteral, *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral:
		return true
	default:
		return false
	}
}

// foldConst evaluates a subtree that is already known to contain only
// literals (and pure calls over literals) using the tree-walking
// evaluator itself: the optimizer never duplicates evaluation semantics,
// it only decides when it is safe to evaluate eagerly.
func (o *Optimizer) foldConst(e ast.Expr) (ast.Expr, bool) {
	ctx := value.NewContext(value.Null, value.Lenient)
	v, err := interp.New(o.reg).Eval(e, ctx)
	if err != nil {
		return nil, false
	}
	return literalFromValue(v, tokens.Range{From: e.Position(), To: e.Position()}), true
}

func literalFromValue(v value.Value, r tokens.Range) ast.Expr {
	switch v.Kind() {
	case value.KindNull, value.KindUndefined:
		return &ast.NullLiteral{Range: r}
	case value.KindBool:
		return &ast.BoolLiteral{Range: r, Value: v.Bool()}
	case value.KindInt:
		return &ast.IntLiteral{Range: r, Value: v.Int()}
	case value.KindFloat:
		return &ast.FloatLiteral{Range: r, Value: v.Float()}
	case value.KindString:
		return &ast.StringLiteral{Range: r, Value: v.Str()}
	default:
		// arrays/objects have no literal node: nil is returned, and
		// rewriteCall keeps the call unfolded when it sees nil.
		return nil
	}
}
