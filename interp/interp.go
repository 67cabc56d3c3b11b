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

// Package interp is the tree-walking evaluator: the authoritative
// semantic oracle every other backend (bytecode VM, closure-compiling
// JIT) is checked against in differential testing. One big type switch
// over the expression shape, recursing into operands before combining
// them.
package interp

import (
	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

type Interp struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Interp {
	return &Interp{reg: reg}
}

// Eval evaluates e against ctx, returning a Value or an EvalError.
func (it *Interp) Eval(e ast.Expr, ctx *value.Context) (value.Value, error) {
	return it.eval(e, ctx, 0)
}

func (it *Interp) eval(e ast.Expr, ctx *value.Context, depth int) (value.Value, error) {
	if depth > ctx.MaxDepth {
		return value.Null, xerr.ErrEval(xerr.DepthExceeded, "expression depth exceeded %d", ctx.MaxDepth)
	}

	switch n := e.(type) {
	case *ast.NullLiteral:
		return value.Null, nil
	case *ast.BoolLiteral:
		return value.Bool(n.Value), nil
	case *ast.IntLiteral:
		return value.Int(n.Value), nil
	case *ast.FloatLiteral:
		return value.Float(n.Value), nil
	case *ast.StringLiteral:
		return value.String(n.Value), nil

	case *ast.ArrayLiteral:
		items := make([]value.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := it.eval(el, ctx, depth+1)
			if err != nil {
				return value.Null, err
			}
			items[i] = v
		}
		return value.Array(items), nil

	case *ast.ObjectLiteral:
		obj := value.NewObject()
		for _, entry := range n.Entries {
			v, err := it.eval(entry.Value, ctx, depth+1)
			if err != nil {
				return value.Null, err
			}
			obj.Set(entry.Key, v)
		}
		return value.Obj(obj), nil

	case *ast.Identifier:
		if name, ok := value.IsVarPath(n.Name); ok {
			return ctx.GetVar(name), nil
		}
		return it.resolvePath(n, ctx)

	case *ast.FieldAccess, *ast.IndexAccess:
		return it.resolvePath(n, ctx)

	case *ast.UnaryExpr:
		return it.evalUnary(n, ctx, depth)

	case *ast.BinaryExpr:
		return it.evalBinary(n, ctx, depth)

	case *ast.MembershipExpr:
		return it.evalMembership(n, ctx, depth)

	case *ast.ConditionalExpr:
		cond, err := it.eval(n.Cond, ctx, depth+1)
		if err != nil {
			return value.Null, err
		}
		if cond.Truthy() {
			return it.eval(n.Then, ctx, depth+1)
		}
		return it.eval(n.Else, ctx, depth+1)

	case *ast.ExistsExpr:
		path, ok := ast.FieldPath(n.Path)
		if !ok {
			return value.Null, xerr.ErrEval(xerr.TypeMismatch, "exists() argument is not a field path")
		}
		return value.Bool(ctx.Exists(path)), nil

	case *ast.CoalesceExpr:
		var last error
		for i, arg := range n.Args {
			v, err := it.eval(arg, ctx, depth+1)
			if err != nil {
				last = err
				if i == len(n.Args)-1 {
					return value.Null, last
				}
				continue
			}
			if !v.IsNull() && !v.IsUndefined() {
				return v, nil
			}
			if i == len(n.Args)-1 {
				return v, nil
			}
		}
		return value.Null, last

	case *ast.CallExpr:
		args := make([]value.Value, len(n.Args))
		for i, a := range n.Args {
			v, err := it.eval(a, ctx, depth+1)
			if err != nil {
				return value.Null, err
			}
			args[i] = v
		}
		return it.reg.Call(n.Callee, args)

	default:
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "unsupported node %T", e)
	}
}

// resolvePath flattens a path-shaped expression and resolves it against
// ctx.Input, applying the active MissingFieldPolicy.
func (it *Interp) resolvePath(e ast.Expr, ctx *value.Context) (value.Value, error) {
	path, ok := ast.FieldPath(e)
	if !ok {
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "not a field path: %s", e.String())
	}
	v, _, err := ctx.Resolve(path)
	if err != nil {
		return value.Null, xerr.ErrEval(xerr.MissingFieldValue, "%v", err)
	}
	return v, nil
}
