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

package jit

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/schema"
)

// compiler lowers an already-Analyze-approved ast.Expr into a nativeFn
// tree. Every error returned here indicates Analyze's compatibility check
// and this lowering have drifted out of sync with each other — Compile
// reports it as JitError::CodegenFailed rather than panicking, since a
// closure-compiling backend should degrade to an error, not a crash, when
// that happens.
type compiler struct {
	schema *schema.Schema
	// size is a rough proxy for stats().total_code_bytes: there is no real
	// machine code to measure, so each emitted closure contributes a fixed
	// per-node cost modeled on the bytes a comparable native instruction
	// would occupy.
	size int
}

const bytesPerNode = 6

func (c *compiler) compile(e ast.Expr) (nativeFn, int, error) {
	fn, err := c.node(e)
	if err != nil {
		return nil, 0, err
	}
	return fn, c.size, nil
}

func (c *compiler) node(e ast.Expr) (nativeFn, error) {
	c.size += bytesPerNode
	switch n := e.(type) {
	case *ast.BoolLiteral:
		v := n.Value
		return func(unsafe.Pointer) (nativeVal, error) { return boolVal(v), nil }, nil
	case *ast.IntLiteral:
		v := float64(n.Value)
		return func(unsafe.Pointer) (nativeVal, error) { return numVal(v), nil }, nil
	case *ast.FloatLiteral:
		v := n.Value
		return func(unsafe.Pointer) (nativeVal, error) { return numVal(v), nil }, nil

	case *ast.Identifier, *ast.FieldAccess, *ast.IndexAccess:
		return c.fieldLoad(n)

	case *ast.UnaryExpr:
		return c.unary(n)

	case *ast.BinaryExpr:
		return c.binary(n)

	case *ast.ConditionalExpr:
		return c.conditional(n)

	case *ast.CallExpr:
		return c.call(n)

	default:
		return nil, fmt.Errorf("jit: node %T reached codegen without Analyze approval", e)
	}
}

func (c *compiler) fieldLoad(e ast.Expr) (nativeFn, error) {
	path, ok := ast.FieldPath(e)
	if !ok || len(path) != 1 || !path[0].IsKey {
		return nil, fmt.Errorf("jit: field path %s is not a single static segment", e.String())
	}
	f, ok := c.schema.Lookup(path[0].Key)
	if !ok {
		return nil, fmt.Errorf("jit: unknown schema field %q", path[0].Key)
	}
	offset := uintptr(f.Offset)
	switch f.Type {
	case schema.TypeBool:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			return boolVal(*(*bool)(unsafe.Add(rec, offset))), nil
		}, nil
	case schema.TypeInt32:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			return numVal(float64(*(*int32)(unsafe.Add(rec, offset)))), nil
		}, nil
	case schema.TypeInt64:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			return numVal(float64(*(*int64)(unsafe.Add(rec, offset)))), nil
		}, nil
	case schema.TypeUint32:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			return numVal(float64(*(*uint32)(unsafe.Add(rec, offset)))), nil
		}, nil
	case schema.TypeUint64:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			return numVal(float64(*(*uint64)(unsafe.Add(rec, offset)))), nil
		}, nil
	case schema.TypeFloat32:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			return numVal(float64(*(*float32)(unsafe.Add(rec, offset)))), nil
		}, nil
	case schema.TypeFloat64:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			return numVal(*(*float64)(unsafe.Add(rec, offset))), nil
		}, nil
	case schema.TypeEnum:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			return numVal(float64(*(*int32)(unsafe.Add(rec, offset)))), nil
		}, nil
	default:
		return nil, fmt.Errorf("jit: field %q has non-numeric type %s", path[0].Key, f.Type)
	}
}

func (c *compiler) unary(n *ast.UnaryExpr) (nativeFn, error) {
	operand, err := c.node(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpNot:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			v, err := operand(rec)
			if err != nil {
				return nativeVal{}, err
			}
			return boolVal(!v.truthy()), nil
		}, nil
	case ast.OpNeg:
		return func(rec unsafe.Pointer) (nativeVal, error) {
			v, err := operand(rec)
			if err != nil {
				return nativeVal{}, err
			}
			return numVal(-v.f), nil
		}, nil
	default:
		return nil, fmt.Errorf("jit: unsupported unary operator %s", n.Op)
	}
}

func (c *compiler) binary(n *ast.BinaryExpr) (nativeFn, error) {
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		return c.shortCircuit(n)
	}
	left, err := c.node(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.node(n.Right)
	if err != nil {
		return nil, err
	}
	op := n.Op
	return func(rec unsafe.Pointer) (nativeVal, error) {
		lv, err := left(rec)
		if err != nil {
			return nativeVal{}, err
		}
		rv, err := right(rec)
		if err != nil {
			return nativeVal{}, err
		}
		switch op {
		case ast.OpAdd:
			return numVal(lv.f + rv.f), nil
		case ast.OpSub:
			return numVal(lv.f - rv.f), nil
		case ast.OpMul:
			return numVal(lv.f * rv.f), nil
		case ast.OpDiv:
			return numVal(lv.f / rv.f), nil
		case ast.OpMod:
			return numVal(math.Mod(lv.f, rv.f)), nil
		case ast.OpEq:
			return boolVal(lv.f == rv.f && lv.b == rv.b), nil
		case ast.OpNeq:
			return boolVal(lv.f != rv.f || lv.b != rv.b), nil
		case ast.OpLt:
			return boolVal(lv.f < rv.f), nil
		case ast.OpLte:
			return boolVal(lv.f <= rv.f), nil
		case ast.OpGt:
			return boolVal(lv.f > rv.f), nil
		case ast.OpGte:
			return boolVal(lv.f >= rv.f), nil
		default:
			return nativeVal{}, fmt.Errorf("jit: unsupported binary operator %s", op)
		}
	}, nil
}

// shortCircuit lowers && and || without ever evaluating the right operand
// when the left already decides the result, the same contract the
// interpreter and bytecode VM honor.
func (c *compiler) shortCircuit(n *ast.BinaryExpr) (nativeFn, error) {
	left, err := c.node(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.node(n.Right)
	if err != nil {
		return nil, err
	}
	isAnd := n.Op == ast.OpAnd
	return func(rec unsafe.Pointer) (nativeVal, error) {
		lv, err := left(rec)
		if err != nil {
			return nativeVal{}, err
		}
		if isAnd && !lv.truthy() {
			return boolVal(false), nil
		}
		if !isAnd && lv.truthy() {
			return boolVal(true), nil
		}
		rv, err := right(rec)
		if err != nil {
			return nativeVal{}, err
		}
		return boolVal(rv.truthy()), nil
	}, nil
}

func (c *compiler) conditional(n *ast.ConditionalExpr) (nativeFn, error) {
	cond, err := c.node(n.Cond)
	if err != nil {
		return nil, err
	}
	then, err := c.node(n.Then)
	if err != nil {
		return nil, err
	}
	els, err := c.node(n.Else)
	if err != nil {
		return nil, err
	}
	return func(rec unsafe.Pointer) (nativeVal, error) {
		cv, err := cond(rec)
		if err != nil {
			return nativeVal{}, err
		}
		if cv.truthy() {
			return then(rec)
		}
		return els(rec)
	}, nil
}

func (c *compiler) call(n *ast.CallExpr) (nativeFn, error) {
	args := make([]nativeFn, len(n.Args))
	for i, a := range n.Args {
		fn, err := c.node(a)
		if err != nil {
			return nil, err
		}
		args[i] = fn
	}
	switch n.Callee {
	case "abs":
		return func(rec unsafe.Pointer) (nativeVal, error) {
			v, err := args[0](rec)
			if err != nil {
				return nativeVal{}, err
			}
			if v.f < 0 {
				return numVal(-v.f), nil
			}
			return numVal(v.f), nil
		}, nil
	case "min":
		return nAryNumeric(args, func(acc, v float64) float64 {
			if v < acc {
				return v
			}
			return acc
		}), nil
	case "max":
		return nAryNumeric(args, func(acc, v float64) float64 {
			if v > acc {
				return v
			}
			return acc
		}), nil
	case "is_null":
		// A schema field is always present in a fixed-layout record, so
		// is_null is always false in the native backend; kept only so an
		// expression using it elsewhere doesn't lose JIT eligibility.
		return func(unsafe.Pointer) (nativeVal, error) { return boolVal(false), nil }, nil
	default:
		return nil, fmt.Errorf("jit: %q is not in the native call whitelist", n.Callee)
	}
}

func nAryNumeric(args []nativeFn, combine func(acc, v float64) float64) nativeFn {
	return func(rec unsafe.Pointer) (nativeVal, error) {
		first, err := args[0](rec)
		if err != nil {
			return nativeVal{}, err
		}
		acc := first.f
		for _, a := range args[1:] {
			v, err := a(rec)
			if err != nil {
				return nativeVal{}, err
			}
			acc = combine(acc, v.f)
		}
		return numVal(acc), nil
	}
}
