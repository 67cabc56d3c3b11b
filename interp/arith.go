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

package interp

import (
	"math"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

func (it *Interp) evalUnary(n *ast.UnaryExpr, ctx *value.Context, depth int) (value.Value, error) {
	v, err := it.eval(n.Operand, ctx, depth+1)
	if err != nil {
		return value.Null, err
	}
	return EvalUnaryOp(n.Op, v)
}

// EvalUnaryOp implements "!" and unary "-"; exported for the bytecode VM.
func EvalUnaryOp(op ast.UnaryOp, v value.Value) (value.Value, error) {
	switch op {
	case ast.OpNot:
		return value.Bool(!v.Truthy()), nil
	case ast.OpNeg:
		switch v.Kind() {
		case value.KindInt:
			return value.Int(-v.Int()), nil
		case value.KindFloat:
			return value.Float(-v.Float()), nil
		default:
			return value.Null, xerr.ErrEval(xerr.TypeMismatch, "unary - on %s", v.Kind())
		}
	default:
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "unknown unary operator %s", op)
	}
}

// evalBinary implements the arithmetic/comparison/logical rules,
// including short-circuit for && and ||: the right operand is not
// evaluated at all when the left already decides the result.
func (it *Interp) evalBinary(n *ast.BinaryExpr, ctx *value.Context, depth int) (value.Value, error) {
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		left, err := it.eval(n.Left, ctx, depth+1)
		if err != nil {
			return value.Null, err
		}
		if n.Op == ast.OpAnd && !left.Truthy() {
			return value.Bool(false), nil
		}
		if n.Op == ast.OpOr && left.Truthy() {
			return value.Bool(true), nil
		}
		right, err := it.eval(n.Right, ctx, depth+1)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(right.Truthy()), nil
	}

	left, err := it.eval(n.Left, ctx, depth+1)
	if err != nil {
		return value.Null, err
	}
	right, err := it.eval(n.Right, ctx, depth+1)
	if err != nil {
		return value.Null, err
	}

	return EvalBinaryOp(n.Op, left, right)
}

// EvalBinaryOp implements the non-short-circuiting binary operators
// (everything but && and ||, which require lazy evaluation of the right
// operand and so are handled in evalBinary/the bytecode compiler's jump
// lowering instead). Exported so the bytecode VM computes exactly the same
// scalar semantics as the tree-walker without duplicating them.
func EvalBinaryOp(op ast.BinaryOp, left, right value.Value) (value.Value, error) {
	switch op {
	case ast.OpEq:
		return value.Bool(value.Equal(left, right)), nil
	case ast.OpNeq:
		return value.Bool(!value.Equal(left, right)), nil
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return compareOp(op, left, right)
	case ast.OpAdd:
		return addOp(left, right)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return arithOp(op, left, right)
	default:
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "unknown binary operator %s", op)
	}
}

func compareOp(op ast.BinaryOp, l, r value.Value) (value.Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "comparison requires numeric operands, got %s and %s", l.Kind(), r.Kind())
	}
	lf, rf := l.Float(), r.Float()
	switch op {
	case ast.OpLt:
		return value.Bool(lf < rf), nil
	case ast.OpLte:
		return value.Bool(lf <= rf), nil
	case ast.OpGt:
		return value.Bool(lf > rf), nil
	default: // OpGte
		return value.Bool(lf >= rf), nil
	}
}

// addOp implements `+`: numeric addition promoting Int/Float, string
// concatenation, and String+Number stringifying the number operand.
func addOp(l, r value.Value) (value.Value, error) {
	if l.IsString() || r.IsString() {
		return value.String(stringify(l) + stringify(r)), nil
	}
	if !l.IsNumeric() || !r.IsNumeric() {
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "+ requires numeric or string operands, got %s and %s", l.Kind(), r.Kind())
	}
	if l.Kind() == value.KindInt && r.Kind() == value.KindInt {
		sum, ok := addInt64(l.Int(), r.Int())
		if !ok {
			return value.Null, xerr.ErrEval(xerr.Overflow, "integer overflow: %d + %d", l.Int(), r.Int())
		}
		return value.Int(sum), nil
	}
	return value.Float(l.Float() + r.Float()), nil
}

// addInt64/subInt64/mulInt64 are checked int64 arithmetic: each reports
// whether the mathematical result stays within int64's range, so Add/Sub/Mul
// can surface an Overflow EvalError instead of silently wrapping.
func addInt64(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func subInt64(a, b int64) (int64, bool) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, false
	}
	return diff, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	prod := a * b
	if prod/b != a {
		return 0, false
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return prod, true
}

func stringify(v value.Value) string {
	if v.IsString() {
		return v.Str()
	}
	return v.String()
}

func arithOp(op ast.BinaryOp, l, r value.Value) (value.Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "%s requires numeric operands, got %s and %s", op, l.Kind(), r.Kind())
	}
	bothInt := l.Kind() == value.KindInt && r.Kind() == value.KindInt
	switch op {
	case ast.OpSub:
		if bothInt {
			diff, ok := subInt64(l.Int(), r.Int())
			if !ok {
				return value.Null, xerr.ErrEval(xerr.Overflow, "integer overflow: %d - %d", l.Int(), r.Int())
			}
			return value.Int(diff), nil
		}
		return value.Float(l.Float() - r.Float()), nil
	case ast.OpMul:
		if bothInt {
			prod, ok := mulInt64(l.Int(), r.Int())
			if !ok {
				return value.Null, xerr.ErrEval(xerr.Overflow, "integer overflow: %d * %d", l.Int(), r.Int())
			}
			return value.Int(prod), nil
		}
		return value.Float(l.Float() * r.Float()), nil
	case ast.OpDiv:
		if bothInt {
			if r.Int() == 0 {
				return value.Null, xerr.ErrEval(xerr.DivByZero, "integer division by zero")
			}
			return value.Int(l.Int() / r.Int()), nil
		}
		return value.Float(l.Float() / r.Float()), nil // IEEE-754 +-Inf/NaN on zero divisor
	case ast.OpMod:
		if bothInt {
			if r.Int() == 0 {
				return value.Null, xerr.ErrEval(xerr.DivByZero, "integer modulo by zero")
			}
			return value.Int(l.Int() % r.Int()), nil
		}
		return value.Float(math.Mod(l.Float(), r.Float())), nil
	default:
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "unsupported arithmetic operator %s", op)
	}
}
