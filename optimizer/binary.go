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

package optimizer

import "github.com/rulekit/rulekit/ast"

func (o *Optimizer) rewriteBinary(n *ast.BinaryExpr) ast.Expr {
	left := o.rewrite(n.Left)
	right := o.rewrite(n.Right)
	folded := &ast.BinaryExpr{Range: n.Range, Op: n.Op, Left: left, Right: right}

	if isLiteral(left) && isLiteral(right) {
		if v, ok := o.foldConst(folded); ok {
			o.stats.ConstantFolds++
			return v
		}
	}

	if simplified, ok := simplifyBinary(n.Op, left, right); ok {
		o.stats.Simplifications++
		return simplified
	}

	return folded
}

// simplifyBinary applies algebraic identities (x*1, x*0, x+0, x&&true, ...).
// x*0 is only folded when x contains no function call (see hasCall): the
// stock language has no side-effecting expressions at all, but the check
// is kept explicit for when a host-registered impure function is called
// inside x.
func simplifyBinary(op ast.BinaryOp, left, right ast.Expr) (ast.Expr, bool) {
	switch op {
	case ast.OpMul:
		if isIntOrFloatLiteral(right, 1) {
			return left, true
		}
		if isIntOrFloatLiteral(left, 1) {
			return right, true
		}
		if isIntOrFloatLiteral(right, 0) && !hasCall(left) {
			return right, true
		}
		if isIntOrFloatLiteral(left, 0) && !hasCall(right) {
			return left, true
		}
	case ast.OpAdd:
		if isIntOrFloatLiteral(right, 0) {
			return left, true
		}
		if isIntOrFloatLiteral(left, 0) {
			return right, true
		}
	case ast.OpAnd:
		if b, ok := boolLiteral(right); ok {
			if b {
				return left, true
			}
			return &ast.BoolLiteral{Range: right.(*ast.BoolLiteral).Range, Value: false}, true
		}
	case ast.OpOr:
		if b, ok := boolLiteral(right); ok {
			if b {
				return &ast.BoolLiteral{Range: right.(*ast.BoolLiteral).Range, Value: true}, true
			}
			return left, true
		}
	}
	return nil, false
}

func isIntOrFloatLiteral(e ast.Expr, want float64) bool {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return float64(n.Value) == want
	case *ast.FloatLiteral:
		return n.Value == want
	default:
		return false
	}
}

func boolLiteral(e ast.Expr) (bool, bool) {
	b, ok := e.(*ast.BoolLiteral)
	if !ok {
		return false, false
	}
	return b.Value, true
}

// hasCall reports whether e contains a function call anywhere in its
// subtree; used to withhold the `x*0 -> 0` simplification when x might
// call an impure, host-registered function the optimizer cannot prove
// is safe to skip evaluating.
func hasCall(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.CallExpr:
		return true
	case *ast.BinaryExpr:
		return hasCall(n.Left) || hasCall(n.Right)
	case *ast.UnaryExpr:
		return hasCall(n.Operand)
	case *ast.ConditionalExpr:
		return hasCall(n.Cond) || hasCall(n.Then) || hasCall(n.Else)
	case *ast.MembershipExpr:
		return hasCall(n.Left) || hasCall(n.Right)
	case *ast.FieldAccess:
		return hasCall(n.Target)
	case *ast.IndexAccess:
		return hasCall(n.Target) || hasCall(n.Index)
	default:
		return false
	}
}
