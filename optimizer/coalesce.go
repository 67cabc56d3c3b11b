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

// rewriteCoalesce flattens nested coalesce calls into one arg list, then
// drops every trailing argument once a provably-non-null one has been
// seen (everything after it is dead).
func (o *Optimizer) rewriteCoalesce(n *ast.CoalesceExpr) ast.Expr {
	var flat []ast.Expr
	collapsed := false
	for _, arg := range n.Args {
		rewritten := o.rewrite(arg)
		if inner, ok := rewritten.(*ast.CoalesceExpr); ok {
			flat = append(flat, inner.Args...)
			collapsed = true
			continue
		}
		flat = append(flat, rewritten)
	}
	if collapsed {
		o.stats.CoalesceCollapses++
	}

	out := make([]ast.Expr, 0, len(flat))
	for _, arg := range flat {
		out = append(out, arg)
		if isProvablyNonNull(arg) {
			break
		}
	}
	if len(out) < len(flat) {
		o.stats.CoalesceCollapses++
	}
	if len(out) == 1 {
		return out[0]
	}
	return &ast.CoalesceExpr{Range: n.Range, Args: out}
}

func isProvablyNonNull(e ast.Expr) bool {
	switch e.(type) {
	case *ast.NullLiteral:
		return false
	case *ast.BoolLiteral, *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral,
		*ast.ArrayLiteral, *ast.ObjectLiteral:
		return true
	default:
		return false
	}
}
