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

func (o *Optimizer) rewriteUnary(n *ast.UnaryExpr) ast.Expr {
	operand := o.rewrite(n.Operand)

	// !!x -> x
	if n.Op == ast.OpNot {
		if inner, ok := operand.(*ast.UnaryExpr); ok && inner.Op == ast.OpNot {
			o.stats.Simplifications++
			return inner.Operand
		}
	}

	rebuilt := &ast.UnaryExpr{Range: n.Range, Op: n.Op, Operand: operand}
	if isLiteral(operand) {
		if v, ok := o.foldConst(rebuilt); ok {
			o.stats.ConstantFolds++
			return v
		}
	}
	return rebuilt
}
