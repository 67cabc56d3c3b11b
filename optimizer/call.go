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

// rewriteCall folds Call(name, all-literal-args) when name is declared
// pure in the registry. Array/object-valued results are left uninlined:
// there is no array/object literal-folding story beyond scalars in this
// pass, so the call is kept with rewritten args.
func (o *Optimizer) rewriteCall(n *ast.CallExpr) ast.Expr {
	args := make([]ast.Expr, len(n.Args))
	allLiteral := true
	for i, a := range n.Args {
		args[i] = o.rewrite(a)
		if !isLiteral(args[i]) {
			allLiteral = false
		}
	}
	rebuilt := &ast.CallExpr{Range: n.Range, Callee: n.Callee, Args: args}
	if allLiteral && o.reg != nil && o.reg.IsPure(n.Callee) {
		if v, ok := o.foldConst(rebuilt); ok && v != nil {
			o.stats.ConstantFolds++
			return v
		}
	}
	return rebuilt
}
