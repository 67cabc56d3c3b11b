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

// rewriteConditional collapses `if true then A else B -> A`, mirrored for
// false. Only the selected branch is kept, so an error-producing or
// expensive other branch is dropped entirely.
func (o *Optimizer) rewriteConditional(n *ast.ConditionalExpr) ast.Expr {
	cond := o.rewrite(n.Cond)
	if b, ok := boolLiteral(cond); ok {
		o.stats.DeadBranches++
		if b {
			return o.rewrite(n.Then)
		}
		return o.rewrite(n.Else)
	}
	return &ast.ConditionalExpr{
		Range: n.Range,
		Cond:  cond,
		Then:  o.rewrite(n.Then),
		Else:  o.rewrite(n.Else),
	}
}
