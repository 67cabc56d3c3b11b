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
	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

func (it *Interp) evalMembership(n *ast.MembershipExpr, ctx *value.Context, depth int) (value.Value, error) {
	left, err := it.eval(n.Left, ctx, depth+1)
	if err != nil {
		return value.Null, err
	}
	right, err := it.eval(n.Right, ctx, depth+1)
	if err != nil {
		return value.Null, err
	}
	return EvalMembershipOp(n.Op, left, right)
}

// EvalMembershipOp implements "in"/"not in"; exported for the bytecode VM,
// which lowers membership to the same generic BinaryOp instruction as
// every other infix operator.
func EvalMembershipOp(op ast.MembershipOp, left, right value.Value) (value.Value, error) {
	if right.Kind() != value.KindArray {
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "membership test requires an array on the right, got %s", right.Kind())
	}
	found := false
	for _, item := range right.Items() {
		if value.Equal(left, item) {
			found = true
			break
		}
	}
	if op == ast.MembershipNotIn {
		found = !found
	}
	return value.Bool(found), nil
}
