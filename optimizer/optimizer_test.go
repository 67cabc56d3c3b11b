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

package optimizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/optimizer"
	"github.com/rulekit/rulekit/parser"
	"github.com/rulekit/rulekit/registry"
)

func optimize(t *testing.T, src string) (ast.Expr, optimizer.Stats) {
	t.Helper()
	e, err := parser.Parse(src)
	require.NoError(t, err)
	opt := optimizer.New(registry.NewStock())
	out := opt.Optimize(e)
	return out, opt.Stats()
}

func TestConstantFold(t *testing.T) {
	out, stats := optimize(t, "1 + 2 * 3")
	lit, ok := out.(*ast.IntLiteral)
	require.True(t, ok)
	require.Equal(t, int64(7), lit.Value)
	// 2 * 3 folds first, then 1 + 6.
	require.Equal(t, 2, stats.ConstantFolds)
}

func TestAlgebraicSimplifyMulByOne(t *testing.T) {
	out, stats := optimize(t, "price * 1")
	_, ok := out.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, 1, stats.Simplifications)
}

func TestAlgebraicSimplifyAndTrue(t *testing.T) {
	out, _ := optimize(t, "flag && true")
	_, ok := out.(*ast.Identifier)
	require.True(t, ok)
	_ = out
}

func TestDoubleNegationCollapses(t *testing.T) {
	out, _ := optimize(t, "!!flag")
	_, ok := out.(*ast.Identifier)
	require.True(t, ok)
}

func TestDeadBranchElimination(t *testing.T) {
	out, stats := optimize(t, `if true then 1 else 2`)
	lit, ok := out.(*ast.IntLiteral)
	require.True(t, ok)
	require.Equal(t, int64(1), lit.Value)
	require.Equal(t, 1, stats.DeadBranches)
}

func TestCoalesceCollapseFlattensNested(t *testing.T) {
	out, stats := optimize(t, `coalesce(coalesce(a, b), c)`)
	c, ok := out.(*ast.CoalesceExpr)
	require.True(t, ok)
	require.Len(t, c.Args, 3)
	require.Equal(t, 1, stats.CoalesceCollapses)
}

func TestCoalesceDropsTrailingAfterNonNullLiteral(t *testing.T) {
	out, _ := optimize(t, `coalesce(a, "fallback", b)`)
	c, ok := out.(*ast.CoalesceExpr)
	require.True(t, ok)
	require.Len(t, c.Args, 2)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	first, _ := optimize(t, "1 + 2 * 3 - (4 * 1)")
	opt := optimizer.New(registry.NewStock())
	second := opt.Optimize(first)
	require.Equal(t, first.String(), second.String())
	require.Equal(t, 0, opt.Stats().ConstantFolds+opt.Stats().Simplifications+opt.Stats().DeadBranches+opt.Stats().CoalesceCollapses)
}
