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

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/parser"
	"github.com/rulekit/rulekit/xerr"
)

func TestParsePrecedence(t *testing.T) {
	e, err := parser.Parse("1 + 2 * 3")
	require.NoError(t, err)
	bin, ok := e.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, bin.Op)
	_, ok = bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
}

func TestParseTernary(t *testing.T) {
	e, err := parser.Parse(`if a > 1 then "big" else "small"`)
	require.NoError(t, err)
	_, ok := e.(*ast.ConditionalExpr)
	require.True(t, ok)
}

func TestParseMembership(t *testing.T) {
	e, err := parser.Parse(`status not in ["a", "b"]`)
	require.NoError(t, err)
	mem, ok := e.(*ast.MembershipExpr)
	require.True(t, ok)
	require.Equal(t, ast.MembershipNotIn, mem.Op)
}

func TestParseFieldPathChain(t *testing.T) {
	e, err := parser.Parse(`user.address[0].city`)
	require.NoError(t, err)
	path, ok := ast.FieldPath(e)
	require.True(t, ok)
	require.Len(t, path, 4)
}

func TestParseExistsRejectsNonPath(t *testing.T) {
	_, err := parser.Parse(`exists(1 + 1)`)
	require.Error(t, err)
	pe, ok := err.(*xerr.ParseError)
	require.True(t, ok)
	require.Equal(t, xerr.ExpectedFieldPath, pe.Kind)
}

func TestParseCoalesce(t *testing.T) {
	e, err := parser.Parse(`coalesce(user.nick, user.name, "anon")`)
	require.NoError(t, err)
	c, ok := e.(*ast.CoalesceExpr)
	require.True(t, ok)
	require.Len(t, c.Args, 3)
}

func TestUnparseRoundTrip(t *testing.T) {
	e, err := parser.Parse(`(1 + 2) * 3`)
	require.NoError(t, err)
	require.Contains(t, parser.Unparse(e), "*")
}

func TestParseUnterminatedStringSurfacesError(t *testing.T) {
	_, err := parser.Parse(`"abc`)
	require.Error(t, err)
}
