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

package schema

import (
	"fmt"
	"sort"

	"github.com/rulekit/rulekit/ast"
)

// jitWhitelist is the fixed set of registry function names the native
// backend knows how to inline; anything else disqualifies an expression
// from JIT eligibility regardless of the registry's purity declaration.
var jitWhitelist = map[string]bool{
	"abs":     true,
	"min":     true,
	"max":     true,
	"is_null": true,
}

// Analysis is the per-expression result of analyze: whether the native
// backend can compile it against a given Schema, and if not, why.
type Analysis struct {
	JITCompatible      bool
	Reason             string
	AccessedFields     []string
	SupportedFeatures  []string
	UnsupportedFeatures []string
}

// Analyze walks e and decides whether it qualifies for native compilation
// against s: every operand numeric/bool, every field path resolving to a
// numeric/bool/enum schema field, operators limited to arithmetic/
// comparison/logical/ternary, and any call restricted to the JIT
// whitelist. The first disqualifying feature found sets Reason; the walk
// still covers the whole tree, so AccessedFields and UnsupportedFeatures
// include what was found after the disqualification as well as before it.
func Analyze(e ast.Expr, s *Schema) Analysis {
	a := &analyzer{schema: s, fields: map[string]bool{}}
	a.walk(e)
	fields := make([]string, 0, len(a.fields))
	for f := range a.fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return Analysis{
		JITCompatible:       a.reason == "",
		Reason:              a.reason,
		AccessedFields:      fields,
		SupportedFeatures:   dedupSorted(a.supported),
		UnsupportedFeatures: dedupSorted(a.unsupported),
	}
}

type analyzer struct {
	schema      *Schema
	fields      map[string]bool
	supported   []string
	unsupported []string
	reason      string
}

func (a *analyzer) fail(tag, format string, args ...any) {
	a.unsupported = append(a.unsupported, tag)
	if a.reason == "" {
		a.reason = fmt.Sprintf(format, args...)
	}
}

func (a *analyzer) walk(e ast.Expr) {
	switch n := e.(type) {
	case *ast.NullLiteral, *ast.StringLiteral:
		a.fail("string-operand", "string literals are not JIT-eligible")

	case *ast.BoolLiteral, *ast.IntLiteral, *ast.FloatLiteral:
		a.supported = append(a.supported, "literal")

	case *ast.Identifier, *ast.FieldAccess, *ast.IndexAccess:
		a.walkFieldPath(n)

	case *ast.UnaryExpr:
		a.supported = append(a.supported, "unary")
		a.walk(n.Operand)

	case *ast.BinaryExpr:
		switch n.Op {
		case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
			ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte,
			ast.OpAnd, ast.OpOr:
			a.supported = append(a.supported, string(n.Op))
		default:
			a.fail("unknown-operator", "unrecognized binary operator %s", n.Op)
		}
		a.walk(n.Left)
		a.walk(n.Right)

	case *ast.ConditionalExpr:
		a.supported = append(a.supported, "ternary")
		a.walk(n.Cond)
		a.walk(n.Then)
		a.walk(n.Else)

	case *ast.CallExpr:
		if !jitWhitelist[n.Callee] {
			a.fail("call-not-whitelisted", "function %q is not in the JIT fast-path whitelist", n.Callee)
		} else {
			a.supported = append(a.supported, "call:"+n.Callee)
		}
		for _, arg := range n.Args {
			a.walk(arg)
		}

	case *ast.ArrayLiteral:
		a.fail("array-operand", "array literals are not JIT-eligible")
	case *ast.ObjectLiteral:
		a.fail("object-operand", "object construction is not JIT-eligible")
	case *ast.MembershipExpr:
		a.fail("membership", "membership tests are not JIT-eligible")
	case *ast.ExistsExpr:
		a.fail("exists", "exists() requires dynamic field resolution, not JIT-eligible")
	case *ast.CoalesceExpr:
		a.fail("coalesce", "coalesce requires dynamic null-checking across heterogeneous types, not JIT-eligible")

	default:
		a.fail("unknown-node", "unrecognized node %T", e)
	}
}

func (a *analyzer) walkFieldPath(e ast.Expr) {
	path, ok := ast.FieldPath(e)
	if !ok || len(path) != 1 || !path[0].IsKey {
		a.fail("non-static-path", "field path %s does not resolve to a single static schema field", e.String())
		return
	}
	name := path[0].Key
	a.fields[name] = true
	if a.schema == nil {
		a.fail("no-schema", "no schema supplied to resolve field %q", name)
		return
	}
	f, ok := a.schema.Lookup(name)
	if !ok {
		a.fail("unknown-field", "field %q is not declared in schema %q", name, a.schema.Name)
		return
	}
	if !f.Type.IsNumeric() {
		a.fail("non-numeric-field", "field %q has non-numeric type %s", name, f.Type)
		return
	}
	a.supported = append(a.supported, "field:"+name)
}

func dedupSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
