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

package ast

import (
	"fmt"
	"strings"

	"github.com/rulekit/rulekit/tokens"
)

// BinaryExpr covers the full precedence ladder: arithmetic, comparison,
// equality and the short-circuiting "&&"/"||" forms. Short-circuit is a
// property of the evaluator/compiler, not of this node shape.
type BinaryExpr struct {
	Range tokens.Range
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (n *BinaryExpr) exprNode()            {}
func (n *BinaryExpr) Position() tokens.Pos { return n.Range.From }
func (n *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

var _ Expr = &BinaryExpr{}

// UnaryExpr covers "!" and unary "-".
type UnaryExpr struct {
	Range   tokens.Range
	Op      UnaryOp
	Operand Expr
}

func (n *UnaryExpr) exprNode()            {}
func (n *UnaryExpr) Position() tokens.Pos { return n.Range.From }
func (n *UnaryExpr) String() string       { return fmt.Sprintf("(%s%s)", n.Op, n.Operand.String()) }

var _ Expr = &UnaryExpr{}

// CallExpr is a call to a registered function: ident "(" args? ")". Callee
// is always a bare name, never a computed expression (the grammar has no
// first-class function values).
type CallExpr struct {
	Range  tokens.Range
	Callee string
	Args   []Expr
}

func (n *CallExpr) exprNode()            {}
func (n *CallExpr) Position() tokens.Pos { return n.Range.From }
func (n *CallExpr) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(args, ", "))
}

var _ Expr = &CallExpr{}

// ConditionalExpr is the "if" cond "then" then "else" else ternary form.
type ConditionalExpr struct {
	Range tokens.Range
	Cond  Expr
	Then  Expr
	Else  Expr
}

func (n *ConditionalExpr) exprNode()            {}
func (n *ConditionalExpr) Position() tokens.Pos { return n.Range.From }
func (n *ConditionalExpr) String() string {
	return fmt.Sprintf("if %s then %s else %s", n.Cond.String(), n.Then.String(), n.Else.String())
}

var _ Expr = &ConditionalExpr{}

// ExistsExpr evaluates to true/false depending on whether Path resolves
// under the active MissingFieldPolicy, without itself raising a missing-
// field error (§3's Context.Exists invariant). Path must satisfy
// IsFieldPath; the parser rejects any other shape as a compile error.
type ExistsExpr struct {
	Range tokens.Range
	Path  Expr
}

func (n *ExistsExpr) exprNode()            {}
func (n *ExistsExpr) Position() tokens.Pos { return n.Range.From }
func (n *ExistsExpr) String() string       { return fmt.Sprintf("exists(%s)", n.Path.String()) }

var _ Expr = &ExistsExpr{}

// CoalesceExpr returns the first argument that evaluates without raising a
// missing-field/undefined error and is not Null/Undefined, short-circuiting
// left to right; the last argument is returned (or its error propagated)
// unconditionally if every earlier one fails or is null.
type CoalesceExpr struct {
	Range tokens.Range
	Args  []Expr
}

func (n *CoalesceExpr) exprNode()            {}
func (n *CoalesceExpr) Position() tokens.Pos { return n.Range.From }
func (n *CoalesceExpr) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("coalesce(%s)", strings.Join(args, ", "))
}

var _ Expr = &CoalesceExpr{}

// MembershipOp selects "in" vs "not in".
type MembershipOp string

const (
	MembershipIn    MembershipOp = "in"
	MembershipNotIn MembershipOp = "not in"
)

// MembershipExpr is equality (("in" | "not in") equality)?, testing Left
// against the elements of the Right array.
type MembershipExpr struct {
	Range tokens.Range
	Op    MembershipOp
	Left  Expr
	Right Expr
}

func (n *MembershipExpr) exprNode()            {}
func (n *MembershipExpr) Position() tokens.Pos { return n.Range.From }
func (n *MembershipExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

var _ Expr = &MembershipExpr{}
