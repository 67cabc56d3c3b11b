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

// Package ast is the immutable expression tree built by the parser and
// rewritten (never mutated in place) by the optimizer. Every node
// carries its source Pos and a String() method that doubles as the
// unparser used by the parser round-trip property test.
package ast

import "github.com/rulekit/rulekit/tokens"

type Node interface {
	String() string
	Position() tokens.Pos
}

// Expr is the closed set of expression node kinds: literal, field,
// binary, unary, call, conditional, array, object, exists, coalesce,
// membership (§3's Expression AST invariant).
type Expr interface {
	Node
	exprNode()
}

// BinaryOp is a closed enum recorded on every binary node (§3 invariant).
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"

	OpEq  BinaryOp = "=="
	OpNeq BinaryOp = "!="
	OpLt  BinaryOp = "<"
	OpLte BinaryOp = "<="
	OpGt  BinaryOp = ">"
	OpGte BinaryOp = ">="

	OpAnd BinaryOp = "&&"
	OpOr  BinaryOp = "||"
)

type UnaryOp string

const (
	OpNot UnaryOp = "!"
	OpNeg UnaryOp = "-"
)
