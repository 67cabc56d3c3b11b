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

package parser

import (
	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/tokens"
)

// parseEquality is `equality = comparison (("=="|"!=") comparison)*`.
func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for !p.failed() {
		var op ast.BinaryOp
		switch p.current.Kind {
		case tokens.TokenEq:
			op = ast.OpEq
		case tokens.TokenNeq:
			op = ast.OpNeq
		default:
			return left
		}
		r := p.advance().Range
		right := p.parseComparison()
		if p.failed() {
			return nil
		}
		left = &ast.BinaryExpr{Range: r, Op: op, Left: left, Right: right}
	}
	return nil
}

// parseComparison is `comparison = additive (("<"|"<="|">"|">=") additive)*`.
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for !p.failed() {
		var op ast.BinaryOp
		switch p.current.Kind {
		case tokens.TokenLt:
			op = ast.OpLt
		case tokens.TokenLte:
			op = ast.OpLte
		case tokens.TokenGt:
			op = ast.OpGt
		case tokens.TokenGte:
			op = ast.OpGte
		default:
			return left
		}
		r := p.advance().Range
		right := p.parseAdditive()
		if p.failed() {
			return nil
		}
		left = &ast.BinaryExpr{Range: r, Op: op, Left: left, Right: right}
	}
	return nil
}

// parseAdditive is `additive = multiplicative (("+"|"-") multiplicative)*`.
func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for !p.failed() {
		var op ast.BinaryOp
		switch p.current.Kind {
		case tokens.TokenPlus:
			op = ast.OpAdd
		case tokens.TokenMinus:
			op = ast.OpSub
		default:
			return left
		}
		r := p.advance().Range
		right := p.parseMultiplicative()
		if p.failed() {
			return nil
		}
		left = &ast.BinaryExpr{Range: r, Op: op, Left: left, Right: right}
	}
	return nil
}

// parseMultiplicative is `multiplicative = unary (("*"|"/"|"%") unary)*`.
func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for !p.failed() {
		var op ast.BinaryOp
		switch p.current.Kind {
		case tokens.TokenMul:
			op = ast.OpMul
		case tokens.TokenDiv:
			op = ast.OpDiv
		case tokens.TokenMod:
			op = ast.OpMod
		default:
			return left
		}
		r := p.advance().Range
		right := p.parseUnary()
		if p.failed() {
			return nil
		}
		left = &ast.BinaryExpr{Range: r, Op: op, Left: left, Right: right}
	}
	return nil
}

// parseUnary is `unary = ("!"|"-") unary | postfix`.
func (p *Parser) parseUnary() ast.Expr {
	switch p.current.Kind {
	case tokens.TokenBang:
		r := p.advance().Range
		operand := p.parseUnary()
		if p.failed() {
			return nil
		}
		return &ast.UnaryExpr{Range: r, Op: ast.OpNot, Operand: operand}
	case tokens.TokenMinus:
		r := p.advance().Range
		operand := p.parseUnary()
		if p.failed() {
			return nil
		}
		return &ast.UnaryExpr{Range: r, Op: ast.OpNeg, Operand: operand}
	default:
		return p.parsePostfix()
	}
}
