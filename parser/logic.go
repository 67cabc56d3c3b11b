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

// parseLogicOr is `logic_or = logic_and ("||" logic_and)*`.
func (p *Parser) parseLogicOr() ast.Expr {
	left := p.parseLogicAnd()
	for !p.failed() && p.is(tokens.TokenOr) {
		r := p.advance().Range
		right := p.parseLogicAnd()
		if p.failed() {
			return nil
		}
		left = &ast.BinaryExpr{Range: r, Op: ast.OpOr, Left: left, Right: right}
	}
	return left
}

// parseLogicAnd is `logic_and = membership ("&&" membership)*`.
func (p *Parser) parseLogicAnd() ast.Expr {
	left := p.parseMembership()
	for !p.failed() && p.is(tokens.TokenAnd) {
		r := p.advance().Range
		right := p.parseMembership()
		if p.failed() {
			return nil
		}
		left = &ast.BinaryExpr{Range: r, Op: ast.OpAnd, Left: left, Right: right}
	}
	return left
}

// parseMembership is `membership = equality (("in"|"not in") equality)?`.
// "not in" is not a single lexical token: the parser peeks KeywordNot
// followed by KeywordIn and consumes both.
func (p *Parser) parseMembership() ast.Expr {
	left := p.parseEquality()
	if p.failed() {
		return nil
	}
	switch {
	case p.is(tokens.KeywordIn):
		r := p.advance().Range
		right := p.parseEquality()
		if p.failed() {
			return nil
		}
		return &ast.MembershipExpr{Range: r, Op: ast.MembershipIn, Left: left, Right: right}
	case p.is(tokens.KeywordNot) && p.next.Kind == tokens.KeywordIn:
		r := p.advance().Range
		p.advance() // consume "in"
		right := p.parseEquality()
		if p.failed() {
			return nil
		}
		return &ast.MembershipExpr{Range: r, Op: ast.MembershipNotIn, Left: left, Right: right}
	default:
		return left
	}
}
