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

// parseExpr is the `expr = ternary` production.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseTernary()
}

// parseTernary is `ternary = "if" expr "then" expr "else" expr | logic_or`.
func (p *Parser) parseTernary() ast.Expr {
	if !p.is(tokens.KeywordIf) {
		return p.parseLogicOr()
	}
	start := p.advance().Range
	cond := p.parseExpr()
	if p.failed() {
		return nil
	}
	if _, ok := p.expect(tokens.KeywordThen); !ok {
		return nil
	}
	thenExpr := p.parseExpr()
	if p.failed() {
		return nil
	}
	if _, ok := p.expect(tokens.KeywordElse); !ok {
		return nil
	}
	elseExpr := p.parseExpr()
	if p.failed() {
		return nil
	}
	return &ast.ConditionalExpr{Range: start, Cond: cond, Then: thenExpr, Else: elseExpr}
}
