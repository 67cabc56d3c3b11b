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
	"strconv"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/tokens"
	"github.com/rulekit/rulekit/xerr"
)

// parsePrimary is `primary = number | string | bool | null | ident |
// array_lit | object_lit | "(" expr ")"`.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.current
	switch tok.Kind {
	case tokens.Int:
		p.advance()
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			p.errorf(xerr.UnexpectedToken, "invalid integer literal %q", tok.Value)
			return nil
		}
		return &ast.IntLiteral{Range: tok.Range, Value: n}
	case tokens.Float:
		p.advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			p.errorf(xerr.UnexpectedToken, "invalid float literal %q", tok.Value)
			return nil
		}
		return &ast.FloatLiteral{Range: tok.Range, Value: f}
	case tokens.String:
		p.advance()
		return &ast.StringLiteral{Range: tok.Range, Value: tok.Value}
	case tokens.KeywordTrue:
		p.advance()
		return &ast.BoolLiteral{Range: tok.Range, Value: true}
	case tokens.KeywordFalse:
		p.advance()
		return &ast.BoolLiteral{Range: tok.Range, Value: false}
	case tokens.KeywordNull:
		p.advance()
		return &ast.NullLiteral{Range: tok.Range}
	case tokens.Ident:
		p.advance()
		return &ast.Identifier{Range: tok.Range, Name: tok.Value}
	case tokens.PunctLeftBracket:
		return p.parseArrayLiteral()
	case tokens.PunctLeftBrace:
		return p.parseObjectLiteral()
	case tokens.PunctLeftParen:
		p.advance()
		inner := p.parseExpr()
		if p.failed() {
			return nil
		}
		if _, ok := p.expect(tokens.PunctRightParen); !ok {
			return nil
		}
		return inner
	default:
		p.errorf(xerr.UnexpectedToken, "unexpected token %s in expression", tok.Kind)
		return nil
	}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	r := p.advance().Range // consume "["
	var elems []ast.Expr
	for !p.is(tokens.PunctRightBracket) {
		e := p.parseExpr()
		if p.failed() {
			return nil
		}
		elems = append(elems, e)
		if p.is(tokens.PunctComma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(tokens.PunctRightBracket); !ok {
		return nil
	}
	return &ast.ArrayLiteral{Range: r, Elements: elems}
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	r := p.advance().Range // consume "{"
	var entries []ast.ObjectEntry
	for !p.is(tokens.PunctRightBrace) {
		var key string
		switch p.current.Kind {
		case tokens.Ident:
			key = p.advance().Value
		case tokens.String:
			key = p.advance().Value
		default:
			p.errorf(xerr.UnexpectedToken, "expected object key, got %s", p.current.Kind)
			return nil
		}
		if _, ok := p.expect(tokens.PunctColon); !ok {
			return nil
		}
		val := p.parseExpr()
		if p.failed() {
			return nil
		}
		entries = append(entries, ast.ObjectEntry{Key: key, Value: val})
		if p.is(tokens.PunctComma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(tokens.PunctRightBrace); !ok {
		return nil
	}
	return &ast.ObjectLiteral{Range: r, Entries: entries}
}
