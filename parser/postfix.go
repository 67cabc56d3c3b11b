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
	"github.com/rulekit/rulekit/xerr"
)

// parsePostfix is `postfix = primary ("." ident | "[" expr "]" | "(" args? ")")*`.
// A trailing call is only legal directly on a bare identifier (the grammar
// has no first-class function values); callee resolution and the
// exists/coalesce special forms are handled here, at the call site.
func (p *Parser) parsePostfix() ast.Expr {
	primary := p.parsePrimary()
	if p.failed() {
		return nil
	}

	for {
		switch p.current.Kind {
		case tokens.TokenDot:
			r := p.advance().Range
			name, ok := p.expect(tokens.Ident)
			if !ok {
				return nil
			}
			primary = &ast.FieldAccess{Range: r, Target: primary, Name: name.Value}
		case tokens.PunctLeftBracket:
			r := p.advance().Range
			idx := p.parseExpr()
			if p.failed() {
				return nil
			}
			if _, ok := p.expect(tokens.PunctRightBracket); !ok {
				return nil
			}
			primary = &ast.IndexAccess{Range: r, Target: primary, Index: idx}
		case tokens.PunctLeftParen:
			ident, ok := primary.(*ast.Identifier)
			if !ok {
				p.errorf(xerr.UnexpectedToken, "call target must be a function name")
				return nil
			}
			primary = p.parseCallArgs(ident)
			if p.failed() {
				return nil
			}
		default:
			return primary
		}
	}
}

func (p *Parser) parseCallArgs(callee *ast.Identifier) ast.Expr {
	r := p.advance().Range // consume "("
	var args []ast.Expr
	for !p.is(tokens.PunctRightParen) {
		arg := p.parseExpr()
		if p.failed() {
			return nil
		}
		args = append(args, arg)
		if p.is(tokens.PunctComma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(tokens.PunctRightParen); !ok {
		return nil
	}

	switch callee.Name {
	case "exists":
		if len(args) != 1 {
			p.errorf(xerr.ExpectedFieldPath, "exists() takes exactly one field path argument")
			return nil
		}
		if !ast.IsFieldPath(args[0]) {
			p.errorf(xerr.ExpectedFieldPath, "exists() argument must be a field path, not a general expression")
			return nil
		}
		return &ast.ExistsExpr{Range: r, Path: args[0]}
	case "coalesce":
		if len(args) < 1 {
			p.errorf(xerr.UnexpectedToken, "coalesce() takes at least one argument")
			return nil
		}
		return &ast.CoalesceExpr{Range: r, Args: args}
	default:
		return &ast.CallExpr{Range: r, Callee: callee.Name, Args: args}
	}
}
