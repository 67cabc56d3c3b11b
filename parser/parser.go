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

// Package parser is a recursive-descent parser for rule expressions, one
// production per precedence tier, laid out one rule per file
// (parser/primary.go, parser/postfix.go, ...). It never panics on
// malformed input: every production reports through p.errorf and the
// caller stops at the first xerr.ParseError.
package parser

import (
	"io"
	"strings"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/lexer"
	"github.com/rulekit/rulekit/tokens"
	"github.com/rulekit/rulekit/xerr"
)

type Parser struct {
	lexer     *lexer.Lexer
	reference string

	current tokens.Instance
	next    tokens.Instance
	atEOF   bool

	err error
}

func NewParser(r io.Reader, filename string) *Parser {
	p := &Parser{lexer: lexer.NewLexer(r, filename), reference: filename}
	p.advance()
	p.advance()
	return p
}

func NewParserFromString(src, filename string) *Parser {
	return NewParser(strings.NewReader(src), filename)
}

// Parse parses a single expression to completion, the sole entry point:
// parse(source) -> Expr | ParseError.
func Parse(source string) (ast.Expr, error) {
	p := NewParserFromString(source, "<expr>")
	e := p.parseExpr()
	if p.err != nil {
		return nil, p.err
	}
	if !p.atEOF {
		p.errorf(xerr.UnexpectedToken, "unexpected trailing token %s", p.current.Kind)
		return nil, p.err
	}
	return e, nil
}

func (p *Parser) head() tokens.Instance { return p.current }

func (p *Parser) advance() tokens.Instance {
	prev := p.current
	if p.atEOF {
		return prev
	}
	if p.current.Kind == tokens.Error {
		p.errorf(xerr.UnexpectedToken, "%s", p.current.Value)
		return prev
	}
	p.current = p.next
	if p.current.Kind == tokens.EOF {
		p.atEOF = true
		return prev
	}
	p.next = p.lexer.NextToken()
	return prev
}

func (p *Parser) is(kind tokens.Kind) bool { return p.current.Kind == kind }

func (p *Parser) expect(kind tokens.Kind) (tokens.Instance, bool) {
	if !p.is(kind) {
		p.errorf(xerr.UnexpectedToken, "expected %s, got %s", kind, p.current.Kind)
		return tokens.Instance{}, false
	}
	return p.advance(), true
}

func (p *Parser) errorf(kind xerr.ParseErrorKind, format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = xerr.ErrParse(kind, p.current.Range.From.Offset, format, args...)
}

func (p *Parser) failed() bool { return p.err != nil }

// Unparse renders an expression tree back to source text. Every node's
// String() method is the unparser; this wrapper is the documented entry
// point so call sites don't reach past the package for it.
func Unparse(e ast.Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}
