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

// Package tokens defines the lexical token set for the expression
// grammar: a string-backed Kind with a keyword lookup table, scoped to
// the expression grammar only. Namespace/policy/rule surface syntax
// belongs to the ruleset interchange format (see rules/source.go), not
// here.
package tokens

type Kind string

const (
	EOF     Kind = "EOF"
	Error   Kind = "Error"
	Ident   Kind = "Ident"
	String  Kind = "String"
	Int     Kind = "Int"
	Float   Kind = "Float"

	KeywordIf    Kind = "if"
	KeywordThen  Kind = "then"
	KeywordElse  Kind = "else"
	KeywordIn    Kind = "in"
	KeywordNot   Kind = "not"
	KeywordTrue  Kind = "true"
	KeywordFalse Kind = "false"
	KeywordNull  Kind = "null"

	TokenOr      Kind = "Or"      // ||
	TokenAnd     Kind = "And"     // &&
	TokenEq      Kind = "Eq"      // ==
	TokenNeq     Kind = "Neq"     // !=
	TokenLt      Kind = "Lt"
	TokenLte     Kind = "Lte"
	TokenGt      Kind = "Gt"
	TokenGte     Kind = "Gte"
	TokenPlus    Kind = "Plus"
	TokenMinus   Kind = "Minus"
	TokenMul     Kind = "Mul"
	TokenDiv     Kind = "Div"
	TokenMod     Kind = "Mod"
	TokenBang    Kind = "Bang"
	TokenDot     Kind = "Dot"

	PunctComma        Kind = "Comma"
	PunctColon        Kind = "Colon"
	PunctLeftParen    Kind = "LeftParen"
	PunctRightParen   Kind = "RightParen"
	PunctLeftBracket  Kind = "LeftBracket"
	PunctRightBracket Kind = "RightBracket"
	PunctLeftBrace    Kind = "LeftBrace"
	PunctRightBrace   Kind = "RightBrace"
)

var keywords = map[string]Kind{
	"if":    KeywordIf,
	"then":  KeywordThen,
	"else":  KeywordElse,
	"in":    KeywordIn,
	"not":   KeywordNot,
	"true":  KeywordTrue,
	"false": KeywordFalse,
	"null":  KeywordNull,
}

// LookupKeyword resolves a bare identifier to a keyword Kind if it is one.
// "not in" is handled by the parser peeking a second token; it is not a
// single lexical keyword.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

func (k Kind) String() string { return string(k) }
