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

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/lexer"
	"github.com/rulekit/rulekit/tokens"
)

func scanAll(src string) []tokens.Instance {
	l := lexer.NewLexerFromString(src, "test")
	var out []tokens.Instance
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Kind == tokens.EOF || tok.Kind == tokens.Error {
			break
		}
	}
	return out
}

func TestScanOperators(t *testing.T) {
	toks := scanAll(`a.b >= 10 && c != "x" || !d`)
	kinds := make([]tokens.Kind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	require.Contains(t, kinds, tokens.TokenGte)
	require.Contains(t, kinds, tokens.TokenAnd)
	require.Contains(t, kinds, tokens.TokenNeq)
	require.Contains(t, kinds, tokens.TokenOr)
	require.Contains(t, kinds, tokens.TokenBang)
}

func TestScanStringEscapes(t *testing.T) {
	toks := scanAll(`"line\nbreak\ttab\"quote"`)
	require.Equal(t, tokens.String, toks[0].Kind)
	require.Equal(t, "line\nbreak\ttab\"quote", toks[0].Value)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(`"abc`)
	require.Equal(t, tokens.Error, toks[len(toks)-1].Kind)
}

func TestScanNumberKinds(t *testing.T) {
	toks := scanAll(`42 3.14 1e3`)
	require.Equal(t, tokens.Int, toks[0].Kind)
	require.Equal(t, tokens.Float, toks[1].Kind)
	require.Equal(t, tokens.Float, toks[2].Kind)
}

func TestScanVariableSigil(t *testing.T) {
	toks := scanAll(`$level`)
	require.Equal(t, tokens.Ident, toks[0].Kind)
	require.Equal(t, "$level", toks[0].Value)
}
