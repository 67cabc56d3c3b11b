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

package customfn_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/customfn"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
)

func TestCompileJSFunction(t *testing.T) {
	entry, err := customfn.Compile(customfn.Source{
		Name:  "double",
		Code:  "function(x) { return x * 2; }",
		Arity: registry.Fixed(1),
		Pure:  true,
	})
	require.NoError(t, err)

	out, err := entry.Dispatch([]value.Value{value.Int(21)})
	require.NoError(t, err)
	require.Equal(t, int64(42), out.Int())
}

func TestCompileTSFunction(t *testing.T) {
	entry, err := customfn.Compile(customfn.Source{
		Name:  "greet",
		Lang:  customfn.LangTS,
		Code:  "function(name: string): string { return \"hello \" + name; }",
		Arity: registry.Fixed(1),
		Pure:  true,
	})
	require.NoError(t, err)

	out, err := entry.Dispatch([]value.Value{value.String("ada")})
	require.NoError(t, err)
	require.Equal(t, "hello ada", out.Str())
}

func TestCompileInvalidSourceFails(t *testing.T) {
	_, err := customfn.Compile(customfn.Source{
		Name: "broken",
		Code: "function(x) { return x +",
	})
	require.Error(t, err)
}

func TestDispatchConcurrentCallsDoNotShareState(t *testing.T) {
	entry, err := customfn.Compile(customfn.Source{
		Name:  "increment",
		Code:  "function(x) { var seen = x; seen += 1; return seen; }",
		Arity: registry.Fixed(1),
		Pure:  true,
	})
	require.NoError(t, err)

	type result struct {
		got int64
		err error
	}
	results := make(chan result, 8)
	for i := 0; i < 8; i++ {
		go func(n int64) {
			out, derr := entry.Dispatch([]value.Value{value.Int(n)})
			results <- result{got: out.Int(), err: derr}
		}(int64(i))
	}
	for i := 0; i < 8; i++ {
		r := <-results
		require.NoError(t, r.err)
		require.Greater(t, r.got, int64(0))
	}
}
