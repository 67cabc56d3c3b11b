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

package jit_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/interp"
	"github.com/rulekit/rulekit/jit"
	"github.com/rulekit/rulekit/parser"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/schema"
	"github.com/rulekit/rulekit/value"
)

type account struct {
	Age     int64
	Balance float64
	Vip     bool
}

func accountSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.FromStruct("account", account{})
	require.NoError(t, err)
	return s
}

func TestJitParityWithInterpreter(t *testing.T) {
	s := accountSchema(t)
	arena := jit.NewArena()
	defer arena.Close()

	e, err := parser.Parse("age >= 18 && balance >= 100.0 && vip")
	require.NoError(t, err)

	handle, err := jit.Compile(arena, e, s)
	require.NoError(t, err)

	cases := []struct {
		rec  account
		want bool
	}{
		{account{Age: 25, Balance: 1000.0, Vip: true}, true},
		{account{Age: 17, Balance: 1000.0, Vip: true}, false},
		{account{Age: 25, Balance: 50.0, Vip: true}, false},
	}

	reg := registry.NewStock()
	it := interp.New(reg)
	for _, tc := range cases {
		got, err := handle.Call(s.Fingerprint(), unsafe.Pointer(&tc.rec))
		require.NoError(t, err)
		require.Equal(t, tc.want, got.Bool())

		obj := value.NewObject()
		obj.Set("age", value.Int(tc.rec.Age))
		obj.Set("balance", value.Float(tc.rec.Balance))
		obj.Set("vip", value.Bool(tc.rec.Vip))
		wantVal, err := it.Eval(e, value.NewContext(value.Obj(obj), value.Lenient))
		require.NoError(t, err)
		require.Equal(t, wantVal.Bool(), got.Bool())
	}
}

func TestJitRejectsStringOperand(t *testing.T) {
	s := accountSchema(t)
	arena := jit.NewArena()
	defer arena.Close()

	e, err := parser.Parse(`age >= 18`)
	require.NoError(t, err)
	_, err = jit.Compile(arena, e, s)
	require.NoError(t, err)

	bad, err := parser.Parse(`"x" == "y"`)
	require.NoError(t, err)
	_, err = jit.Compile(arena, bad, s)
	require.Error(t, err)

	stats := arena.Stats()
	require.Equal(t, int64(1), stats.SuccessfulCompiles)
	require.Equal(t, int64(1), stats.FailedCompiles)
}

func TestJitCallAfterArenaCloseFails(t *testing.T) {
	s := accountSchema(t)
	arena := jit.NewArena()
	e, err := parser.Parse("age >= 18")
	require.NoError(t, err)
	handle, err := jit.Compile(arena, e, s)
	require.NoError(t, err)

	arena.Close()
	rec := account{Age: 30}
	_, err = handle.Call(s.Fingerprint(), unsafe.Pointer(&rec))
	require.Error(t, err)
}

func TestJitVerifiesFingerprintMismatch(t *testing.T) {
	s := accountSchema(t)
	arena := jit.NewArena()
	defer arena.Close()
	e, err := parser.Parse("age >= 18")
	require.NoError(t, err)
	handle, err := jit.Compile(arena, e, s)
	require.NoError(t, err)

	rec := account{Age: 30}
	_, err = handle.Call(s.Fingerprint()+1, unsafe.Pointer(&rec))
	require.Error(t, err)
}

func TestJitCompileWithoutSchemaReturnsUnsupportedTarget(t *testing.T) {
	arena := jit.NewArena()
	defer arena.Close()
	e, err := parser.Parse("age >= 18")
	require.NoError(t, err)
	_, err = jit.Compile(arena, e, nil)
	require.Error(t, err)
}

func TestJitTernaryAndArithmetic(t *testing.T) {
	s := accountSchema(t)
	arena := jit.NewArena()
	defer arena.Close()
	e, err := parser.Parse(`if balance > 500.0 then balance * 2.0 else balance / 2.0`)
	require.NoError(t, err)
	handle, err := jit.Compile(arena, e, s)
	require.NoError(t, err)

	rec := account{Balance: 1000.0}
	got, err := handle.Call(s.Fingerprint(), unsafe.Pointer(&rec))
	require.NoError(t, err)
	require.InDelta(t, 2000.0, got.Float(), 0.0001)
}
