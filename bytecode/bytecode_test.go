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

package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/bytecode"
	"github.com/rulekit/rulekit/interp"
	"github.com/rulekit/rulekit/parser"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
)

// runBoth compiles and runs src on both the bytecode VM and the
// interpreter against the same input, asserting they agree — the minimal
// form of the backend-agreement oracle; the full property-based version
// across all three backends lives in the rules package.
func runBoth(t *testing.T, src string, input value.Value) (value.Value, error) {
	t.Helper()
	reg := registry.NewStock()
	e, err := parser.Parse(src)
	require.NoError(t, err)

	compiled, err := bytecode.Compile(e, reg)
	require.NoError(t, err)
	vm := bytecode.New(reg, compiled.MaxStack)
	got, vmErr := vm.Run(compiled, value.NewContext(input, value.Lenient))

	want, wantErr := interp.New(reg).Eval(e, value.NewContext(input, value.Lenient))

	if wantErr != nil {
		require.Error(t, vmErr)
		return got, vmErr
	}
	require.NoError(t, vmErr)
	require.True(t, value.Equal(want, got), "vm=%v interp=%v", got, want)
	return got, nil
}

func TestVMArithmeticMatchesInterp(t *testing.T) {
	runBoth(t, "1 + 2 * 3 - 4 / 2", value.Null)
}

func TestVMShortCircuitAnd(t *testing.T) {
	v, err := runBoth(t, "age >= 18 && status == \"active\"", objInput(map[string]value.Value{
		"age":    value.Int(21),
		"status": value.String("active"),
	}))
	require.NoError(t, err)
	require.True(t, v.Bool())
}

func TestVMShortCircuitOrSkipsRight(t *testing.T) {
	v, err := runBoth(t, "true || nonexistent_field", value.Null)
	require.NoError(t, err)
	require.True(t, v.Bool())
}

func TestVMTernary(t *testing.T) {
	v, err := runBoth(t, `if score > 90 then "A" else "B"`, objInput(map[string]value.Value{
		"score": value.Int(95),
	}))
	require.NoError(t, err)
	require.Equal(t, "A", v.Str())
}

func TestVMMembership(t *testing.T) {
	v, err := runBoth(t, `"x" in tags`, objInput(map[string]value.Value{
		"tags": value.Array([]value.Value{value.String("x"), value.String("y")}),
	}))
	require.NoError(t, err)
	require.True(t, v.Bool())
}

func TestVMCoalesce(t *testing.T) {
	v, err := runBoth(t, `coalesce(missing, backup, "default")`, objInput(map[string]value.Value{
		"backup": value.String("b"),
	}))
	require.NoError(t, err)
	require.Equal(t, "b", v.Str())
}

func TestVMExists(t *testing.T) {
	v, err := runBoth(t, "exists(name)", objInput(map[string]value.Value{
		"name": value.String("ok"),
	}))
	require.NoError(t, err)
	require.True(t, v.Bool())
}

func TestVMCallStockFunction(t *testing.T) {
	v, err := runBoth(t, "len(items)", objInput(map[string]value.Value{
		"items": value.Array([]value.Value{value.Int(1), value.Int(2), value.Int(3)}),
	}))
	require.NoError(t, err)
	require.Equal(t, int64(3), v.Int())
}

func TestVMArrayAndObjectLiterals(t *testing.T) {
	runBoth(t, `[1, 2, 3]`, value.Null)
	runBoth(t, `{a: 1, b: 2}`, value.Null)
}

func TestCompileRejectsDynamicIndex(t *testing.T) {
	e, err := parser.Parse("items[idx]")
	require.NoError(t, err)
	_, err = bytecode.Compile(e, registry.NewStock())
	require.Error(t, err)
}

func objInput(fields map[string]value.Value) value.Value {
	obj := value.NewObject()
	for k, v := range fields {
		obj.Set(k, v)
	}
	return value.Obj(obj)
}
