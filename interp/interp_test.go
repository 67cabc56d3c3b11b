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

package interp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/interp"
	"github.com/rulekit/rulekit/parser"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

func eval(t *testing.T, src string, input value.Value) (value.Value, error) {
	t.Helper()
	reg := registry.NewStock()
	e, err := parser.Parse(src)
	require.NoError(t, err)
	return interp.New(reg).Eval(e, value.NewContext(input, value.Lenient))
}

func objInput(fields map[string]value.Value) value.Value {
	obj := value.NewObject()
	for k, v := range fields {
		obj.Set(k, v)
	}
	return value.Obj(obj)
}

func TestAddIntOverflowReturnsOverflowError(t *testing.T) {
	src := "a + b"
	input := objInput(map[string]value.Value{
		"a": value.Int(math.MaxInt64),
		"b": value.Int(1),
	})
	_, err := eval(t, src, input)
	require.Error(t, err)
	var evalErr *xerr.EvalError
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, xerr.Overflow, evalErr.Kind)
}

func TestSubIntOverflowReturnsOverflowError(t *testing.T) {
	input := objInput(map[string]value.Value{
		"a": value.Int(math.MinInt64),
		"b": value.Int(1),
	})
	_, err := eval(t, "a - b", input)
	require.Error(t, err)
	var evalErr *xerr.EvalError
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, xerr.Overflow, evalErr.Kind)
}

func TestMulIntOverflowReturnsOverflowError(t *testing.T) {
	input := objInput(map[string]value.Value{
		"a": value.Int(math.MaxInt64),
		"b": value.Int(2),
	})
	_, err := eval(t, "a * b", input)
	require.Error(t, err)
	var evalErr *xerr.EvalError
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, xerr.Overflow, evalErr.Kind)
}

func TestMulMinInt64ByNegOneOverflows(t *testing.T) {
	input := objInput(map[string]value.Value{
		"a": value.Int(math.MinInt64),
		"b": value.Int(-1),
	})
	_, err := eval(t, "a * b", input)
	require.Error(t, err)
	var evalErr *xerr.EvalError
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, xerr.Overflow, evalErr.Kind)
}

func TestIntArithmeticWithinRangeDoesNotOverflow(t *testing.T) {
	v, err := eval(t, "1 + 2 * 3 - 4", value.Null)
	require.NoError(t, err)
	require.Equal(t, int64(3), v.Int())
}

func TestFloatArithmeticNeverOverflowChecks(t *testing.T) {
	v, err := eval(t, "a + b", objInput(map[string]value.Value{
		"a": value.Float(math.MaxFloat64),
		"b": value.Float(math.MaxFloat64),
	}))
	require.NoError(t, err)
	require.True(t, math.IsInf(v.Float(), 1))
}

func TestIntDivisionByZeroReturnsDivByZero(t *testing.T) {
	_, err := eval(t, "a / b", objInput(map[string]value.Value{
		"a": value.Int(10),
		"b": value.Int(0),
	}))
	require.Error(t, err)
	var evalErr *xerr.EvalError
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, xerr.DivByZero, evalErr.Kind)
}

func TestIntModuloByZeroReturnsDivByZero(t *testing.T) {
	_, err := eval(t, "a % b", objInput(map[string]value.Value{
		"a": value.Int(10),
		"b": value.Int(0),
	}))
	require.Error(t, err)
	var evalErr *xerr.EvalError
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, xerr.DivByZero, evalErr.Kind)
}

func TestFloatDivisionByZeroYieldsInf(t *testing.T) {
	v, err := eval(t, "a / b", objInput(map[string]value.Value{
		"a": value.Float(10),
		"b": value.Float(0),
	}))
	require.NoError(t, err)
	require.True(t, math.IsInf(v.Float(), 1))
}

func TestAndShortCircuitsRightOperand(t *testing.T) {
	v, err := eval(t, "false && nonexistent_field", value.Null)
	require.NoError(t, err)
	require.False(t, v.Bool())
}

func TestOrShortCircuitsRightOperand(t *testing.T) {
	v, err := eval(t, "true || nonexistent_field", value.Null)
	require.NoError(t, err)
	require.True(t, v.Bool())
}

func TestStringPlusNumberStringifies(t *testing.T) {
	v, err := eval(t, `"count: " + 5`, value.Null)
	require.NoError(t, err)
	require.Equal(t, "count: 5", v.Str())
}

func TestCoalesceSkipsNullAndUndefinedFieldPath(t *testing.T) {
	v, err := eval(t, "coalesce(missing.field, 5)", objInput(nil))
	require.NoError(t, err)
	require.Equal(t, int64(5), v.Int())
}

func TestCoalesceSkipsUndefinedMissingVar(t *testing.T) {
	v, err := eval(t, "coalesce($missing, 5)", objInput(nil))
	require.NoError(t, err)
	require.Equal(t, int64(5), v.Int())
}

func TestCoalesceReturnsFirstNonNull(t *testing.T) {
	v, err := eval(t, "coalesce(null, 0, 7)", value.Null)
	require.NoError(t, err)
	require.Equal(t, int64(0), v.Int())
}

func TestTernaryPicksBranchByCondition(t *testing.T) {
	v, err := eval(t, `if score > 90 then "A" else "B"`, objInput(map[string]value.Value{
		"score": value.Int(95),
	}))
	require.NoError(t, err)
	require.Equal(t, "A", v.Str())
}

func TestComparisonRequiresNumericOperands(t *testing.T) {
	_, err := eval(t, `"a" > "b"`, value.Null)
	require.Error(t, err)
	var evalErr *xerr.EvalError
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, xerr.TypeMismatch, evalErr.Kind)
}

func TestUnaryNegationOnFloatAndInt(t *testing.T) {
	v, err := eval(t, "-a", objInput(map[string]value.Value{"a": value.Int(5)}))
	require.NoError(t, err)
	require.Equal(t, int64(-5), v.Int())

	v, err = eval(t, "-a", objInput(map[string]value.Value{"a": value.Float(2.5)}))
	require.NoError(t, err)
	require.InDelta(t, -2.5, v.Float(), 0.0001)
}
