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

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
)

func arr(items ...value.Value) value.Value {
	return value.Array(items)
}

func TestSumSkipsNullElements(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("sum", []value.Value{arr(value.Int(1), value.Null, value.Int(3))})
	require.NoError(t, err)
	require.Equal(t, int64(4), got.Int())
}

func TestAvgSkipsNullElementsInBothSumAndCount(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("avg", []value.Value{arr(value.Int(1), value.Null, value.Int(3))})
	require.NoError(t, err)
	// (1 + 3) / 2, not (1 + 0 + 3) / 3.
	require.InDelta(t, 2.0, got.Float(), 0.0001)
}

func TestAvgOfAllNullsIsZero(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("avg", []value.Value{arr(value.Null, value.Null)})
	require.NoError(t, err)
	require.Equal(t, int64(0), got.Int())
}

func TestMinSkipsNullElements(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("min", []value.Value{arr(value.Int(5), value.Null, value.Int(3))})
	require.NoError(t, err)
	require.Equal(t, int64(3), got.Int())
}

func TestMaxSkipsNullElements(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("max", []value.Value{arr(value.Int(5), value.Null, value.Int(9))})
	require.NoError(t, err)
	require.Equal(t, int64(9), got.Int())
}

func TestMinOfAllNullsIsNull(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("min", []value.Value{arr(value.Null, value.Undefined)})
	require.NoError(t, err)
	require.True(t, got.IsNull())
}

func TestMinMaxPreserveIntWhenAllIntAfterFiltering(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("min", []value.Value{arr(value.Int(5), value.Null, value.Int(3))})
	require.NoError(t, err)
	require.Equal(t, value.KindInt, got.Kind())
}

func TestMinMaxBecomeFloatWhenAnyFloatSurvivesFiltering(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("max", []value.Value{arr(value.Int(5), value.Null, value.Float(9.5))})
	require.NoError(t, err)
	require.Equal(t, value.KindFloat, got.Kind())
	require.InDelta(t, 9.5, got.Float(), 0.0001)
}

func TestSumOfEmptyArrayIsZeroInt(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("sum", []value.Value{arr()})
	require.NoError(t, err)
	require.Equal(t, int64(0), got.Int())
}

func TestLenTreatsNullAndUndefinedAsZero(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("len", []value.Value{value.Null})
	require.NoError(t, err)
	require.Equal(t, int64(0), got.Int())

	got, err = reg.Call("len", []value.Value{value.Undefined})
	require.NoError(t, err)
	require.Equal(t, int64(0), got.Int())
}

func TestLenOnNonLenableKindErrors(t *testing.T) {
	reg := registry.NewStock()
	_, err := reg.Call("len", []value.Value{value.Int(5)})
	require.Error(t, err)
}

func TestIsNullTrueForBothNullAndUndefined(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("is_null", []value.Value{value.Null})
	require.NoError(t, err)
	require.True(t, got.Bool())

	got, err = reg.Call("is_null", []value.Value{value.Undefined})
	require.NoError(t, err)
	require.True(t, got.Bool())

	got, err = reg.Call("is_null", []value.Value{value.Int(0)})
	require.NoError(t, err)
	require.False(t, got.Bool())
}

func TestAbsHandlesIntAndFloat(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("abs", []value.Value{value.Int(-7)})
	require.NoError(t, err)
	require.Equal(t, int64(7), got.Int())

	got, err = reg.Call("abs", []value.Value{value.Float(-2.5)})
	require.NoError(t, err)
	require.InDelta(t, 2.5, got.Float(), 0.0001)
}

func TestStringFunctions(t *testing.T) {
	reg := registry.NewStock()
	got, err := reg.Call("upper", []value.Value{value.String("abc")})
	require.NoError(t, err)
	require.Equal(t, "ABC", got.Str())

	got, err = reg.Call("contains", []value.Value{value.String("haystack"), value.String("stack")})
	require.NoError(t, err)
	require.True(t, got.Bool())
}
