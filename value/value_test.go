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

package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/value"
)

func TestTruthy(t *testing.T) {
	require.False(t, value.Null.Truthy())
	require.False(t, value.Bool(false).Truthy())
	require.True(t, value.Bool(true).Truthy())
	require.False(t, value.Int(0).Truthy())
	require.True(t, value.Int(1).Truthy())
	require.False(t, value.String("").Truthy())
	require.True(t, value.String("x").Truthy())
	require.False(t, value.Array(nil).Truthy())
}

func TestEqualCoercesIntFloat(t *testing.T) {
	require.True(t, value.Equal(value.Int(2), value.Float(2.0)))
	require.False(t, value.Equal(value.Int(2), value.Float(2.5)))
}

func TestUndefinedIsNotNull(t *testing.T) {
	require.True(t, value.Undefined.IsUndefined())
	require.False(t, value.Null.IsUndefined())
	require.False(t, value.Equal(value.Undefined, value.Null))
}

func TestSplitPath(t *testing.T) {
	segs := value.SplitPath("items[0].price")
	require.Len(t, segs, 3)
	require.Equal(t, "items", segs[0].Key)
	require.False(t, segs[1].IsKey)
	require.Equal(t, 0, segs[1].Index)
	require.True(t, segs[2].IsKey)
	require.Equal(t, "price", segs[2].Key)
}

func TestResolveLenientReturnsNull(t *testing.T) {
	obj := value.NewObject()
	ctx := value.NewContext(value.Obj(obj), value.Lenient)
	v, ok, err := ctx.Resolve(value.SplitPath("missing.field"))
	require.NoError(t, err)
	require.False(t, ok)
	require.True(t, v.IsNull())
}

func TestResolveStrictErrors(t *testing.T) {
	obj := value.NewObject()
	ctx := value.NewContext(value.Obj(obj), value.Strict)
	_, _, err := ctx.Resolve(value.SplitPath("missing.field"))
	require.Error(t, err)
}

func TestExistsNeverErrors(t *testing.T) {
	obj := value.NewObject()
	obj.Set("user", value.Obj(value.NewObject()))
	ctx := value.NewContext(value.Obj(obj), value.Strict)
	require.False(t, ctx.Exists(value.SplitPath("user.vip")))
}
