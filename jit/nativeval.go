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

package jit

import "github.com/rulekit/rulekit/value"

// nativeVal is the unboxed scalar every compiled closure passes up its
// call chain: a float64 for every numeric type (narrower integer types are
// widened on load, matching the FFI boundary's "scalar: bool or float64"
// contract) or a bool. Values never leave this shape until the outermost
// Call boxes the final result into a value.Value.
type nativeVal struct {
	f      float64
	b      bool
	isBool bool
}

func numVal(f float64) nativeVal  { return nativeVal{f: f} }
func boolVal(b bool) nativeVal    { return nativeVal{b: b, isBool: true} }

func (n nativeVal) truthy() bool {
	if n.isBool {
		return n.b
	}
	return n.f != 0
}

func (n nativeVal) box() value.Value {
	if n.isBool {
		return value.Bool(n.b)
	}
	return value.Float(n.f)
}
