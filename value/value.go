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

// Package value holds the tagged dynamic value type shared by every
// backend (interpreter, bytecode VM, JIT) plus the path-addressed record
// Context that expressions are evaluated against. It is a closed tagged
// union rather than bare `any`, so every backend can switch on Kind
// instead of doing runtime type assertions.
package value

import "fmt"

// Kind tags which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
	// KindUndefined is never constructed by users; it is the sentinel
	// that distinguishes "field absent" from "field present and Null".
	KindUndefined
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Value is the tagged dynamic value every backend computes with.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

// Object is an insertion-order-preserving string->Value map.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Keys() []string { return o.keys }

func (o *Object) Len() int { return len(o.keys) }

// Undefined is the frozen sentinel for "field absent". It is never
// returned from a public constructor and is only observable via
// IsUndefined, exists(), and the field-missing policy.
var Undefined = Value{kind: KindUndefined}

var Null = Value{kind: KindNull}

func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func String(s string) Value  { return Value{kind: KindString, s: s} }
func Array(a []Value) Value  { return Value{kind: KindArray, arr: a} }
func Obj(o *Object) Value    { return Value{kind: KindObject, obj: o} }

func (v Value) Kind() Kind        { return v.kind }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsBool() bool      { return v.kind == KindBool }
func (v Value) IsInt() bool       { return v.kind == KindInt }
func (v Value) IsFloat() bool     { return v.kind == KindFloat }
func (v Value) IsNumeric() bool   { return v.kind == KindInt || v.kind == KindFloat }
func (v Value) IsString() bool    { return v.kind == KindString }
func (v Value) IsArray() bool     { return v.kind == KindArray }
func (v Value) IsObject() bool    { return v.kind == KindObject }

func (v Value) Bool() bool        { return v.b }
func (v Value) Int() int64        { return v.i }
func (v Value) Str() string       { return v.s }
func (v Value) Items() []Value    { return v.arr }
func (v Value) Object() *Object   { return v.obj }

// Float returns the numeric value as float64, promoting Int if needed.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Truthy implements §3's truthiness table: Null->false, Bool->self,
// numbers->(!=0), String->(non-empty), Array/Object->(non-empty).
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull, KindUndefined:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return v.obj != nil && v.obj.Len() > 0
	default:
		return false
	}
}

// Equal is structural equality with lossless Int<->Float coercion.
func Equal(a, b Value) bool {
	if a.kind == KindUndefined || b.kind == KindUndefined {
		return a.kind == b.kind
	}
	switch {
	case a.IsNumeric() && b.IsNumeric():
		if a.kind == KindInt && b.kind == KindInt {
			return a.i == b.i
		}
		return a.Float() == b.Float()
	case a.kind != b.kind:
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, k := range a.obj.Keys() {
			av, _ := a.obj.Get(k)
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindArray:
		return fmt.Sprintf("%v", v.arr)
	case KindObject:
		if v.obj == nil {
			return "{}"
		}
		return fmt.Sprintf("%v", v.obj.values)
	}
	return "?"
}

// Native unwraps a Value into a plain Go value (nil/bool/int64/float64/
// string/[]any/map[string]any), for interop with hosts, Outcome's JSON
// rendering and the JS function bridge.
func Native(v Value) any {
	switch v.kind {
	case KindNull, KindUndefined:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, it := range v.arr {
			out[i] = Native(it)
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, k := range v.obj.Keys() {
			vv, _ := v.obj.Get(k)
			out[k] = Native(vv)
		}
		return out
	}
	return nil
}

// FromNative boxes a plain Go value (as produced by encoding/json.Unmarshal
// into `any`, or by a host record) into a Value.
func FromNative(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		// json.Unmarshal always produces float64, so every JSON number,
		// integral or not, becomes a Float here.
		return Float(t)
	case string:
		return String(t)
	case []any:
		arr := make([]Value, len(t))
		for i, it := range t {
			arr[i] = FromNative(it)
		}
		return Array(arr)
	case map[string]any:
		o := NewObject()
		for k, vv := range t {
			o.Set(k, FromNative(vv))
		}
		return Obj(o)
	default:
		return Null
	}
}
