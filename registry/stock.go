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

package registry

import (
	"math"
	"strings"

	"github.com/binaek/gocoll/collection"

	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

// registerStock installs the built-in function table. Every entry here
// is pure: all of them are deterministic, side-effect-free functions of
// their arguments, so the optimizer may constant-fold any call whose
// arguments are all literals.
func registerStock(r *Registry) {
	r.Register(&Entry{Name: "len", Arity: Fixed(1), Pure: true, Hot: HotLen, Dispatch: fnLen})
	r.Register(&Entry{Name: "sum", Arity: Fixed(1), Pure: true, Hot: HotSum, Dispatch: fnSum})
	r.Register(&Entry{Name: "avg", Arity: Fixed(1), Pure: true, Dispatch: fnAvg})
	r.Register(&Entry{Name: "min", Arity: Fixed(1), Pure: true, Hot: HotMin, Dispatch: fnMin})
	r.Register(&Entry{Name: "max", Arity: Fixed(1), Pure: true, Hot: HotMax, Dispatch: fnMax})
	r.Register(&Entry{Name: "abs", Arity: Fixed(1), Pure: true, Hot: HotAbs, Dispatch: fnAbs})
	r.Register(&Entry{Name: "round", Arity: Fixed(1), Pure: true, Dispatch: numeric1(math.Round)})
	r.Register(&Entry{Name: "floor", Arity: Fixed(1), Pure: true, Dispatch: numeric1(math.Floor)})
	r.Register(&Entry{Name: "ceil", Arity: Fixed(1), Pure: true, Dispatch: numeric1(math.Ceil)})
	r.Register(&Entry{Name: "upper", Arity: Fixed(1), Pure: true, Dispatch: stringFn(strings.ToUpper)})
	r.Register(&Entry{Name: "lower", Arity: Fixed(1), Pure: true, Dispatch: stringFn(strings.ToLower)})
	r.Register(&Entry{Name: "trim", Arity: Fixed(1), Pure: true, Dispatch: stringFn(strings.TrimSpace)})
	r.Register(&Entry{Name: "contains", Arity: Fixed(2), Pure: true, Dispatch: stringPred(strings.Contains)})
	r.Register(&Entry{Name: "starts_with", Arity: Fixed(2), Pure: true, Dispatch: stringPred(strings.HasPrefix)})
	r.Register(&Entry{Name: "ends_with", Arity: Fixed(2), Pure: true, Dispatch: stringPred(strings.HasSuffix)})
	r.Register(&Entry{Name: "is_null", Arity: Fixed(1), Pure: true, Hot: HotIsNull, Dispatch: fnIsNull})
}

func fnLen(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.KindString:
		return value.Int(int64(len([]rune(v.Str())))), nil
	case value.KindArray:
		return value.Int(int64(len(v.Items()))), nil
	case value.KindObject:
		return value.Int(int64(len(v.Object().Keys()))), nil
	case value.KindNull, value.KindUndefined:
		return value.Int(0), nil
	default:
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "len() on %s", v.Kind())
	}
}

// nonNullItems drops Null/Undefined elements before a reduction gets at
// them: spec.md says array-reducing functions skip nulls rather than
// treating a missing value as 0.
func nonNullItems(v value.Value) []value.Value {
	items := v.Items()
	out := make([]value.Value, 0, len(items))
	for _, it := range items {
		if it.IsNull() || it.IsUndefined() {
			continue
		}
		out = append(out, it)
	}
	return out
}

// numericElements converts an array Value into a []float64 via
// gocoll/collection.Map, the same collection-transform idiom used
// elsewhere in the stack for slice-to-slice conversions. Null/Undefined
// elements are skipped rather than coerced to 0.
func numericElements(v value.Value) ([]float64, error) {
	if v.Kind() != value.KindArray {
		return nil, xerr.ErrEval(xerr.TypeMismatch, "expected array, got %s", v.Kind())
	}
	items := nonNullItems(v)
	mapped := collection.Map(collection.From(items...), func(it value.Value) float64 {
		return it.Float()
	})
	return mapped.Elements(), nil
}

func fnSum(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "expected array, got %s", args[0].Kind())
	}
	items := nonNullItems(args[0])
	var total float64
	allInt := true
	for _, it := range items {
		if it.Kind() != value.KindInt {
			allInt = false
		}
		total += it.Float()
	}
	if allInt {
		return value.Int(int64(total)), nil
	}
	return value.Float(total), nil
}

func fnAvg(args []value.Value) (value.Value, error) {
	nums, err := numericElements(args[0])
	if err != nil {
		return value.Null, err
	}
	if len(nums) == 0 {
		return value.Int(0), nil
	}
	var total float64
	for _, n := range nums {
		total += n
	}
	return value.Float(total / float64(len(nums))), nil
}

func fnMin(args []value.Value) (value.Value, error) {
	return reduceExtreme(args[0], func(a, b float64) bool { return a < b })
}

func fnMax(args []value.Value) (value.Value, error) {
	return reduceExtreme(args[0], func(a, b float64) bool { return a > b })
}

func reduceExtreme(v value.Value, better func(a, b float64) bool) (value.Value, error) {
	if v.Kind() != value.KindArray {
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "expected array, got %s", v.Kind())
	}
	items := nonNullItems(v)
	if len(items) == 0 {
		return value.Null, nil
	}
	best := items[0]
	bestF := best.Float()
	allInt := best.Kind() == value.KindInt
	for _, it := range items[1:] {
		f := it.Float()
		if it.Kind() != value.KindInt {
			allInt = false
		}
		if better(f, bestF) {
			best, bestF = it, f
		}
	}
	if allInt {
		return value.Int(int64(bestF)), nil
	}
	return value.Float(bestF), nil
}

func fnAbs(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.KindInt:
		n := v.Int()
		if n < 0 {
			n = -n
		}
		return value.Int(n), nil
	case value.KindFloat:
		return value.Float(math.Abs(v.Float())), nil
	default:
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "abs() on %s", v.Kind())
	}
}

func numeric1(fn func(float64) float64) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		v := args[0]
		if v.Kind() != value.KindInt && v.Kind() != value.KindFloat {
			return value.Null, xerr.ErrEval(xerr.TypeMismatch, "expected number, got %s", v.Kind())
		}
		return value.Float(fn(v.Float())), nil
	}
}

func stringFn(fn func(string) string) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		v := args[0]
		if v.Kind() != value.KindString {
			return value.Null, xerr.ErrEval(xerr.TypeMismatch, "expected string, got %s", v.Kind())
		}
		return value.String(fn(v.Str())), nil
	}
}

func stringPred(fn func(s, substr string) bool) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		a, b := args[0], args[1]
		if a.Kind() != value.KindString || b.Kind() != value.KindString {
			return value.Null, xerr.ErrEval(xerr.TypeMismatch, "expected string arguments")
		}
		return value.Bool(fn(a.Str(), b.Str())), nil
	}
}

func fnIsNull(args []value.Value) (value.Value, error) {
	v := args[0]
	return value.Bool(v.IsNull() || v.IsUndefined()), nil
}
