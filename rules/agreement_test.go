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

package rules_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/bytecode"
	"github.com/rulekit/rulekit/interp"
	"github.com/rulekit/rulekit/jit"
	"github.com/rulekit/rulekit/optimizer"
	"github.com/rulekit/rulekit/parser"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/schema"
	"github.com/rulekit/rulekit/value"
)

// account is the fixed-layout record the JIT-eligible half of this
// table is compiled and called against.
type account struct {
	Age     int64
	Balance float64
	Vip     bool
}

// agreementCase is one row of the backend-agreement oracle from spec.md
// §8: interpret(E,C) == vm_execute(compile(E),C), and for JIT-eligible
// E == jit_call(jit(E,S), C_as_record) too.
type agreementCase struct {
	name       string
	src        string
	input      value.Value
	jitEligible bool
	rec        account
}

func agreementCases() []agreementCase {
	return []agreementCase{
		{
			name:  "arithmetic",
			src:   "age * 2 + 1",
			input: objInput(map[string]value.Value{"age": value.Int(20)}),
			jitEligible: true,
			rec:   account{Age: 20},
		},
		{
			name:  "comparison-and",
			src:   "age >= 18 && balance >= 100.0 && vip",
			input: objInput(map[string]value.Value{"age": value.Int(21), "balance": value.Float(150), "vip": value.Bool(true)}),
			jitEligible: true,
			rec:   account{Age: 21, Balance: 150, Vip: true},
		},
		{
			name:  "ternary",
			src:   "if vip then balance * 0.9 else balance",
			input: objInput(map[string]value.Value{"balance": value.Float(200), "vip": value.Bool(false)}),
			jitEligible: true,
			rec:   account{Balance: 200, Vip: false},
		},
		{
			name:  "short-circuit-or",
			src:   "vip || balance > 1000.0",
			input: objInput(map[string]value.Value{"balance": value.Float(50), "vip": value.Bool(true)}),
			jitEligible: true,
			rec:   account{Balance: 50, Vip: true},
		},
		{
			name:  "membership-not-jit-eligible",
			src:   `tier in ["gold", "platinum"]`,
			input: objInput(map[string]value.Value{"tier": value.String("gold")}),
			jitEligible: false,
		},
		{
			name:  "string-not-jit-eligible",
			src:   `name == "alice"`,
			input: objInput(map[string]value.Value{"name": value.String("alice")}),
			jitEligible: false,
		},
		{
			// $missing is never set in Context.Vars, so GetVar returns the
			// internal Undefined sentinel rather than Null — coalesce must
			// treat that the same as a null field, not as "present".
			name:  "coalesce-missing-var-not-jit-eligible",
			src:   `coalesce($missing, 5)`,
			input: objInput(map[string]value.Value{}),
			jitEligible: false,
		},
	}
}

func objInput(fields map[string]value.Value) value.Value {
	obj := value.NewObject()
	for k, v := range fields {
		obj.Set(k, v)
	}
	return value.Obj(obj)
}

func accountSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.FromStruct("account", account{})
	require.NoError(t, err)
	return s
}

// TestBackendAgreement is the primary test oracle from spec.md §8: every
// backend an expression can run on must return the same Value.
func TestBackendAgreement(t *testing.T) {
	reg := registry.NewStock()
	opt := optimizer.New(reg)
	s := accountSchema(t)
	arena := jit.NewArena()

	for _, tc := range agreementCases() {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := parser.Parse(tc.src)
			require.NoError(t, err)
			optimized := opt.Optimize(expr)

			it := interp.New(reg)
			want, err := it.Eval(optimized, value.NewContext(tc.input, value.Lenient))
			require.NoError(t, err)

			compiled, err := bytecode.Compile(optimized, reg)
			require.NoError(t, err)
			vm := bytecode.New(reg, 64)
			got, err := vm.Run(compiled, value.NewContext(tc.input, value.Lenient))
			require.NoError(t, err)
			require.True(t, value.Equal(want, got), "vm disagreed with interpreter for %q", tc.src)

			if !tc.jitEligible {
				analysis := schema.Analyze(optimized, s)
				require.False(t, analysis.JITCompatible)
				return
			}

			native, err := jit.Compile(arena, optimized, s)
			require.NoError(t, err)
			jitGot, err := native.Call(s.Fingerprint(), recordPtr(&tc.rec))
			require.NoError(t, err)
			require.True(t, value.Equal(want, jitGot), "jit disagreed with interpreter for %q", tc.src)
		})
	}
}

// TestOptimizerSoundness checks spec.md §8's second oracle:
// interpret(E,C) == interpret(optimize(E),C).
func TestOptimizerSoundness(t *testing.T) {
	reg := registry.NewStock()
	opt := optimizer.New(reg)
	it := interp.New(reg)

	for _, tc := range agreementCases() {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := parser.Parse(tc.src)
			require.NoError(t, err)
			before, err := it.Eval(expr, value.NewContext(tc.input, value.Lenient))
			require.NoError(t, err)
			after, err := it.Eval(opt.Optimize(expr), value.NewContext(tc.input, value.Lenient))
			require.NoError(t, err)
			require.True(t, value.Equal(before, after))
		})
	}
}

func recordPtr(a *account) unsafe.Pointer {
	return unsafe.Pointer(a)
}
