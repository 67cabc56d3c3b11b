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

package bytecode

import (
	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/interp"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

// VM is a single evaluation's worth of state around a fixed-size,
// preallocated value stack. Ready -> Running -> (Finished | Faulted): a VM
// is single-use per Run call, but the struct itself is reusable across
// calls (the stack is cleared, not reallocated) so a caller can pool VM
// instances instead of paying an allocation per evaluation.
type VM struct {
	stack []value.Value
	sp    int
	reg   *registry.Registry
}

// New allocates a VM with a stack sized to comfortably hold the deepest
// compiled expression this VM instance will ever be asked to run.
func New(reg *registry.Registry, stackSize int) *VM {
	if stackSize < DefaultStackCeiling {
		stackSize = DefaultStackCeiling
	}
	return &VM{stack: make([]value.Value, stackSize), reg: reg}
}

func (vm *VM) reset() { vm.sp = 0 }

func (vm *VM) push(v value.Value) { vm.stack[vm.sp] = v; vm.sp++ }

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) top() value.Value { return vm.stack[vm.sp-1] }

// Run executes c against ctx to completion. On any runtime error the VM
// unwinds (the stack is reset on the next Run regardless) and returns an
// EvalError carrying the faulting instruction index.
func (vm *VM) Run(c *Compiled, ctx *value.Context) (value.Value, error) {
	vm.reset()
	ip := 0
	for ip < len(c.Instructions) {
		in := c.Instructions[ip]
		switch in.Op {
		case OpReturn:
			return vm.pop(), nil

		case OpLoadConst:
			vm.push(c.Constants[in.Index])

		case OpLoadVar:
			vm.push(ctx.GetVar(c.Vars[in.Index]))

		case OpLoadField:
			v, _, err := ctx.Resolve(c.Fields[in.Index])
			if err != nil {
				return value.Null, xerr.ErrEvalAt(xerr.MissingFieldValue, ip, "%v", err)
			}
			vm.push(v)

		case OpExists:
			vm.push(value.Bool(ctx.Exists(c.Fields[in.Index])))

		case OpIsNull:
			v := vm.pop()
			vm.push(value.Bool(v.IsNull() || v.IsUndefined()))

		case OpDup:
			vm.push(vm.top())

		case OpPop:
			vm.pop()

		case OpUnaryOp:
			v, err := interp.EvalUnaryOp(ast.UnaryOp(in.Token), vm.pop())
			if err != nil {
				return value.Null, xerr.ErrEvalAt(xerr.TypeMismatch, ip, "%v", err)
			}
			vm.push(v)

		case OpBinaryOp:
			right := vm.pop()
			left := vm.pop()
			v, err := vm.binaryOp(in.Token, left, right)
			if err != nil {
				return value.Null, xerr.ErrEvalAt(xerr.TypeMismatch, ip, "%v", err)
			}
			vm.push(v)

		case OpJumpIfFalse:
			if !vm.pop().Truthy() {
				ip = in.Index
				continue
			}

		case OpJumpIfTrue:
			if vm.pop().Truthy() {
				ip = in.Index
				continue
			}

		case OpJump:
			ip = in.Index
			continue

		case OpMakeArray:
			items := make([]value.Value, in.Index)
			for i := in.Index - 1; i >= 0; i-- {
				items[i] = vm.pop()
			}
			vm.push(value.Array(items))

		case OpMakeObject:
			obj := value.NewObject()
			vals := make([]value.Value, in.Index)
			for i := in.Index - 1; i >= 0; i-- {
				vals[i] = vm.pop()
			}
			for i, k := range in.Keys {
				obj.Set(k, vals[i])
			}
			vm.push(value.Obj(obj))

		case OpCall:
			args := make([]value.Value, in.Argc)
			for i := in.Argc - 1; i >= 0; i-- {
				args[i] = vm.pop()
			}
			v, err := vm.reg.Call(c.Functions[in.Index], args)
			if err != nil {
				return value.Null, xerr.ErrEvalAt(xerr.NativeCallFailed, ip, "%v", err)
			}
			vm.push(v)

		default:
			return value.Null, xerr.ErrEvalAt(xerr.TypeMismatch, ip, "unknown opcode %s", in.Op)
		}
		ip++
	}
	return value.Null, xerr.ErrEvalAt(xerr.TypeMismatch, ip, "instruction stream ended without Return")
}

// binaryOp dispatches a generic BinaryOp instruction either to the shared
// scalar semantics in interp or, for "in"/"not in", to membership — the
// compiler lowers both shapes onto the single OpBinaryOp tag since both
// consume two stack values and produce one.
func (vm *VM) binaryOp(token string, left, right value.Value) (value.Value, error) {
	switch ast.MembershipOp(token) {
	case ast.MembershipIn, ast.MembershipNotIn:
		return interp.EvalMembershipOp(ast.MembershipOp(token), left, right)
	}
	return interp.EvalBinaryOp(ast.BinaryOp(token), left, right)
}
