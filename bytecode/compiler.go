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

// Package bytecode compiles an ast.Expr into a linear instruction vector
// with deduplicated constant/field/function pools, and executes it on a
// fixed-size preallocated value stack. It is the middle of the three
// execution backends: slower to start than the interpreter (there is a
// compile step) but cheaper to run many times, since the tree is walked
// exactly once regardless of how many times the compiled form is called.
package bytecode

import (
	"github.com/mitchellh/hashstructure/v2"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

// DefaultStackCeiling is the maximum stack depth a compiled expression may
// reach before the compiler rejects it outright.
const DefaultStackCeiling = 256

// Compiled is an immutable compiled expression: instructions plus the
// pools they index into. Safe to share by reference and run concurrently
// by many VM instances, since nothing here is mutated after Compile
// returns.
type Compiled struct {
	Instructions []Instruction
	Constants    []value.Value
	Fields       [][]value.Segment
	Vars         []string
	Functions    []string
	MaxStack     int
}

type Compiler struct {
	reg      *registry.Registry
	ceiling  int
	consts   []value.Value
	constIdx map[uint64]int
	fields   [][]value.Segment
	fieldIdx map[uint64]int
	vars     []string
	varIdx   map[string]int
	funcs    []string
	funcIdx  map[string]int
	instr    []Instruction
	stack    int
	maxStack int
}

// Compile compiles e into a Compiled expression using reg to resolve and
// validate function names. reg may be nil for expressions with no calls.
func Compile(e ast.Expr, reg *registry.Registry) (*Compiled, error) {
	c := &Compiler{
		reg:      reg,
		ceiling:  DefaultStackCeiling,
		constIdx: make(map[uint64]int),
		fieldIdx: make(map[uint64]int),
		varIdx:   make(map[string]int),
		funcIdx:  make(map[string]int),
	}
	if err := c.compile(e); err != nil {
		return nil, err
	}
	c.emit(Instruction{Op: OpReturn})
	if c.maxStack > c.ceiling {
		return nil, xerr.ErrCompile(xerr.StackDepthExceeded, "compiled stack depth %d exceeds ceiling %d", c.maxStack, c.ceiling)
	}
	return &Compiled{
		Instructions: c.instr,
		Constants:    c.consts,
		Fields:       c.fields,
		Vars:         c.vars,
		Functions:    c.funcs,
		MaxStack:     c.maxStack,
	}, nil
}

func (c *Compiler) emit(in Instruction) int {
	c.instr = append(c.instr, in)
	return len(c.instr) - 1
}

func (c *Compiler) patchJumpTarget(instrIdx int) {
	c.instr[instrIdx].Index = len(c.instr)
}

func (c *Compiler) push(n int) {
	c.stack += n
	if c.stack > c.maxStack {
		c.maxStack = c.stack
	}
}

func (c *Compiler) pop(n int) { c.stack -= n }

func hashOf(v any) uint64 {
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		// Hash only fails on unsupported field types (channels, funcs); none
		// of which ever appear in a value.Segment or value.Native result.
		panic(xerr.Wrap(err, "bytecode: unhashable pool entry"))
	}
	return h
}

func (c *Compiler) constIndexOf(v value.Value) int {
	key := hashOf(value.Native(v))
	if idx, ok := c.constIdx[key]; ok {
		return idx
	}
	idx := len(c.consts)
	c.consts = append(c.consts, v)
	c.constIdx[key] = idx
	return idx
}

func (c *Compiler) fieldIndexOf(path []value.Segment) int {
	key := hashOf(path)
	if idx, ok := c.fieldIdx[key]; ok {
		return idx
	}
	idx := len(c.fields)
	c.fields = append(c.fields, path)
	c.fieldIdx[key] = idx
	return idx
}

func (c *Compiler) varIndexOf(name string) int {
	if idx, ok := c.varIdx[name]; ok {
		return idx
	}
	idx := len(c.vars)
	c.vars = append(c.vars, name)
	c.varIdx[name] = idx
	return idx
}

func (c *Compiler) funcIndexOf(name string) int {
	if idx, ok := c.funcIdx[name]; ok {
		return idx
	}
	idx := len(c.funcs)
	c.funcs = append(c.funcs, name)
	c.funcIdx[name] = idx
	return idx
}

func (c *Compiler) compile(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.NullLiteral:
		c.emit(Instruction{Op: OpLoadConst, Index: c.constIndexOf(value.Null)})
		c.push(1)
	case *ast.BoolLiteral:
		c.emit(Instruction{Op: OpLoadConst, Index: c.constIndexOf(value.Bool(n.Value))})
		c.push(1)
	case *ast.IntLiteral:
		c.emit(Instruction{Op: OpLoadConst, Index: c.constIndexOf(value.Int(n.Value))})
		c.push(1)
	case *ast.FloatLiteral:
		c.emit(Instruction{Op: OpLoadConst, Index: c.constIndexOf(value.Float(n.Value))})
		c.push(1)
	case *ast.StringLiteral:
		c.emit(Instruction{Op: OpLoadConst, Index: c.constIndexOf(value.String(n.Value))})
		c.push(1)

	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			if err := c.compile(el); err != nil {
				return err
			}
		}
		c.emit(Instruction{Op: OpMakeArray, Index: len(n.Elements)})
		c.pop(len(n.Elements))
		c.push(1)

	case *ast.ObjectLiteral:
		keys := make([]string, len(n.Entries))
		for i, entry := range n.Entries {
			if err := c.compile(entry.Value); err != nil {
				return err
			}
			keys[i] = entry.Key
		}
		c.emit(Instruction{Op: OpMakeObject, Index: len(n.Entries), Keys: keys})
		c.pop(len(n.Entries))
		c.push(1)

	case *ast.Identifier:
		if name, ok := value.IsVarPath(n.Name); ok {
			c.emit(Instruction{Op: OpLoadVar, Index: c.varIndexOf(name)})
			c.push(1)
			return nil
		}
		return c.compileFieldPath(n)

	case *ast.FieldAccess, *ast.IndexAccess:
		return c.compileFieldPath(n)

	case *ast.UnaryExpr:
		if err := c.compile(n.Operand); err != nil {
			return err
		}
		c.emit(Instruction{Op: OpUnaryOp, Token: string(n.Op)})

	case *ast.BinaryExpr:
		return c.compileBinary(n)

	case *ast.MembershipExpr:
		if err := c.compile(n.Left); err != nil {
			return err
		}
		if err := c.compile(n.Right); err != nil {
			return err
		}
		c.emit(Instruction{Op: OpBinaryOp, Token: string(n.Op)})
		c.pop(1)

	case *ast.ConditionalExpr:
		return c.compileConditional(n)

	case *ast.ExistsExpr:
		path, ok := ast.FieldPath(n.Path)
		if !ok {
			return xerr.ErrCompile(xerr.InvalidExpression, "exists() argument is not a field path: %s", n.Path.String())
		}
		c.emit(Instruction{Op: OpExists, Index: c.fieldIndexOf(path)})
		c.push(1)

	case *ast.CoalesceExpr:
		return c.compileCoalesce(n)

	case *ast.CallExpr:
		return c.compileCall(n)

	default:
		return xerr.ErrCompile(xerr.InvalidExpression, "unsupported node %T", e)
	}
	return nil
}

// compileFieldPath handles Identifier/FieldAccess/IndexAccess chains. Only
// a chain that flattens to a static value.Segment path compiles; a
// dynamic (non-literal) index has no opcode and would fail identically in
// the interpreter, so it is rejected here instead at compile time.
func (c *Compiler) compileFieldPath(e ast.Expr) error {
	path, ok := ast.FieldPath(e)
	if !ok {
		return xerr.ErrCompile(xerr.InvalidExpression, "not a statically addressable field path: %s", e.String())
	}
	c.emit(Instruction{Op: OpLoadField, Index: c.fieldIndexOf(path)})
	c.push(1)
	return nil
}

// compileBinary emits the DUP/JumpIfFalse/JumpIfTrue/Pop short-circuit
// shape for && and ||, and a plain push-push-op sequence for everything
// else.
func (c *Compiler) compileBinary(n *ast.BinaryExpr) error {
	if n.Op != ast.OpAnd && n.Op != ast.OpOr {
		if err := c.compile(n.Left); err != nil {
			return err
		}
		if err := c.compile(n.Right); err != nil {
			return err
		}
		c.emit(Instruction{Op: OpBinaryOp, Token: string(n.Op)})
		c.pop(1)
		return nil
	}

	if err := c.compile(n.Left); err != nil {
		return err
	}
	c.emit(Instruction{Op: OpDup})
	c.push(1)

	var jump int
	if n.Op == ast.OpAnd {
		jump = c.emit(Instruction{Op: OpJumpIfFalse})
	} else {
		jump = c.emit(Instruction{Op: OpJumpIfTrue})
	}
	c.pop(1)

	c.emit(Instruction{Op: OpPop})
	c.pop(1)

	if err := c.compile(n.Right); err != nil {
		return err
	}
	c.patchJumpTarget(jump)
	// Whichever side the jump leaves on the stack (the duplicated left, or
	// the freshly computed right) must still come out as a Bool, matching
	// interp.evalBinary's Bool(...Truthy()) result on every path. Two Nots
	// coerce either operand's truthiness into a proper Bool without
	// needing a dedicated cast opcode.
	c.emit(Instruction{Op: OpUnaryOp, Token: string(ast.OpNot)})
	c.emit(Instruction{Op: OpUnaryOp, Token: string(ast.OpNot)})
	return nil
}

func (c *Compiler) compileConditional(n *ast.ConditionalExpr) error {
	if err := c.compile(n.Cond); err != nil {
		return err
	}
	jumpFalse := c.emit(Instruction{Op: OpJumpIfFalse})
	c.pop(1)

	baseline := c.stack
	if err := c.compile(n.Then); err != nil {
		return err
	}
	afterThen := c.stack
	jumpEnd := c.emit(Instruction{Op: OpJump})

	c.patchJumpTarget(jumpFalse)
	c.stack = baseline
	if err := c.compile(n.Else); err != nil {
		return err
	}
	if c.stack != afterThen {
		return xerr.ErrCompile(xerr.InvalidExpression, "ternary branches leave mismatched stack depth")
	}
	c.patchJumpTarget(jumpEnd)
	return nil
}

// compileCoalesce lowers to a chain of dup/is-null/jump tests: each
// argument but the last is pushed, tested with OpIsNull (true for both
// Null and the internal Undefined sentinel, matching interp.go's
// CoalesceExpr case and fnIsNull), and either kept (jumping past every
// remaining argument, since it's the result) or popped so the next
// argument is tried. The last argument is unconditional: it is the value
// (or propagated error) returned when nothing earlier was non-null.
func (c *Compiler) compileCoalesce(n *ast.CoalesceExpr) error {
	var ends []int
	baseline := c.stack
	for i, arg := range n.Args {
		if err := c.compile(arg); err != nil {
			return err
		}
		if i == len(n.Args)-1 {
			break
		}
		c.emit(Instruction{Op: OpDup})
		c.push(1)
		c.emit(Instruction{Op: OpIsNull})
		ends = append(ends, c.emit(Instruction{Op: OpJumpIfFalse}))
		c.pop(1)
		c.emit(Instruction{Op: OpPop})
		c.stack = baseline
	}
	for _, e := range ends {
		c.patchJumpTarget(e)
	}
	return nil
}

func (c *Compiler) compileCall(n *ast.CallExpr) error {
	if c.reg != nil {
		if _, ok := c.reg.Lookup(n.Callee); !ok {
			return xerr.ErrCompile(xerr.UnknownFunctionRef, "unknown function %q", n.Callee)
		}
	}
	for _, a := range n.Args {
		if err := c.compile(a); err != nil {
			return err
		}
	}
	c.emit(Instruction{Op: OpCall, Index: c.funcIndexOf(n.Callee), Argc: len(n.Args)})
	c.pop(len(n.Args))
	c.push(1)
	return nil
}
