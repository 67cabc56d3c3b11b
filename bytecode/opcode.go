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

// Opcode is the closed instruction tag set the compiler emits and the VM
// executes. There is no general-purpose indexing instruction: a Get/Index
// production that cannot flatten to a static field path (see
// ast.FieldPath) is rejected at compile time rather than given an opcode,
// since the interpreter can never resolve such a path either.
type Opcode uint8

const (
	OpLoadConst Opcode = iota
	OpLoadField
	OpLoadVar
	OpBinaryOp
	OpUnaryOp
	OpCall
	OpJumpIfFalse
	OpJumpIfTrue
	OpJump
	OpPop
	OpDup
	OpExists
	OpIsNull
	OpMakeArray
	OpMakeObject
	OpReturn
)

func (op Opcode) String() string {
	switch op {
	case OpLoadConst:
		return "LoadConst"
	case OpLoadField:
		return "LoadField"
	case OpLoadVar:
		return "LoadVar"
	case OpBinaryOp:
		return "BinaryOp"
	case OpUnaryOp:
		return "UnaryOp"
	case OpCall:
		return "Call"
	case OpJumpIfFalse:
		return "JumpIfFalse"
	case OpJumpIfTrue:
		return "JumpIfTrue"
	case OpJump:
		return "Jump"
	case OpPop:
		return "Pop"
	case OpDup:
		return "Dup"
	case OpExists:
		return "Exists"
	case OpIsNull:
		return "IsNull"
	case OpMakeArray:
		return "MakeArray"
	case OpMakeObject:
		return "MakeObject"
	case OpReturn:
		return "Return"
	default:
		return "Unknown"
	}
}

// Instruction is one emitted opcode plus whichever operands it needs.
// Not every field is meaningful for every Op:
//
//	LoadConst/LoadField/LoadVar/Exists  Index = pool index
//	BinaryOp/UnaryOp                    Token = operator ("+" .. "not in")
//	Call                                Index = function-pool index, Argc = arg count
//	JumpIfFalse/JumpIfTrue/Jump         Index = absolute target instruction index
//	MakeArray                           Index = element count
//	MakeObject                          Index = entry count, Keys = entry key names in push order
type Instruction struct {
	Op    Opcode
	Index int
	Argc  int
	Token string
	Keys  []string
}
