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

// Package xerr holds the error taxonomy shared by every stage of the
// expression and rule execution pipeline: ParseError, CompileError,
// EvalError, ExecError and JitError. Each kind is a concrete type with a
// stable tag so a host can `errors.As` onto it without re-parsing message
// strings.
package xerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseErrorKind tags why the parser gave up.
type ParseErrorKind string

const (
	UnexpectedToken     ParseErrorKind = "UnexpectedToken"
	UnterminatedString  ParseErrorKind = "UnterminatedString"
	InvalidEscape       ParseErrorKind = "InvalidEscape"
	UnknownFunction     ParseErrorKind = "UnknownFunction"
	ExpectedFieldPath   ParseErrorKind = "ExpectedFieldPath"
)

// ParseError carries a byte offset, a kind and a human message.
type ParseError struct {
	Kind   ParseErrorKind
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at byte %d: %s (%s)", e.Offset, e.Msg, e.Kind)
}

func ErrParse(kind ParseErrorKind, offset int, format string, args ...any) error {
	return &ParseError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// CompileErrorKind tags a structural ruleset defect.
type CompileErrorKind string

const (
	UnknownStepRef       CompileErrorKind = "UnknownStepRef"
	UnknownFunctionRef   CompileErrorKind = "UnknownFunctionRef"
	DuplicateStepID      CompileErrorKind = "DuplicateStepID"
	SchemaIncompatible   CompileErrorKind = "SchemaIncompatible"
	StackDepthExceeded   CompileErrorKind = "StackDepthExceeded"
	InvalidExpression    CompileErrorKind = "InvalidExpression"
)

type CompileError struct {
	Kind CompileErrorKind
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: %s (%s)", e.Msg, e.Kind)
}

func ErrCompile(kind CompileErrorKind, format string, args ...any) error {
	return &CompileError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// EvalErrorKind tags a runtime expression failure.
type EvalErrorKind string

const (
	TypeMismatch      EvalErrorKind = "TypeMismatch"
	DivByZero         EvalErrorKind = "DivByZero"
	Overflow          EvalErrorKind = "Overflow"
	DepthExceeded     EvalErrorKind = "DepthExceeded"
	MissingFieldValue EvalErrorKind = "MissingField"
	NativeCallFailed  EvalErrorKind = "NativeCallFailed"
	UnknownFunctionEv EvalErrorKind = "UnknownFunction"
)

type EvalError struct {
	Kind EvalErrorKind
	Msg  string
	// InstructionIndex is set by the bytecode VM when it unwinds.
	InstructionIndex int
}

func (e *EvalError) Error() string {
	if e.InstructionIndex > 0 {
		return fmt.Sprintf("eval error at ip=%d: %s (%s)", e.InstructionIndex, e.Msg, e.Kind)
	}
	return fmt.Sprintf("eval error: %s (%s)", e.Msg, e.Kind)
}

func ErrEval(kind EvalErrorKind, format string, args ...any) error {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func ErrEvalAt(kind EvalErrorKind, ip int, format string, args ...any) error {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...), InstructionIndex: ip}
}

// ExecErrorKind tags a step-graph runtime failure.
type ExecErrorKind string

const (
	UnknownStep          ExecErrorKind = "UnknownStep"
	ExecDepthExceeded    ExecErrorKind = "DepthExceeded"
	DeadlineExceeded     ExecErrorKind = "DeadlineExceeded"
	StrictEffectViolated ExecErrorKind = "StrictEffectViolation"
)

type ExecError struct {
	Kind   ExecErrorKind
	StepID string
	Msg    string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("exec error at step %q: %s (%s)", e.StepID, e.Msg, e.Kind)
}

func ErrExec(kind ExecErrorKind, stepID string, format string, args ...any) error {
	return &ExecError{Kind: kind, StepID: stepID, Msg: fmt.Sprintf(format, args...)}
}

// JitErrorKind tags why native compilation could not proceed.
type JitErrorKind string

const (
	UnsupportedTarget      JitErrorKind = "UnsupportedTarget"
	IncompatibleExpression JitErrorKind = "IncompatibleExpression"
	CodegenFailed          JitErrorKind = "CodegenFailed"
)

type JitError struct {
	Kind   JitErrorKind
	Reason string
}

func (e *JitError) Error() string {
	return fmt.Sprintf("jit error: %s (%s)", e.Reason, e.Kind)
}

func ErrJit(kind JitErrorKind, format string, args ...any) error {
	return &JitError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Wrap is a thin alias kept for call sites that want stack-ish context
// without committing to a specific error kind.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}
