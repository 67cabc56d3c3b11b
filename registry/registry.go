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

// Package registry is the function table shared by every execution
// backend: a name resolves to an arity contract, a purity flag the
// optimizer trusts for constant folding, and a dispatch closure. A
// handful of hot names additionally carry an inline tag the bytecode VM
// and the closure-compiling JIT use to skip the generic dispatch path.
package registry

import (
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

// ArityKind distinguishes the three contract shapes a stock or
// host-registered function can declare.
type ArityKind uint8

const (
	ArityFixed ArityKind = iota
	ArityRange
	ArityVariadic
)

// Arity describes how many arguments an entry accepts.
type Arity struct {
	Kind ArityKind
	Min  int
	Max  int // only meaningful for ArityRange; ArityFixed uses Min == Max
}

func Fixed(n int) Arity        { return Arity{Kind: ArityFixed, Min: n, Max: n} }
func Range(min, max int) Arity { return Arity{Kind: ArityRange, Min: min, Max: max} }
func Variadic(min int) Arity   { return Arity{Kind: ArityVariadic, Min: min} }

func (a Arity) Accepts(n int) bool {
	switch a.Kind {
	case ArityFixed:
		return n == a.Min
	case ArityRange:
		return n >= a.Min && n <= a.Max
	default: // ArityVariadic
		return n >= a.Min
	}
}

// HotPath tags a stock function the bytecode VM and JIT may inline
// instead of going through Dispatch: len, sum, max, min, abs and
// is_null are common enough on hot paths to special-case.
type HotPath string

const (
	NotHot       HotPath = ""
	HotLen       HotPath = "len"
	HotSum       HotPath = "sum"
	HotMax       HotPath = "max"
	HotMin       HotPath = "min"
	HotAbs       HotPath = "abs"
	HotIsNull    HotPath = "is_null"
)

// Entry is one registered function.
type Entry struct {
	Name     string
	Arity    Arity
	Pure     bool
	Hot      HotPath
	Dispatch func(args []value.Value) (value.Value, error)
}

// Registry is a read-mostly function table. A CompiledRuleSet holds a
// reference to the Registry it was compiled against (for function-pool
// indices); registering new entries after compilation does not retroactively
// change already-compiled function indices.
type Registry struct {
	entries map[string]*Entry
	order   []string
}

func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// NewStock returns a Registry pre-populated with the built-in function
// table.
func NewStock() *Registry {
	r := New()
	registerStock(r)
	return r
}

func (r *Registry) Register(e *Entry) {
	if _, exists := r.entries[e.Name]; !exists {
		r.order = append(r.order, e.Name)
	}
	r.entries[e.Name] = e
}

func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns registered function names in registration order, used to
// build the function pool deterministically at compile time.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Call resolves name and invokes it, checking arity first.
func (r *Registry) Call(name string, args []value.Value) (value.Value, error) {
	e, ok := r.entries[name]
	if !ok {
		return value.Null, xerr.ErrEval(xerr.UnknownFunctionEv, "unknown function %q", name)
	}
	if !e.Arity.Accepts(len(args)) {
		return value.Null, xerr.ErrEval(xerr.TypeMismatch, "function %q called with %d arguments", name, len(args))
	}
	v, err := e.Dispatch(args)
	if err != nil {
		return value.Null, xerr.ErrEval(xerr.NativeCallFailed, "%s: %v", name, err)
	}
	return v, nil
}

// IsPure reports whether name is declared pure; unknown names are treated
// as impure so the optimizer never folds a call it cannot resolve.
func (r *Registry) IsPure(name string) bool {
	e, ok := r.entries[name]
	return ok && e.Pure
}
