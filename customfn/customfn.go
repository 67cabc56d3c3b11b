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

// Package customfn extends the registry with host-defined pure
// functions written in JS or TypeScript, sandboxed through goja the
// same way the teacher runs its policy scripts: transpile with esbuild
// when the source is TypeScript, compile once to a goja.Program, then
// run that program fresh on every call so one host-registered function
// can never leak state between evaluations or across goroutines.
package customfn

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
)

// Lang selects how Source.Code is parsed before it reaches goja.
type Lang uint8

const (
	LangJS Lang = iota
	LangTS
)

// Source is one host-defined function: a single JS/TS function
// expression (e.g. "function(a, b) { return a + b; }"), the arity the
// registry should enforce before calling it, and whether the optimizer
// may treat it as pure.
type Source struct {
	Name  string
	Code  string
	Lang  Lang
	Arity registry.Arity
	Pure  bool
}

// Compile transpiles (if needed) and compiles src.Code, returning a
// registry.Entry that can be passed straight to Registry.Register.
func Compile(src Source) (*registry.Entry, error) {
	code := src.Code
	if src.Lang == LangTS {
		out, err := transpile(code)
		if err != nil {
			return nil, fmt.Errorf("customfn %q: transpile: %w", src.Name, err)
		}
		code = out
	}

	program, err := goja.Compile(src.Name, "("+code+")", true)
	if err != nil {
		return nil, fmt.Errorf("customfn %q: compile: %w", src.Name, err)
	}

	fn := &compiledFn{name: src.Name, program: program}
	return &registry.Entry{
		Name:     src.Name,
		Arity:    src.Arity,
		Pure:     src.Pure,
		Dispatch: fn.dispatch,
	}, nil
}

func transpile(source string) (string, error) {
	res := api.Transform(source, api.TransformOptions{
		Loader:         api.LoaderTS,
		Target:         api.ES2019,
		Format:         api.FormatCommonJS,
		Platform:       api.PlatformDefault,
		LegalComments:  api.LegalCommentsNone,
		SourcesContent: api.SourcesContentExclude,
		Charset:        api.CharsetUTF8,
	})
	if len(res.Errors) > 0 {
		return "", fmt.Errorf("esbuild: %s", res.Errors[0].Text)
	}
	return string(res.Code), nil
}

// compiledFn holds one host function's compiled program. Dispatch runs
// it against a throwaway goja.Runtime so concurrent evaluations never
// share interpreter state; a pure function is cheap enough per call that
// this outweighs the complexity of pooling and resetting runtimes.
type compiledFn struct {
	name    string
	program *goja.Program
}

func (c *compiledFn) dispatch(args []value.Value) (value.Value, error) {
	rt := goja.New()
	fnVal, err := rt.RunProgram(c.program)
	if err != nil {
		return value.Null, fmt.Errorf("customfn %q: %w", c.name, err)
	}
	callable, ok := goja.AssertFunction(fnVal)
	if !ok {
		return value.Null, fmt.Errorf("customfn %q: source does not evaluate to a function", c.name)
	}

	jsArgs := make([]goja.Value, len(args))
	for i, a := range args {
		jsArgs[i] = rt.ToValue(value.Native(a))
	}

	result, err := callable(goja.Undefined(), jsArgs...)
	if err != nil {
		return value.Null, fmt.Errorf("customfn %q: %w", c.name, err)
	}
	return value.FromNative(result.Export()), nil
}
