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

package rules

import (
	"context"
	"strconv"
	"time"

	"github.com/binaek/perch"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/rulekit/rulekit/ast"
	"github.com/rulekit/rulekit/bytecode"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/schema"
)

// compileCacheMB is the memoization cache's capacity. A compiled
// expression is a handful of instructions plus small pools, so this
// comfortably holds every expression of a large ruleset.
const compileCacheMB = 8

// compileCacheTTL is effectively "forever": a CompiledRuleSet's source
// expressions never change after CompileRuleSet returns, so there is
// nothing to invalidate short of the ruleset itself being dropped.
const compileCacheTTL = 24 * time.Hour

// compileCache memoizes the bytecode compile step by expression source,
// schema fingerprint and optimize flag, so an expression source that
// occurs several times in one ruleset is lowered to bytecode once. Each
// CompileRuleSet call builds its own cache, and parsing and optimizing
// run for every expression before the cache is consulted. Grounded
// on the teacher's runtime/executor.go hashstructure+perch memoization
// pattern for its own function-call cache.
type compileCache struct {
	bytecodes *perch.Perch[*bytecode.Compiled]
}

func newCompileCache() *compileCache {
	return &compileCache{bytecodes: perch.New[*bytecode.Compiled](compileCacheMB << 20)}
}

type compileCacheKey struct {
	Source       string
	SchemaHash   uint64
	OptimizeOn   bool
}

func (c *compileCache) compileBytecode(source string, optimized ast.Expr, reg *registry.Registry, s *schema.Schema, optimize bool) (*bytecode.Compiled, error) {
	var schemaHash uint64
	if s != nil {
		schemaHash = s.Fingerprint()
	}
	key := compileCacheKey{Source: source, SchemaHash: schemaHash, OptimizeOn: optimize}
	hash, err := hashstructure.Hash(key, hashstructure.FormatV2, nil)
	if err != nil {
		return bytecode.Compile(optimized, reg)
	}
	hashKey := strconv.FormatUint(hash, 16)
	return c.bytecodes.Get(context.Background(), hashKey, compileCacheTTL, func(context.Context, string) (*bytecode.Compiled, error) {
		return bytecode.Compile(optimized, reg)
	})
}
