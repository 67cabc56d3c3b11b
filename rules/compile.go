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
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/rulekit/rulekit/bytecode"
	"github.com/rulekit/rulekit/constants"
	"github.com/rulekit/rulekit/dag"
	"github.com/rulekit/rulekit/jit"
	"github.com/rulekit/rulekit/optimizer"
	"github.com/rulekit/rulekit/parser"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

const vmPoolSize = 64

// CompileRuleSet parses, optimizes and compiles every expression in
// source, checks the graph's load-time invariants, and returns an
// immutable CompiledRuleSet ready for concurrent Execute calls. It never
// runs the Go toolchain's equivalent for rules: nothing here executes a
// step, it only builds the structures Execute will walk.
func CompileRuleSet(source RuleSetSource, opts CompileOptions) (*CompiledRuleSet, error) {
	cfg, err := buildConfig(source.Config, opts)
	if err != nil {
		return nil, err
	}

	reg := registry.NewStock()
	opt := optimizer.New(reg)
	cache := newCompileCache()

	var arena *jit.Arena
	if opts.EnableJIT && opts.Schema != nil {
		arena = jit.NewArena()
	}

	b := &builder{
		cfg:     cfg,
		opts:    opts,
		reg:     reg,
		opt:     opt,
		cache:   cache,
		arena:   arena,
		warnings: nil,
	}

	steps := make(map[StepID]*Step, len(source.Steps))
	for id, src := range source.Steps {
		if src.ID != "" && src.ID != id {
			return nil, xerr.ErrCompile(xerr.DuplicateStepID, "step key %q does not match embedded id %q", id, src.ID)
		}
		step, err := b.buildStep(StepID(id), src)
		if err != nil {
			return nil, err
		}
		steps[StepID(id)] = step
	}

	if _, ok := steps[cfg.EntryStep]; !ok {
		return nil, xerr.ErrCompile(xerr.UnknownStepRef, "entry step %q not found", cfg.EntryStep)
	}

	graph := dag.New[StepID]()
	for id := range steps {
		graph.AddNode(id)
	}
	for id, step := range steps {
		for _, next := range stepTransitions(step) {
			if _, ok := steps[next]; !ok {
				return nil, xerr.ErrCompile(xerr.UnknownStepRef, "step %q references unknown step %q", id, next)
			}
			if err := graph.AddEdge(id, next); err != nil {
				return nil, xerr.ErrCompile(xerr.InvalidExpression, "step %q: %v", id, err)
			}
		}
	}

	rs := &CompiledRuleSet{
		Config:   cfg,
		Steps:    steps,
		Registry: reg,
		Schema:   opts.Schema,
		Arena:    arena,
		graph:    graph,
		cache:    cache,
		Warnings: b.warnings,
	}

	pool, err := bytecode.NewPool(reg, constants.DefaultMaxStackDepth, vmPoolSize)
	if err != nil {
		return nil, xerr.Wrap(err, "building vm pool")
	}
	rs.vmPool = pool

	if cycle := graph.DetectFirstCycle(); cycle != nil {
		rs.Warnings = append(rs.Warnings, fmt.Sprintf("step graph contains a cycle: %v (bounded by max_depth)", cycle))
	}
	if !hasReachableTerminal(steps, graph.Reachable(cfg.EntryStep)) {
		rs.Warnings = append(rs.Warnings, "no terminal step is reachable from entry_step")
	}

	return rs, nil
}

func hasReachableTerminal(steps map[StepID]*Step, reachable []StepID) bool {
	for _, id := range reachable {
		if step, ok := steps[id]; ok && step.Kind == StepTerminal {
			return true
		}
	}
	return false
}

// stepTransitions lists the step ids a step can transition to, used to
// build the reachability graph.
func stepTransitions(s *Step) []StepID {
	switch s.Kind {
	case StepDecision:
		next := make([]StepID, 0, len(s.Decision.Branches)+1)
		for _, br := range s.Decision.Branches {
			next = append(next, br.Next)
		}
		if s.Decision.DefaultNext != "" {
			next = append(next, s.Decision.DefaultNext)
		}
		return next
	case StepAction:
		return []StepID{s.Action.Next}
	default:
		return nil
	}
}

func buildConfig(src ConfigSource, opts CompileOptions) (RuleSetConfig, error) {
	var ver *semver.Version
	if src.Version != "" {
		v, err := semver.NewVersion(src.Version)
		if err != nil {
			return RuleSetConfig{}, xerr.ErrCompile(xerr.InvalidExpression, "config.version %q: %v", src.Version, err)
		}
		ver = v
	}
	policy := value.Lenient
	switch src.FieldMissing {
	case "strict":
		policy = value.Strict
	case "default":
		policy = value.DefaultPolicy
	}
	maxDepth := int(opts.MaxDepth)
	if maxDepth == 0 {
		maxDepth = constants.DefaultMaxDepth
	}
	return RuleSetConfig{
		Name:          src.Name,
		Version:       ver,
		EntryStep:     StepID(src.EntryStep),
		Description:   src.Description,
		FieldMissing:  policy,
		EnableJIT:     opts.EnableJIT,
		MaxDepth:      maxDepth,
		Optimize:      opts.Optimize,
		StrictEffects: opts.StrictEffects,
	}, nil
}

// builder carries the shared compile-time collaborators used while
// lowering every step of a RuleSetSource.
type builder struct {
	cfg      RuleSetConfig
	opts     CompileOptions
	reg      *registry.Registry
	opt      *optimizer.Optimizer
	cache    *compileCache
	arena    *jit.Arena
	warnings []string
}

func (b *builder) compileExpr(source string) (*CompiledExpr, error) {
	if source == "" {
		return nil, nil
	}
	expr, err := parser.Parse(source)
	if err != nil {
		return nil, xerr.ErrCompile(xerr.InvalidExpression, "%q: %v", source, err)
	}
	optimized := expr
	if b.opts.Optimize {
		optimized = b.opt.Optimize(expr)
	}
	code, err := b.cache.compileBytecode(source, optimized, b.reg, b.opts.Schema, b.opts.Optimize)
	if err != nil {
		return nil, xerr.ErrCompile(xerr.InvalidExpression, "%q: %v", source, err)
	}
	ce := &CompiledExpr{Source: source, Optimized: optimized, Bytecode: code}
	if b.arena != nil {
		if native, jerr := jit.Compile(b.arena, optimized, b.opts.Schema); jerr == nil {
			ce.Native = native
		}
		// a JIT-ineligible expression just falls back to the VM; that is
		// the expected common case, not a compile failure.
	}
	return ce, nil
}

func (b *builder) buildStep(id StepID, src StepSource) (*Step, error) {
	switch src.Type {
	case "decision":
		return b.buildDecision(id, src)
	case "action":
		return b.buildAction(id, src)
	case "terminal":
		return b.buildTerminal(id, src)
	default:
		return nil, xerr.ErrCompile(xerr.InvalidExpression, "step %q: unknown type %q", id, src.Type)
	}
}

func (b *builder) buildDecision(id StepID, src StepSource) (*Step, error) {
	branches := make([]Branch, 0, len(src.Branches))
	for _, bs := range src.Branches {
		cond, err := b.compileExpr(bs.Condition)
		if err != nil {
			return nil, err
		}
		actions, err := b.buildEffects(bs.Actions)
		if err != nil {
			return nil, err
		}
		branches = append(branches, Branch{Condition: cond, Actions: actions, Next: StepID(bs.NextStep)})
	}
	return &Step{
		ID:   id,
		Name: src.Name,
		Kind: StepDecision,
		Decision: &DecisionStep{
			Branches:    branches,
			DefaultNext: StepID(src.DefaultNext),
		},
	}, nil
}

func (b *builder) buildAction(id StepID, src StepSource) (*Step, error) {
	effects, err := b.buildEffects(src.Actions)
	if err != nil {
		return nil, err
	}
	return &Step{
		ID:   id,
		Name: src.Name,
		Kind: StepAction,
		Action: &ActionStep{
			Effects: effects,
			Next:    StepID(src.Next),
		},
	}, nil
}

func (b *builder) buildTerminal(id StepID, src StepSource) (*Step, error) {
	if src.Result == nil {
		return nil, xerr.ErrCompile(xerr.InvalidExpression, "terminal step %q: missing result", id)
	}
	msg, err := b.compileExpr(src.Result.Message)
	if err != nil {
		return nil, err
	}
	output := make([]OutputField, 0, len(src.Result.Output))
	for _, pair := range src.Result.Output {
		if len(pair) != 2 {
			return nil, xerr.ErrCompile(xerr.InvalidExpression, "terminal step %q: malformed output entry", id)
		}
		expr, err := b.compileExpr(pair[1])
		if err != nil {
			return nil, err
		}
		output = append(output, OutputField{Name: pair[0], Expr: expr})
	}
	var data value.Value
	if len(src.Result.Data) > 0 {
		data, err = decodeJSONValue(src.Result.Data)
		if err != nil {
			return nil, xerr.ErrCompile(xerr.InvalidExpression, "terminal step %q: data: %v", id, err)
		}
	}
	return &Step{
		ID:   id,
		Name: src.Name,
		Kind: StepTerminal,
		Terminal: &TerminalStep{
			Code:    src.Result.Code,
			Message: msg,
			Output:  output,
			Data:    data,
		},
	}, nil
}

func (b *builder) buildEffects(src []ActionSource) ([]Effect, error) {
	effects := make([]Effect, 0, len(src))
	for _, a := range src {
		eff, err := b.buildEffect(a)
		if err != nil {
			return nil, err
		}
		effects = append(effects, eff)
	}
	return effects, nil
}

func (b *builder) buildEffect(a ActionSource) (Effect, error) {
	switch a.Action {
	case "set_variable":
		val, err := b.compileExpr(a.Value)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: EffectAssign, Name: a.Name, Value: val}, nil
	case "log":
		return Effect{Kind: EffectLog, Message: a.Message, Level: a.Level}, nil
	case "metric":
		val, err := b.compileExpr(a.Value)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: EffectMetric, Name: a.Name, Value: val, Tags: a.Tags}, nil
	default:
		b.warnings = append(b.warnings, fmt.Sprintf("unrecognized action %q treated as external no-op", a.Action))
		return Effect{Kind: EffectExternal, Name: a.Action}, nil
	}
}
