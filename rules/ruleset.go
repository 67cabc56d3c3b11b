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

// Package rules owns the step graph: a named, versioned directed graph of
// decision, action and terminal steps, compiled once from source and
// walked many times against different inputs. It is the one package that
// ties every lower layer together: parser and optimizer build the
// expressions, bytecode and jit compile them, registry resolves their
// function calls, dag checks the graph's load-time shape, and trace
// records the walk.
package rules

import (
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/rulekit/rulekit/bytecode"
	"github.com/rulekit/rulekit/dag"
	"github.com/rulekit/rulekit/jit"
	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/schema"
	"github.com/rulekit/rulekit/value"
)

// StepID identifies a step within a ruleset. It implements fmt.Stringer
// so a CompiledRuleSet's reachability graph can use it as a dag.G node.
type StepID string

func (s StepID) String() string { return string(s) }

// StepKind tags which of the three step shapes a Step carries.
type StepKind uint8

const (
	StepDecision StepKind = iota
	StepAction
	StepTerminal
)

func (k StepKind) String() string {
	switch k {
	case StepDecision:
		return "decision"
	case StepAction:
		return "action"
	case StepTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// EffectKind tags the four action-effect shapes spec.md §4.8 recognizes.
// External is accepted at the source level but never executes anything;
// see Executor.applyEffect.
type EffectKind uint8

const (
	EffectAssign EffectKind = iota
	EffectLog
	EffectMetric
	EffectExternal
)

// Effect is one action-step side-effect. Which fields are meaningful
// depends on Kind: Assign uses Name+Value, Log uses Message+Level, Metric
// uses Name+Value+Tags, External uses none (it is a declared no-op).
type Effect struct {
	Kind    EffectKind
	Name    string
	Value   *CompiledExpr
	Message string
	Level   string
	Tags    [][2]string
}

// Branch is one decision-step arm: a condition, the actions to run when
// it wins, and the step to transition to.
type Branch struct {
	Condition *CompiledExpr
	Actions   []Effect
	Next      StepID
}

// DecisionStep evaluates Branches in listed order; the first truthy
// condition wins. If none do, DefaultNext is taken and no actions run.
type DecisionStep struct {
	Branches    []Branch
	DefaultNext StepID
}

// ActionStep runs every Effect in order, unconditionally, then
// transitions to Next.
type ActionStep struct {
	Effects []Effect
	Next    StepID
}

// OutputField is one named expression a terminal step evaluates to build
// its result record.
type OutputField struct {
	Name string
	Expr *CompiledExpr
}

// TerminalStep ends evaluation. Message and Output are evaluated against
// the context at the moment the terminal is reached; Data is a static
// literal attached at compile time.
type TerminalStep struct {
	Code    string
	Message *CompiledExpr
	Output  []OutputField
	Data    value.Value
}

// Step is one node of the step graph, tagged by Kind; exactly one of
// Decision, Action, Terminal is populated, matching Kind.
type Step struct {
	ID       StepID
	Name     string
	Kind     StepKind
	Decision *DecisionStep
	Action   *ActionStep
	Terminal *TerminalStep
}

// RuleSetConfig is the compile-time configuration of a ruleset, taken
// from the source document's "config" object plus CompileOptions.
type RuleSetConfig struct {
	Name          string
	Version       *semver.Version
	EntryStep     StepID
	Description   string
	FieldMissing  value.MissingFieldPolicy
	EnableJIT     bool
	MaxDepth      int
	Optimize      bool
	StrictEffects bool
}

// CompiledRuleSet is the immutable, concurrency-safe result of compiling
// a RuleSetSource. Many goroutines may call Executor.Execute against the
// same CompiledRuleSet concurrently; nothing here is mutated after
// CompileRuleSet returns.
type CompiledRuleSet struct {
	Config   RuleSetConfig
	Steps    map[StepID]*Step
	Registry *registry.Registry
	Schema   *schema.Schema
	Arena    *jit.Arena

	graph    dag.G[StepID]
	vmPool   *bytecode.Pool
	cache    *compileCache
	Warnings []string
}

// Reachable reports the steps reachable from the ruleset's entry step:
// the same set CompileRuleSet checks to warn when no terminal is reachable.
func (rs *CompiledRuleSet) Reachable() []StepID {
	return rs.graph.Reachable(rs.Config.EntryStep)
}

// Outcome is the result of one evaluation, matching spec.md §6's wire
// format (duration is kept as a time.Duration internally; callers
// marshaling to the wire format convert to microseconds at the edge).
type Outcome struct {
	Code     string
	Message  string
	Output   map[string]value.Value
	Duration time.Duration
	Trace    *TraceResult
}

// TraceResult is the optional step-by-step record attached to an Outcome
// when the caller asked for tracing.
type TraceResult struct {
	Path  []StepID
	Steps []TraceStep
}

// TraceStep is one entry of a TraceResult, mirroring spec.md §6's
// "steps" array in the outcome wire format.
type TraceStep struct {
	ID       StepID
	Name     string
	Duration time.Duration
	Result   string
}
