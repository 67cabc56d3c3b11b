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
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/rules"
	"github.com/rulekit/rulekit/value"
	"github.com/rulekit/rulekit/xerr"
)

// discountRuleSource is a small decision ruleset: vip customers with a
// large balance get a 20% discount, everyone else gets 5%, and a log
// step runs on the way to the terminal.
func discountRuleSource() rules.RuleSetSource {
	return rules.RuleSetSource{
		Config: rules.ConfigSource{
			Name:      "discount",
			Version:   "1.0.0",
			EntryStep: "check_vip",
		},
		Steps: map[string]rules.StepSource{
			"check_vip": {
				ID:   "check_vip",
				Type: "decision",
				Branches: []rules.BranchSource{
					{
						Condition: "vip && balance >= 1000.0",
						NextStep:  "log_vip",
						Actions: []rules.ActionSource{
							{Action: "set_variable", Name: "rate", Value: "0.2"},
						},
					},
				},
				DefaultNext: "default_rate",
			},
			"default_rate": {
				ID:   "default_rate",
				Type: "action",
				Actions: []rules.ActionSource{
					{Action: "set_variable", Name: "rate", Value: "0.05"},
				},
				Next: "log_vip",
			},
			"log_vip": {
				ID:   "log_vip",
				Type: "action",
				Actions: []rules.ActionSource{
					{Action: "log", Message: "discount computed", Level: "info"},
				},
				Next: "done",
			},
			"done": {
				ID:   "done",
				Type: "terminal",
				Result: &rules.ResultSource{
					Code: "ok",
					Output: [][2]string{
						{"discount_rate", "$rate"},
						{"final_price", "balance * (1.0 - $rate)"},
					},
				},
			},
		},
	}
}

func discountInput(balance float64, vip bool) value.Value {
	obj := value.NewObject()
	obj.Set("balance", value.Float(balance))
	obj.Set("vip", value.Bool(vip))
	return value.Obj(obj)
}

func TestDiscountRulesetVIPBranch(t *testing.T) {
	rs, err := rules.CompileRuleSet(discountRuleSource(), rules.CompileOptions{Optimize: true})
	require.NoError(t, err)

	ex := rules.NewExecutor(rs)
	out, err := ex.Execute(context.Background(), discountInput(2000, true), rules.ExecOptions{})
	require.NoError(t, err)
	require.Equal(t, "ok", out.Code)
	require.InDelta(t, 0.2, out.Output["discount_rate"].Float(), 0.0001)
	require.InDelta(t, 1600.0, out.Output["final_price"].Float(), 0.0001)
}

func TestDiscountRulesetDefaultBranch(t *testing.T) {
	rs, err := rules.CompileRuleSet(discountRuleSource(), rules.CompileOptions{Optimize: true})
	require.NoError(t, err)

	ex := rules.NewExecutor(rs)
	out, err := ex.Execute(context.Background(), discountInput(2000, false), rules.ExecOptions{})
	require.NoError(t, err)
	require.InDelta(t, 0.05, out.Output["discount_rate"].Float(), 0.0001)
	require.InDelta(t, 1900.0, out.Output["final_price"].Float(), 0.0001)
}

// shortCircuitRuleSource has a single decision whose condition is
// "vip && balance >= 1000.0"; when vip is false the right operand must
// never be evaluated, so a missing balance field under the strict policy
// must not surface as an error.
func shortCircuitRuleSource() rules.RuleSetSource {
	return rules.RuleSetSource{
		Config: rules.ConfigSource{
			Name:      "short-circuit",
			Version:   "1.0.0",
			EntryStep: "check",
		},
		Steps: map[string]rules.StepSource{
			"check": {
				ID:          "check",
				Type:        "decision",
				Branches:    []rules.BranchSource{{Condition: "vip && balance >= 1000.0", NextStep: "yes"}},
				DefaultNext: "no",
			},
			"yes": {ID: "yes", Type: "terminal", Result: &rules.ResultSource{Code: "yes"}},
			"no":  {ID: "no", Type: "terminal", Result: &rules.ResultSource{Code: "no"}},
		},
	}
}

// TestShortCircuitSkipsMissingField checks that "vip && balance >= 1000.0"
// never evaluates the right operand (and so never trips a missing-field
// error under the strict policy) when vip alone is already false.
func TestShortCircuitSkipsMissingField(t *testing.T) {
	rs, err := rules.CompileRuleSet(shortCircuitRuleSource(), rules.CompileOptions{Optimize: false})
	require.NoError(t, err)

	ex := rules.NewExecutor(rs)
	obj := value.NewObject()
	obj.Set("vip", value.Bool(false))
	// balance deliberately absent.
	out, err := ex.Execute(context.Background(), value.Obj(obj), rules.ExecOptions{FieldMissing: value.Strict})
	require.NoError(t, err)
	require.Equal(t, "no", out.Code)
}

// cyclicRuleSource is two decision steps that point back at each other,
// legal per the step-graph's cycle-allowance invariant, bounded only by
// max_depth.
func cyclicRuleSource() rules.RuleSetSource {
	return rules.RuleSetSource{
		Config: rules.ConfigSource{
			Name:      "loop",
			Version:   "1.0.0",
			EntryStep: "a",
		},
		Steps: map[string]rules.StepSource{
			"a": {
				ID:          "a",
				Type:        "decision",
				Branches:    []rules.BranchSource{{Condition: "false", NextStep: "b"}},
				DefaultNext: "b",
			},
			"b": {
				ID:          "b",
				Type:        "decision",
				Branches:    []rules.BranchSource{{Condition: "false", NextStep: "a"}},
				DefaultNext: "a",
			},
		},
	}
}

func TestCycleGuardTripsMaxDepth(t *testing.T) {
	rs, err := rules.CompileRuleSet(cyclicRuleSource(), rules.CompileOptions{MaxDepth: 10})
	require.NoError(t, err)
	require.NotEmpty(t, rs.Warnings)

	ex := rules.NewExecutor(rs)
	_, err = ex.Execute(context.Background(), value.Null, rules.ExecOptions{})
	require.Error(t, err)
}

// selfLoopRuleSource is a single action step whose next step is itself —
// a legitimate retry/poll pattern, legal per the step-graph's
// cycle-allowance invariant and bounded only by max_depth, never rejected
// at compile time.
func selfLoopRuleSource() rules.RuleSetSource {
	return rules.RuleSetSource{
		Config: rules.ConfigSource{
			Name:      "retry",
			Version:   "1.0.0",
			EntryStep: "poll",
		},
		Steps: map[string]rules.StepSource{
			"poll": {
				ID:   "poll",
				Type: "action",
				Next: "poll",
			},
		},
	}
}

func TestSelfLoopCompilesAndTripsMaxDepth(t *testing.T) {
	rs, err := rules.CompileRuleSet(selfLoopRuleSource(), rules.CompileOptions{MaxDepth: 5})
	require.NoError(t, err)
	require.NotEmpty(t, rs.Warnings)

	ex := rules.NewExecutor(rs)
	_, err = ex.Execute(context.Background(), value.Null, rules.ExecOptions{})
	require.Error(t, err)

	var execErr *xerr.ExecError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, xerr.ExecDepthExceeded, execErr.Kind)
}

// firstMatchRuleSource has two branches that would both be truthy; the
// first one in source order must win.
func firstMatchRuleSource() rules.RuleSetSource {
	return rules.RuleSetSource{
		Config: rules.ConfigSource{
			Name:      "first-match",
			Version:   "1.0.0",
			EntryStep: "pick",
		},
		Steps: map[string]rules.StepSource{
			"pick": {
				ID:   "pick",
				Type: "decision",
				Branches: []rules.BranchSource{
					{Condition: "score >= 50", NextStep: "silver"},
					{Condition: "score >= 10", NextStep: "bronze"},
				},
				DefaultNext: "none",
			},
			"silver": {ID: "silver", Type: "terminal", Result: &rules.ResultSource{Code: "silver"}},
			"bronze": {ID: "bronze", Type: "terminal", Result: &rules.ResultSource{Code: "bronze"}},
			"none":   {ID: "none", Type: "terminal", Result: &rules.ResultSource{Code: "none"}},
		},
	}
}

func TestFirstMatchingBranchWins(t *testing.T) {
	rs, err := rules.CompileRuleSet(firstMatchRuleSource(), rules.CompileOptions{})
	require.NoError(t, err)
	ex := rules.NewExecutor(rs)

	obj := value.NewObject()
	obj.Set("score", value.Int(75))
	out, err := ex.Execute(context.Background(), value.Obj(obj), rules.ExecOptions{})
	require.NoError(t, err)
	require.Equal(t, "silver", out.Code)
}

func TestUnknownEntryStepRejectedAtCompile(t *testing.T) {
	src := firstMatchRuleSource()
	src.Config.EntryStep = "nope"
	_, err := rules.CompileRuleSet(src, rules.CompileOptions{})
	require.Error(t, err)
}
