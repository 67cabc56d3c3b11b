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

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"time"

	"github.com/binaek/cling"

	"github.com/rulekit/rulekit/rules"
	"github.com/rulekit/rulekit/value"
)

func addExecCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("exec", execCmd).
			WithArgument(cling.NewStringCmdInput("ruleset").WithDescription("Ruleset to execute").AsArgument()).
			WithFlag(cling.NewStringCmdInput("pack-location").WithDefault(".").WithDescription("Pack directory to load").AsFlag()).
			WithFlag(cling.NewStringCmdInput("fact-file").WithDefault("").WithDescription("File to load facts from").AsFlag()).
			WithFlag(cling.NewStringCmdInput("facts").WithDefault("{}").WithDescription("Facts to execute the ruleset with, as a JSON object").AsFlag()).
			WithFlag(cling.NewStringCmdInput("output").WithDefault("table").WithValidator(cling.NewEnumValidator("table", "json")).WithDescription("Output format: table or json").AsFlag()).
			WithFlag(cling.NewIntCmdInput("timeout-ms").WithDefault(0).WithDescription("Evaluation deadline in milliseconds; 0 means no deadline").AsFlag()),
	)
}

type execCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
	RuleSet      string `cling-name:"ruleset"`
	Facts        string `cling-name:"facts"`
	FactFile     string `cling-name:"fact-file"`
	Output       string `cling-name:"output"`
	TimeoutMs    int    `cling-name:"timeout-ms"`
}

func execCmd(ctx context.Context, args []string) error {
	input := execCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	facts, err := loadFacts(input.FactFile, input.Facts)
	if err != nil {
		return err
	}

	rs, err := loadCompiled(ctx, input.PackLocation, input.RuleSet)
	if err != nil {
		return err
	}

	outcome, err := runRuleSet(ctx, rs, facts, rules.TraceNone, input.TimeoutMs)
	if err != nil {
		return err
	}

	return printOutcome(outcome, input.Output)
}

// loadFacts merges a fact file (base) with the inline --facts flag
// (override), the same precedence the teacher's own exec command gives
// file-then-flag fact sources.
func loadFacts(factFile, factsFlag string) (value.Value, error) {
	fileFacts := make(map[string]any)
	if factFile != "" {
		content, err := os.ReadFile(factFile)
		if err != nil {
			return value.Null, err
		}
		if err := json.NewDecoder(bytes.NewReader(content)).Decode(&fileFacts); err != nil {
			return value.Null, err
		}
	}

	flagFacts := make(map[string]any)
	if err := json.NewDecoder(bytes.NewReader([]byte(factsFlag))).Decode(&flagFacts); err != nil {
		return value.Null, err
	}

	merged := make(map[string]any, len(fileFacts)+len(flagFacts))
	maps.Copy(merged, fileFacts)
	maps.Copy(merged, flagFacts)
	return value.FromNative(merged), nil
}

func runRuleSet(ctx context.Context, rs *rules.CompiledRuleSet, facts value.Value, trace rules.TraceLevel, timeoutMs int) (rules.Outcome, error) {
	ex := rules.NewExecutor(rs)
	opts := rules.ExecOptions{
		FieldMissing: rs.Config.FieldMissing,
		TraceLevel:   trace,
		Logger:       slog.Default(),
	}
	if timeoutMs > 0 {
		opts.Timeout = time.Duration(timeoutMs) * time.Millisecond
	}
	return ex.Execute(ctx, facts, opts)
}

func printOutcome(outcome rules.Outcome, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	fmt.Printf("code:     %s\n", outcome.Code)
	if outcome.Message != "" {
		fmt.Printf("message:  %s\n", outcome.Message)
	}
	fmt.Printf("duration: %s\n", outcome.Duration)
	for k, v := range outcome.Output {
		fmt.Printf("  %s = %s\n", k, v.String())
	}
	if outcome.Trace != nil {
		printTrace(outcome.Trace)
	}
	return nil
}

func printTrace(t *rules.TraceResult) {
	fmt.Println("trace:")
	for _, step := range t.Steps {
		fmt.Printf("  %-20s %-12s %s\n", step.ID, step.Result, step.Duration)
	}
}
