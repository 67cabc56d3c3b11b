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
	"context"

	"github.com/binaek/cling"

	"github.com/rulekit/rulekit/rules"
)

// addTraceCmd reuses exec's flag set but always runs at trace-level-full,
// the one mode that walks the tree-walking interpreter instead of the
// bytecode VM so every step's evaluation can be recorded in full.
func addTraceCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("trace", traceCmd).
			WithArgument(cling.NewStringCmdInput("ruleset").WithDescription("Ruleset to trace").AsArgument()).
			WithFlag(cling.NewStringCmdInput("pack-location").WithDefault(".").WithDescription("Pack directory to load").AsFlag()).
			WithFlag(cling.NewStringCmdInput("fact-file").WithDefault("").WithDescription("File to load facts from").AsFlag()).
			WithFlag(cling.NewStringCmdInput("facts").WithDefault("{}").WithDescription("Facts to execute the ruleset with, as a JSON object").AsFlag()).
			WithFlag(cling.NewStringCmdInput("output").WithDefault("table").WithValidator(cling.NewEnumValidator("table", "json")).WithDescription("Output format: table or json").AsFlag()),
	)
}

type traceCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
	RuleSet      string `cling-name:"ruleset"`
	Facts        string `cling-name:"facts"`
	FactFile     string `cling-name:"fact-file"`
	Output       string `cling-name:"output"`
}

func traceCmd(ctx context.Context, args []string) error {
	input := traceCmdArgs{}
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

	outcome, err := runRuleSet(ctx, rs, facts, rules.TraceFull, 0)
	if err != nil {
		return err
	}
	return printOutcome(outcome, input.Output)
}
