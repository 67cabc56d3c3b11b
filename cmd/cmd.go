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

// Package cmd wires rulekit's subcommands onto a cling CLI.
package cmd

import (
	"context"
	"log/slog"

	"github.com/binaek/cling"

	"github.com/rulekit/rulekit/loader"
	"github.com/rulekit/rulekit/rules"
)

// Setup builds the rulekit CLI: init, validate, compile, exec and trace.
func Setup(ctx context.Context, version string) *cling.CLI {
	cli := cling.NewCLI("rulekit", version).
		WithDescription("rulekit compiles and evaluates business-rule step graphs").
		WithPreRun(func(ctx context.Context, args []string) error {
			slog.DebugContext(ctx, "==> starting rulekit", slog.String("version", version))
			return nil
		}).
		WithPostRun(func(ctx context.Context, args []string) error {
			slog.DebugContext(ctx, "==> exiting rulekit")
			return nil
		})

	addInitCmd(cli)
	addValidateCmd(cli)
	addCompileCmd(cli)
	addExecCmd(cli)
	addTraceCmd(cli)
	addVersionCmd(cli, version)

	return cli
}

// Execute runs cli against args.
func Execute(ctx context.Context, cli *cling.CLI, args []string) error {
	if cli == nil {
		panic("CLI cannot be NIL")
	}
	return cli.Run(ctx, args)
}

// loadCompiled loads the pack rooted at packLocation, decodes the named
// ruleset, and compiles it with the pack's (env-overridden) defaults —
// the shared first step of every subcommand below.
func loadCompiled(ctx context.Context, packLocation, rulesetName string) (*rules.CompiledRuleSet, error) {
	p, err := loader.LoadPack(ctx, packLocation)
	if err != nil {
		return nil, err
	}
	src, err := loader.LoadRuleSet(p, rulesetName)
	if err != nil {
		return nil, err
	}
	return rules.CompileRuleSet(src, loader.CompileOptionsFromPack(p))
}
