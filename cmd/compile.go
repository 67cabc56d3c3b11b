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
	"encoding/json"
	"os"

	"github.com/binaek/cling"
)

func addCompileCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("compile", compileCmd).
			WithArgument(cling.NewStringCmdInput("ruleset").WithDescription("Ruleset to compile").AsArgument()).
			WithFlag(cling.NewStringCmdInput("pack-location").WithDefault(".").WithDescription("Pack directory to load").AsFlag()),
	)
}

type compileCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
	RuleSet      string `cling-name:"ruleset"`
}

type compileReport struct {
	Name      string   `json:"name"`
	Version   string   `json:"version,omitempty"`
	EntryStep string   `json:"entry_step"`
	Steps     int      `json:"step_count"`
	Reachable int      `json:"reachable_step_count"`
	Warnings  []string `json:"warnings,omitempty"`
}

func compileCmd(ctx context.Context, args []string) error {
	input := compileCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	rs, err := loadCompiled(ctx, input.PackLocation, input.RuleSet)
	if err != nil {
		return err
	}

	report := compileReport{
		Name:      rs.Config.Name,
		EntryStep: string(rs.Config.EntryStep),
		Steps:     len(rs.Steps),
		Reachable: len(rs.Reachable()),
		Warnings:  rs.Warnings,
	}
	if rs.Config.Version != nil {
		report.Version = rs.Config.Version.String()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
