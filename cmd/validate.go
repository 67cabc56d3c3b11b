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
	"fmt"
	"log/slog"

	"github.com/binaek/cling"
)

func addValidateCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("validate", validateCmd).
			WithArgument(cling.NewStringCmdInput("ruleset").WithDescription("Ruleset to validate").AsArgument()).
			WithFlag(cling.NewStringCmdInput("pack-location").WithDefault(".").WithDescription("Pack directory to load").AsFlag()),
	)
}

type validateCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
	RuleSet      string `cling-name:"ruleset"`
}

func validateCmd(ctx context.Context, args []string) error {
	input := validateCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	rs, err := loadCompiled(ctx, input.PackLocation, input.RuleSet)
	if err != nil {
		return err
	}
	for _, w := range rs.Warnings {
		slog.WarnContext(ctx, w, slog.String("ruleset", input.RuleSet))
	}
	fmt.Printf("%s: %d step(s), %d warning(s)\n", rs.Config.Name, len(rs.Steps), len(rs.Warnings))
	return nil
}
