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
	"os"
	"path/filepath"

	"github.com/binaek/cling"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/rulekit/rulekit/loader"
	"github.com/rulekit/rulekit/pack"
)

func addInitCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("init", initCmd).
			WithFlag(cling.NewStringCmdInput("directory").WithDefault(".").WithDescription("Directory to initialize; must be empty").AsFlag()).
			WithArgument(cling.NewStringCmdInput("name").WithDescription("Name of the pack").AsArgument()),
	)
}

type initCmdArgs struct {
	Directory string `cling-name:"directory"`
	Name      string `cling-name:"name"`
}

func initCmd(ctx context.Context, args []string) error {
	input := initCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	stat, err := os.Stat(input.Directory)
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		return errors.New("directory is not a directory")
	}
	entries, err := os.ReadDir(input.Directory)
	if err != nil {
		return errors.Wrap(err, "could not read directory")
	}
	if len(entries) > 0 {
		return errors.New("directory is not empty - choose a different directory")
	}

	f, err := os.OpenFile(filepath.Join(input.Directory, loader.PackFileName), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "could not create pack file")
	}
	defer func() { _ = f.Close() }()

	encoder := toml.NewEncoder(f)
	encoder.SetTablesInline(true)
	if err := encoder.Encode(pack.NewPackFile(input.Name)); err != nil {
		return errors.Wrap(err, "could not encode pack file")
	}
	return nil
}
