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

// Package loader locates and decodes a rulekit pack from disk: the
// rulekit.pack.toml project file plus the JSON ruleset documents it
// declares.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/rulekit/rulekit/constants"
	"github.com/rulekit/rulekit/pack"
)

var (
	// ErrPackFileNotFound is returned when no pack file is found walking
	// up from root to the filesystem root.
	ErrPackFileNotFound = errors.New("pack file not found")
)

// PackFileName is the file name LoadPack searches for: rulekit.pack.toml.
var PackFileName = constants.APPNAME + "." + constants.PackFileExtension

// LoadPack locates and decodes the pack file governing root, walking up
// the directory tree the way a host's go.mod or package.json lookup does
// when the caller is invoked from a subdirectory of the project.
func LoadPack(ctx context.Context, root string) (*pack.PackFile, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	packPath, err := locatePackFile(ctx, root)
	if err != nil {
		return nil, errors.Wrap(err, "locate pack file")
	}

	b, err := os.ReadFile(packPath)
	if err != nil {
		return nil, errors.Wrap(err, "read pack")
	}
	var p pack.PackFile
	if err := toml.Unmarshal(b, &p); err != nil {
		return nil, errors.Wrap(err, "parse pack file failed")
	}

	p.Location = filepath.Dir(packPath)
	return &p, nil
}

func locatePackFile(ctx context.Context, root string) (string, error) {
	if root == "/" {
		return "", errors.New("cannot search from filesystem root")
	}
	if len(strings.TrimSpace(root)) == 0 {
		return "", errors.New("root is empty")
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, "failed to get absolute path to root")
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", errors.Wrap(err, "failed to locate pack file")
	}

	if info.Name() == PackFileName {
		return root, nil
	}
	if _, err := os.Stat(filepath.Join(root, PackFileName)); err == nil {
		return filepath.Join(root, PackFileName), nil
	}

	for {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		root = filepath.Dir(root)
		if root == "/" || (runtime.GOOS == "windows" && strings.HasSuffix(root, `:\`)) {
			break
		}
		if _, err := os.Stat(filepath.Join(root, PackFileName)); err == nil {
			return filepath.Join(root, PackFileName), nil
		}
	}

	return "", ErrPackFileNotFound
}
