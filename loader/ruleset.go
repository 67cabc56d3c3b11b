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

package loader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/rulekit/rulekit/constants"
	"github.com/rulekit/rulekit/pack"
	"github.com/rulekit/rulekit/rules"
)

// LoadRuleSet reads and decodes the named ruleset off disk, relative to
// p's own directory, and fills in any field the pack's own [defaults]
// table supplies but the document itself leaves blank.
func LoadRuleSet(p *pack.PackFile, name string) (rules.RuleSetSource, error) {
	var ref *pack.RuleSetRef
	for i := range p.RuleSets {
		if p.RuleSets[i].Name == name {
			ref = &p.RuleSets[i]
			break
		}
	}
	if ref == nil {
		return rules.RuleSetSource{}, errors.Errorf("ruleset %q not declared in pack %q", name, p.Name)
	}

	path := filepath.Join(p.Location, ref.Path)
	b, err := os.ReadFile(path)
	if err != nil {
		return rules.RuleSetSource{}, errors.Wrapf(err, "read ruleset %q", name)
	}

	var src rules.RuleSetSource
	if err := json.Unmarshal(b, &src); err != nil {
		return rules.RuleSetSource{}, errors.Wrapf(err, "decode ruleset %q", name)
	}
	if src.Config.FieldMissing == "" {
		src.Config.FieldMissing = p.Defaults.FieldMissing
	}
	return src, nil
}

// CompileOptionsFromPack builds rules.CompileOptions from p's [defaults]
// table, then lets process environment variables override them — the
// same override order the teacher's own log-level setup in main.go uses
// for RULEKIT_LOG_LEVEL.
func CompileOptionsFromPack(p *pack.PackFile) rules.CompileOptions {
	opts := rules.CompileOptions{
		EnableJIT:     p.Defaults.EnableJIT,
		MaxDepth:      uint32(p.Defaults.MaxDepth),
		Optimize:      p.Defaults.Optimize,
		StrictEffects: p.Defaults.StrictEffects,
	}
	if v, ok := os.LookupEnv(constants.EnvJitEnabled); ok {
		opts.EnableJIT = v == "1" || strings.EqualFold(v, "true")
	}
	if v, ok := os.LookupEnv(constants.EnvMaxDepth); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.MaxDepth = uint32(n)
		}
	}
	return opts
}
