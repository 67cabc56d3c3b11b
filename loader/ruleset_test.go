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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/pack"
)

func TestLoadRuleSet_MergesPackDefaultFieldMissing(t *testing.T) {
	tmpDir := t.TempDir()
	rulesetPath := filepath.Join(tmpDir, "approve.json")
	require.NoError(t, os.WriteFile(rulesetPath, []byte(`{
		"config": {"name": "approve", "version": "1.0.0", "entry_step": "start"},
		"steps": {
			"start": {"id": "start", "type": "terminal", "result": {"code": "ok"}}
		}
	}`), 0644))

	p := &pack.PackFile{
		Name:     "demo",
		Location: tmpDir,
		RuleSets: []pack.RuleSetRef{{Name: "approve", Path: "approve.json"}},
		Defaults: pack.Defaults{FieldMissing: "error"},
	}

	src, err := LoadRuleSet(p, "approve")
	require.NoError(t, err)
	assert.Equal(t, "approve", src.Config.Name)
	assert.Equal(t, "error", src.Config.FieldMissing)
}

func TestLoadRuleSet_UnknownNameFails(t *testing.T) {
	p := &pack.PackFile{Name: "demo"}
	_, err := LoadRuleSet(p, "missing")
	require.Error(t, err)
}

func TestCompileOptionsFromPack_EnvOverridesDefaults(t *testing.T) {
	p := &pack.PackFile{Defaults: pack.Defaults{MaxDepth: 64, Optimize: true}}

	t.Setenv("RULEKIT_MAX_DEPTH", "128")
	opts := CompileOptionsFromPack(p)
	assert.Equal(t, uint32(128), opts.MaxDepth)
	assert.True(t, opts.Optimize)
}
