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

// Package pack describes rulekit.pack.toml, the project file a host
// directory carries to declare the rulesets it ships and the compile
// defaults they share.
package pack

import "github.com/rulekit/rulekit/constants"

// PackFile is the decoded form of a rulekit.pack.toml.
type PackFile struct {
	SchemaVersion string            `toml:"schema_version"`
	Name          string            `toml:"name"`
	Version       string            `toml:"version,omitempty"`
	Description   string            `toml:"description,omitempty"`
	License       string            `toml:"license,omitempty"`
	Repository    string            `toml:"repository,omitempty"`
	Engines       Engines           `toml:"engines"`
	Authors       map[string]string `toml:"authors,omitempty"`
	RuleSets      []RuleSetRef      `toml:"ruleset,omitempty"`
	Defaults      Defaults          `toml:"defaults"`
	Metadata      map[string]any    `toml:"metadata,omitempty"`

	// Location is the absolute directory the pack file was loaded from,
	// filled in by loader.LoadPack; every RuleSetRef.Path is relative to it.
	Location string `toml:"-"`
}

// Engines pins the rulekit version range this pack expects, the way the
// teacher's own pack format pins its language runtime.
type Engines struct {
	Rulekit string `toml:"rulekit"`
}

// RuleSetRef names one ruleset document the pack ships, relative to the
// pack file's own directory.
type RuleSetRef struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Defaults carries the rules.CompileOptions fields a TOML file can express
// (all but Schema), plus FieldMissing, which loader.LoadRuleSet copies into
// a ruleset's config when that config leaves field_missing unset. A pack
// can so fix compile-time behavior for every ruleset it declares without
// repeating it at every call site; process environment variables still
// take precedence, per loader.CompileOptionsFromPack.
type Defaults struct {
	EnableJIT     bool   `toml:"enable_jit,omitempty"`
	MaxDepth      int    `toml:"max_depth,omitempty"`
	Optimize      bool   `toml:"optimize,omitempty"`
	StrictEffects bool   `toml:"strict_effects,omitempty"`
	FieldMissing  string `toml:"field_missing,omitempty"`
}

// NewPackFile returns the starting point `rulekit init` writes to disk:
// a named, otherwise-empty pack with sensible compile defaults.
func NewPackFile(name string) *PackFile {
	return &PackFile{
		SchemaVersion: "1",
		Name:          name,
		Version:       "0.1.0",
		Engines:       Engines{Rulekit: "*"},
		Defaults: Defaults{
			MaxDepth: constants.DefaultMaxDepth,
			Optimize: true,
		},
	}
}
