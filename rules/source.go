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

package rules

import (
	"encoding/json"

	"github.com/rulekit/rulekit/schema"
)

// RuleSetSource is the JSON interchange format described in spec.md §6:
// what a host persistence layer stores and transports, and what
// CompileRuleSet consumes. Every expression field is raw source text;
// CompileRuleSet parses, optimizes and compiles each one.
type RuleSetSource struct {
	Config ConfigSource        `json:"config"`
	Steps  map[string]StepSource `json:"steps"`
}

type ConfigSource struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	EntryStep    string `json:"entry_step"`
	Description  string `json:"description,omitempty"`
	FieldMissing string `json:"field_missing,omitempty"`
}

// StepSource is a tagged union over decision/action/terminal, decoded by
// hand in UnmarshalJSON because encoding/json has no native sum-type
// support — the same shape every step kind in the wire format shares a
// "type" discriminator to select on.
type StepSource struct {
	ID   string
	Name string
	Type string

	Branches     []BranchSource
	DefaultNext  string

	Actions []ActionSource
	Next    string

	Result *ResultSource
}

type stepSourceEnvelope struct {
	ID          string         `json:"id"`
	Name        string         `json:"name,omitempty"`
	Type        string         `json:"type"`
	Branches    []BranchSource `json:"branches,omitempty"`
	DefaultNext string         `json:"default_next,omitempty"`
	Actions     []ActionSource `json:"actions,omitempty"`
	Next        string         `json:"next_step,omitempty"`
	Result      *ResultSource  `json:"result,omitempty"`
}

func (s *StepSource) UnmarshalJSON(data []byte) error {
	var env stepSourceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	s.ID = env.ID
	s.Name = env.Name
	s.Type = env.Type
	s.Branches = env.Branches
	s.DefaultNext = env.DefaultNext
	s.Actions = env.Actions
	s.Next = env.Next
	s.Result = env.Result
	return nil
}

func (s StepSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(stepSourceEnvelope{
		ID:          s.ID,
		Name:        s.Name,
		Type:        s.Type,
		Branches:    s.Branches,
		DefaultNext: s.DefaultNext,
		Actions:     s.Actions,
		Next:        s.Next,
		Result:      s.Result,
	})
}

type BranchSource struct {
	Condition string         `json:"condition"`
	NextStep  string         `json:"next_step"`
	Actions   []ActionSource `json:"actions,omitempty"`
}

// ActionSource is likewise a tagged union, discriminated on "action".
type ActionSource struct {
	Action  string      `json:"action"`
	Name    string      `json:"name,omitempty"`
	Value   string      `json:"value,omitempty"`
	Message string      `json:"message,omitempty"`
	Level   string      `json:"level,omitempty"`
	Tags    [][2]string `json:"tags,omitempty"`
}

type ResultSource struct {
	Code    string          `json:"code"`
	Message string          `json:"message,omitempty"`
	Output  [][2]string     `json:"output,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// CompileOptions matches spec.md §6's CompileOptions record literally.
type CompileOptions struct {
	EnableJIT     bool
	Schema        *schema.Schema
	MaxDepth      uint32
	Optimize      bool
	StrictEffects bool
}
