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

	"github.com/rulekit/rulekit/value"
)

type outcomeWire struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Output     map[string]any `json:"output"`
	DurationUs int64          `json:"duration_us"`
	Trace      *traceWire     `json:"trace,omitempty"`
}

type traceWire struct {
	Path  string           `json:"path"`
	Steps []traceStepWire  `json:"steps"`
}

type traceStepWire struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	DurationUs int64  `json:"duration_us"`
	Result     any    `json:"result"`
}

// MarshalJSON renders Outcome per spec.md §6's outcome wire format: a
// microsecond duration and a flattened "id1 -> id2 -> ..." trace path.
func (o Outcome) MarshalJSON() ([]byte, error) {
	w := outcomeWire{
		Code:       o.Code,
		Message:    o.Message,
		Output:     make(map[string]any, len(o.Output)),
		DurationUs: o.Duration.Microseconds(),
	}
	for k, v := range o.Output {
		w.Output[k] = value.Native(v)
	}
	if o.Trace != nil {
		tw := &traceWire{Path: pathString(o.Trace.Path), Steps: make([]traceStepWire, len(o.Trace.Steps))}
		for i, s := range o.Trace.Steps {
			tw.Steps[i] = traceStepWire{
				ID:         string(s.ID),
				Name:       s.Name,
				DurationUs: s.Duration.Microseconds(),
				Result:     s.Result,
			}
		}
		w.Trace = tw
	}
	return json.Marshal(w)
}
