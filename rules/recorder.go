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
	"strconv"
	"strings"
	"time"

	"github.com/rulekit/rulekit/trace"
)

// execRecorder adapts trace.Recorder to the step-graph shapes Execute
// produces and builds the outcome wire format's "steps" array from it. It
// keeps no step names, so the TraceStep entries it builds leave Name empty.
type execRecorder struct {
	rec   *trace.Recorder
	level TraceLevel
}

func newRecorder(level TraceLevel) *execRecorder {
	return &execRecorder{rec: trace.New(level != TraceNone), level: level}
}

func (r *execRecorder) enabled() bool { return r.rec.IsEnabled() }

func (r *execRecorder) recordStep(step *Step, dur time.Duration, branchIdx int, next StepID, err error) {
	if !r.enabled() {
		return
	}
	s := trace.Step{
		Kind:        step.Kind.String(),
		StepID:      string(step.ID),
		Duration:    dur,
		BranchIndex: branchIdx,
		NextStepID:  string(next),
	}
	if err != nil {
		s.Err = err.Error()
	}
	r.rec.Record(s)
}

// result builds the Outcome-level TraceResult from the accumulated
// steps, matching spec.md §6's "path" and "steps" outcome fields.
func (r *execRecorder) result(path []StepID) *TraceResult {
	if !r.enabled() {
		return nil
	}
	steps := r.rec.Steps()
	out := &TraceResult{Path: path, Steps: make([]TraceStep, len(steps))}
	for i, s := range steps {
		out.Steps[i] = TraceStep{
			ID:       StepID(s.StepID),
			Duration: s.Duration,
			Result:   traceResultLabel(s),
		}
	}
	return out
}

// traceResultLabel renders one step's outcome label: "branch_<n>" (n the
// index of the winning branch) for a decision that matched, "false" for a
// decision that fell to its default, "terminal" at the end, "error" for a
// step that failed, and the lower-cased step kind for any other step.
func traceResultLabel(s trace.Step) string {
	if s.Err != "" {
		return "error"
	}
	switch s.Kind {
	case "decision":
		if s.BranchIndex >= 0 {
			return "branch_" + strconv.Itoa(s.BranchIndex)
		}
		return "false"
	case "terminal":
		return "terminal"
	default:
		return strings.ToLower(s.Kind)
	}
}

func pathString(path []StepID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = string(id)
	}
	return strings.Join(parts, " -> ")
}
