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

// Package trace captures the step-by-step record of one ruleset
// evaluation: which step ran, which decision branch won, how long each
// step took, and (at trace-level-full) the expression-level detail of
// how a condition evaluated. A Recorder is created fresh per evaluation
// and discarded with it; it never outlives the EvaluationContext.
package trace

import "time"

// Step captures a single step-graph transition.
type Step struct {
	// Kind is "decision", "action", or "terminal", matching the step kind
	// that produced this record.
	Kind string `json:"kind"`

	// StepID is the id of the step this record describes.
	StepID string `json:"step_id"`

	// Duration is the wall-clock time spent evaluating this step,
	// including every expression it evaluated.
	Duration time.Duration `json:"duration"`

	// BranchIndex is set on a "decision" record to the index of the
	// branch whose condition won, or -1 if none matched and
	// default_next_step_id was taken.
	BranchIndex int `json:"branch_index,omitempty"`

	// NextStepID is the step this record's evaluation transitioned to.
	NextStepID string `json:"next_step_id,omitempty"`

	// Meta holds step-kind-specific detail: effect summaries for an
	// action step, or output names for a terminal.
	Meta map[string]any `json:"meta,omitempty"`

	// Expr holds the trace-level-full expression breakdown for this
	// step's condition/value expressions, nil unless full tracing is on.
	Expr []*ExprNode `json:"expr,omitempty"`

	// Err, if set, is the error that ended evaluation at this step.
	Err string `json:"err,omitempty"`
}

// ExprNode captures one node of an expression's evaluation, used only
// when the host asks for trace-level-full (the mode that also permits
// falling back to the tree-walking interpreter instead of the VM).
type ExprNode struct {
	Kind     string         `json:"kind"`
	Op       string         `json:"op,omitempty"`
	Duration time.Duration  `json:"duration,omitempty"`
	Result   any            `json:"result,omitempty"`
	Err      string         `json:"err,omitempty"`
	Children []*ExprNode    `json:"children,omitempty"`
}

// DoneFn finalizes the duration of the node or step it was returned for.
type DoneFn func()

// NewExprNode starts timing one expression node; calling the returned
// DoneFn stamps its Duration.
func NewExprNode(kind, op string) (*ExprNode, DoneFn) {
	n := &ExprNode{Kind: kind, Op: op}
	start := time.Now()
	return n, func() { n.Duration = time.Since(start) }
}

func (n *ExprNode) Attach(children ...*ExprNode) *ExprNode {
	n.Children = append(n.Children, children...)
	return n
}

func (n *ExprNode) SetResult(v any) *ExprNode {
	n.Result = v
	return n
}

func (n *ExprNode) SetErr(err error) *ExprNode {
	if err != nil {
		n.Err = err.Error()
	}
	return n
}

// Recorder accumulates Step records across one evaluation. A nil
// *Recorder is valid and silently discards every record, so callers can
// pass it unconditionally and only check IsEnabled when deciding whether
// to pay for trace-level-full expression breakdowns.
type Recorder struct {
	steps []Step
}

// New returns an enabled Recorder, or nil when enabled is false — the
// executor always holds a *Recorder, but a nil one costs nothing per step.
func New(enabled bool) *Recorder {
	if !enabled {
		return nil
	}
	return &Recorder{}
}

func (r *Recorder) IsEnabled() bool { return r != nil }

func (r *Recorder) Record(s Step) {
	if r == nil {
		return
	}
	r.steps = append(r.steps, s)
}

func (r *Recorder) Steps() []Step {
	if r == nil {
		return nil
	}
	return append([]Step(nil), r.steps...)
}
