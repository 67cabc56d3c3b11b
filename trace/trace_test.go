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

package trace_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rulekit/rulekit/trace"
)

func TestNilRecorderDiscardsSilently(t *testing.T) {
	var r *trace.Recorder
	require.False(t, r.IsEnabled())
	r.Record(trace.Step{Kind: "decision", StepID: "s1"})
	require.Nil(t, r.Steps())
}

func TestRecorderAccumulatesSteps(t *testing.T) {
	r := trace.New(true)
	require.True(t, r.IsEnabled())
	r.Record(trace.Step{Kind: "decision", StepID: "s1", BranchIndex: 1, NextStepID: "s2"})
	r.Record(trace.Step{Kind: "terminal", StepID: "s2"})
	steps := r.Steps()
	require.Len(t, steps, 2)
	require.Equal(t, "s1", steps[0].StepID)
	require.Equal(t, 1, steps[0].BranchIndex)
}

func TestExprNodeTimingAndChaining(t *testing.T) {
	n, done := trace.NewExprNode("binary", "+")
	done()
	child, childDone := trace.NewExprNode("literal", "")
	childDone()
	n.Attach(child).SetResult(3).SetErr(errors.New("boom"))
	require.Equal(t, "boom", n.Err)
	require.Len(t, n.Children, 1)
}
