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

package dag

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// stepID models a step graph node the way rules.StepID will: a bare
// string identifier satisfying fmt.Stringer.
type stepID string

func (s stepID) String() string { return string(s) }

type DagTestSuite struct {
	suite.Suite
}

func (s *DagTestSuite) TestReachableFollowsEdgesAndStopsAtLeaves() {
	g := New[stepID]()
	g.AddNode("entry")
	g.AddNode("decide")
	g.AddNode("approve")
	g.AddNode("deny")
	g.AddEdge("entry", "decide")
	g.AddEdge("decide", "approve")
	g.AddEdge("decide", "deny")

	reachable := g.Reachable("entry")
	s.Len(reachable, 4)
}

func (s *DagTestSuite) TestReachableStopsAtUnknownNode() {
	g := New[stepID]()
	g.AddNode("entry")
	g.AddEdge("entry", "missing")

	reachable := g.Reachable("entry")
	s.Len(reachable, 1)
	s.Equal(stepID("entry"), reachable[0])
}

func (s *DagTestSuite) TestReachableTerminatesOnCycle() {
	g := New[stepID]()
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	reachable := g.Reachable("a")
	s.Len(reachable, 2)
}

func (s *DagTestSuite) TestAddEdgeAllowsSelfLoop() {
	g := New[stepID]()
	g.AddNode("loop")
	err := g.AddEdge("loop", "loop")
	s.NoError(err)

	s.Equal([]stepID{"loop"}, g.Reachable("loop"))

	cycle := g.DetectFirstCycle()
	s.NotEmpty(cycle)
	s.Contains(cycle, stepID("loop"))
}

func (s *DagTestSuite) TestDetectFirstCycleOnAcyclicGraph() {
	g := New[stepID]()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	s.Empty(g.DetectFirstCycle())
}

func (s *DagTestSuite) TestDetectFirstCycleFindsLoop() {
	g := New[stepID]()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	cycle := g.DetectFirstCycle()
	s.NotEmpty(cycle)
	s.Contains(cycle, stepID("a"))
	s.Contains(cycle, stepID("b"))
	s.Contains(cycle, stepID("c"))
}

func TestDagTestSuite(t *testing.T) {
	suite.Run(t, new(DagTestSuite))
}
