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

package schema

import (
	"sort"

	"github.com/rulekit/rulekit/ast"
)

// RulesetAnalysis aggregates per-expression Analysis results across every
// compilable expression in a ruleset: a deduplicated required-field list
// and a heuristic estimate of the native speedup the ruleset would see if
// every compatible expression were actually native-compiled.
type RulesetAnalysis struct {
	PerExpr        []Analysis
	RequiredFields []string
	AllCompatible  bool
	EstimatedSpeedup float64
}

// AnalyzeRuleset runs Analyze over every expression in exprs against s and
// folds the results into a ruleset-wide summary. Speedup is estimated at
// 20x when every expression is JIT-compatible, falling off linearly with
// the fraction that isn't — a rough guide for whether enabling the JIT is
// worth the compile-time cost, not a measured number.
func AnalyzeRuleset(exprs []ast.Expr, s *Schema) RulesetAnalysis {
	results := make([]Analysis, len(exprs))
	fields := map[string]bool{}
	compatible := 0
	for i, e := range exprs {
		results[i] = Analyze(e, s)
		for _, f := range results[i].AccessedFields {
			fields[f] = true
		}
		if results[i].JITCompatible {
			compatible++
		}
	}
	required := make([]string, 0, len(fields))
	for f := range fields {
		required = append(required, f)
	}
	sort.Strings(required)

	ratio := 1.0
	if len(exprs) > 0 {
		ratio = float64(compatible) / float64(len(exprs))
	}
	return RulesetAnalysis{
		PerExpr:          results,
		RequiredFields:   required,
		AllCompatible:    len(exprs) > 0 && compatible == len(exprs),
		EstimatedSpeedup: 1 + ratio*19,
	}
}
