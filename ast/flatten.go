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

package ast

import "github.com/rulekit/rulekit/value"

// FieldPath flattens a chain of Identifier/FieldAccess/IndexAccess nodes
// rooted at a plain (non-variable) Identifier into the dot/bracket segment
// list value.Context.Resolve expects. It is what exists() (§3's "single
// field path, not a general expression" rule), the bytecode field pool, and
// JIT field binding all call to turn a path expression into a static path.
//
// ok is false when e is not a pure field-path shape: a variable identifier,
// a computed index that isn't a literal int/string, or any other expression
// kind. Compiling a non-path exists() argument should surface as a compile
// error, not fall back to runtime evaluation.
func FieldPath(e Expr) (path []value.Segment, ok bool) {
	switch n := e.(type) {
	case *Identifier:
		if _, isVar := value.IsVarPath(n.Name); isVar {
			return nil, false
		}
		return []value.Segment{{Key: n.Name, IsKey: true}}, true
	case *FieldAccess:
		base, ok := FieldPath(n.Target)
		if !ok {
			return nil, false
		}
		return append(base, value.Segment{Key: n.Name, IsKey: true}), true
	case *IndexAccess:
		base, ok := FieldPath(n.Target)
		if !ok {
			return nil, false
		}
		switch idx := n.Index.(type) {
		case *IntLiteral:
			return append(base, value.Segment{Index: int(idx.Value), IsKey: false}), true
		case *StringLiteral:
			return append(base, value.Segment{Key: idx.Value, IsKey: true}), true
		default:
			return nil, false
		}
	default:
		return nil, false
	}
}

// IsFieldPath reports whether e is shaped like a field path, without
// allocating the flattened segment slice.
func IsFieldPath(e Expr) bool {
	_, ok := FieldPath(e)
	return ok
}
