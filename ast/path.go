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

import (
	"fmt"

	"github.com/rulekit/rulekit/tokens"
)

// Identifier is a bare name: a variable reference when it carries the "$"
// sigil (value.IsVarPath), otherwise a single-segment field path rooted at
// the evaluation input.
type Identifier struct {
	Range tokens.Range
	Name  string
}

func (n *Identifier) exprNode()            {}
func (n *Identifier) Position() tokens.Pos { return n.Range.From }
func (n *Identifier) String() string       { return n.Name }

var _ Expr = &Identifier{}

// FieldAccess is the postfix "." ident production: target.Name.
type FieldAccess struct {
	Range  tokens.Range
	Target Expr
	Name   string
}

func (n *FieldAccess) exprNode()            {}
func (n *FieldAccess) Position() tokens.Pos { return n.Range.From }
func (n *FieldAccess) String() string       { return fmt.Sprintf("%s.%s", n.Target.String(), n.Name) }

var _ Expr = &FieldAccess{}

// IndexAccess is the postfix "[" expr "]" production: target[Index]. Index
// is a general expression; when it folds to a literal string or non-negative
// integer it can be flattened into a static value.Segment by FieldPath.
type IndexAccess struct {
	Range  tokens.Range
	Target Expr
	Index  Expr
}

func (n *IndexAccess) exprNode()            {}
func (n *IndexAccess) Position() tokens.Pos { return n.Range.From }
func (n *IndexAccess) String() string {
	return fmt.Sprintf("%s[%s]", n.Target.String(), n.Index.String())
}

var _ Expr = &IndexAccess{}
