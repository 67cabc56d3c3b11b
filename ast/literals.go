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
	"strconv"

	"github.com/rulekit/rulekit/tokens"
)

type NullLiteral struct {
	Range tokens.Range
}

func (n *NullLiteral) exprNode()            {}
func (n *NullLiteral) Position() tokens.Pos { return n.Range.From }
func (n *NullLiteral) String() string       { return "null" }

var _ Expr = &NullLiteral{}

type BoolLiteral struct {
	Range tokens.Range
	Value bool
}

func (n *BoolLiteral) exprNode()            {}
func (n *BoolLiteral) Position() tokens.Pos { return n.Range.From }
func (n *BoolLiteral) String() string       { return strconv.FormatBool(n.Value) }

var _ Expr = &BoolLiteral{}

type IntLiteral struct {
	Range tokens.Range
	Value int64
}

func (n *IntLiteral) exprNode()            {}
func (n *IntLiteral) Position() tokens.Pos { return n.Range.From }
func (n *IntLiteral) String() string       { return strconv.FormatInt(n.Value, 10) }

var _ Expr = &IntLiteral{}

type FloatLiteral struct {
	Range tokens.Range
	Value float64
}

func (n *FloatLiteral) exprNode()            {}
func (n *FloatLiteral) Position() tokens.Pos { return n.Range.From }
func (n *FloatLiteral) String() string       { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

var _ Expr = &FloatLiteral{}

type StringLiteral struct {
	Range tokens.Range
	Value string
}

func (n *StringLiteral) exprNode()            {}
func (n *StringLiteral) Position() tokens.Pos { return n.Range.From }
func (n *StringLiteral) String() string       { return fmt.Sprintf("%q", n.Value) }

var _ Expr = &StringLiteral{}

// ArrayLiteral is the "[" (expr ("," expr)*)? "]" primary.
type ArrayLiteral struct {
	Range    tokens.Range
	Elements []Expr
}

func (n *ArrayLiteral) exprNode()            {}
func (n *ArrayLiteral) Position() tokens.Pos { return n.Range.From }
func (n *ArrayLiteral) String() string {
	s := "["
	for i, el := range n.Elements {
		if i > 0 {
			s += ", "
		}
		s += el.String()
	}
	return s + "]"
}

var _ Expr = &ArrayLiteral{}

// ObjectEntry is one "key: value" pair of an object literal. Key is always
// the literal text of an identifier or string, never a computed expression.
type ObjectEntry struct {
	Key   string
	Value Expr
}

// ObjectLiteral is the "{" (key ":" expr ("," key ":" expr)*)? "}" primary.
type ObjectLiteral struct {
	Range   tokens.Range
	Entries []ObjectEntry
}

func (n *ObjectLiteral) exprNode()            {}
func (n *ObjectLiteral) Position() tokens.Pos { return n.Range.From }
func (n *ObjectLiteral) String() string {
	s := "{"
	for i, e := range n.Entries {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %s", e.Key, e.Value.String())
	}
	return s + "}"
}

var _ Expr = &ObjectLiteral{}
