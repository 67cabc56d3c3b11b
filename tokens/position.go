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

package tokens

import "fmt"

// Pos is a location within source: 1-based line/column, 0-based byte offset.
type Pos struct {
	Line   int
	Column int
	Offset int
}

// Range is a contiguous span of source, [From, To].
type Range struct {
	File string
	From Pos
	To   Pos
}

func (r Range) String() string {
	if r.From.Line == r.To.Line {
		return fmt.Sprintf("%s:%d:%d-%d", r.File, r.From.Line, r.From.Column, r.To.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", r.File, r.From.Line, r.From.Column, r.To.Line, r.To.Column)
}
