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

package value

import (
	"strconv"
	"strings"
)

// MissingFieldPolicy controls what a path lookup does when an
// intermediate or leaf segment is absent.
type MissingFieldPolicy uint8

const (
	Lenient MissingFieldPolicy = iota
	Strict
	DefaultPolicy
)

// Segment is one hop of a precomputed field path: either a named key
// (object field) or a numeric index (array element). Paths are split
// once, at compile time, and walked without re-parsing — see
// ast.FieldPath / bytecode's field pool.
type Segment struct {
	Key   string
	Index int
	IsKey bool
}

// SplitPath parses "user.profile.level" / "items[0].price" into
// Segments. This is the one place a dotted/bracketed path is parsed;
// everywhere else a precomputed []Segment is walked.
func SplitPath(path string) []Segment {
	var segs []Segment
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, Segment{Key: cur.String(), IsKey: true})
			cur.Reset()
		}
	}
	i := 0
	for i < len(path) {
		c := path[i]
		switch c {
		case '.':
			flush()
			i++
		case '[':
			flush()
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			idxStr := path[i+1 : j]
			if n, err := strconv.Atoi(idxStr); err == nil {
				segs = append(segs, Segment{Index: n, IsKey: false})
			} else {
				segs = append(segs, Segment{Key: idxStr, IsKey: true})
			}
			i = j + 1
		default:
			cur.WriteByte(c)
			i++
		}
	}
	flush()
	return segs
}

// Context is the two-layer record expressions evaluate against: the
// immutable input, and a mutable vars scope populated by action steps.
type Context struct {
	Input        Value // must be KindObject (or Null for an empty record)
	Vars         map[string]Value
	Policy       MissingFieldPolicy
	Defaults     map[string]Value // per-field defaults for MissingFieldPolicy == DefaultPolicy
	MaxDepth     int
}

func NewContext(input Value, policy MissingFieldPolicy) *Context {
	return &Context{
		Input:    input,
		Vars:     make(map[string]Value),
		Policy:   policy,
		Defaults: make(map[string]Value),
		MaxDepth: 256,
	}
}

// IsVarPath reports whether a raw identifier/path string addresses the
// variable scope: a leading "$" or a "vars." prefix.
func IsVarPath(raw string) (name string, ok bool) {
	if strings.HasPrefix(raw, "$") {
		return raw[1:], true
	}
	if strings.HasPrefix(raw, "vars.") {
		return raw[len("vars."):], true
	}
	return "", false
}

// GetVar looks up a variable in ctx.Vars.
func (c *Context) GetVar(name string) Value {
	if v, ok := c.Vars[name]; ok {
		return v
	}
	return Undefined
}

func (c *Context) SetVar(name string, v Value) {
	c.Vars[name] = v
}

// Resolve walks a precomputed field path rooted at ctx.Input and applies
// the missing-field policy. The bool return reports whether the field
// existed at all (used by exists()), independent of the policy's chosen
// substitute value.
func (c *Context) Resolve(path []Segment) (Value, bool, error) {
	cur := c.Input
	for _, seg := range path {
		var next Value
		var ok bool
		switch {
		case cur.IsObject() && seg.IsKey:
			next, ok = cur.Object().Get(seg.Key)
		case cur.IsArray() && !seg.IsKey:
			items := cur.Items()
			if seg.Index >= 0 && seg.Index < len(items) {
				next, ok = items[seg.Index], true
			}
		case cur.IsArray() && seg.IsKey:
			// array-of-objects: "items.name" is not addressable this way;
			// fall through as missing.
		case cur.IsNull(), cur.IsUndefined():
			// missing intermediate segment: exists() must see this as false.
		}
		if !ok {
			return c.missing(path)
		}
		cur = next
	}
	return cur, true, nil
}

func (c *Context) missing(path []Segment) (Value, bool, error) {
	switch c.Policy {
	case Strict:
		return Undefined, false, &missingFieldError{path: pathString(path)}
	case DefaultPolicy:
		key := pathString(path)
		if def, ok := c.Defaults[key]; ok {
			return def, false, nil
		}
		return Null, false, nil
	default: // Lenient
		return Null, false, nil
	}
}

func pathString(path []Segment) string {
	var b strings.Builder
	for i, s := range path {
		if s.IsKey {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.Key)
		} else {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

type missingFieldError struct{ path string }

func (e *missingFieldError) Error() string { return "missing field: " + e.path }

// Exists resolves a path and reports only the presence bit, never
// erroring under any policy — `exists(path)` never fails even under
// Strict, since it asks about presence rather than requiring a value.
func (c *Context) Exists(path []Segment) bool {
	cur := c.Input
	for _, seg := range path {
		if cur.IsObject() && seg.IsKey {
			next, ok := cur.Object().Get(seg.Key)
			if !ok {
				return false
			}
			cur = next
			continue
		}
		if cur.IsArray() && !seg.IsKey {
			items := cur.Items()
			if seg.Index < 0 || seg.Index >= len(items) {
				return false
			}
			cur = items[seg.Index]
			continue
		}
		return false
	}
	return true
}
