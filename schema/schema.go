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

// Package schema describes the in-memory C-ABI layout of a JIT-eligible
// evaluation record: a named, ordered list of fields each carrying a
// primitive type, byte offset, and byte size. The JIT reads directly off
// these offsets; a Schema is a contract the record producer must honor
// exactly, or compiled native code reads the wrong memory.
package schema

import (
	"fmt"
	"strings"

	"github.com/mitchellh/hashstructure/v2"
)

// PrimitiveType enumerates the scalar field types a Schema can describe.
// Composite shapes (nested message, repeated, optional) are out of the
// JIT's reach by construction: analyze always marks them unsupported, so
// there's no need to round-trip them through a native layout.
type PrimitiveType uint8

const (
	TypeBool PrimitiveType = iota
	TypeInt32
	TypeInt64
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeBytes
	TypeEnum // stored as i32
)

func (t PrimitiveType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "i32"
	case TypeInt64:
		return "i64"
	case TypeUint32:
		return "u32"
	case TypeUint64:
		return "u64"
	case TypeFloat32:
		return "f32"
	case TypeFloat64:
		return "f64"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytes"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the type is one the JIT analyzer will ever
// accept as an operand — every scalar type except string/bytes.
func (t PrimitiveType) IsNumeric() bool {
	switch t {
	case TypeString, TypeBytes:
		return false
	default:
		return true
	}
}

// byteSize returns the natural size in bytes of a primitive type.
func (t PrimitiveType) byteSize() int {
	switch t {
	case TypeBool:
		return 1
	case TypeInt32, TypeUint32, TypeFloat32, TypeEnum:
		return 4
	case TypeInt64, TypeUint64, TypeFloat64:
		return 8
	case TypeString, TypeBytes:
		return 16 // pointer + length, as laid out by a Go string/slice header pair
	default:
		return 8
	}
}

// Field is one named, offset-addressed slot in a Schema.
type Field struct {
	Name   string
	Type   PrimitiveType
	Offset int
	Size   int
}

// Schema is a named, ordered field list describing a record's memory
// layout. Offsets are computed with natural alignment: align = min(size, 8),
// and the running offset is padded up to that alignment before each field
// is placed.
type Schema struct {
	Name    string
	Fields  []Field
	byIndex map[string]int
}

// New builds a Schema named name by laying out fields in the given order,
// computing byte offsets with natural alignment as it goes. The caller
// supplies only name and type per field; New fills in Offset and Size.
func New(name string, fields []struct {
	Name string
	Type PrimitiveType
}) *Schema {
	s := &Schema{Name: name, byIndex: make(map[string]int, len(fields))}
	offset := 0
	for _, f := range fields {
		size := f.Type.byteSize()
		align := size
		if align > 8 {
			align = 8
		}
		if align > 0 && offset%align != 0 {
			offset += align - offset%align
		}
		s.byIndex[strings.ToLower(f.Name)] = len(s.Fields)
		s.Fields = append(s.Fields, Field{Name: f.Name, Type: f.Type, Offset: offset, Size: size})
		offset += size
	}
	if offset%8 != 0 {
		offset += 8 - offset%8
	}
	return s
}

// Lookup resolves a top-level field name to its layout, case-insensitively
// — a schema built via FromStruct carries Go's exported-field casing
// (Age, Balance) while rule source addresses fields the way a JSON record
// would (age, balance). Nested paths are not schema-addressable; the JIT
// analyzer only ever inlines single-segment field access against a Schema.
func (s *Schema) Lookup(name string) (Field, bool) {
	idx, ok := s.byIndex[strings.ToLower(name)]
	if !ok {
		return Field{}, false
	}
	return s.Fields[idx], true
}

// Fingerprint is a content hash of the field list, used by the JIT to
// verify at call time that a record pointer was produced against the same
// layout a CompiledNativeExpr was compiled for.
func (s *Schema) Fingerprint() uint64 {
	h, err := hashstructure.Hash(s.Fields, hashstructure.FormatV2, nil)
	if err != nil {
		panic(fmt.Sprintf("schema: unhashable field list for %q: %v", s.Name, err))
	}
	return h
}
