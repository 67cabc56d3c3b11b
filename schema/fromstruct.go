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
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/structs"
)

// FromStruct derives a Schema from a Go struct's real memory layout,
// reusing the compiler's own field offsets instead of recomputing them —
// the natural fit when the host application's record type is a plain Go
// struct rather than a wire schema. v must be a struct or pointer to one;
// exported fields only, same rule structs.Map applies when exporting a
// dynamic value at the native-function boundary.
func FromStruct(name string, v any) (*Schema, error) {
	if !structs.IsStruct(v) {
		return nil, fmt.Errorf("schema: FromStruct requires a struct, got %T", v)
	}
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	s := &Schema{Name: name, byIndex: make(map[string]int, rt.NumField())}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		pt, ok := primitiveTypeOf(sf.Type)
		if !ok {
			continue // composite field: not schema-addressable, simply omitted
		}
		s.byIndex[strings.ToLower(sf.Name)] = len(s.Fields)
		s.Fields = append(s.Fields, Field{
			Name:   sf.Name,
			Type:   pt,
			Offset: int(sf.Offset),
			Size:   int(sf.Type.Size()),
		})
	}
	return s, nil
}

func primitiveTypeOf(t reflect.Type) (PrimitiveType, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return TypeBool, true
	case reflect.Int32:
		return TypeInt32, true
	case reflect.Int, reflect.Int64:
		return TypeInt64, true
	case reflect.Uint32:
		return TypeUint32, true
	case reflect.Uint, reflect.Uint64:
		return TypeUint64, true
	case reflect.Float32:
		return TypeFloat32, true
	case reflect.Float64:
		return TypeFloat64, true
	case reflect.String:
		return TypeString, true
	default:
		return 0, false
	}
}
