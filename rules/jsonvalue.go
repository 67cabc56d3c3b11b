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

package rules

import (
	"encoding/json"

	"github.com/rulekit/rulekit/value"
)

// decodeJSONValue turns a terminal step's static "data" literal into a
// value.Value, reusing value.FromNative rather than hand-rolling a
// second json-to-Value walker.
func decodeJSONValue(raw json.RawMessage) (value.Value, error) {
	var native any
	if err := json.Unmarshal(raw, &native); err != nil {
		return value.Null, err
	}
	return value.FromNative(native), nil
}
