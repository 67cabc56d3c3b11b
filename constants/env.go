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

package constants

const (
	APPNAME           = "rulekit"
	PackFileExtension = "pack.toml"
)

const (
	EnvLogLevel    = "RULEKIT_LOG_LEVEL"
	EnvDebug       = "RULEKIT_DEBUG"
	EnvMaxDepth    = "RULEKIT_MAX_DEPTH"
	EnvJitEnabled  = "RULEKIT_JIT_ENABLED"
	EnvTraceLevel  = "RULEKIT_TRACE_LEVEL"
)

// Defaults used where CompileOptions/ExecOptions omit a value.
const (
	DefaultMaxDepth          = 64
	DefaultMaxStackDepth     = 256
	DefaultTimeoutMs         = 0 // 0 == no deadline
	DefaultJitMinCallsToPay  = 100
)
