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

package bytecode

import (
	"context"

	"github.com/jackc/puddle/v2"

	"github.com/rulekit/rulekit/registry"
	"github.com/rulekit/rulekit/value"
)

// Pool hands out reusable VM instances so a highly concurrent executor
// doesn't pay a stack allocation per evaluation. Mirrors the
// acquire/defer-release shape used for pooled script VM instances
// elsewhere in this module's dependency stack.
type Pool struct {
	inner *puddle.Pool[*VM]
}

// NewPool creates a Pool of at most maxSize VMs, each with a stack sized
// for stackSize values.
func NewPool(reg *registry.Registry, stackSize, maxSize int) (*Pool, error) {
	inner, err := puddle.NewPool(&puddle.Config[*VM]{
		Constructor: func(context.Context) (*VM, error) {
			return New(reg, stackSize), nil
		},
		Destructor: func(*VM) {},
		MaxSize:    int32(maxSize),
	})
	if err != nil {
		return nil, err
	}
	return &Pool{inner: inner}, nil
}

// Run acquires a pooled VM, executes c against ctx, and releases the VM
// back to the pool before returning.
func (p *Pool) Run(ctx context.Context, c *Compiled, ectx *value.Context) (value.Value, error) {
	res, err := p.inner.Acquire(ctx)
	if err != nil {
		return value.Null, err
	}
	defer res.Release()
	return res.Value().Run(c, ectx)
}

func (p *Pool) Close() { p.inner.Close() }
