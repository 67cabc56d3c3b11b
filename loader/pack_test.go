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

package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPack_ValidMinimal(t *testing.T) {
	tmpDir := t.TempDir()
	packFile := filepath.Join(tmpDir, PackFileName)

	content := `schema_version = "1"
name = "test_pack"
version = "0.1.0"

[engines]
rulekit = "*"

[defaults]
max_depth = 64
optimize = true
`
	require.NoError(t, os.WriteFile(packFile, []byte(content), 0644))

	ctx := context.Background()
	p, err := LoadPack(ctx, tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "test_pack", p.Name)
	assert.Equal(t, "0.1.0", p.Version)
	assert.Equal(t, 64, p.Defaults.MaxDepth)
	assert.Equal(t, tmpDir, p.Location)
}

func TestLoadPack_SearchesParentDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	packFile := filepath.Join(tmpDir, PackFileName)
	require.NoError(t, os.WriteFile(packFile, []byte(`schema_version = "1"
name = "parent_pack"
`), 0644))

	sub := filepath.Join(tmpDir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0755))

	p, err := LoadPack(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "parent_pack", p.Name)
	assert.Equal(t, tmpDir, p.Location)
}

func TestLoadPack_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := LoadPack(context.Background(), tmpDir)
	require.Error(t, err)
}
