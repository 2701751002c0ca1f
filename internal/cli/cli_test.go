/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tomoncle/stratum/database"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	out, err := run(t, "render", "SELECT * FROM user WHERE name = ?1 AND age > ?2", "O'Brien", "30")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM user WHERE name = 'O''Brien' AND age > 30\n", out)

	out, err = run(t, "render", "-d", "surrealdb", "?1 ?2", "O'Brien", "null")
	require.NoError(t, err)
	assert.Equal(t, "'O\\'Brien' NONE\n", out)

	out, err = run(t, "render", "--raw-strings", "?1", "42")
	require.NoError(t, err)
	assert.Equal(t, "'42'\n", out)
}

func TestRenderCommandErrors(t *testing.T) {
	_, err := run(t, "render", "?1 ?2", "a")
	assert.Error(t, err)

	_, err = run(t, "render", "-d", "oracle", "?1", "a")
	assert.ErrorContains(t, err, "unknown dialect")
}

func TestParseArg(t *testing.T) {
	assert.Nil(t, parseArg("NULL"))
	assert.Equal(t, true, parseArg("true"))
	assert.Equal(t, int64(-7), parseArg("-7"))
	assert.Equal(t, 2.5, parseArg("2.5"))
	assert.Equal(t, "Ada", parseArg("Ada"))
}

func writeSQLiteConfig(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := database.Config{Connection: database.ConnectionConfig{
		Type:   "sqlite",
		DBName: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}}
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestQueryCommand(t *testing.T) {
	cfg := writeSQLiteConfig(t)

	out, err := run(t, "-c", cfg, "query", "SELECT ?1 AS name, ?2 AS age", "Ada", "36")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada", rows[0]["name"])
	assert.EqualValues(t, 36, rows[0]["age"])

	out, err = run(t, "-c", cfg, "query", "-o", "yaml", "SELECT ?1 AS name", "Ada")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Ada")
}

func TestPingCommand(t *testing.T) {
	cfg := writeSQLiteConfig(t)

	out, err := run(t, "-c", cfg, "ping", "-o", "json")
	require.NoError(t, err)

	var status database.HealthStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Healthy)
	assert.Equal(t, "sqlite", status.Driver)
}

func TestUnknownConfigFile(t *testing.T) {
	_, err := run(t, "-c", filepath.Join(t.TempDir(), "absent.yaml"), "ping")
	assert.Error(t, err)
}
