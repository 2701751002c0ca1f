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

package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) SetLevel(LogLevel)                 {}
func (l *recordingLogger) Debug(string, ...interface{})      {}
func (l *recordingLogger) Info(string, ...interface{})       {}
func (l *recordingLogger) Error(string, ...interface{})      {}
func (l *recordingLogger) Warn(msg string, _ ...interface{}) { l.warnings = append(l.warnings, msg) }

func TestQueryHookLogsFailuresOnly(t *testing.T) {
	t.Setenv(QueryLogEnv, "1")
	var buf bytes.Buffer
	hook := NewQueryHook(&buf, false)

	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, buf.String())

	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT * FROM missing", StartTime: time.Now(), Err: errors.New("no such table")})
	assert.Contains(t, buf.String(), "SELECT * FROM missing")
	assert.Contains(t, buf.String(), "no such table")
}

func TestQueryHookVerboseAndDisabled(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook(&buf, false)

	t.Setenv(QueryLogEnv, "2")
	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "INSERT INTO users VALUES (1)", StartTime: time.Now()})
	assert.Contains(t, buf.String(), "INSERT INTO users")

	buf.Reset()
	t.Setenv(QueryLogEnv, "0")
	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now(), Err: errors.New("boom")})
	assert.Empty(t, buf.String())
}

func TestLogSlowQuery(t *testing.T) {
	logger := &recordingLogger{}
	logSlowQuery(logger, time.Second, 10*time.Millisecond, "SELECT 1")
	assert.Empty(t, logger.warnings)

	logSlowQuery(logger, time.Millisecond, time.Second, "SELECT 1")
	assert.Len(t, logger.warnings, 1)

	logSlowQuery(logger, 0, time.Hour, "SELECT 1")
	assert.Len(t, logger.warnings, 1)
}

func TestOperationColor(t *testing.T) {
	assert.Equal(t, selectColor, operationColor("select"))
	assert.Equal(t, updateColor, operationColor("UPSERT"))
	assert.Equal(t, otherColor, operationColor("PRAGMA"))
}
