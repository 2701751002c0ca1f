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

package utils

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestJSONLogFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&JSONLogFormatter{LoggerName: "TEST"})
	l.WithField("repository", "Users").Info("built")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "TEST", rec["model"])
	assert.Equal(t, "built", rec["message"])
	assert.Equal(t, map[string]any{"repository": "Users"}, rec["fields"])
}

func TestLoggerRegistryLevels(t *testing.T) {
	var buf bytes.Buffer
	ConfigureLogOutput(&buf)
	t.Cleanup(func() { ConfigureLogOutput(os.Stderr) })

	l := NewLogger("registry-test")
	require.True(t, SetLoggerLevel("registry-test", "error"))
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.False(t, SetLoggerLevel("absent", "debug"))

	l.Warn("dropped")
	assert.Empty(t, buf.String())
	l.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLimitRunes(t *testing.T) {
	assert.Equal(t, "go:12", limitRunes("repository/proxy.go:12", 5))
	assert.Equal(t, "short", limitRunes("short", 10))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("STRATUM_TEST_BOOL", "yes")
	assert.True(t, EnvDefaultBool("STRATUM_TEST_BOOL", false))
	assert.Equal(t, "def", EnvDefaultString("STRATUM_TEST_UNSET", "def"))
}

func TestDailyRollingFileHook(t *testing.T) {
	dir := t.TempDir()
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	require.NoError(t, AddDailyRollingFileHook(l, "FILES", dir, 7))

	l.Info("saved")
	l.Error("failed")

	day := time.Now().Format(dayLayout)
	info, err := os.ReadFile(filepath.Join(dir, day, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "saved")
	assert.NotContains(t, string(info), "\x1b[")

	errs, err := os.ReadFile(filepath.Join(dir, day, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errs), "failed")
}

func TestDailyLevelWriterRemovesExpiredDays(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "2020-01-01")
	require.NoError(t, os.MkdirAll(old, 0o755))
	keep := filepath.Join(dir, "not-a-day")
	require.NoError(t, os.MkdirAll(keep, 0o755))

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	w := &dailyLevelWriter{baseDir: dir, level: "info", maxAgeDays: 7, now: func() time.Time { return now }}
	t.Cleanup(func() { _ = w.Close() })

	_, err := w.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.NoDirExists(t, old)
	assert.DirExists(t, keep)
	assert.FileExists(t, filepath.Join(dir, "2024-05-10", "info.log"))
}

func TestNewLoggerAttachesFileHookWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	ConfigureFileLog(dir, -1)
	t.Cleanup(DisableFileLog)
	ConfigureLogOutput(io.Discard)
	t.Cleanup(func() { ConfigureLogOutput(os.Stderr) })

	l := NewLogger("file-enabled")
	l.SetLevel(logrus.InfoLevel)
	l.Warn("to disk")

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format(dayLayout), "warning.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to disk")
}
