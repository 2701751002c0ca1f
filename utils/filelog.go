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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const dayLayout = "2006-01-02"

var (
	fileLogMu         sync.RWMutex
	fileLogEnabled    = EnvDefaultBool("FILE_LOG_ENABLED", false)
	fileLogDir        = EnvDefaultString("FILE_LOG_DIR", "logs")
	fileLogMaxAgeDays = envDefaultInt("FILE_LOG_MAX_AGE_DAYS", 7)
	fileLogFormat     = EnvDefaultString("FILE_LOG_FORMAT", "text")
)

// ConfigureFileLog enables per-level daily log files under dir for loggers
// created afterwards. Day directories older than maxAgeDays are removed on
// rollover; a negative value keeps everything.
func ConfigureFileLog(dir string, maxAgeDays int) {
	fileLogMu.Lock()
	defer fileLogMu.Unlock()
	fileLogEnabled = true
	if dir != "" {
		fileLogDir = dir
	}
	fileLogMaxAgeDays = maxAgeDays
}

// DisableFileLog stops attaching file hooks to new loggers.
func DisableFileLog() {
	fileLogMu.Lock()
	defer fileLogMu.Unlock()
	fileLogEnabled = false
}

// ConfigureFileLogFormat selects "json" or "text" file output.
func ConfigureFileLogFormat(format string) {
	fileLogMu.Lock()
	defer fileLogMu.Unlock()
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		fileLogFormat = "json"
	} else {
		fileLogFormat = "text"
	}
}

func fileLogSettings() (string, int, bool) {
	fileLogMu.RLock()
	defer fileLogMu.RUnlock()
	return fileLogDir, fileLogMaxAgeDays, fileLogEnabled
}

// AddDailyRollingFileHook writes every entry of l to
// <dir>/<yyyy-mm-dd>/<level>.log. Fatal and panic entries go to error.log.
func AddDailyRollingFileHook(l *logrus.Logger, name, dir string, maxAgeDays int) error {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	fileLogMu.RLock()
	asJSON := fileLogFormat == "json"
	fileLogMu.RUnlock()
	var formatter logrus.Formatter = &Log4jColorFormatter{LoggerName: name, NameWidth: 10, CallerWidth: 22, NoColor: true}
	if asJSON {
		formatter = &JSONLogFormatter{LoggerName: name}
	}

	writers := make(map[logrus.Level]io.Writer, len(logrus.AllLevels))
	errW := &dailyLevelWriter{baseDir: dir, level: "error", maxAgeDays: maxAgeDays}
	for _, lvl := range logrus.AllLevels {
		switch lvl {
		case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
			writers[lvl] = errW
		default:
			writers[lvl] = &dailyLevelWriter{baseDir: dir, level: lvl.String(), maxAgeDays: maxAgeDays}
		}
	}
	l.AddHook(&levelWriterHook{writers: writers, formatter: formatter})
	return nil
}

type levelWriterHook struct {
	writers   map[logrus.Level]io.Writer
	formatter logrus.Formatter
}

func (h *levelWriterHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *levelWriterHook) Fire(e *logrus.Entry) error {
	w, ok := h.writers[e.Level]
	if !ok {
		return nil
	}
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// dailyLevelWriter appends to one file per day and removes expired day
// directories when the day changes.
type dailyLevelWriter struct {
	baseDir    string
	level      string
	maxAgeDays int
	now        func() time.Time

	mu      sync.Mutex
	curDate string
	file    *os.File
}

func (w *dailyLevelWriter) Write(p []byte) (int, error) {
	now := time.Now
	if w.now != nil {
		now = w.now
	}
	today := now()

	w.mu.Lock()
	defer w.mu.Unlock()
	if date := today.Format(dayLayout); w.file == nil || w.curDate != date {
		if err := w.rotate(date); err != nil {
			return 0, err
		}
		w.cleanup(today)
	}
	return w.file.Write(p)
}

func (w *dailyLevelWriter) rotate(date string) error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	dir := filepath.Join(w.baseDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, w.level+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	w.file, w.curDate = f, date
	return nil
}

func (w *dailyLevelWriter) cleanup(today time.Time) {
	if w.maxAgeDays < 0 {
		return
	}
	cutoff := today.AddDate(0, 0, -w.maxAgeDays).Format(dayLayout)
	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		// day directories sort lexically
		if _, err := time.Parse(dayLayout, e.Name()); err == nil && e.Name() < cutoff {
			_ = os.RemoveAll(filepath.Join(w.baseDir, e.Name()))
		}
	}
}

// Close releases the current file.
func (w *dailyLevelWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func envDefaultInt(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return n
	}
	return def
}
