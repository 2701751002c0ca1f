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
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tomoncle/stratum/utils"
)

var supportedTypes = []string{"surrealdb", "mysql", "postgres", "sqlite"}

// Factory opens drivers from configuration.
type Factory struct {
	logger Logger
}

// NewFactory returns a factory using the global logger.
func NewFactory() *Factory {
	return &Factory{logger: GetLogger()}
}

// SetLogger sets the logger handed to created drivers.
func (f *Factory) SetLogger(logger Logger) {
	f.logger = logger
}

// CreateFromConfig applies environment overrides to cfg and opens the driver
// it describes.
func (f *Factory) CreateFromConfig(ctx context.Context, cfg *ConnectionConfig) (Driver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}

	f.overrideFromEnv(cfg)

	switch strings.ToLower(cfg.Type) {
	case "surreal", "surrealdb":
		return OpenSurreal(ctx, cfg, f.logger)
	case "mysql", "postgres", "postgresql", "sqlite", "sqlite3":
		return OpenBun(ctx, cfg, f.logger)
	}
	return nil, fmt.Errorf("%w: %s, supported types: %v", ErrUnsupportedDriver, cfg.Type, supportedTypes)
}

// overrideFromEnv applies the DB_* environment variables on top of cfg.
// Durations accept Go syntax ("90s") or a number of seconds; malformed numbers
// are logged and ignored.
func (f *Factory) overrideFromEnv(cfg *ConnectionConfig) {
	for key, dst := range map[string]*string{
		"DB_TYPE":      &cfg.Type,
		"DB_HOST":      &cfg.Host,
		"DB_USERNAME":  &cfg.Username,
		"DB_PASSWORD":  &cfg.Password,
		"DB_NAME":      &cfg.DBName,
		"DB_NAMESPACE": &cfg.Namespace,
		"DB_ENDPOINT":  &cfg.Endpoint,
		"DB_SSLMODE":   &cfg.SSLMode,
	} {
		*dst = utils.EnvDefaultString(key, *dst)
	}

	for key, dst := range map[string]*int{
		"DB_PORT":           &cfg.Port,
		"DB_MAX_IDLE_CONNS": &cfg.MaxIdleConns,
		"DB_MAX_OPEN_CONNS": &cfg.MaxOpenConns,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			f.logger.Warn("Ignoring invalid environment value", "key", key, "value", v)
			continue
		}
		*dst = n
	}

	for key, dst := range map[string]*time.Duration{
		"DB_CONN_MAX_LIFETIME":  &cfg.ConnMaxLifetime,
		"DB_CONN_MAX_IDLE_TIME": &cfg.ConnMaxIdleTime,
		"DB_SLOW_QUERY_TIME":    &cfg.SlowQueryTime,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		} else if secs, err := strconv.Atoi(v); err == nil {
			*dst = time.Duration(secs) * time.Second
		} else {
			f.logger.Warn("Ignoring invalid environment value", "key", key, "value", v)
		}
	}

	cfg.AutoCreate = utils.EnvDefaultBool("DB_AUTO_CREATE", cfg.AutoCreate)
	cfg.EnableQueryLog = utils.EnvDefaultBool("DB_ENABLE_QUERY_LOG", cfg.EnableQueryLog)
}
