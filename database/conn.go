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
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalDriver Driver
)

// GetDriver returns the global driver, or nil before InitDriver.
func GetDriver() Driver {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalDriver
}

// InitDriver opens the driver described by cfg and installs it as the global
// driver, closing any previous one. Registered models are bootstrapped when
// AutoCreate is set.
func InitDriver(ctx context.Context, cfg *Config) (Driver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	drv, err := NewFactory().CreateFromConfig(ctx, &cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}
	if cfg.Connection.AutoCreate {
		if err := EnsureTables(ctx, drv); err != nil {
			_ = drv.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	globalMu.Lock()
	prev := globalDriver
	globalDriver = drv
	globalMu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	GetLogger().Info("Database initialization completed!", "driver", drv.Name())
	return drv, nil
}

// CloseDriver closes and clears the global driver.
func CloseDriver() error {
	globalMu.Lock()
	drv := globalDriver
	globalDriver = nil
	globalMu.Unlock()
	if drv == nil {
		return nil
	}
	return drv.Close()
}

// GetHealthStatus checks the global driver.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	return HealthCheck(ctx, GetDriver())
}
