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
	"database/sql"
	"fmt"
	"time"
)

// EnsureTables creates the storage of every model that does not exist yet.
// With no models the default model registry is used. Drivers that cannot
// create tables are left untouched.
func EnsureTables(ctx context.Context, drv Driver, models ...any) error {
	creator, ok := drv.(TableCreator)
	if !ok {
		GetLogger().Debug("Driver does not create tables, skipping", "driver", drv.Name())
		return nil
	}
	if len(models) == 0 {
		models = RegisteredModelInstances()
	}
	for _, model := range models {
		if err := creator.EnsureTable(ctx, model); err != nil {
			return err
		}
	}
	GetLogger().Debug("Tables ensured", "driver", drv.Name(), "count", len(models))
	return nil
}

type statsProvider interface {
	Stats() sql.DBStats
}

// HealthCheck pings drv and reports its latency and, for pooled drivers, the
// connection pool state.
func HealthCheck(ctx context.Context, drv Driver) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{LastCheckTime: start}
	if drv == nil {
		status.LastError = "database not initialized"
		return status
	}
	status.Driver = drv.Name()

	ctxTimeout, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	err := drv.Ping(ctxTimeout)
	status.ResponseTime = time.Since(start)
	if err != nil {
		status.LastError = fmt.Sprint(err)
	} else {
		status.Healthy = true
	}

	if sp, ok := drv.(statsProvider); ok {
		stats := sp.Stats()
		status.ActiveConns = stats.InUse
		status.IdleConns = stats.Idle
		status.MaxOpenConns = stats.MaxOpenConnections
	}
	return status
}
