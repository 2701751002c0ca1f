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
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type accountHolder struct{}

type HTTPSession struct{}

func TestTableName(t *testing.T) {
	assert.Equal(t, "users", TableName((*sqlUser)(nil)))
	assert.Equal(t, "users", TableName(&[]*sqlUser{}))
	assert.Equal(t, "person", TableName((*person)(nil)))
	assert.Equal(t, "person", TableName([]person{}))
	assert.Equal(t, "account_holder", TableName(accountHolder{}))
	assert.Equal(t, "http_session", TableName(&HTTPSession{}))
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err  error
		want DBError
	}{
		{ErrNotFound, NoRowsErr},
		{&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, DuplicateKeyErr},
		{&mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}, NoTableErr},
		{errors.New("pq: duplicate key value violates unique constraint"), DuplicateKeyErr},
		{errors.New("UNIQUE constraint failed: users.id"), DuplicateKeyErr},
		{errors.New("Database record `person:ada` already exists"), DuplicateKeyErr},
		{errors.New("The table 'person' does not exist"), NoTableErr},
		{errors.New("no such column: nickname"), NoColumnErr},
		{errors.New("something else"), UnknownErr},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyError(tc.err))
		})
	}
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
connection:
  type: surrealdb
  endpoint: ws://localhost:8000
  namespace: app
  dbname: main
  slow_query_time: 500ms
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "surrealdb", cfg.Connection.Type)
	assert.Equal(t, "app", cfg.Connection.Namespace)
	assert.Equal(t, 500*time.Millisecond, cfg.Connection.SlowQueryTime)
	assert.Equal(t, 100, cfg.Connection.MaxOpenConns)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFactoryEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAMESPACE", "prod")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90")
	t.Setenv("DB_SLOW_QUERY_TIME", "250ms")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	cfg := DefaultConnectionConfig()
	NewFactory().overrideFromEnv(cfg)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "prod", cfg.Namespace)
	assert.True(t, cfg.EnableQueryLog)
	assert.Equal(t, 90*time.Second, cfg.ConnMaxLifetime)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowQueryTime)
	assert.Equal(t, DefaultConnectionConfig().MaxOpenConns, cfg.MaxOpenConns)
}

func TestFactoryRejectsUnsupportedType(t *testing.T) {
	_, err := NewFactory().CreateFromConfig(context.Background(), &ConnectionConfig{Type: "cassandra"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = NewFactory().CreateFromConfig(context.Background(), nil)
	assert.Error(t, err)
}

func TestInitDriverInstallsGlobal(t *testing.T) {
	ctx := context.Background()
	RegisterModel(NewModel((*sqlUser)(nil), 1))

	drv, err := InitDriver(ctx, &Config{Connection: ConnectionConfig{
		Type:       "sqlite",
		DBName:     "file:init_driver?mode=memory&cache=shared",
		AutoCreate: true,
	}})
	require.NoError(t, err)
	assert.Same(t, drv, GetDriver())

	n, err := drv.Count(ctx, (*sqlUser)(nil))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, GetHealthStatus(ctx).Healthy)

	require.NoError(t, CloseDriver())
	assert.Nil(t, GetDriver())
}

func TestEnsureTablesSkipsPlainDrivers(t *testing.T) {
	ctrl := gomock.NewController(t)
	drv := NewMockDriver(ctrl)
	drv.EXPECT().Name().Return("mock").AnyTimes()

	assert.NoError(t, EnsureTables(context.Background(), drv, (*sqlUser)(nil)))
}

func TestHealthCheckReportsPingFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	drv := NewMockDriver(ctrl)
	drv.EXPECT().Name().Return("mock")
	drv.EXPECT().Ping(gomock.Any()).Return(ErrConnection)

	status := HealthCheck(context.Background(), drv)
	assert.False(t, status.Healthy)
	assert.Equal(t, "mock", status.Driver)
	assert.Contains(t, status.LastError, "connection")
}

type auditLog struct{}

func TestModelRegistryOrdersByPriority(t *testing.T) {
	r := newModelRegistry()
	r.Register(NewModel((*auditLog)(nil), 2))
	r.Register(NewModel((*sqlUser)(nil), 1))
	models := r.Models()
	require.Len(t, models, 2)
	assert.Equal(t, (*sqlUser)(nil), models[0].Instance())
}

func TestModelRegistryReplacesSameTable(t *testing.T) {
	r := newModelRegistry()
	r.Register(NewModel((*sqlUser)(nil), 5))
	r.Register(NewModel(&sqlUser{}, 0))
	models := r.Models()
	require.Len(t, models, 1)
	assert.Equal(t, 0, models[0].Priority())
}
