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
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type sqlUser struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID   string `bun:"id,pk" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
	Age  int    `bun:"age" json:"age"`
}

func openSQLite(t *testing.T) *BunDriver {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	drv, err := OpenBun(context.Background(), &ConnectionConfig{
		Type:   "sqlite",
		DBName: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}, NewZapLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })

	require.NoError(t, EnsureTables(context.Background(), drv, (*sqlUser)(nil)))
	return drv
}

func TestOpenBunLeavesConfigUntouched(t *testing.T) {
	cfg := &ConnectionConfig{Type: "sqlite", DBName: "file:untouched?mode=memory&cache=shared"}
	drv, err := OpenBun(context.Background(), cfg, NewZapLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	assert.Zero(t, cfg.ConnectTimeout)
}

func TestDSNUseResolvedTimeout(t *testing.T) {
	cfg := &ConnectionConfig{Username: "u", Password: "p", Host: "db", Port: 5432, DBName: "app"}
	assert.Contains(t, postgresDSN(cfg, 30*time.Second), "connect_timeout=30")
	assert.Contains(t, mysqlDSN(cfg, 5*time.Second), "timeout=5s")
}

func seedUsers(t *testing.T, drv Driver, users ...*sqlUser) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, drv.Save(context.Background(), u))
	}
}

func TestBunDriverCrud(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	assert.Equal(t, "sqlite", drv.Name())

	seedUsers(t, drv,
		&sqlUser{ID: "u1", Name: "Ada", Age: 36},
		&sqlUser{ID: "u2", Name: "Grace", Age: 45},
	)

	var got sqlUser
	require.NoError(t, drv.Get(ctx, "u1", &got))
	assert.Equal(t, "Ada", got.Name)

	err := drv.Get(ctx, "missing", &sqlUser{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, drv.Save(ctx, &sqlUser{ID: "u1", Name: "Ada Lovelace", Age: 37}))
	require.NoError(t, drv.Get(ctx, "u1", &got))
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, 37, got.Age)

	n, err := drv.Count(ctx, (*sqlUser)(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var page []*sqlUser
	require.NoError(t, drv.Find(ctx, &page, 1, 1))
	require.Len(t, page, 1)
	assert.Equal(t, "u2", page[0].ID)

	var all []sqlUser
	require.NoError(t, drv.Find(ctx, &all, 0, 0))
	assert.Len(t, all, 2)

	require.NoError(t, drv.Delete(ctx, "u2", (*sqlUser)(nil)))
	n, err = drv.Count(ctx, (*sqlUser)(nil))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBunDriverQuery(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	seedUsers(t, drv,
		&sqlUser{ID: "u1", Name: "O'Brien", Age: 30},
		&sqlUser{ID: "u2", Name: "Grace", Age: 45},
	)

	q := "SELECT * FROM users WHERE name = " + drv.Dialect().QuoteString("O'Brien")
	var users []sqlUser
	require.NoError(t, drv.Query(ctx, q, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)

	var names []string
	require.NoError(t, drv.Query(ctx, "SELECT name FROM users ORDER BY name", &names))
	assert.Equal(t, []string{"Grace", "O'Brien"}, names)

	var rows []map[string]interface{}
	require.NoError(t, drv.Query(ctx, "SELECT age FROM users WHERE age > 40", &rows))
	require.Len(t, rows, 1)
	assert.EqualValues(t, 45, rows[0]["age"])

	var none []sqlUser
	require.NoError(t, drv.Query(ctx, "SELECT * FROM users WHERE name = 'nobody'", &none))
	assert.Empty(t, none)
}

func TestBunDriverQueryErrorsAreWrapped(t *testing.T) {
	drv := openSQLite(t)

	var rows []sqlUser
	err := drv.Query(context.Background(), "SELECT * FROM no_such_table", &rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuery))
	assert.Equal(t, NoTableErr, ClassifyError(err))
}

func TestBunDialectQuotesLikeSQL(t *testing.T) {
	drv := openSQLite(t)
	assert.Equal(t, "'O''Brien'", drv.Dialect().QuoteString("O'Brien"))
	assert.Equal(t, "NULL", drv.Dialect().Null())
}

func TestHealthCheck(t *testing.T) {
	drv := openSQLite(t)
	status := HealthCheck(context.Background(), drv)
	assert.True(t, status.Healthy)
	assert.Equal(t, "sqlite", status.Driver)
	assert.Empty(t, status.LastError)

	status = HealthCheck(context.Background(), nil)
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.LastError)
}

func TestOpenBunRejectsUnknownType(t *testing.T) {
	_, err := OpenBun(context.Background(), &ConnectionConfig{Type: "oracle"}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
