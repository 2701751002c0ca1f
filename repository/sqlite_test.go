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

package repository_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/tomoncle/stratum/database"
	"github.com/tomoncle/stratum/repository"
	"github.com/tomoncle/stratum/types"
)

type Member struct {
	bun.BaseModel `bun:"table:members"`

	ID   int64  `bun:"id,pk" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
	Age  int    `bun:"age" json:"age"`
}

type Members struct {
	repository.Repository[Member, int64]

	FindByName func(ctx context.Context, name string) (types.Optional[Member], error) `query:"SELECT * FROM members WHERE name = ?1"`
	Older      func(ctx context.Context, age int) ([]*Member, error)                  `query:"SELECT * FROM members WHERE age > ?1 ORDER BY age"`
	Names      func(ctx context.Context) ([]string, error)                            `query:"SELECT name FROM members ORDER BY name"`

	Count func(ctx context.Context) (int, error)
}

func openMembers(t *testing.T) *Members {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	drv, err := database.OpenBun(ctx, &database.ConnectionConfig{
		Type:   "sqlite",
		DBName: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}, database.NewZapLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	require.NoError(t, database.EnsureTables(ctx, drv, (*Member)(nil)))

	members, err := repository.New[Members](drv)
	require.NoError(t, err)
	for _, m := range []*Member{
		{ID: 1, Name: "Ada", Age: 36},
		{ID: 2, Name: "Alan", Age: 41},
		{ID: 3, Name: "O'Brien", Age: 29},
	} {
		require.NoError(t, members.Save(ctx, m))
	}
	return members
}

func TestSQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()
	members := openMembers(t)

	ada, err := members.FindByName(ctx, "Ada")
	require.NoError(t, err)
	got, ok := ada.Get()
	require.True(t, ok)
	assert.Equal(t, int64(1), got.ID)

	quoted, err := members.FindByName(ctx, "O'Brien")
	require.NoError(t, err)
	assert.True(t, quoted.IsPresent())

	injected, err := members.FindByName(ctx, "x' OR '1'='1")
	require.NoError(t, err)
	assert.False(t, injected.IsPresent())

	older, err := members.Older(ctx, 30)
	require.NoError(t, err)
	require.Len(t, older, 2)
	assert.Equal(t, "Ada", older[0].Name)
	assert.Equal(t, "Alan", older[1].Name)

	names, err := members.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Alan", "O'Brien"}, names)

	n, err := members.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLiteCrudPaging(t *testing.T) {
	ctx := context.Background()
	members := openMembers(t)

	page, err := members.Page(ctx, types.NewPageRequest(2, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages())
	assert.Len(t, page.Items, 1)

	require.NoError(t, members.Delete(ctx, 2))
	_, err = members.Get(ctx, 2)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
