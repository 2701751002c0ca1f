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
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/stratum/repository"
)

const testScope = "github.com/tomoncle/stratum/repository_test"

type notAStruct int

type plainStruct struct {
	Find func() error
}

type pointerEmbed struct {
	*repository.Repository[User, string]
}

type nestedPointerBase struct {
	*repository.Repository[User, string]
}

type nestedPointerEmbed struct {
	nestedPointerBase
}

type interfaceEntity struct {
	repository.Repository[any, string]
}

type interfaceID struct {
	repository.Repository[User, any]
}

type Orders struct {
	repository.Repository[User, int64]
}

func TestDescribe(t *testing.T) {
	desc, err := repository.Describe(reflect.TypeFor[Users]())
	require.NoError(t, err)
	assert.Equal(t, "Users", desc.Name())
	assert.Equal(t, reflect.TypeFor[Users](), desc.RepositoryType())
	assert.Equal(t, reflect.TypeFor[User](), desc.EntityType())
	assert.Equal(t, reflect.TypeFor[string](), desc.IDType())
}

func TestDescribeNestedDeclaration(t *testing.T) {
	desc, err := repository.Describe(reflect.TypeFor[NestedUsers]())
	require.NoError(t, err)
	assert.Equal(t, "NestedUsers", desc.Name())
	assert.Equal(t, reflect.TypeFor[User](), desc.EntityType())
	assert.Equal(t, reflect.TypeFor[string](), desc.IDType())
}

func TestDescribeRejectsMalformedDeclarations(t *testing.T) {
	cases := map[string]reflect.Type{
		"not a struct": reflect.TypeFor[notAStruct](),
		"anonymous": reflect.TypeOf(struct {
			repository.Repository[User, string]
		}{}),
		"no embed":         reflect.TypeFor[plainStruct](),
		"pointer embed":    reflect.TypeFor[pointerEmbed](),
		"nested pointer":   reflect.TypeFor[nestedPointerEmbed](),
		"interface entity": reflect.TypeFor[interfaceEntity](),
		"interface id":     reflect.TypeFor[interfaceID](),
	}
	for name, typ := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := repository.Describe(typ)
			require.Error(t, err)
			assert.ErrorIs(t, err, repository.ErrMalformedRepository)

			var discErr *repository.DiscoveryError
			require.True(t, errors.As(err, &discErr))
			assert.Equal(t, typ, discErr.Type)
			assert.NotEmpty(t, discErr.Reason)
		})
	}
}

func TestDiscoverSkipsMalformedAndSorts(t *testing.T) {
	reg := repository.NewRegistry()
	reg.Register(reflect.TypeFor[Users]())
	reg.Register(reflect.TypeFor[plainStruct]())
	reg.Register(reflect.TypeFor[Orders]())
	reg.Register(reflect.TypeFor[Users]())
	reg.Register(reflect.TypeFor[interfaceEntity]())

	descs, err := reg.Discover(testScope)
	require.Len(t, descs, 2)
	assert.Equal(t, "Orders", descs[0].Name())
	assert.Equal(t, "Users", descs[1].Name())
	assert.Equal(t, reflect.TypeFor[int64](), descs[0].IDType())

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrMalformedRepository)
	assert.Contains(t, err.Error(), "plainStruct")
	assert.Contains(t, err.Error(), "interfaceEntity")
}

func TestDiscoverScope(t *testing.T) {
	reg := repository.NewRegistry()
	reg.Register(reflect.TypeFor[Users]())

	for scope, want := range map[string]int{
		"":                                       1,
		testScope:                                1,
		"github.com/tomoncle/stratum":            1,
		"github.com/tomoncle/strat":              0,
		"github.com/tomoncle/stratum/repository": 0,
		"example.com/other":                      0,
	} {
		descs, err := reg.Discover(scope)
		require.NoError(t, err, scope)
		assert.Len(t, descs, want, scope)
	}
}

func TestDiscoverIsIdempotent(t *testing.T) {
	reg := repository.NewRegistry()
	reg.Register(reflect.TypeFor[Users]())
	reg.Register(reflect.TypeFor[Orders]())

	first, err := reg.Discover("")
	require.NoError(t, err)
	second, err := reg.Discover("")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDefaultRegistry(t *testing.T) {
	repository.Register[Orders]()

	descs, err := repository.Discover(testScope)
	require.NoError(t, err)
	names := make([]string, 0, len(descs))
	for _, d := range descs {
		names = append(names, d.Name())
	}
	assert.Contains(t, names, "Orders")
}
