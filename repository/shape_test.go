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
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/stratum/repository"
	"github.com/tomoncle/stratum/types"
)

type userList []User

func TestShapeOf(t *testing.T) {
	cases := []struct {
		name  string
		typ   reflect.Type
		shape repository.ResultShape
		elem  reflect.Type
	}{
		{"pointer", reflect.TypeFor[*User](), repository.ShapeSingle, reflect.TypeFor[User]()},
		{"optional", reflect.TypeFor[types.Optional[User]](), repository.ShapeOptional, reflect.TypeFor[User]()},
		{"optional pointer", reflect.TypeFor[types.Optional[*User]](), repository.ShapeOptional, reflect.TypeFor[*User]()},
		{"slice", reflect.TypeFor[[]User](), repository.ShapeCollection, reflect.TypeFor[User]()},
		{"slice of pointers", reflect.TypeFor[[]*User](), repository.ShapeCollection, reflect.TypeFor[*User]()},
		{"named slice", reflect.TypeFor[userList](), repository.ShapeCollection, reflect.TypeFor[User]()},
		{"scalars", reflect.TypeFor[[]int64](), repository.ShapeCollection, reflect.TypeFor[int64]()},
		{"maps", reflect.TypeFor[[]map[string]any](), repository.ShapeCollection, reflect.TypeFor[map[string]any]()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shape, elem, err := repository.ShapeOf(tc.typ)
			require.NoError(t, err)
			assert.Equal(t, tc.shape, shape)
			assert.Equal(t, tc.elem, elem)
		})
	}
}

func TestShapeOfUnsupported(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeFor[User](),
		reflect.TypeFor[int](),
		reflect.TypeFor[**User](),
		reflect.TypeFor[[]any](),
		reflect.TypeFor[[][]User](),
		reflect.TypeFor[[]map[int]string](),
		reflect.TypeFor[map[string]User](),
		nil,
	} {
		_, _, err := repository.ShapeOf(typ)
		assert.ErrorIs(t, err, repository.ErrUnsupportedReturnShape, "%v", typ)
	}
}

func TestFold(t *testing.T) {
	rows := reflect.ValueOf([]User{{Name: "Ada"}, {Name: "Alan"}})
	empty := reflect.ValueOf([]User(nil))

	single, err := repository.Fold(repository.ShapeSingle, reflect.TypeFor[*User](), rows)
	require.NoError(t, err)
	assert.Equal(t, &User{Name: "Ada"}, single.Interface())

	single, err = repository.Fold(repository.ShapeSingle, reflect.TypeFor[*User](), empty)
	require.NoError(t, err)
	assert.Nil(t, single.Interface())

	opt, err := repository.Fold(repository.ShapeOptional, reflect.TypeFor[types.Optional[User]](), rows)
	require.NoError(t, err)
	assert.Equal(t, types.Some(User{Name: "Ada"}), opt.Interface())

	opt, err = repository.Fold(repository.ShapeOptional, reflect.TypeFor[types.Optional[User]](), empty)
	require.NoError(t, err)
	assert.Equal(t, types.None[User](), opt.Interface())

	coll, err := repository.Fold(repository.ShapeCollection, reflect.TypeFor[userList](), rows)
	require.NoError(t, err)
	assert.Equal(t, userList{{Name: "Ada"}, {Name: "Alan"}}, coll.Interface())

	coll, err = repository.Fold(repository.ShapeCollection, reflect.TypeFor[[]User](), empty)
	require.NoError(t, err)
	assert.NotNil(t, coll.Interface())
	assert.Empty(t, coll.Interface())

	_, err = repository.Fold(repository.ResultShape(42), reflect.TypeFor[[]User](), rows)
	assert.ErrorIs(t, err, repository.ErrUnsupportedReturnShape)
}

func TestFoldSingleDoesNotAliasRows(t *testing.T) {
	users := []User{{Name: "Ada"}}
	single, err := repository.Fold(repository.ShapeSingle, reflect.TypeFor[*User](), reflect.ValueOf(users))
	require.NoError(t, err)

	single.Interface().(*User).Name = "changed"
	assert.Equal(t, "Ada", users[0].Name)
}

func TestResultShapeEnum(t *testing.T) {
	assert.True(t, repository.ShapeOptional.IsValid())
	assert.Equal(t, 2, repository.ShapeOptional.Number())
	assert.Equal(t, "optional", repository.ShapeOptional.String())
	assert.Equal(t, "all rows", repository.ShapeCollection.Desc())

	shape, ok := repository.ParseResultShape(" Collection")
	require.True(t, ok)
	assert.Equal(t, repository.ShapeCollection, shape)
	_, ok = repository.ParseResultShape("stream")
	assert.False(t, ok)

	invalid := repository.ResultShape(0)
	assert.False(t, invalid.IsValid())
	assert.Equal(t, types.IllegalValue, invalid.Number())
	assert.Equal(t, types.IllegalName, invalid.Name())
	assert.Equal(t, types.IllegalDesc, invalid.Desc())
}
