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

package repository

import (
	"reflect"

	"github.com/tomoncle/stratum/database"
)

// Repository marks a struct as a repository declaration over entity type T
// with identifier type ID. It is embedded by value:
//
//	type Users struct {
//		repository.Repository[User, string]
//
//		FindByName func(ctx context.Context, name string) (types.Optional[User], error) `query:"SELECT * FROM user WHERE name = ?1"`
//		Count      func(ctx context.Context) (int, error)
//	}
//
// Function fields tagged with query run the template through the driver;
// untagged function fields are served by the CRUD method of the same name.
// The CRUD methods are also promoted onto the declaration directly.
type Repository[T any, ID any] struct {
	CrudRepository[T, ID]
}

func (Repository[T, ID]) entityType() reflect.Type { return reflect.TypeFor[T]() }

func (Repository[T, ID]) idType() reflect.Type { return reflect.TypeFor[ID]() }

func (Repository[T, ID]) baseType() reflect.Type { return reflect.TypeFor[Repository[T, ID]]() }

func (Repository[T, ID]) newCrud(drv database.Driver) reflect.Value {
	return reflect.ValueOf(NewCrudRepository[T, ID](drv))
}

// declaration is implemented by every Repository instantiation, and through
// embedding by every repository declaration.
type declaration interface {
	entityType() reflect.Type
	idType() reflect.Type
	baseType() reflect.Type
	newCrud(drv database.Driver) reflect.Value
}

var declarationType = reflect.TypeFor[declaration]()
