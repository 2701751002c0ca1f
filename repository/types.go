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
	"context"

	"github.com/tomoncle/stratum/types"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any, ID any] interface {
	// Get returns the entity with the given id or an error wrapping
	// database.ErrNotFound.
	Get(ctx context.Context, id ID) (*T, error)

	All(ctx context.Context) ([]*T, error)

	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	Count(ctx context.Context) (int, error)

	// Save inserts entity or replaces the stored entity with the same id.
	Save(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id ID) error
}
