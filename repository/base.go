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

	"github.com/tomoncle/stratum/database"
	"github.com/tomoncle/stratum/types"
)

type baseRepositoryImpl[T any, ID any] struct {
	drv database.Driver
}

// NewCrudRepository returns the generic CRUD implementation for T backed by drv.
func NewCrudRepository[T any, ID any](drv database.Driver) CrudRepository[T, ID] {
	return &baseRepositoryImpl[T, ID]{drv: drv}
}

func (r *baseRepositoryImpl[T, ID]) Get(ctx context.Context, id ID) (*T, error) {
	var entity T
	if err := r.drv.Get(ctx, id, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T, ID]) All(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	if err := r.drv.Find(ctx, &entities, 0, 0); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T, ID]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	if pageRequest == nil {
		pageRequest = types.NewPageRequest(1, 0)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := r.drv.Count(ctx, (*T)(nil))
	if err != nil || total == 0 {
		return pagination, err
	}
	entities := make([]*T, 0, pageRequest.GetPageSize())
	if err := r.drv.Find(ctx, &entities, pageRequest.GetOffset(), pageRequest.GetPageSize()); err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T, ID]) Count(ctx context.Context) (int, error) {
	return r.drv.Count(ctx, (*T)(nil))
}

func (r *baseRepositoryImpl[T, ID]) Save(ctx context.Context, entity *T) error {
	return r.drv.Save(ctx, entity)
}

func (r *baseRepositoryImpl[T, ID]) Delete(ctx context.Context, id ID) error {
	return r.drv.Delete(ctx, id, (*T)(nil))
}
