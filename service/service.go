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

// Package service holds the application's use cases on top of repositories.
package service

import (
	"context"

	"github.com/tomoncle/kiln/repository"
	"github.com/tomoncle/kiln/types"
)

// Service is the id-keyed CRUD surface shared by entity services.
type Service[T any] interface {
	// Get returns the entity with id or a *repository.NotFoundError.
	Get(ctx context.Context, id string) (*T, error)

	// Page returns the entities matching where, one page at a time.
	Page(ctx context.Context, where types.Where, page *types.PageRequest) (*types.Pagination[T], error)

	// Save inserts a new entity and returns it as stored.
	Save(ctx context.Context, model *T) (*T, error)

	// Update applies data to the entity with id.
	Update(ctx context.Context, id string, data types.Fields) (*T, error)

	// Delete removes the entity with id and returns it.
	Delete(ctx context.Context, id string) (*T, error)
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
}

// NewService returns a Service over repo.
func NewService[T any](repo repository.Repository[T]) Service[T] {
	return &baseServiceImpl[T]{repo: repo}
}

func byID(id string) types.Where {
	return types.Where{"id": id}
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id string) (*T, error) {
	entity, err := s.repo.FindUnique(ctx, types.FindUniqueArgs{Where: byID(id)})
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, &repository.NotFoundError{Entity: s.repo.Model().String()}
	}
	return entity, nil
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, where types.Where, page *types.PageRequest) (*types.Pagination[T], error) {
	if page == nil {
		page = types.NewDefaultPageRequest(1, types.DefaultPageSize)
	}
	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
	total, err := s.repo.Count(ctx, types.CountArgs{Where: where, Filter: page.GetFilter()})
	if err != nil || total == 0 {
		return pagination, err
	}
	items, err := s.repo.FindMany(ctx, page.FindMany(where))
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model *T) (*T, error) {
	return s.repo.Create(ctx, types.CreateArgs[T]{Data: model})
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, id string, data types.Fields) (*T, error) {
	return s.repo.Update(ctx, types.UpdateArgs{Where: byID(id), Data: data})
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id string) (*T, error) {
	return s.repo.Delete(ctx, types.DeleteArgs{Where: byID(id)})
}
