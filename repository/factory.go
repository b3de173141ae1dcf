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
	"fmt"

	"github.com/tomoncle/kiln/types"
)

// Generate returns the repository for model over conn.
//
// On a live connection every operation delegates exactly once to the
// client's delegate with the same arguments and returns its result and error
// unchanged. Without a connection reads are soft (empty slice, zero, nil)
// and writes fail with *DatabaseUnavailableError.
func Generate[T any](conn Connection, model types.ModelName) (Repository[T], error) {
	if !model.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, string(model))
	}
	if !conn.Available() {
		return &unavailableRepository[T]{model: model}, nil
	}

	delegate, err := ResolveDelegate[T](conn.Client(), model)
	if err != nil {
		return nil, err
	}
	return &liveRepository[T]{model: model, delegate: delegate}, nil
}

// MustGenerate is like Generate but panics on error.
func MustGenerate[T any](conn Connection, model types.ModelName) Repository[T] {
	repo, err := Generate[T](conn, model)
	if err != nil {
		panic(err)
	}
	return repo
}

type liveRepository[T any] struct {
	model    types.ModelName
	delegate Delegate[T]
}

func (r *liveRepository[T]) Model() types.ModelName { return r.model }

func (r *liveRepository[T]) Create(ctx context.Context, args types.CreateArgs[T]) (*T, error) {
	return r.delegate.Create(ctx, args)
}

func (r *liveRepository[T]) CreateMany(ctx context.Context, args types.CreateManyArgs[T]) (types.BatchPayload, error) {
	return r.delegate.CreateMany(ctx, args)
}

func (r *liveRepository[T]) Count(ctx context.Context, args types.CountArgs) (int, error) {
	return r.delegate.Count(ctx, args)
}

func (r *liveRepository[T]) FindUnique(ctx context.Context, args types.FindUniqueArgs) (*T, error) {
	return r.delegate.FindUnique(ctx, args)
}

func (r *liveRepository[T]) FindFirst(ctx context.Context, args types.FindManyArgs) (*T, error) {
	return r.delegate.FindFirst(ctx, args)
}

func (r *liveRepository[T]) FindMany(ctx context.Context, args types.FindManyArgs) ([]*T, error) {
	return r.delegate.FindMany(ctx, args)
}

func (r *liveRepository[T]) Update(ctx context.Context, args types.UpdateArgs) (*T, error) {
	return r.delegate.Update(ctx, args)
}

func (r *liveRepository[T]) Upsert(ctx context.Context, args types.UpsertArgs[T]) (*T, error) {
	return r.delegate.Upsert(ctx, args)
}

func (r *liveRepository[T]) UpdateMany(ctx context.Context, args types.UpdateManyArgs) (types.BatchPayload, error) {
	return r.delegate.UpdateMany(ctx, args)
}

func (r *liveRepository[T]) Delete(ctx context.Context, args types.DeleteArgs) (*T, error) {
	return r.delegate.Delete(ctx, args)
}

func (r *liveRepository[T]) DeleteMany(ctx context.Context, args types.DeleteManyArgs) (types.BatchPayload, error) {
	return r.delegate.DeleteMany(ctx, args)
}

// unavailableRepository stands in when there is no database connection.
type unavailableRepository[T any] struct {
	model types.ModelName
}

func (r *unavailableRepository[T]) Model() types.ModelName { return r.model }

func (r *unavailableRepository[T]) unavailable() error {
	return &DatabaseUnavailableError{Model: r.model}
}

func (r *unavailableRepository[T]) Create(context.Context, types.CreateArgs[T]) (*T, error) {
	return nil, r.unavailable()
}

func (r *unavailableRepository[T]) CreateMany(context.Context, types.CreateManyArgs[T]) (types.BatchPayload, error) {
	return types.BatchPayload{}, r.unavailable()
}

func (r *unavailableRepository[T]) Count(context.Context, types.CountArgs) (int, error) {
	return 0, nil
}

func (r *unavailableRepository[T]) FindUnique(context.Context, types.FindUniqueArgs) (*T, error) {
	return nil, nil
}

func (r *unavailableRepository[T]) FindFirst(context.Context, types.FindManyArgs) (*T, error) {
	return nil, nil
}

func (r *unavailableRepository[T]) FindMany(context.Context, types.FindManyArgs) ([]*T, error) {
	return []*T{}, nil
}

func (r *unavailableRepository[T]) Update(context.Context, types.UpdateArgs) (*T, error) {
	return nil, r.unavailable()
}

func (r *unavailableRepository[T]) Upsert(context.Context, types.UpsertArgs[T]) (*T, error) {
	return nil, r.unavailable()
}

func (r *unavailableRepository[T]) UpdateMany(context.Context, types.UpdateManyArgs) (types.BatchPayload, error) {
	return types.BatchPayload{}, r.unavailable()
}

func (r *unavailableRepository[T]) Delete(context.Context, types.DeleteArgs) (*T, error) {
	return nil, r.unavailable()
}

func (r *unavailableRepository[T]) DeleteMany(context.Context, types.DeleteManyArgs) (types.BatchPayload, error) {
	return types.BatchPayload{}, r.unavailable()
}
