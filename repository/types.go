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

	"github.com/tomoncle/kiln/types"
)

// ReadDelegate defines the read operations of a model delegate.
type ReadDelegate[T any] interface {
	Count(ctx context.Context, args types.CountArgs) (int, error)

	// FindUnique returns (nil, nil) when nothing matches.
	FindUnique(ctx context.Context, args types.FindUniqueArgs) (*T, error)

	// FindFirst returns (nil, nil) when nothing matches.
	FindFirst(ctx context.Context, args types.FindManyArgs) (*T, error)

	FindMany(ctx context.Context, args types.FindManyArgs) ([]*T, error)
}

// WriteDelegate defines the single-row write operations of a model delegate.
type WriteDelegate[T any] interface {
	Create(ctx context.Context, args types.CreateArgs[T]) (*T, error)
	Update(ctx context.Context, args types.UpdateArgs) (*T, error)
	Upsert(ctx context.Context, args types.UpsertArgs[T]) (*T, error)
	Delete(ctx context.Context, args types.DeleteArgs) (*T, error)
}

// BatchDelegate defines the multi-row write operations of a model delegate.
type BatchDelegate[T any] interface {
	CreateMany(ctx context.Context, args types.CreateManyArgs[T]) (types.BatchPayload, error)
	UpdateMany(ctx context.Context, args types.UpdateManyArgs) (types.BatchPayload, error)
	DeleteMany(ctx context.Context, args types.DeleteManyArgs) (types.BatchPayload, error)
}

// Delegate is the full per-model operation set exposed by the client.
type Delegate[T any] interface {
	ReadDelegate[T]
	WriteDelegate[T]
	BatchDelegate[T]
}

// Repository is a Delegate bound to a model name. Repositories are immutable
// and safe for concurrent use.
type Repository[T any] interface {
	Delegate[T]
	Model() types.ModelName
}

// Client looks up model delegates by delegate key. *database.Client
// satisfies it.
type Client interface {
	Delegate(key string) (any, bool)
}
