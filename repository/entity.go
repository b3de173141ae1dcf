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

	"github.com/tomoncle/kiln/models"
	"github.com/tomoncle/kiln/types"
)

// entityRepository adds the lookups shared by entity-specific repositories.
type entityRepository[T any] struct {
	Repository[T]
	conn Connection
}

func newEntityRepository[T any](conn Connection, model types.ModelName) (entityRepository[T], error) {
	repo, err := Generate[T](conn, model)
	if err != nil {
		return entityRepository[T]{}, err
	}
	return entityRepository[T]{Repository: repo, conn: conn}, nil
}

// FindUniqueOrFail is FindUnique that requires a live connection and a
// match. It fails with ErrServiceUnavailable without a client and with
// *NotFoundError when nothing matches.
func (r entityRepository[T]) FindUniqueOrFail(ctx context.Context, args types.FindUniqueArgs) (*T, error) {
	if !r.conn.Available() {
		return nil, ErrServiceUnavailable
	}
	entity, err := r.FindUnique(ctx, args)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, &NotFoundError{Entity: r.Model().String()}
	}
	return entity, nil
}

// MessageRepository is the generic Message repository plus message lookups.
type MessageRepository struct {
	entityRepository[models.Message]
}

func NewMessageRepository(conn Connection) (*MessageRepository, error) {
	base, err := newEntityRepository[models.Message](conn, types.ModelMessage)
	if err != nil {
		return nil, err
	}
	return &MessageRepository{entityRepository: base}, nil
}

// FindManyByThread pages through a thread's messages, oldest first unless
// page specifies an order.
func (r *MessageRepository) FindManyByThread(ctx context.Context, threadID string, page *types.PageRequest) (*types.Pagination[models.Message], error) {
	if page == nil {
		page = types.NewDefaultPageRequest(1, types.DefaultPageSize)
	}
	where := types.Where{"thread_id": threadID}
	pagination := types.NewDefaultPagination[models.Message](page.GetPage(), page.GetPageSize())

	total, err := r.Count(ctx, types.CountArgs{Where: where, Filter: page.GetFilter()})
	if err != nil || total == 0 {
		return pagination, err
	}

	args := page.FindMany(where)
	if len(args.OrderBy) == 0 {
		args.OrderBy = []string{"created_at ASC", "id ASC"}
	}
	items, err := r.FindMany(ctx, args)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

// UserRepository is the generic User repository plus user lookups.
type UserRepository struct {
	entityRepository[models.User]
}

func NewUserRepository(conn Connection) (*UserRepository, error) {
	base, err := newEntityRepository[models.User](conn, types.ModelUser)
	if err != nil {
		return nil, err
	}
	return &UserRepository{entityRepository: base}, nil
}

// FindByEmail returns the user with email, or (nil, nil).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindUnique(ctx, types.FindUniqueArgs{Where: types.Where{"email": email}})
}

// MessageReceiptRepository is the plain generic repository for receipts.
type MessageReceiptRepository = Repository[models.MessageReceipt]

func NewMessageReceiptRepository(conn Connection) (MessageReceiptRepository, error) {
	return Generate[models.MessageReceipt](conn, types.ModelMessageReceipt)
}
