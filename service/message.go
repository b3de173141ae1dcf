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

package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tomoncle/kiln/models"
	"github.com/tomoncle/kiln/repository"
	"github.com/tomoncle/kiln/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PostMessageInput is the payload of a new message.
type PostMessageInput struct {
	ThreadID string           `json:"thread_id" validate:"required,max=64"`
	AuthorID string           `json:"author_id" validate:"required,max=64"`
	Content  string           `json:"content" validate:"required,max=4000"`
	Metadata types.JsonObject `json:"metadata,omitempty"`
}

type MessageService struct {
	Service[models.Message]
	messages *repository.MessageRepository
	users    *repository.UserRepository
	receipts repository.MessageReceiptRepository
}

func NewMessageService(
	messages *repository.MessageRepository,
	users *repository.UserRepository,
	receipts repository.MessageReceiptRepository,
) *MessageService {
	return &MessageService{
		Service:  NewService[models.Message](messages),
		messages: messages,
		users:    users,
		receipts: receipts,
	}
}

// Get returns the message with id. It fails with ErrServiceUnavailable
// without a database and *NotFoundError when absent.
func (s *MessageService) Get(ctx context.Context, id string) (*models.Message, error) {
	return s.messages.FindUniqueOrFail(ctx, types.FindUniqueArgs{Where: types.Where{"id": id}})
}

// List pages through a thread, or through every message when threadID is
// empty.
func (s *MessageService) List(ctx context.Context, threadID string, page *types.PageRequest) (*types.Pagination[models.Message], error) {
	if threadID == "" {
		return s.Page(ctx, nil, page)
	}
	return s.messages.FindManyByThread(ctx, threadID, page)
}

// Post validates input and stores it as a new message.
func (s *MessageService) Post(ctx context.Context, input PostMessageInput) (*models.Message, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	return s.Save(ctx, &models.Message{
		ThreadID: input.ThreadID,
		AuthorID: input.AuthorID,
		Content:  input.Content,
		Metadata: input.Metadata,
	})
}

// MarkRead records that userID read message id. Repeated calls refresh the
// receipt's read time.
func (s *MessageService) MarkRead(ctx context.Context, id, userID string) (*models.MessageReceipt, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.users.FindUniqueOrFail(ctx, types.FindUniqueArgs{Where: types.Where{"id": userID}}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.receipts.Upsert(ctx, types.UpsertArgs[models.MessageReceipt]{
		Where:  types.Where{"message_id": id, "user_id": userID},
		Create: &models.MessageReceipt{MessageID: id, UserID: userID, ReadAt: now},
		Update: types.Fields{"read_at": now},
	})
}

// Readers returns the receipts of message id, most recent first.
func (s *MessageService) Readers(ctx context.Context, id string) ([]*models.MessageReceipt, error) {
	return s.receipts.FindMany(ctx, types.FindManyArgs{
		Where:   types.Where{"message_id": id},
		OrderBy: []string{"read_at DESC"},
	})
}
