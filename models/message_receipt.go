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

package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MessageReceipt records that a user has read a message. A user holds at
// most one receipt per message.
type MessageReceipt struct {
	bun.BaseModel `bun:"table:message_receipts,alias:receipt"`

	ID        string    `bun:"id,pk" json:"id"`
	MessageID string    `bun:"message_id,notnull,unique:message_user" json:"message_id"`
	UserID    string    `bun:"user_id,notnull,unique:message_user" json:"user_id"`
	ReadAt    time.Time `bun:"read_at,notnull" json:"read_at"`
}

var _ bun.BeforeAppendModelHook = (*MessageReceipt)(nil)

func (r *MessageReceipt) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if r == nil {
		return nil
	}
	if _, ok := query.(*bun.InsertQuery); ok {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.ReadAt.IsZero() {
			r.ReadAt = now()
		}
	}
	return nil
}
