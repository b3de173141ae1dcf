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
	"github.com/tomoncle/kiln/types"
	"github.com/uptrace/bun"
)

// Message is a single post in a thread.
type Message struct {
	bun.BaseModel `bun:"table:messages,alias:message"`

	ID        string           `bun:"id,pk" json:"id"`
	ThreadID  string           `bun:"thread_id,notnull" json:"thread_id"`
	AuthorID  string           `bun:"author_id,notnull" json:"author_id"`
	Content   string           `bun:"content,notnull" json:"content"`
	Metadata  types.JsonObject `bun:"metadata,type:json" json:"metadata,omitempty"`
	CreatedAt time.Time        `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time        `bun:"updated_at,notnull" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*Message)(nil)

func (m *Message) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if m == nil {
		return nil
	}
	switch query.(type) {
	case *bun.InsertQuery:
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		stampCreated(&m.CreatedAt, &m.UpdatedAt)
	case *bun.UpdateQuery:
		m.UpdatedAt = now()
	}
	return nil
}
