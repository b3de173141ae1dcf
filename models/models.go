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
	"time"

	"github.com/tomoncle/kiln/database"
	"github.com/tomoncle/kiln/types"
)

// All returns the descriptors of every persisted model in creation order.
// Receipts reference users and messages, so they come last.
func All() []database.SQLModel {
	return []database.SQLModel{
		database.NewModel[User](types.ModelUser, 10),
		database.NewModel[Message](types.ModelMessage, 20),
		database.NewModel[MessageReceipt](types.ModelMessageReceipt, 30,
			database.References("message_id", "messages", "id"),
			database.References("user_id", "users", "id"),
		),
	}
}

func now() time.Time {
	return time.Now().UTC()
}

func stampCreated(createdAt, updatedAt *time.Time) {
	t := now()
	if createdAt.IsZero() {
		*createdAt = t
	}
	if updatedAt.IsZero() {
		*updatedAt = t
	}
}
