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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/kiln/database"
	"github.com/tomoncle/kiln/internal/dbtest"
	"github.com/tomoncle/kiln/models"
	"github.com/tomoncle/kiln/types"
)

func TestFindUniqueOrFailWithoutClient(t *testing.T) {
	repo, err := NewMessageRepository(Unavailable())
	require.NoError(t, err)

	_, err = repo.FindUniqueOrFail(context.Background(), types.FindUniqueArgs{Where: types.Where{"id": "m1"}})
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, "database service unavailable", err.Error())
}

func TestFindUniqueOrFail(t *testing.T) {
	ctx := context.Background()
	delegate := &recordingDelegate[models.Message]{}
	repo, err := NewMessageRepository(Live(&fakeClient{delegates: map[string]any{"message": delegate}}))
	require.NoError(t, err)

	_, err = repo.FindUniqueOrFail(ctx, types.FindUniqueArgs{Where: types.Where{"id": "m1"}})
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Message", notFound.Entity)
	assert.Equal(t, "Message not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	delegate.one = &models.Message{ID: "m1"}
	msg, err := repo.FindUniqueOrFail(ctx, types.FindUniqueArgs{Where: types.Where{"id": "m1"}})
	require.NoError(t, err)
	assert.Same(t, delegate.one, msg)

	delegate.err = errors.New("driver failure")
	_, err = repo.FindUniqueOrFail(ctx, types.FindUniqueArgs{Where: types.Where{"id": "m1"}})
	assert.Same(t, delegate.err, err)
}

func TestUserRepositoryNotFoundEntity(t *testing.T) {
	repo, err := NewUserRepository(Live(&fakeClient{delegates: map[string]any{"user": &recordingDelegate[models.User]{}}}))
	require.NoError(t, err)

	_, err = repo.FindUniqueOrFail(context.Background(), types.FindUniqueArgs{Where: types.Where{"id": "u1"}})
	assert.EqualError(t, err, "User not found")
}

func TestFindManyByThreadDegraded(t *testing.T) {
	repo, err := NewMessageRepository(Unavailable())
	require.NoError(t, err)

	page, err := repo.FindManyByThread(context.Background(), "t1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, types.DefaultPageSize, page.PageSize)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
}

func TestRepositoriesOverSQLite(t *testing.T) {
	ctx := context.Background()
	conn := Live(dbtest.Open(t))

	users, err := NewUserRepository(conn)
	require.NoError(t, err)
	messages, err := NewMessageRepository(conn)
	require.NoError(t, err)
	receipts, err := NewMessageReceiptRepository(conn)
	require.NoError(t, err)

	user, err := users.Create(ctx, types.CreateArgs[models.User]{Data: &models.User{Email: "grace@example.com"}})
	require.NoError(t, err)

	found, err := users.FindByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	for i := 0; i < 5; i++ {
		_, err := messages.Create(ctx, types.CreateArgs[models.Message]{Data: &models.Message{
			ID:       fmt.Sprintf("m%d", i),
			ThreadID: "t1",
			AuthorID: user.ID,
			Content:  fmt.Sprintf("message %d", i),
		}})
		require.NoError(t, err)
	}

	page, err := messages.FindManyByThread(ctx, "t1", types.NewPageRequestWithOrders(2, 2, []string{"id ASC"}))
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "m2", page.Items[0].ID)
	assert.Equal(t, "m3", page.Items[1].ID)

	msg, err := messages.FindUniqueOrFail(ctx, types.FindUniqueArgs{Where: types.Where{"id": "m4"}})
	require.NoError(t, err)
	assert.Equal(t, "message 4", msg.Content)

	_, err = messages.FindUniqueOrFail(ctx, types.FindUniqueArgs{Where: types.Where{"id": "m9"}})
	assert.ErrorIs(t, err, ErrNotFound)

	receipt, err := receipts.Create(ctx, types.CreateArgs[models.MessageReceipt]{
		Data: &models.MessageReceipt{MessageID: "m4", UserID: user.ID},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
	assert.False(t, receipt.ReadAt.IsZero())

	n, err := receipts.Count(ctx, types.CountArgs{Where: types.Where{"message_id": "m4"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMessageRepositoryOnEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMessageRepository(Live(dbtest.Open(t)))
	require.NoError(t, err)

	rows, err := repo.FindMany(ctx, types.FindManyArgs{})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	_, err = repo.FindUniqueOrFail(ctx, types.FindUniqueArgs{Where: types.Where{"id": "x"}})
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Message", notFound.Entity)
}

func TestReceiptForeignKeys(t *testing.T) {
	ctx := context.Background()
	conn := Live(dbtest.Open(t))

	users, err := NewUserRepository(conn)
	require.NoError(t, err)
	messages, err := NewMessageRepository(conn)
	require.NoError(t, err)
	receipts, err := NewMessageReceiptRepository(conn)
	require.NoError(t, err)

	_, err = receipts.Create(ctx, types.CreateArgs[models.MessageReceipt]{
		Data: &models.MessageReceipt{MessageID: "nope", UserID: "nobody"},
	})
	require.Error(t, err)
	assert.True(t, database.IsConflict(err), "err = %v", err)

	user, err := users.Create(ctx, types.CreateArgs[models.User]{Data: &models.User{Email: "ada@example.com"}})
	require.NoError(t, err)
	_, err = messages.Create(ctx, types.CreateArgs[models.Message]{Data: &models.Message{
		ID:       "m1",
		ThreadID: "t1",
		AuthorID: user.ID,
		Content:  "hello",
	}})
	require.NoError(t, err)
	_, err = receipts.Create(ctx, types.CreateArgs[models.MessageReceipt]{
		Data: &models.MessageReceipt{MessageID: "m1", UserID: user.ID},
	})
	require.NoError(t, err)

	_, err = messages.Delete(ctx, types.DeleteArgs{Where: types.Where{"id": "m1"}})
	require.NoError(t, err)

	n, err := receipts.Count(ctx, types.CountArgs{Where: types.Where{"message_id": "m1"}})
	require.NoError(t, err)
	assert.Zero(t, n)
}
