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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/kiln/models"
	"github.com/tomoncle/kiln/types"
)

func assertDegraded[T any](t *testing.T, model types.ModelName) {
	t.Helper()
	ctx := context.Background()

	repo, err := Generate[T](Unavailable(), model)
	require.NoError(t, err)
	assert.Equal(t, model, repo.Model())

	many, err := repo.FindMany(ctx, types.FindManyArgs{Where: types.Where{"id": "x"}})
	require.NoError(t, err)
	assert.NotNil(t, many)
	assert.Empty(t, many)

	n, err := repo.Count(ctx, types.CountArgs{})
	require.NoError(t, err)
	assert.Zero(t, n)

	one, err := repo.FindUnique(ctx, types.FindUniqueArgs{Where: types.Where{"id": "x"}})
	require.NoError(t, err)
	assert.Nil(t, one)

	one, err = repo.FindFirst(ctx, types.FindManyArgs{})
	require.NoError(t, err)
	assert.Nil(t, one)

	writes := map[string]error{}
	_, writes["Create"] = repo.Create(ctx, types.CreateArgs[T]{Data: new(T)})
	_, writes["CreateMany"] = repo.CreateMany(ctx, types.CreateManyArgs[T]{})
	_, writes["Update"] = repo.Update(ctx, types.UpdateArgs{})
	_, writes["Upsert"] = repo.Upsert(ctx, types.UpsertArgs[T]{})
	_, writes["UpdateMany"] = repo.UpdateMany(ctx, types.UpdateManyArgs{})
	_, writes["Delete"] = repo.Delete(ctx, types.DeleteArgs{})
	_, writes["DeleteMany"] = repo.DeleteMany(ctx, types.DeleteManyArgs{})

	for op, err := range writes {
		require.Error(t, err, op)
		assert.ErrorIs(t, err, ErrDatabaseUnavailable, op)

		var unavailable *DatabaseUnavailableError
		require.True(t, errors.As(err, &unavailable), op)
		assert.Equal(t, model, unavailable.Model, op)
		assert.Equal(t, "database connection not available for "+string(model)+" repository", err.Error(), op)
	}
}

func TestUnavailableRepositories(t *testing.T) {
	assertDegraded[models.Message](t, types.ModelMessage)
	assertDegraded[models.User](t, types.ModelUser)
	assertDegraded[models.MessageReceipt](t, types.ModelMessageReceipt)
}

func TestLiveRepositoryPassesThroughOnce(t *testing.T) {
	ctx := context.Background()
	msg := &models.Message{ID: "m1"}
	boom := errors.New("boom")
	delegate := &recordingDelegate[models.Message]{
		one:   msg,
		many:  []*models.Message{msg},
		count: 7,
		batch: types.BatchPayload{Count: 3},
		err:   boom,
	}
	client := &fakeClient{delegates: map[string]any{"message": delegate}}

	repo, err := Generate[models.Message](Live(client), types.ModelMessage)
	require.NoError(t, err)
	assert.Equal(t, []string{"message"}, client.lookups)

	where := types.Where{"id": "m1"}
	createArgs := types.CreateArgs[models.Message]{Data: msg}
	createManyArgs := types.CreateManyArgs[models.Message]{Data: []*models.Message{msg}, SkipDuplicates: true}
	countArgs := types.CountArgs{Where: where}
	uniqueArgs := types.FindUniqueArgs{Where: where}
	manyArgs := types.FindManyArgs{Where: where, Take: 2}
	updateArgs := types.UpdateArgs{Where: where, Data: types.Fields{"content": "x"}}
	upsertArgs := types.UpsertArgs[models.Message]{Where: where, Create: msg}
	updateManyArgs := types.UpdateManyArgs{Where: where}
	deleteArgs := types.DeleteArgs{Where: where}
	deleteManyArgs := types.DeleteManyArgs{Where: where}

	got, err := repo.Create(ctx, createArgs)
	assert.Same(t, msg, got)
	assert.Same(t, boom, err)

	batch, err := repo.CreateMany(ctx, createManyArgs)
	assert.Equal(t, int64(3), batch.Count)
	assert.Same(t, boom, err)

	n, err := repo.Count(ctx, countArgs)
	assert.Equal(t, 7, n)
	assert.Same(t, boom, err)

	got, err = repo.FindUnique(ctx, uniqueArgs)
	assert.Same(t, msg, got)
	assert.Same(t, boom, err)

	got, err = repo.FindFirst(ctx, manyArgs)
	assert.Same(t, msg, got)
	assert.Same(t, boom, err)

	many, err := repo.FindMany(ctx, manyArgs)
	assert.Equal(t, []*models.Message{msg}, many)
	assert.Same(t, boom, err)

	got, err = repo.Update(ctx, updateArgs)
	assert.Same(t, msg, got)
	assert.Same(t, boom, err)

	got, err = repo.Upsert(ctx, upsertArgs)
	assert.Same(t, msg, got)
	assert.Same(t, boom, err)

	_, err = repo.UpdateMany(ctx, updateManyArgs)
	assert.Same(t, boom, err)

	got, err = repo.Delete(ctx, deleteArgs)
	assert.Same(t, msg, got)
	assert.Same(t, boom, err)

	_, err = repo.DeleteMany(ctx, deleteManyArgs)
	assert.Same(t, boom, err)

	assert.Equal(t, []call{
		{"Create", createArgs},
		{"CreateMany", createManyArgs},
		{"Count", countArgs},
		{"FindUnique", uniqueArgs},
		{"FindFirst", manyArgs},
		{"FindMany", manyArgs},
		{"Update", updateArgs},
		{"Upsert", upsertArgs},
		{"UpdateMany", updateManyArgs},
		{"Delete", deleteArgs},
		{"DeleteMany", deleteManyArgs},
	}, delegate.calls)
	assert.Len(t, client.lookups, 1, "delegate is resolved once at construction")
}

func TestLiveNilClientIsUnavailable(t *testing.T) {
	var typedNil *fakeClient
	assert.False(t, Live(nil).Available())
	assert.False(t, Live(typedNil).Available())
	assert.Equal(t, "unavailable", Live(typedNil).String())
	assert.Equal(t, "live", Live(&fakeClient{}).String())

	repo, err := Generate[models.User](Live(typedNil), types.ModelUser)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), types.CreateArgs[models.User]{})
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
}

func TestGenerateUnknownModel(t *testing.T) {
	_, err := Generate[models.Message](Unavailable(), types.ModelName("Order"))
	assert.ErrorIs(t, err, ErrUnknownModel)

	client := &fakeClient{delegates: map[string]any{"order": &recordingDelegate[models.Message]{}}}
	_, err = Generate[models.Message](Live(client), types.ModelName("Order"))
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Empty(t, client.lookups)

	assert.Panics(t, func() {
		MustGenerate[models.Message](Unavailable(), types.ModelName("message"))
	})
}

func TestResolveDelegate(t *testing.T) {
	client := &fakeClient{delegates: map[string]any{
		"message":        &recordingDelegate[models.Message]{},
		"messageReceipt": &recordingDelegate[models.User]{},
	}}

	d, err := ResolveDelegate[models.Message](client, types.ModelMessage)
	require.NoError(t, err)
	assert.NotNil(t, d)

	_, err = ResolveDelegate[models.User](client, types.ModelUser)
	assert.ErrorIs(t, err, ErrDelegateNotFound)
	assert.Contains(t, err.Error(), `"user"`)

	_, err = ResolveDelegate[models.MessageReceipt](client, types.ModelMessageReceipt)
	assert.ErrorIs(t, err, ErrDelegateNotFound)

	_, err = Generate[models.User](Live(client), types.ModelUser)
	assert.ErrorIs(t, err, ErrDelegateNotFound)
}
