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

type call struct {
	op   string
	args any
}

// recordingDelegate records every call and answers with canned values.
type recordingDelegate[T any] struct {
	calls []call
	one   *T
	many  []*T
	count int
	batch types.BatchPayload
	err   error
}

func (d *recordingDelegate[T]) record(op string, args any) {
	d.calls = append(d.calls, call{op: op, args: args})
}

func (d *recordingDelegate[T]) Create(_ context.Context, args types.CreateArgs[T]) (*T, error) {
	d.record("Create", args)
	return d.one, d.err
}

func (d *recordingDelegate[T]) CreateMany(_ context.Context, args types.CreateManyArgs[T]) (types.BatchPayload, error) {
	d.record("CreateMany", args)
	return d.batch, d.err
}

func (d *recordingDelegate[T]) Count(_ context.Context, args types.CountArgs) (int, error) {
	d.record("Count", args)
	return d.count, d.err
}

func (d *recordingDelegate[T]) FindUnique(_ context.Context, args types.FindUniqueArgs) (*T, error) {
	d.record("FindUnique", args)
	return d.one, d.err
}

func (d *recordingDelegate[T]) FindFirst(_ context.Context, args types.FindManyArgs) (*T, error) {
	d.record("FindFirst", args)
	return d.one, d.err
}

func (d *recordingDelegate[T]) FindMany(_ context.Context, args types.FindManyArgs) ([]*T, error) {
	d.record("FindMany", args)
	return d.many, d.err
}

func (d *recordingDelegate[T]) Update(_ context.Context, args types.UpdateArgs) (*T, error) {
	d.record("Update", args)
	return d.one, d.err
}

func (d *recordingDelegate[T]) Upsert(_ context.Context, args types.UpsertArgs[T]) (*T, error) {
	d.record("Upsert", args)
	return d.one, d.err
}

func (d *recordingDelegate[T]) UpdateMany(_ context.Context, args types.UpdateManyArgs) (types.BatchPayload, error) {
	d.record("UpdateMany", args)
	return d.batch, d.err
}

func (d *recordingDelegate[T]) Delete(_ context.Context, args types.DeleteArgs) (*T, error) {
	d.record("Delete", args)
	return d.one, d.err
}

func (d *recordingDelegate[T]) DeleteMany(_ context.Context, args types.DeleteManyArgs) (types.BatchPayload, error) {
	d.record("DeleteMany", args)
	return d.batch, d.err
}

type fakeClient struct {
	delegates map[string]any
	lookups   []string
}

func (c *fakeClient) Delegate(key string) (any, bool) {
	c.lookups = append(c.lookups, key)
	d, ok := c.delegates[key]
	return d, ok
}
