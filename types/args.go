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

package types

import (
	"errors"
	"sort"
)

var (
	// ErrRecordNotFound is returned by update and delete when no row matches.
	ErrRecordNotFound = errors.New("record to update or delete does not exist")

	// ErrInvalidQuery is returned for arguments the delegate cannot execute.
	ErrInvalidQuery = errors.New("invalid query arguments")
)

// Where is a column -> value equality predicate. A nil value matches NULL.
type Where map[string]interface{}

// Keys returns the predicate columns in a stable order.
func (w Where) Keys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields is a column -> value map used for partial updates.
type Fields map[string]interface{}

// Keys returns the field columns in a stable order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BatchPayload reports how many rows a batch operation touched.
type BatchPayload struct {
	Count int64 `json:"count"`
}

type FindUniqueArgs struct {
	Where  Where
	Select []string
}

// FindManyArgs selects rows with optional projection, ordering and paging.
// OrderBy entries look like "created_at DESC". Take <= 0 means no limit.
type FindManyArgs struct {
	Where   Where
	Filter  *QueryFilter
	Select  []string
	OrderBy []string
	Skip    int
	Take    int
}

type CountArgs struct {
	Where  Where
	Filter *QueryFilter
}

type CreateArgs[T any] struct {
	Data *T
}

type CreateManyArgs[T any] struct {
	Data           []*T
	SkipDuplicates bool
}

type UpdateArgs struct {
	Where Where
	Data  Fields
}

type UpdateManyArgs struct {
	Where  Where
	Filter *QueryFilter
	Data   Fields
}

// UpsertArgs inserts Create when Where matches nothing, otherwise applies Update.
type UpsertArgs[T any] struct {
	Where  Where
	Create *T
	Update Fields
}

type DeleteArgs struct {
	Where Where
}

type DeleteManyArgs struct {
	Where  Where
	Filter *QueryFilter
}
