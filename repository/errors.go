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
	"errors"
	"fmt"

	"github.com/tomoncle/kiln/types"
)

var (
	// ErrDatabaseUnavailable matches every *DatabaseUnavailableError.
	ErrDatabaseUnavailable = errors.New("database connection not available")

	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrServiceUnavailable is returned by entity-specific reads that need a
	// live client.
	ErrServiceUnavailable = errors.New("database service unavailable")

	ErrUnknownModel     = errors.New("unknown model")
	ErrDelegateNotFound = errors.New("delegate not found")
)

// DatabaseUnavailableError is returned by degraded write operations.
type DatabaseUnavailableError struct {
	Model types.ModelName
}

func (e *DatabaseUnavailableError) Error() string {
	return fmt.Sprintf("database connection not available for %s repository", e.Model)
}

func (e *DatabaseUnavailableError) Is(target error) bool {
	return target == ErrDatabaseUnavailable
}

// NotFoundError reports that an entity-specific lookup matched nothing.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
