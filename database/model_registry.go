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

package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tomoncle/kiln/types"
	"github.com/uptrace/bun"
)

// SQLModel describes a persisted entity: its name, a Bun-compatible struct
// pointer, its creation order (lower values first) and how to build its
// delegate over a database handle.
type SQLModel interface {
	Name() types.ModelName
	Instance() interface{}
	Priority() int
	ForeignKeys() []ForeignKeyConstraint
	Bind(db bun.IDB) any
}

// ModelRegistry stores SQL models and exposes them in a deterministic order.
type ModelRegistry interface {
	Register(model SQLModel) error
	Models() []SQLModel
}

type modelRegistry struct {
	models []SQLModel
	names  map[types.ModelName]struct{}
	mutex  sync.RWMutex
}

// NewModelRegistry returns an empty registry.
func NewModelRegistry() ModelRegistry {
	return &modelRegistry{
		models: make([]SQLModel, 0),
		names:  make(map[types.ModelName]struct{}),
	}
}

func (r *modelRegistry) Register(model SQLModel) error {
	if model == nil {
		return fmt.Errorf("model cannot be nil")
	}
	if !model.Name().IsValid() {
		return fmt.Errorf("unknown model name: %q", model.Name())
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.names[model.Name()]; ok {
		return fmt.Errorf("model %s already registered", model.Name())
	}
	r.names[model.Name()] = struct{}{}
	r.models = append(r.models, model)
	return nil
}

func (r *modelRegistry) Models() []SQLModel {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]SQLModel, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

// ModelAdapter binds a Go struct type to its model name.
type ModelAdapter[T any] struct {
	name        types.ModelName
	priority    int
	foreignKeys []ForeignKeyConstraint
}

// NewModel wraps T into an SQLModel. Foreign keys are emitted with the
// CREATE TABLE statement during migration.
func NewModel[T any](name types.ModelName, priority int, fks ...ForeignKeyConstraint) SQLModel {
	return &ModelAdapter[T]{
		name:        name,
		priority:    priority,
		foreignKeys: fks,
	}
}

func (a *ModelAdapter[T]) Name() types.ModelName {
	return a.name
}

// Instance returns a typed nil pointer suitable for Bun's Model().
func (a *ModelAdapter[T]) Instance() interface{} {
	return (*T)(nil)
}

// Priority returns the model's ordering value; lower values run earlier.
func (a *ModelAdapter[T]) Priority() int {
	return a.priority
}

func (a *ModelAdapter[T]) ForeignKeys() []ForeignKeyConstraint {
	return a.foreignKeys
}

// Bind returns a *Delegate[T] over db.
func (a *ModelAdapter[T]) Bind(db bun.IDB) any {
	return NewDelegate[T](db)
}

// ModelInstances returns the struct pointers of models, in the given order.
func ModelInstances(models []SQLModel) []interface{} {
	instances := make([]interface{}, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}
