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

// Package container is a small name-keyed registry of lazily built
// singletons. Registrations are made once at start from an explicit table.
package container

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrDuplicate    = errors.New("component already registered")
	ErrNotFound     = errors.New("component not registered")
	ErrTypeMismatch = errors.New("component has unexpected type")
)

// Provider builds a component, resolving its own dependencies from c.
type Provider func(c *Container) (any, error)

type entry struct {
	provider Provider
	once     sync.Once
	value    any
	err      error
}

// Container resolves each registered name to one shared instance.
type Container struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func New() *Container {
	return &Container{entries: make(map[string]*entry)}
}

// Register adds provider under name. Names are unique.
func (c *Container) Register(name string, provider Provider) error {
	if name == "" || provider == nil {
		return fmt.Errorf("container: name and provider are required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	c.entries[name] = &entry{provider: provider}
	return nil
}

// Value registers an already built component.
func (c *Container) Value(name string, value any) error {
	return c.Register(name, func(*Container) (any, error) { return value, nil })
}

// Resolve returns the component registered under name, running its provider
// on first use only. A provider error is returned on every later call too.
// Providers must not depend on themselves, directly or indirectly.
func (c *Container) Resolve(name string) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	e.once.Do(func() {
		value, err := e.provider(c)
		if err != nil {
			e.err = fmt.Errorf("resolve %s: %w", name, err)
			return
		}
		e.value = value
	})
	return e.value, e.err
}

// Names returns the registered names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the component under name as T.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, want %T", ErrTypeMismatch, name, v, zero)
	}
	return typed, nil
}
