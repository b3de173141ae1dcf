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
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Client is the live database client. It owns one delegate per registered
// model, keyed by the model's delegate key ("message", "messageReceipt").
type Client struct {
	db        *bun.DB
	manager   AbstractDatabaseManager
	models    []SQLModel
	delegates map[string]any
}

// NewClient builds the delegate table for models over db. Duplicate or
// unknown model names are rejected.
func NewClient(db *bun.DB, models ...SQLModel) (*Client, error) {
	if db == nil {
		return nil, fmt.Errorf("database instance not initialized")
	}

	registry := NewModelRegistry()
	for _, model := range models {
		if err := registry.Register(model); err != nil {
			return nil, err
		}
	}

	ordered := registry.Models()
	c := &Client{
		db:        db,
		models:    ordered,
		delegates: make(map[string]any, len(ordered)),
	}
	for _, model := range ordered {
		c.delegates[model.Name().DelegateKey()] = model.Bind(db)
	}
	db.RegisterModel(ModelInstances(ordered)...)
	return c, nil
}

// Delegate returns the delegate registered under key.
func (c *Client) Delegate(key string) (any, bool) {
	d, ok := c.delegates[key]
	return d, ok
}

func (c *Client) DB() *bun.DB {
	return c.db
}

// Models returns the registered models in creation order.
func (c *Client) Models() []SQLModel {
	return c.models
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// HealthCheck reports connection health, including pool usage when the
// client was opened through a manager.
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c.manager != nil {
		return c.manager.HealthCheck(ctx)
	}
	start := time.Now()
	if err := c.Ping(ctx); err != nil {
		return UnavailableStatus(err.Error())
	}
	stats := c.db.Stats()
	return &HealthStatus{
		Healthy:       true,
		Connected:     true,
		ResponseTime:  time.Since(start),
		ActiveConns:   stats.InUse,
		IdleConns:     stats.Idle,
		MaxOpenConns:  stats.MaxOpenConnections,
		LastCheckTime: start,
	}
}

func (c *Client) Stats() *DBStats {
	if c.manager != nil {
		return c.manager.GetStats()
	}
	return newDBStats(c.db.Stats())
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c.manager != nil {
		return c.manager.Disconnect()
	}
	return c.db.Close()
}
