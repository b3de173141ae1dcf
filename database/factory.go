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
	"strings"
)

var supportedTypes = []string{"mysql", "postgres", "sqlite"}

// BaseDatabaseFactory turns a Config into a connected Client over the given
// models.
type BaseDatabaseFactory struct {
	logger Logger
	models []SQLModel
}

// NewDatabaseFactory returns a factory. A nil logger uses the shared
// "DATABASE" logger.
func NewDatabaseFactory(logger Logger, models ...SQLModel) *BaseDatabaseFactory {
	if logger == nil {
		logger = NewLogger(nil)
	}
	return &BaseDatabaseFactory{logger: logger, models: models}
}

// CreateFromConfig resolves cfg.URL over the pool tuning in cfg and returns
// an unconnected manager.
func (f *BaseDatabaseFactory) CreateFromConfig(cfg Config) (AbstractDatabaseManager, error) {
	target, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	supported := false
	for _, t := range supportedTypes {
		if target.Type == t {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported database type: %s, supported types: %v", target.Type, supportedTypes)
	}

	manager := NewDatabaseManager(target.merge(cfg.ConnectionConfig))
	manager.SetLogger(f.logger)
	return manager, nil
}

// Connect opens the database, optionally migrates it and builds the client.
// Any failure is returned to the caller.
func (f *BaseDatabaseFactory) Connect(ctx context.Context, cfg Config) (*Client, error) {
	manager, err := f.CreateFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := manager.GetDB()
	if cfg.MigrateOnStartup {
		if err := Migrate(ctx, db, f.logger, f.models...); err != nil {
			_ = manager.Disconnect()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	client, err := NewClient(db, f.models...)
	if err != nil {
		_ = manager.Disconnect()
		return nil, err
	}
	client.manager = manager

	f.logger.Info("Database initialization completed!")
	return client, nil
}

// Open is the lenient form of Connect used at process start. A missing URL
// is logged as a warning and a failed connection as an error; in both cases
// Open returns nil and the process continues without a database.
func (f *BaseDatabaseFactory) Open(ctx context.Context, cfg Config) *Client {
	if strings.TrimSpace(cfg.URL) == "" {
		f.logger.Warn("DATABASE_URL is not set, running without a database")
		return nil
	}

	client, err := f.Connect(ctx, cfg)
	if err != nil {
		f.logger.Error("Database connection failed, running without a database", "error", err)
		return nil
	}
	return client
}

// Open is shorthand for NewDatabaseFactory(logger, models...).Open(ctx, cfg).
func Open(ctx context.Context, cfg Config, logger Logger, models ...SQLModel) *Client {
	return NewDatabaseFactory(logger, models...).Open(ctx, cfg)
}
