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

// Package app is the composition root. It opens the database, fills the
// container from a fixed registration table and builds the HTTP server.
package app

import (
	"context"
	"net/http"

	"github.com/tomoncle/kiln/config"
	"github.com/tomoncle/kiln/container"
	"github.com/tomoncle/kiln/database"
	"github.com/tomoncle/kiln/handler"
	"github.com/tomoncle/kiln/models"
	"github.com/tomoncle/kiln/repository"
	"github.com/tomoncle/kiln/server"
	"github.com/tomoncle/kiln/utils"
)

type App struct {
	Config    *config.Config
	Container *container.Container

	client *database.Client
	conn   repository.Connection
}

// New opens the database and registers every component. A missing or
// unreachable database leaves the application in degraded mode.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	return open(ctx, cfg, (*App).registrations)
}

func open(ctx context.Context, cfg *config.Config, table func(*App) []registration) (*App, error) {
	client := database.Open(ctx, cfg.Database(), nil, models.All()...)
	a, err := build(cfg, client, table)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return nil, err
	}
	return a, nil
}

// NewWithClient builds the application over an existing client, which may
// be nil. The caller keeps ownership of client on error.
func NewWithClient(cfg *config.Config, client *database.Client) (*App, error) {
	return build(cfg, client, (*App).registrations)
}

func build(cfg *config.Config, client *database.Client, table func(*App) []registration) (*App, error) {
	a := &App{
		Config:    cfg,
		Container: container.New(),
		client:    client,
		conn:      repository.Live(client),
	}
	if err := a.register(table(a)); err != nil {
		return nil, err
	}
	return a, nil
}

// Connection reports whether repositories are live or degraded.
func (a *App) Connection() repository.Connection {
	return a.conn
}

// Router resolves the handlers and mounts them.
func (a *App) Router() (http.Handler, error) {
	appHandler, err := container.Resolve[*handler.ApplicationHandler](a.Container, ApplicationHandler)
	if err != nil {
		return nil, err
	}
	msgHandler, err := container.Resolve[*handler.MessageHandler](a.Container, MessageHandler)
	if err != nil {
		return nil, err
	}

	var stats handler.StatsSource
	if a.client != nil {
		stats = a.client
	}
	return handler.NewRouter(handler.RouterConfig{
		Application: appHandler,
		Messages:    msgHandler,
		Metrics:     handler.NewMetrics(stats),
		Logger:      utils.NewLogger("HTTP"),
		CORSOrigins: a.Config.CORSOrigins,
	}), nil
}

// Server builds the HTTP server. The database is closed after the server
// stops.
func (a *App) Server() (*server.Server, error) {
	router, err := a.Router()
	if err != nil {
		return nil, err
	}
	srv := server.New(a.Config.Address(), router, utils.NewLogger("SERVER"), server.Options{
		ShutdownTimeout: a.Config.ShutdownTimeout,
	})
	if a.client != nil {
		srv.OnClose(a.client.Close)
	}
	return srv, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	srv, err := a.Server()
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
