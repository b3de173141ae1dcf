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

package app

import (
	"github.com/tomoncle/kiln/container"
	"github.com/tomoncle/kiln/handler"
	"github.com/tomoncle/kiln/repository"
	"github.com/tomoncle/kiln/service"
)

// Container names.
const (
	RepositoryConnection     = "repositoryConnection"
	MessageRepository        = "messageRepository"
	UserRepository           = "userRepository"
	MessageReceiptRepository = "messageReceiptRepository"
	ApplicationService       = "applicationService"
	ApplicationHandler       = "applicationHandler"
	MessageService           = "messageService"
	MessageHandler           = "messageHandler"
)

type registration struct {
	name     string
	provider container.Provider
}

func (a *App) registrations() []registration {
	return []registration{
		{MessageRepository, func(c *container.Container) (any, error) {
			conn, err := container.Resolve[repository.Connection](c, RepositoryConnection)
			if err != nil {
				return nil, err
			}
			return repository.NewMessageRepository(conn)
		}},
		{UserRepository, func(c *container.Container) (any, error) {
			conn, err := container.Resolve[repository.Connection](c, RepositoryConnection)
			if err != nil {
				return nil, err
			}
			return repository.NewUserRepository(conn)
		}},
		{MessageReceiptRepository, func(c *container.Container) (any, error) {
			conn, err := container.Resolve[repository.Connection](c, RepositoryConnection)
			if err != nil {
				return nil, err
			}
			return repository.NewMessageReceiptRepository(conn)
		}},
		{ApplicationService, func(*container.Container) (any, error) {
			var health service.HealthReporter
			if a.client != nil {
				health = a.client
			}
			return service.NewApplicationService(health), nil
		}},
		{ApplicationHandler, func(c *container.Container) (any, error) {
			svc, err := container.Resolve[*service.ApplicationService](c, ApplicationService)
			if err != nil {
				return nil, err
			}
			return handler.NewApplicationHandler(svc), nil
		}},
		{MessageService, func(c *container.Container) (any, error) {
			messages, err := container.Resolve[*repository.MessageRepository](c, MessageRepository)
			if err != nil {
				return nil, err
			}
			users, err := container.Resolve[*repository.UserRepository](c, UserRepository)
			if err != nil {
				return nil, err
			}
			receipts, err := container.Resolve[repository.MessageReceiptRepository](c, MessageReceiptRepository)
			if err != nil {
				return nil, err
			}
			return service.NewMessageService(messages, users, receipts), nil
		}},
		{MessageHandler, func(c *container.Container) (any, error) {
			svc, err := container.Resolve[*service.MessageService](c, MessageService)
			if err != nil {
				return nil, err
			}
			return handler.NewMessageHandler(svc), nil
		}},
	}
}

func (a *App) register(table []registration) error {
	if err := a.Container.Value(RepositoryConnection, a.conn); err != nil {
		return err
	}
	for _, r := range table {
		if err := a.Container.Register(r.name, r.provider); err != nil {
			return err
		}
	}
	return nil
}
