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

// Package dbtest opens migrated in-memory SQLite clients for tests.
package dbtest

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/kiln/database"
	"github.com/tomoncle/kiln/models"
)

// Config returns a private in-memory SQLite database config. The single
// connection keeps the shared-cache database alive for the test.
func Config() database.Config {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	return database.Config{
		URL:              "file:" + name + "?mode=memory&cache=shared",
		ConnectionConfig: database.ConnectionConfig{MaxOpenConns: 1, MaxIdleConns: 1},
		MigrateOnStartup: true,
	}
}

// Open connects and migrates every model. The client is closed with t.
func Open(t testing.TB) *database.Client {
	t.Helper()
	client, err := database.NewDatabaseFactory(nil, models.All()...).Connect(context.Background(), Config())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
