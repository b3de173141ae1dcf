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

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/kiln/database"
	"github.com/tomoncle/kiln/internal/dbtest"
	"github.com/tomoncle/kiln/repository"
	"github.com/tomoncle/kiln/service"
	"github.com/tomoncle/kiln/types"
	"github.com/tomoncle/kiln/utils"
)

func newTestRouter(t *testing.T, client *database.Client) http.Handler {
	t.Helper()
	conn := repository.Live(client)
	messages, err := repository.NewMessageRepository(conn)
	require.NoError(t, err)
	users, err := repository.NewUserRepository(conn)
	require.NoError(t, err)
	receipts, err := repository.NewMessageReceiptRepository(conn)
	require.NoError(t, err)

	var health service.HealthReporter
	var stats StatsSource
	if client != nil {
		health, stats = client, client
	}
	return NewRouter(RouterConfig{
		Application: NewApplicationHandler(service.NewApplicationService(health)),
		Messages:    NewMessageHandler(service.NewMessageService(messages, users, receipts)),
		Metrics:     NewMetrics(stats),
		Logger:      utils.NewLogger("HTTP"),
	})
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) HTTPError {
	t.Helper()
	var body HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	rec = do(h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = newTestRouter(t, dbtest.Open(t))
	rec = do(h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy":true`)
}

func TestMessagesDegraded(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(h, http.MethodGet, "/messages/m1", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.Code)
	assert.Equal(t, http.StatusServiceUnavailable, body.Status)

	rec = do(h, http.MethodGet, "/messages?thread_id=t1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)

	rec = do(h, http.MethodPost, "/messages", `{"thread_id":"t1","author_id":"a","content":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "Message repository")
}

func TestMessagesLive(t *testing.T) {
	h := newTestRouter(t, dbtest.Open(t))

	rec := do(h, http.MethodGet, "/messages/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Message not found", decodeError(t, rec).Message)

	rec = do(h, http.MethodPost, "/messages", `{"thread_id":"t1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Len(t, body.Errors, 2)

	rec = do(h, http.MethodPost, "/messages", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/messages", `{"thread_id":"t1","author_id":"a","content":"hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = do(h, http.MethodGet, "/messages/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"content":"hello"`)

	rec = do(h, http.MethodGet, "/messages?thread_id=t1&page=1&page_size=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = do(h, http.MethodGet, "/messages?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/messages/"+created.ID+"/receipts", `{"user_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPost, "/messages/"+created.ID+"/receipts", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/messages/"+created.ID+"/receipts", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = do(h, http.MethodDelete, "/messages/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(h, http.MethodDelete, "/messages/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, dbtest.Open(t))
	do(h, http.MethodGet, "/health", "")

	rec := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/health",status="200"} 1`)
	assert.Contains(t, body, "db_pool_max_open_connections 1")
	assert.Contains(t, body, "go_goroutines")
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", &repository.NotFoundError{Entity: "Message"}, http.StatusNotFound, "NOT_FOUND"},
		{"record not found", fmt.Errorf("update: %w", types.ErrRecordNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"database unavailable", &repository.DatabaseUnavailableError{Model: types.ModelMessage}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"service unavailable", repository.ErrServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"invalid query", fmt.Errorf("%w: x", types.ErrInvalidQuery), http.StatusBadRequest, "BAD_REQUEST"},
		{"duplicate", &mysql.MySQLError{Number: 1062}, http.StatusConflict, "CONFLICT"},
		{"http error", badRequest("nope"), http.StatusBadRequest, "BAD_REQUEST"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}
