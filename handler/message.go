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
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tomoncle/kiln/service"
	"github.com/tomoncle/kiln/types"
)

const maxBodyBytes = 1 << 20

type MessageHandler struct {
	service *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// List handles GET /messages?thread_id=&page=&page_size=.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := queryInt(q.Get("page"), 1)
	if err != nil {
		writeError(w, r, badRequest("page must be an integer"))
		return
	}
	size, err := queryInt(q.Get("page_size"), types.DefaultPageSize)
	if err != nil {
		writeError(w, r, badRequest("page_size must be an integer"))
		return
	}

	result, err := h.service.List(r.Context(), q.Get("thread_id"), types.NewDefaultPageRequest(page, size))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /messages/{id}.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Post handles POST /messages.
func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	var input service.PostMessageInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	msg, err := h.service.Post(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Delete handles DELETE /messages/{id}.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type markReadInput struct {
	UserID string `json:"user_id"`
}

// MarkRead handles POST /messages/{id}/receipts.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var input markReadInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	if input.UserID == "" {
		writeError(w, r, badRequest("user_id is required"))
		return
	}
	receipt, err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id"), input.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// Receipts handles GET /messages/{id}/receipts.
func (h *MessageHandler) Receipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.service.Readers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
