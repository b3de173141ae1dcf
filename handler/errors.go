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
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tomoncle/kiln/database"
	"github.com/tomoncle/kiln/repository"
	"github.com/tomoncle/kiln/types"
)

// FieldError is a per-field validation failure.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the JSON body of every error response.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func newHTTPError(status int, code, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message, Status: status}
}

func badRequest(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, "BAD_REQUEST", message)
}

// translate maps domain and driver errors onto HTTP errors.
func translate(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var notFound *repository.NotFoundError
	if errors.As(err, &notFound) {
		return newHTTPError(http.StatusNotFound, "NOT_FOUND", notFound.Error())
	}
	if errors.Is(err, types.ErrRecordNotFound) {
		return newHTTPError(http.StatusNotFound, "NOT_FOUND", err.Error())
	}
	if errors.Is(err, repository.ErrDatabaseUnavailable) || errors.Is(err, repository.ErrServiceUnavailable) {
		return newHTTPError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", err.Error())
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		e := newHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", "request validation failed")
		for _, fe := range verrs {
			e.Errors = append(e.Errors, FieldError{
				Field: strings.ToLower(fe.Field()),
				Error: "failed on " + fe.Tag(),
			})
		}
		return e
	}
	if errors.Is(err, types.ErrInvalidQuery) {
		return badRequest(err.Error())
	}
	if database.IsConflict(err) {
		return newHTTPError(http.StatusConflict, "CONFLICT", "resource conflicts with existing data")
	}

	return newHTTPError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := translate(err)
	if httpErr.Status >= http.StatusInternalServerError {
		requestLogger(r).WithError(err).Error("request failed")
	}
	writeJSON(w, httpErr.Status, httpErr)
}
