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
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/kiln/utils"
)

type loggerKey struct{}

// requestLogger returns the request-scoped logger set by RequestLogger.
func requestLogger(r *http.Request) logrus.FieldLogger {
	if l, ok := r.Context().Value(loggerKey{}).(logrus.FieldLogger); ok {
		return l
	}
	return utils.NewLogger("HTTP")
}

// RequestLogger logs one line per request and stores a request-scoped
// logger carrying the request id in the context.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			entry := logger.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"client_ip":  r.RemoteAddr,
				"req_method": r.Method,
				"req_uri":    r.URL.RequestURI(),
			})
			r = r.WithContext(context.WithValue(r.Context(), loggerKey{}, logrus.FieldLogger(entry)))

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				e := entry.WithFields(logrus.Fields{
					"status_code":  status,
					"latency_time": utils.Since(start),
				})
				switch {
				case status >= http.StatusInternalServerError:
					e.Warn("HTTP request")
				default:
					e.Info("HTTP request")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// CORS allows the configured origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
