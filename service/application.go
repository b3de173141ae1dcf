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

package service

import (
	"context"

	"github.com/tomoncle/kiln/database"
)

// HealthReporter reports database health. *database.Client implements it.
type HealthReporter interface {
	HealthCheck(ctx context.Context) *database.HealthStatus
}

type ApplicationService struct {
	health HealthReporter
}

// NewApplicationService returns the service. health may be nil when the
// process runs without a database.
func NewApplicationService(health HealthReporter) *ApplicationService {
	return &ApplicationService{health: health}
}

// HealthChecker answers the liveness probe.
func (s *ApplicationService) HealthChecker(ctx context.Context) (string, error) {
	return "pong", nil
}

// Readiness reports database health; unhealthy when there is no database.
func (s *ApplicationService) Readiness(ctx context.Context) *database.HealthStatus {
	if s.health == nil {
		return database.UnavailableStatus("database not configured")
	}
	return s.health.HealthCheck(ctx)
}
