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
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tomoncle/kiln/database"
)

// StatsSource exposes connection pool statistics. *database.Client
// implements it.
type StatsSource interface {
	Stats() *database.DBStats
}

// Metrics owns a private Prometheus registry with HTTP and pool metrics.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight *prometheus.GaugeVec
}

// NewMetrics builds the registry. stats may be nil when there is no database.
func NewMetrics(stats StatsSource) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		inflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests currently being served",
		}, []string{"method"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.inflight,
	)
	if stats != nil {
		m.registry.MustRegister(newDBPoolCollector(stats))
	}
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count, latency and in-flight requests, labelled
// by the matched chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		m.inflight.WithLabelValues(r.Method).Inc()

		defer func() {
			m.inflight.WithLabelValues(r.Method).Dec()
			path := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(ww, r)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

type dbPoolCollector struct {
	stats StatsSource

	openDesc      *prometheus.Desc
	inUseDesc     *prometheus.Desc
	idleDesc      *prometheus.Desc
	maxOpenDesc   *prometheus.Desc
	waitCountDesc *prometheus.Desc
	waitTimeDesc  *prometheus.Desc
}

func newDBPoolCollector(stats StatsSource) *dbPoolCollector {
	return &dbPoolCollector{
		stats:         stats,
		openDesc:      prometheus.NewDesc("db_pool_open_connections", "Established connections, in use and idle", nil, nil),
		inUseDesc:     prometheus.NewDesc("db_pool_in_use_connections", "Connections currently in use", nil, nil),
		idleDesc:      prometheus.NewDesc("db_pool_idle_connections", "Idle connections", nil, nil),
		maxOpenDesc:   prometheus.NewDesc("db_pool_max_open_connections", "Configured maximum open connections", nil, nil),
		waitCountDesc: prometheus.NewDesc("db_pool_wait_count_total", "Connections waited for", nil, nil),
		waitTimeDesc:  prometheus.NewDesc("db_pool_wait_seconds_total", "Time spent waiting for connections", nil, nil),
	}
}

func (c *dbPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.openDesc
	ch <- c.inUseDesc
	ch <- c.idleDesc
	ch <- c.maxOpenDesc
	ch <- c.waitCountDesc
	ch <- c.waitTimeDesc
}

func (c *dbPoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats.Stats()
	if s == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.openDesc, prometheus.GaugeValue, float64(s.OpenConns))
	ch <- prometheus.MustNewConstMetric(c.inUseDesc, prometheus.GaugeValue, float64(s.InUse))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(s.Idle))
	ch <- prometheus.MustNewConstMetric(c.maxOpenDesc, prometheus.GaugeValue, float64(s.MaxOpenConns))
	ch <- prometheus.MustNewConstMetric(c.waitCountDesc, prometheus.CounterValue, float64(s.WaitCount))
	ch <- prometheus.MustNewConstMetric(c.waitTimeDesc, prometheus.CounterValue, s.WaitDuration.Seconds())
}
