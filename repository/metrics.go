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

package repository

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts repository calls and records their latency.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratum_repository_calls_total",
				Help: "Total number of repository method calls by outcome.",
			},
			[]string{"repository", "method", "route", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stratum_repository_call_duration_seconds",
				Help:    "Duration of repository method calls in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"repository", "method", "route"},
		),
	}
}

// RegisterMetrics creates the collectors and registers them with reg. When an
// equal collector is already registered, the existing one is reused.
func RegisterMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := NewMetrics()
	calls, err := register(reg, m.calls)
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, m.duration)
	if err != nil {
		return nil, err
	}
	m.calls, m.duration = calls, duration
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Collectors returns the underlying collectors, for callers that manage their
// own registry.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.calls, m.duration}
}

func (m *Metrics) observe(repo, method, route string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(repo, method, route, outcome).Inc()
	m.duration.WithLabelValues(repo, method, route).Observe(time.Since(start).Seconds())
}
