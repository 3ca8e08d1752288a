/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package metrics exposes prometheus collectors for channel setup operations.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultNamespace prefixes every collector name
	DefaultNamespace = "fabsetup"

	labelAction  = "action"
	labelOutcome = "outcome"
)

// Metrics counts attempts, retries and outcomes per setup action
type Metrics struct {
	attempts *prometheus.CounterVec
	retries  *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors under namespace (DefaultNamespace when empty)
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "setup",
			Name:      "attempts_total",
			Help:      "Number of attempts made per setup action.",
		}, []string{labelAction}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "setup",
			Name:      "retries_total",
			Help:      "Number of retries after a transient failure per setup action.",
		}, []string{labelAction}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "setup",
			Name:      "outcomes_total",
			Help:      "Final outcome of setup actions.",
		}, []string{labelAction, labelOutcome}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "setup",
			Name:      "duration_seconds",
			Help:      "Wall-clock time of setup actions including waits between attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{labelAction}),
	}
}

// Register registers all collectors with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if m == nil {
		return nil
	}
	for _, c := range []prometheus.Collector{m.attempts, m.retries, m.outcomes, m.duration} {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "registering setup metrics failed")
		}
	}
	return nil
}

// Attempted records one attempt of action
func (m *Metrics) Attempted(action string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(action).Inc()
}

// Retried records one retry of action
func (m *Metrics) Retried(action string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(action).Inc()
}

// Completed records the final outcome of action and its duration
func (m *Metrics) Completed(action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}
