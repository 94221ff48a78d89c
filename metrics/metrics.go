// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace is used when an empty namespace is given.
const DefaultNamespace = "httputil"

// Cache lookup results recorded by Resolver.CacheLookup.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Resolver holds the URL resolver metrics.
type Resolver struct {
	Resolutions      *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec
	UntrustedProxies prometheus.Counter
}

// NewResolver creates and registers the URL resolver metrics on reg.
func NewResolver(reg prometheus.Registerer, namespace string) *Resolver {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Resolver{
		Resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "siteurl",
				Name:      "resolutions_total",
				Help:      "Total number of URL resolutions by kind",
			},
			[]string{"kind"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "siteurl",
				Name:      "cache_lookups_total",
				Help:      "Total number of current URL cache lookups by result",
			},
			[]string{"result"},
		),
		UntrustedProxies: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "siteurl",
				Name:      "untrusted_forwarded_total",
				Help:      "Total number of resolutions that ignored forwarded headers",
			},
		),
	}
}

// Resolution records one resolution of the given kind.
func (m *Resolver) Resolution(kind string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(kind).Inc()
}

// CacheLookup records a cache hit or miss.
func (m *Resolver) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Untrusted records a resolution whose forwarded headers were ignored.
func (m *Resolver) Untrusted() {
	if m == nil {
		return
	}
	m.UntrustedProxies.Inc()
}

// Body holds the body parser registry metrics.
type Body struct {
	Parsed      *prometheus.CounterVec
	ParseErrors *prometheus.CounterVec
}

// NewBody creates and registers the body parser metrics on reg.
func NewBody(reg prometheus.Registerer, namespace string) *Body {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Body{
		Parsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "body",
				Name:      "parsed_total",
				Help:      "Total number of parsed bodies by media type",
			},
			[]string{"media_type"},
		),
		ParseErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "body",
				Name:      "parse_errors_total",
				Help:      "Total number of body parse failures by media type",
			},
			[]string{"media_type"},
		),
	}
}

// Result records the outcome of parsing a body of mediaType.
func (m *Body) Result(mediaType string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ParseErrors.WithLabelValues(mediaType).Inc()
		return
	}
	m.Parsed.WithLabelValues(mediaType).Inc()
}
