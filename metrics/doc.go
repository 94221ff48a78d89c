// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides Prometheus instrumentation for the URL resolver
// and the body parser registry.
//
// Collectors are registered on the registerer passed to the constructors,
// so several instances can coexist in tests:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewResolver(reg, "myapp")
//	resolver := siteurl.New(siteurl.WithMetrics(m))
//
// A nil *Resolver or *Body is valid and records nothing.
package metrics
