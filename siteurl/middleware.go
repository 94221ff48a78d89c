// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package siteurl

import (
	"net/http"

	"github.com/stacklok/toolhive-httputil/servervars"
)

// Middleware stores the server variables of each request, with SCRIPT_NAME
// set to scriptName, and a fresh Cache in the request context. Handlers
// resolve URLs with the InContext call option:
//
//	mux.Handle("/app/", siteurl.Middleware("/app")(handler))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		self, err := resolver.CurrentString(nil, siteurl.InContext(r.Context()), siteurl.Cached())
//		...
//	}
func Middleware(scriptName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := servervars.ContextWithOverrides(r.Context(), servervars.FromRequest(r, scriptName))
			ctx = ContextWithCache(ctx, NewCache())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
