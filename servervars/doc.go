// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package servervars models the CGI-style server variables (HTTPS, HTTP_HOST,
SERVER_NAME, SCRIPT_NAME, ...) that URL resolution is computed from.

A Snapshot layers an override map on top of a base env.Reader. Lookups
consult the overrides first and fall back to the base key by key:

	snap := servervars.New(&env.OSReader{}, servervars.Overrides{
		servervars.HTTPHost: "example.com",
	})
	host := snap.Get(servervars.HTTPHost) // "example.com"

Typed access goes through Vars, which is parsed with caarlos0/env:

	vars, err := snap.Vars()
	if errors.Is(err, servervars.ErrInvalidEnvironment) {
		// SERVER_PORT is not a valid port
	}

# Sources

FromRequest derives the variables from a *http.Request the way a CGI host
does, Load reads them from dotenv files, and ContextWithOverrides carries
them through a request context.
*/
package servervars
