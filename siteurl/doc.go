// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package siteurl builds externally visible absolute URLs (current URL, site
URL, base URL) from CGI-style server variables, taking reverse proxy
headers into account.

# Basic Usage

	r := siteurl.New(siteurl.WithEnv(reader))

	site, err := r.SiteURL("/some/path", servervars.Overrides{
	    servervars.HTTPS:      "on",
	    servervars.ServerName: "localhost",
	    servervars.ServerPort: "3000",
	    servervars.ScriptName: "/public/index.php",
	})
	// "https://localhost:3000/public/index.php/some/path"

	base, err := r.BaseURL("/assets/css/style.css", servervars.Overrides{
	    servervars.HTTPHost:   "localhost",
	    servervars.ScriptName: "/public/index.php",
	})
	// "http://localhost/public/assets/css/style.css"

# Reverse Proxies

HTTP_X_FORWARDED_HOST replaces the host, HTTP_X_FORWARDED_PROTO the scheme
and HTTP_X_FORWARDED_PREFIX is prepended to the script path. With
WithTrustPolicy these headers are only used for requests the
proxytrust.Policy admits.

# Caching

The Cached call option memoizes the first computed current URL in a Cache
and returns it on every later cached call, whatever the server variables.
SiteURL and BaseURL read the same memo, so a cached site URL carries the
path of whichever URL was stored first.
A Resolver owns one Cache; Middleware installs a fresh one per request so
that the memo never outlives the request:

	handler = siteurl.Middleware("/index.php")(handler)
	// in the handler:
	u, err := r.CurrentString(nil, siteurl.InContext(req.Context()), siteurl.Cached())
*/
package siteurl
