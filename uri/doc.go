// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package uri provides value-style helpers over *net/url.URL: path composition,
query and fragment parameters, path info extraction and URI templates.

Every function that "modifies" a URL returns a new *url.URL and leaves its
argument untouched.

# Paths

	u, _ := url.Parse("https://example.com/api/")
	uri.AppendPath(u, "/v1/", "users")  // https://example.com/api/v1/users
	uri.PrependPath(u, "/base/")        // https://example.com/base/api/

	uri.PathInfo("/app/index.php/users/7?x=1", "/app/index.php") // "/users/7"

# Query and Fragment Parameters

Parameters use the bracket notation implemented by package params:

	u = uri.WithQueryParam(u, "page", 2)
	u = uri.WithQueryParams(u, params.Of("tags", []string{"a", "b"}))
	// ?page=2&tags%5B0%5D=a&tags%5B1%5D=b

	u, old, ok := uri.WithoutQueryParam(u, "page")

The same helpers exist for the fragment, which OAuth implicit flows use to
return tokens.

# Templates

	uri.Expand("https://example.com/collection/{id}", map[string]any{"id": 20})
	// https://example.com/collection/20

MapReplace does the same and builds the result with a Factory. Passing a
template that is neither a string nor a URL returns ErrInvalidArgument.
*/
package uri
