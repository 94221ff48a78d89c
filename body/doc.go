// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package body converts HTTP message bodies to and from Go values by media
type.

A Registry maps media types to Parsers. Lookups ignore media type
parameters and case, and fall back to the structured syntax suffix, so
"application/problem+json; charset=utf-8" is handled by the JSON parser.

	reg := body.NewDefaultRegistry()

	v, err := reg.Content(r.Header, r.Body)
	if err != nil {
	    http.Error(w, err.Error(), httperr.Code(err))
	    return
	}

	b, err := reg.WithContent(w.Header(), "application/json", map[string]any{"ok": true})

Bodies without a registered parser are returned as strings.

# JSON Schema

A JSONParser can validate documents against a JSON schema. Violations are
reported as a *SchemaError listing every failure:

	schema, err := body.CompileSchema([]byte(`{"type": "object", "required": ["name"]}`))
	reg := body.NewRegistry(body.WithParsers(body.NewJSONParser(body.WithSchema(schema))))

Parse failures carry HTTP 400 through httperr.
*/
package body
