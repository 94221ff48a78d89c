// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package http provides security-focused validation functions for HTTP headers and URIs.

This package helps prevent common security vulnerabilities such as HTTP header injection
(CRLF injection) and malformed URI attacks by validating input against RFC specifications.

# Header Validation

Validate HTTP header names and values per RFC 7230:

	if err := http.ValidateHeaderName("X-Forwarded-Prefix"); err != nil {
		// Handle invalid header name
	}

	if err := http.ValidateHeaderValue("Bearer token123"); err != nil {
		// Handle invalid header value
	}

The validators check for:
  - CRLF injection attempts (\r\n sequences)
  - Control characters
  - RFC 7230 token compliance for header names and Authorization schemes
  - Length limits to prevent DoS (256 bytes for names, 8192 for values)

# URL Validation

Validate that a string is an absolute URL before handing it to a client:

	if err := http.ValidateAbsoluteURL("https://api.example.com/v1"); err != nil {
		// Handle invalid URL
	}

Absolute URLs must include a scheme and a host and must not contain whitespace.
*/
package http
