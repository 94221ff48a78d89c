// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package http provides validation functions for HTTP headers and URIs.
package http

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const (
	// MaxHeaderNameLength is the maximum accepted length of a header name.
	MaxHeaderNameLength = 256

	// MaxHeaderValueLength is the maximum accepted length of a header value.
	MaxHeaderValueLength = 8192
)

// ValidateHeaderName validates that a string is a valid HTTP header name per RFC 7230.
// It checks for CRLF injection, control characters, and ensures RFC token compliance.
func ValidateHeaderName(name string) error {
	if name == "" {
		return fmt.Errorf("header name cannot be empty")
	}

	// Length limit to prevent DoS
	if len(name) > MaxHeaderNameLength {
		return fmt.Errorf("header name exceeds maximum length of %d bytes", MaxHeaderNameLength)
	}

	// Use httpguts validation (same as Go's HTTP/2 implementation)
	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("invalid HTTP header name: contains invalid characters")
	}

	return nil
}

// ValidateHeaderValue validates that a string is a valid HTTP header value per RFC 7230.
// It checks for CRLF injection and control characters.
func ValidateHeaderValue(value string) error {
	if value == "" {
		return fmt.Errorf("header value cannot be empty")
	}

	if len(value) > MaxHeaderValueLength {
		return fmt.Errorf("header value exceeds maximum length of %d bytes", MaxHeaderValueLength)
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid HTTP header value: contains control characters")
	}

	return nil
}

// ValidateAuthScheme validates an Authorization scheme name such as "Basic"
// or "Bearer". Schemes are RFC 7230 tokens, the same grammar as header names.
func ValidateAuthScheme(scheme string) error {
	if scheme == "" {
		return fmt.Errorf("authorization scheme cannot be empty")
	}
	if !httpguts.ValidHeaderFieldName(scheme) {
		return fmt.Errorf("invalid authorization scheme %q: must be an RFC 7230 token", scheme)
	}
	return nil
}

// ValidateAbsoluteURL validates that rawURL is an absolute URL with a scheme
// and a host. Unlike a resource indicator, fragments are allowed.
func ValidateAbsoluteURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	if strings.ContainsAny(rawURL, " \t\r\n") {
		return fmt.Errorf("URL must not contain whitespace: %q", rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme == "" {
		return fmt.Errorf("URL must include a scheme (e.g., https://): %s", rawURL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host: %s", rawURL)
	}

	return nil
}
