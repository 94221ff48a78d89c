// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package uri

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	httpval "github.com/stacklok/toolhive-httputil/validation/http"
)

// User returns the user name in the authority of u.
func User(u *url.URL) string {
	if u.User == nil {
		return ""
	}
	return u.User.Username()
}

// Password returns the password in the authority of u and whether one is set.
func Password(u *url.URL) (string, bool) {
	if u.User == nil {
		return "", false
	}
	return u.User.Password()
}

// IsValid reports whether v, a string or a fmt.Stringer such as *url.URL, is
// an absolute URL with a scheme and a host.
func IsValid(v any) bool {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case *url.URL:
		if t == nil {
			return false
		}
		s = t.String()
	case fmt.Stringer:
		s = t.String()
	default:
		return false
	}
	return httpval.ValidateAbsoluteURL(s) == nil
}

// Base64URLEncode encodes data with the URL-safe alphabet and no padding, as
// used in tokens carried in URIs.
func Base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Base64URLDecode decodes URL-safe base64, with or without padding.
func Base64URLDecode(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("decoding base64url: %w", err)
	}
	return b, nil
}
