// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package authz

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/stacklok/toolhive-httputil/httperr"
	httpval "github.com/stacklok/toolhive-httputil/validation/http"
)

// HeaderName is the request header holding credentials.
const HeaderName = "Authorization"

var (
	// ErrMissing is returned when a message carries no Authorization header.
	ErrMissing = errors.New("authorization header missing")

	// ErrMalformed is returned when credentials cannot be parsed.
	ErrMalformed = errors.New("malformed authorization header")
)

// Header is a parsed Authorization value.
type Header interface {
	// Scheme returns the canonical scheme name.
	Scheme() string
	// Credentials returns the encoded credentials following the scheme.
	Credentials() string
}

// Factory builds a Header from the credentials that follow a scheme name.
type Factory func(credentials string) (Header, error)

// Basic holds RFC 7617 credentials.
type Basic struct {
	User     string
	Password string
}

// Scheme implements Header.
func (Basic) Scheme() string { return "Basic" }

// Credentials implements Header.
func (b Basic) Credentials() string {
	return base64.StdEncoding.EncodeToString([]byte(b.User + ":" + b.Password))
}

// ParseBasic decodes base64 user:password credentials.
func ParseBasic(credentials string) (Header, error) {
	raw, err := base64.StdEncoding.DecodeString(credentials)
	if err != nil {
		return nil, fmt.Errorf("%w: basic credentials are not base64: %w", ErrMalformed, err)
	}
	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return nil, fmt.Errorf("%w: basic credentials lack a colon", ErrMalformed)
	}
	return Basic{User: user, Password: pass}, nil
}

// Bearer holds an RFC 6750 bearer token.
type Bearer struct {
	Token string
}

// Scheme implements Header.
func (Bearer) Scheme() string { return "Bearer" }

// Credentials implements Header.
func (b Bearer) Credentials() string { return b.Token }

// ParseBearer accepts any non-empty token.
func ParseBearer(credentials string) (Header, error) {
	if credentials == "" {
		return nil, fmt.Errorf("%w: empty bearer token", ErrMalformed)
	}
	return Bearer{Token: credentials}, nil
}

// Generic holds a value of an unregistered scheme.
type Generic struct {
	Type  string
	Value string
}

// Scheme implements Header.
func (g Generic) Scheme() string { return g.Type }

// Credentials implements Header.
func (g Generic) Credentials() string { return g.Value }

// Format renders h as an Authorization header value.
func Format(h Header) string {
	if h.Credentials() == "" {
		return h.Scheme()
	}
	return h.Scheme() + " " + h.Credentials()
}

// Set stores h as the Authorization header of hdr. Values that are not
// valid header values, such as credentials containing a line break, are
// rejected with ErrMalformed and hdr is left unchanged.
func Set(hdr http.Header, h Header) error {
	v := Format(h)
	if err := httpval.ValidateHeaderValue(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	hdr.Set(HeaderName, v)
	return nil
}

// Canonical returns scheme with the first letter upper-cased and the rest
// lower-cased.
func Canonical(scheme string) string {
	if scheme == "" {
		return ""
	}
	lower := strings.ToLower(scheme)
	_, size := utf8.DecodeRuneInString(lower)
	return strings.ToUpper(lower[:size]) + lower[size:]
}

// Registry maps scheme names to factories. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemes map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemes: make(map[string]Factory)}
}

// NewDefaultRegistry returns a registry with Basic and Bearer registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.schemes["Basic"] = ParseBasic
	r.schemes["Bearer"] = ParseBearer
	return r
}

// Register adds or replaces the factory for scheme. The scheme must be a
// valid HTTP token.
func (r *Registry) Register(scheme string, f Factory) error {
	if err := httpval.ValidateAuthScheme(scheme); err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("nil factory for scheme %q", scheme)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemes[Canonical(scheme)] = f
	return nil
}

// Parse parses one Authorization value. Unregistered schemes yield
// Generic. Errors carry HTTP 400.
func (r *Registry) Parse(value string) (Header, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, httperr.WithCode(fmt.Errorf("%w: empty value", ErrMalformed), http.StatusBadRequest)
	}
	scheme, credentials, _ := strings.Cut(value, " ")
	scheme = Canonical(scheme)
	credentials = strings.TrimLeft(credentials, " ")

	r.mu.RLock()
	f, ok := r.schemes[scheme]
	r.mu.RUnlock()
	if !ok {
		return Generic{Type: scheme, Value: credentials}, nil
	}

	h, err := f(credentials)
	if err != nil {
		return nil, httperr.WithCode(err, http.StatusBadRequest)
	}
	return h, nil
}

// FromHeader parses every Authorization value of hdr. It returns
// ErrMissing, with HTTP 401, when there is none.
func (r *Registry) FromHeader(hdr http.Header) ([]Header, error) {
	values := hdr.Values(HeaderName)
	if len(values) == 0 {
		return nil, httperr.WithCode(ErrMissing, http.StatusUnauthorized)
	}
	out := make([]Header, 0, len(values))
	for _, v := range values {
		h, err := r.Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// First parses the first Authorization value of hdr.
func (r *Registry) First(hdr http.Header) (Header, error) {
	v := hdr.Get(HeaderName)
	if v == "" {
		return nil, httperr.WithCode(ErrMissing, http.StatusUnauthorized)
	}
	return r.Parse(v)
}
