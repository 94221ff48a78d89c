// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package servervars

import (
	"maps"

	"github.com/stacklok/toolhive-httputil/env"
)

// Variable names understood by the URL resolver.
const (
	HTTPS           = "HTTPS"
	HTTPHost        = "HTTP_HOST"
	ServerName      = "SERVER_NAME"
	ServerPort      = "SERVER_PORT"
	ScriptName      = "SCRIPT_NAME"
	RequestURI      = "REQUEST_URI"
	QueryString     = "QUERY_STRING"
	ForwardedPrefix = "HTTP_X_FORWARDED_PREFIX"
	ForwardedHost   = "HTTP_X_FORWARDED_HOST"
	ForwardedProto  = "HTTP_X_FORWARDED_PROTO"
	RemoteAddr      = "REMOTE_ADDR"
)

// Keys lists every variable above.
var Keys = []string{
	HTTPS, HTTPHost, ServerName, ServerPort, ScriptName, RequestURI,
	QueryString, ForwardedPrefix, ForwardedHost, ForwardedProto, RemoteAddr,
}

// Overrides maps variable names to values that take precedence over the
// base environment.
type Overrides map[string]string

// Snapshot resolves server variables from an override map layered over a
// base reader. It is immutable and safe for concurrent use.
type Snapshot struct {
	base      env.Reader
	overrides Overrides
}

var _ env.Reader = (*Snapshot)(nil)

// New returns a Snapshot of overrides on top of base. A nil base reads the
// process environment.
func New(base env.Reader, overrides Overrides) *Snapshot {
	if base == nil {
		base = &env.OSReader{}
	}
	return &Snapshot{base: base, overrides: maps.Clone(overrides)}
}

// Lookup returns the value of key and whether it is set in either layer.
func (s *Snapshot) Lookup(key string) (string, bool) {
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	return s.base.LookupEnv(key)
}

// Get returns the value of key or the empty string.
func (s *Snapshot) Get(key string) string {
	v, _ := s.Lookup(key)
	return v
}

// LookupEnv implements env.Reader.
func (s *Snapshot) LookupEnv(key string) (string, bool) {
	return s.Lookup(key)
}

// Getenv implements env.Reader.
func (s *Snapshot) Getenv(key string) string {
	return s.Get(key)
}

// With returns a new Snapshot whose overrides are those of s with
// overrides applied on top. s is left unchanged.
func (s *Snapshot) With(overrides Overrides) *Snapshot {
	merged := maps.Clone(s.overrides)
	if merged == nil {
		merged = make(Overrides, len(overrides))
	}
	maps.Copy(merged, overrides)
	return &Snapshot{base: s.base, overrides: merged}
}

// Map returns every known variable that is set, plus all override keys.
func (s *Snapshot) Map() map[string]string {
	out := make(map[string]string, len(Keys)+len(s.overrides))
	for _, k := range Keys {
		if v, ok := s.base.LookupEnv(k); ok {
			out[k] = v
		}
	}
	maps.Copy(out, s.overrides)
	return out
}
