// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package servervars

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// FromRequest derives server variables from r. scriptName is the path the
// handler is mounted at and becomes SCRIPT_NAME. Request headers are exposed
// as HTTP_* variables, except Proxy.
func FromRequest(r *http.Request, scriptName string) Overrides {
	o := Overrides{
		HTTPHost:    r.Host,
		ScriptName:  scriptName,
		RequestURI:  r.URL.RequestURI(),
		QueryString: r.URL.RawQuery,
	}

	if r.TLS != nil {
		o[HTTPS] = "on"
	}

	name, port := splitHost(r.Host)
	if port == "" {
		port = localPort(r.Context())
	}
	if port == "" {
		port = "80"
		if r.TLS != nil {
			port = "443"
		}
	}
	o[ServerName] = name
	o[ServerPort] = port

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		o[RemoteAddr] = host
	} else if r.RemoteAddr != "" {
		o[RemoteAddr] = r.RemoteAddr
	}

	for k, v := range r.Header {
		k = strings.ToUpper(strings.ReplaceAll(k, "-", "_"))
		if k == "PROXY" {
			continue
		}
		o["HTTP_"+k] = strings.Join(v, ", ")
	}
	return o
}

func splitHost(hostport string) (string, string) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, ""
	}
	return host, port
}

func localPort(ctx context.Context) string {
	addr, ok := ctx.Value(http.LocalAddrContextKey).(net.Addr)
	if !ok {
		return ""
	}
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return ""
	}
	return port
}

type contextKey struct{}

// ContextWithOverrides returns a copy of ctx carrying o.
func ContextWithOverrides(ctx context.Context, o Overrides) context.Context {
	return context.WithValue(ctx, contextKey{}, o)
}

// FromContext returns the overrides stored by ContextWithOverrides.
func FromContext(ctx context.Context) (Overrides, bool) {
	o, ok := ctx.Value(contextKey{}).(Overrides)
	return o, ok
}
