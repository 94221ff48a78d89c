// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package siteurl

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-httputil/env"
	"github.com/stacklok/toolhive-httputil/logging"
	"github.com/stacklok/toolhive-httputil/metrics"
	"github.com/stacklok/toolhive-httputil/proxytrust"
	"github.com/stacklok/toolhive-httputil/servervars"
	"github.com/stacklok/toolhive-httputil/uri"
)

// newTestResolver returns a resolver isolated from the process environment.
func newTestResolver(opts ...Option) *Resolver {
	return New(append([]Option{WithEnv(env.NewMapReader(nil))}, opts...)...)
}

func TestResolver_BaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		vars servervars.Overrides
		want string
	}{
		{
			name: "script at root",
			path: "/assets/css/style.css",
			vars: servervars.Overrides{"HTTP_HOST": "localhost", "SCRIPT_NAME": "/index.php"},
			want: "http://localhost/assets/css/style.css",
		},
		{
			name: "https script at root",
			path: "/assets/css/style.css",
			vars: servervars.Overrides{"HTTPS": "on", "HTTP_HOST": "localhost", "SCRIPT_NAME": "/index.php"},
			want: "https://localhost/assets/css/style.css",
		},
		{
			name: "script in subdirectory",
			path: "/assets/css/style.css",
			vars: servervars.Overrides{"HTTP_HOST": "localhost", "SCRIPT_NAME": "/public/index.php"},
			want: "http://localhost/public/assets/css/style.css",
		},
		{
			name: "https script in subdirectory",
			path: "/assets/css/style.css",
			vars: servervars.Overrides{"HTTPS": "on", "HTTP_HOST": "localhost", "SCRIPT_NAME": "/public/index.php"},
			want: "https://localhost/public/assets/css/style.css",
		},
		{
			name: "server name with default https port",
			path: "/assets/css/style.css",
			vars: servervars.Overrides{
				"HTTPS": "on", "SERVER_NAME": "localhost", "SERVER_PORT": "443", "SCRIPT_NAME": "/public/index.php",
			},
			want: "https://localhost/public/assets/css/style.css",
		},
		{
			name: "server name with custom port",
			path: "/assets/css/style.css",
			vars: servervars.Overrides{
				"HTTPS": "on", "SERVER_NAME": "localhost", "SERVER_PORT": "3000", "SCRIPT_NAME": "/public/index.php",
			},
			want: "https://localhost:3000/public/assets/css/style.css",
		},
		{
			name: "relative script name",
			path: "assets/app.js",
			vars: servervars.Overrides{"HTTP_HOST": "localhost", "SCRIPT_NAME": "index.php"},
			want: "http://localhost/assets/app.js",
		},
		{
			name: "backslash separators",
			path: "/assets/app.js",
			vars: servervars.Overrides{"HTTP_HOST": "localhost", "SCRIPT_NAME": `\public\index.php`},
			want: "http://localhost/public/assets/app.js",
		},
		{
			name: "no path",
			vars: servervars.Overrides{"HTTP_HOST": "localhost", "SCRIPT_NAME": "/public/index.php"},
			want: "http://localhost/public",
		},
		{
			name: "forwarded prefix",
			path: "/assets/app.js",
			vars: servervars.Overrides{
				"HTTP_HOST": "localhost", "SCRIPT_NAME": "/index.php", "HTTP_X_FORWARDED_PREFIX": "/app/",
			},
			want: "http://localhost/app/assets/app.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := newTestResolver().BaseURL(tt.path, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_SiteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		vars servervars.Overrides
		want string
	}{
		{
			name: "explicit port",
			path: "/some/path",
			vars: servervars.Overrides{
				"HTTPS": "on", "SERVER_NAME": "localhost", "SERVER_PORT": "3000", "SCRIPT_NAME": "/public/index.php",
			},
			want: "https://localhost:3000/public/index.php/some/path",
		},
		{
			name: "forwarded host and prefix",
			path: "/some/path",
			vars: servervars.Overrides{
				"HTTPS": "on", "SERVER_NAME": "localhost", "SERVER_PORT": "3000", "SCRIPT_NAME": "index.php",
				"HTTP_X_FORWARDED_HOST": "www.domain.com", "HTTP_X_FORWARDED_PREFIX": "/public",
			},
			want: "https://www.domain.com:3000/public/index.php/some/path",
		},
		{
			name: "no path",
			vars: servervars.Overrides{"HTTP_HOST": "localhost", "SCRIPT_NAME": "/index.php"},
			want: "http://localhost/index.php",
		},
		{
			name: "path without leading slash",
			path: "some/path",
			vars: servervars.Overrides{"HTTP_HOST": "localhost", "SCRIPT_NAME": "/index.php"},
			want: "http://localhost/index.php/some/path",
		},
		{
			name: "empty script name",
			path: "/login",
			vars: servervars.Overrides{"HTTP_HOST": "localhost"},
			want: "http://localhost/login",
		},
		{
			name: "port in host wins over server port",
			path: "/a",
			vars: servervars.Overrides{"HTTP_HOST": "example.com:8080", "SERVER_PORT": "80", "SCRIPT_NAME": "/index.php"},
			want: "http://example.com:8080/index.php/a",
		},
		{
			name: "http host wins over server name",
			vars: servervars.Overrides{"HTTP_HOST": "example.com", "SERVER_NAME": "internal", "SCRIPT_NAME": "/"},
			want: "http://example.com/",
		},
		{
			name: "forwarded host with port",
			vars: servervars.Overrides{
				"HTTP_HOST": "internal:8080", "SCRIPT_NAME": "/index.php", "HTTP_X_FORWARDED_HOST": "proxy.example:8443",
			},
			want: "http://proxy.example:8443/index.php",
		},
		{
			name: "forwarded host list uses first entry",
			vars: servervars.Overrides{
				"HTTP_HOST": "internal", "SCRIPT_NAME": "/index.php", "HTTP_X_FORWARDED_HOST": "a.example, b.example",
			},
			want: "http://a.example/index.php",
		},
		{
			name: "forwarded proto discards server port",
			vars: servervars.Overrides{
				"HTTP_HOST": "example.com", "SERVER_PORT": "8080", "SCRIPT_NAME": "/index.php",
				"HTTP_X_FORWARDED_PROTO": "https",
			},
			want: "https://example.com/index.php",
		},
		{
			name: "unknown forwarded proto ignored",
			vars: servervars.Overrides{
				"HTTP_HOST": "example.com", "SCRIPT_NAME": "/index.php", "HTTP_X_FORWARDED_PROTO": "gopher",
			},
			want: "http://example.com/index.php",
		},
		{
			name: "https off",
			vars: servervars.Overrides{"HTTPS": "off", "HTTP_HOST": "example.com", "SCRIPT_NAME": "/index.php"},
			want: "http://example.com/index.php",
		},
		{
			name: "empty https",
			vars: servervars.Overrides{"HTTPS": "", "HTTP_HOST": "example.com", "SCRIPT_NAME": "/index.php"},
			want: "http://example.com/index.php",
		},
		{
			name: "IPv6 host",
			vars: servervars.Overrides{"HTTP_HOST": "[::1]:8080", "SCRIPT_NAME": "/index.php"},
			want: "http://[::1]:8080/index.php",
		},
		{
			name: "prefix of slashes only",
			vars: servervars.Overrides{"HTTP_HOST": "h", "SCRIPT_NAME": "/index.php", "HTTP_X_FORWARDED_PREFIX": "//"},
			want: "http://h/index.php",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := newTestResolver().SiteURL(tt.path, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_CurrentString(t *testing.T) {
	t.Parallel()

	r := newTestResolver()

	got, err := r.CurrentString(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/", got)

	got, err = r.CurrentString(servervars.Overrides{"HTTP_HOST": "example.com", "REQUEST_URI": "/a/b?x=1"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a/b?x=1", got)

	_, err = r.CurrentString(servervars.Overrides{"SERVER_PORT": "eighty"})
	require.ErrorIs(t, err, servervars.ErrInvalidEnvironment)

	_, err = r.SiteURL("/x", servervars.Overrides{"SERVER_PORT": "eighty"})
	require.ErrorIs(t, err, servervars.ErrInvalidEnvironment)
}

func TestResolver_BaseEnvironment(t *testing.T) {
	t.Parallel()

	r := New(WithEnv(env.NewMapReader(map[string]string{
		"SERVER_NAME": "env.example",
		"SCRIPT_NAME": "/index.php",
	})))

	got, err := r.SiteURL("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/index.php", got)

	got, err = r.SiteURL("", servervars.Overrides{"SERVER_NAME": "override.example"})
	require.NoError(t, err)
	assert.Equal(t, "http://override.example/index.php", got)
}

func TestResolver_Cached(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.NewResolver(reg, "test")
	cache := NewCache()
	r := newTestResolver(WithCache(cache), WithMetrics(m))

	first, err := r.CurrentString(servervars.Overrides{"HTTP_HOST": "a.example", "REQUEST_URI": "/one"}, Cached())
	require.NoError(t, err)
	assert.Equal(t, "http://a.example/one", first)

	stale, err := r.CurrentString(servervars.Overrides{"HTTP_HOST": "b.example", "REQUEST_URI": "/two"}, Cached())
	require.NoError(t, err)
	assert.Equal(t, first, stale, "a populated cache ignores later input")

	fresh, err := r.CurrentString(servervars.Overrides{"HTTP_HOST": "b.example", "REQUEST_URI": "/two"})
	require.NoError(t, err)
	assert.Equal(t, "http://b.example/two", fresh)

	site, err := r.SiteURL("/x", servervars.Overrides{"HTTP_HOST": "c.example"}, Cached())
	require.NoError(t, err)
	assert.Equal(t, "http://a.example/one/x", site, "site URL shares the current URL memo")

	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.ResultHit)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.ResultMiss)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.Resolutions.WithLabelValues(kindCurrent)), 0)

	disabled := newTestResolver(WithCache(nil))
	got, err := disabled.CurrentString(servervars.Overrides{"HTTP_HOST": "a.example"}, Cached())
	require.NoError(t, err)
	assert.Equal(t, "http://a.example/", got)
	got, err = disabled.CurrentString(servervars.Overrides{"HTTP_HOST": "b.example"}, Cached())
	require.NoError(t, err)
	assert.Equal(t, "http://b.example/", got)
}

func TestResolver_TrustPolicy(t *testing.T) {
	t.Parallel()

	forwarded := servervars.Overrides{
		"HTTPS": "on", "SERVER_NAME": "localhost", "SERVER_PORT": "3000", "SCRIPT_NAME": "index.php",
		"HTTP_X_FORWARDED_HOST": "www.domain.com", "HTTP_X_FORWARDED_PREFIX": "/public",
	}
	with := func(addr string) servervars.Overrides {
		o := servervars.Overrides{"REMOTE_ADDR": addr}
		for k, v := range forwarded {
			o[k] = v
		}
		return o
	}

	t.Run("trusted proxy", func(t *testing.T) {
		t.Parallel()
		r := newTestResolver(WithTrustPolicy(proxytrust.MustCompile(`in_cidr(remote_addr, "10.0.0.0/8")`)))

		got, err := r.SiteURL("/some/path", with("10.1.2.3"))
		require.NoError(t, err)
		assert.Equal(t, "https://www.domain.com:3000/public/index.php/some/path", got)
	})

	t.Run("untrusted client", func(t *testing.T) {
		t.Parallel()
		m := metrics.NewResolver(prometheus.NewRegistry(), "")
		r := newTestResolver(
			WithTrustPolicy(proxytrust.MustCompile(`in_cidr(remote_addr, "10.0.0.0/8")`)),
			WithMetrics(m),
		)

		got, err := r.SiteURL("/some/path", with("203.0.113.9"))
		require.NoError(t, err)
		assert.Equal(t, "https://localhost:3000/index.php/some/path", got)
		assert.InDelta(t, 1, testutil.ToFloat64(m.UntrustedProxies), 0)
	})

	t.Run("no forwarded headers skips the policy", func(t *testing.T) {
		t.Parallel()
		m := metrics.NewResolver(prometheus.NewRegistry(), "")
		r := newTestResolver(WithTrustPolicy(proxytrust.MustCompile(`false`)), WithMetrics(m))

		got, err := r.SiteURL("", servervars.Overrides{"HTTP_HOST": "h", "SCRIPT_NAME": "/i.php"})
		require.NoError(t, err)
		assert.Equal(t, "http://h/i.php", got)
		assert.InDelta(t, 0, testutil.ToFloat64(m.UntrustedProxies), 0)
	})

	t.Run("evaluation error is logged and distrusted", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		r := newTestResolver(
			WithTrustPolicy(proxytrust.MustCompile(`server["HTTP_X_TRUSTED"] == "yes"`)),
			WithLogger(logging.New(logging.WithOutput(&buf))),
		)

		got, err := r.SiteURL("/some/path", with("10.1.2.3"))
		require.NoError(t, err)
		assert.Equal(t, "https://localhost:3000/index.php/some/path", got)
		assert.Contains(t, buf.String(), "evaluating trust policy")
	})
}

func TestResolver_CurrentURI(t *testing.T) {
	t.Parallel()

	vars := servervars.Overrides{"HTTP_HOST": "example.com", "REQUEST_URI": "/a?ignored=1", "QUERY_STRING": "b=2"}

	r := newTestResolver(WithURIFactory(uri.Parser{}))
	u, err := r.CurrentURI(vars)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a?b=2", u.String())

	u, err = r.CurrentURI(servervars.Overrides{"HTTP_HOST": "example.com", "REQUEST_URI": "/a?x"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a", u.String())

	_, err = newTestResolver().CurrentURI(vars)
	require.ErrorIs(t, err, ErrNoURIFactory)
	require.ErrorIs(t, err, uri.ErrInvalidArgument)
}

func TestResolver_PathInfo(t *testing.T) {
	t.Parallel()

	r := newTestResolver()
	assert.Equal(t, "/some/path", r.PathInfo(servervars.Overrides{
		"REQUEST_URI": "/webapp/index.php/some/path?var=data",
		"SCRIPT_NAME": "/webapp/index.php",
	}))
	assert.Equal(t, "/some/path", r.PathInfo(servervars.Overrides{
		"REQUEST_URI": "/webapp/some/path",
		"SCRIPT_NAME": "/webapp/index.php",
	}))
}

func TestPackageFunctions(t *testing.T) { //nolint:paralleltest // Reads the process environment
	t.Setenv("HTTP_HOST", "process.example")
	t.Setenv("SCRIPT_NAME", "/public/index.php")

	got, err := SiteURL("/x", servervars.Overrides{"HTTPS": "on", "SERVER_PORT": "443"})
	require.NoError(t, err)
	assert.Equal(t, "https://process.example/public/index.php/x", got)

	got, err = BaseURL("/x", servervars.Overrides{"HTTPS": "on", "SERVER_PORT": "443"})
	require.NoError(t, err)
	assert.Equal(t, "https://process.example/public/x", got)
}
