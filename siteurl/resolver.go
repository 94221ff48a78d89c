// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package siteurl

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/stacklok/toolhive-httputil/env"
	"github.com/stacklok/toolhive-httputil/metrics"
	"github.com/stacklok/toolhive-httputil/proxytrust"
	"github.com/stacklok/toolhive-httputil/servervars"
	"github.com/stacklok/toolhive-httputil/uri"
)

// ErrNoURIFactory is returned by CurrentURI when the resolver has no
// uri.Factory.
var ErrNoURIFactory = fmt.Errorf("%w: no URI factory configured", uri.ErrInvalidArgument)

// Resolution kinds recorded in metrics.
const (
	kindCurrent = "current"
	kindSite    = "site"
	kindBase    = "base"
)

// Resolver computes absolute URLs from server variables.
// It is safe for concurrent use.
type Resolver struct {
	env     env.Reader
	cache   *Cache
	logger  *slog.Logger
	policy  *proxytrust.Policy
	factory uri.Factory
	metrics *metrics.Resolver
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEnv sets the base environment that overrides are layered on.
// The default reads the process environment.
func WithEnv(r env.Reader) Option {
	return func(res *Resolver) {
		res.env = r
	}
}

// WithCache sets the cache used by calls made with Cached. A nil cache
// disables caching.
func WithCache(c *Cache) Option {
	return func(res *Resolver) {
		res.cache = c
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(res *Resolver) {
		res.logger = l
	}
}

// WithTrustPolicy restricts the use of forwarded headers to requests
// admitted by p. Without a policy forwarded headers are always used.
func WithTrustPolicy(p *proxytrust.Policy) Option {
	return func(res *Resolver) {
		res.policy = p
	}
}

// WithURIFactory sets the factory used by CurrentURI.
func WithURIFactory(f uri.Factory) Option {
	return func(res *Resolver) {
		res.factory = f
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Resolver) Option {
	return func(res *Resolver) {
		res.metrics = m
	}
}

// New returns a Resolver configured by opts.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		env:    &env.OSReader{},
		cache:  NewCache(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.env == nil {
		r.env = &env.OSReader{}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

type callConfig struct {
	cached bool
	ctx    context.Context
}

// CallOption configures a single resolution.
type CallOption func(*callConfig)

// Cached memoizes the current URL in the resolver's cache, or in the cache
// carried by the context given with InContext. Once populated the cached
// value is returned regardless of the server variables of later calls.
func Cached() CallOption {
	return func(c *callConfig) {
		c.cached = true
	}
}

// InContext layers the server variables stored in ctx (see Middleware)
// under the explicit overrides and makes Cached use the cache from ctx.
func InContext(ctx context.Context) CallOption {
	return func(c *callConfig) {
		c.ctx = ctx
	}
}

func newCallConfig(opts []CallOption) *callConfig {
	cfg := &callConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// CurrentString returns the absolute URL of the current request: scheme,
// host and port from the server variables and the path from REQUEST_URI.
func (r *Resolver) CurrentString(overrides servervars.Overrides, opts ...CallOption) (string, error) {
	cfg := newCallConfig(opts)
	snap := r.snapshot(overrides, cfg)

	p, err := r.current(snap, r.trusted(snap), cfg)
	if err != nil {
		return "", err
	}
	r.metrics.Resolution(kindCurrent)
	return p.String(), nil
}

// CurrentURI returns the current URL built by the configured uri.Factory
// with its query taken from QUERY_STRING.
func (r *Resolver) CurrentURI(overrides servervars.Overrides, opts ...CallOption) (*url.URL, error) {
	if r.factory == nil {
		return nil, ErrNoURIFactory
	}
	cfg := newCallConfig(opts)
	snap := r.snapshot(overrides, cfg)

	p, err := r.current(snap, r.trusted(snap), cfg)
	if err != nil {
		return nil, err
	}
	u, err := r.factory.CreateURI(p.String())
	if err != nil {
		return nil, fmt.Errorf("creating current URI: %w", err)
	}
	u.RawQuery = snap.Get(servervars.QueryString)
	u.ForceQuery = false
	r.metrics.Resolution(kindCurrent)
	return u, nil
}

// SiteURL returns the URL of the entry script (SCRIPT_NAME) with path
// appended. A trusted HTTP_X_FORWARDED_PREFIX is prepended to the script
// path.
//
//	SiteURL("/some/path", servervars.Overrides{
//		"HTTPS": "on", "SERVER_NAME": "localhost", "SERVER_PORT": "3000",
//		"SCRIPT_NAME": "/public/index.php",
//	})
//	// "https://localhost:3000/public/index.php/some/path"
func (r *Resolver) SiteURL(path string, overrides servervars.Overrides, opts ...CallOption) (string, error) {
	cfg := newCallConfig(opts)
	s, err := r.site(path, r.snapshot(overrides, cfg), cfg)
	if err != nil {
		return "", err
	}
	r.metrics.Resolution(kindSite)
	return s, nil
}

// BaseURL is like SiteURL but resolves against the directory containing
// the entry script.
func (r *Resolver) BaseURL(path string, overrides servervars.Overrides, opts ...CallOption) (string, error) {
	cfg := newCallConfig(opts)
	snap := r.snapshot(overrides, cfg)

	script := strings.ReplaceAll(snap.Get(servervars.ScriptName), `\`, "/")
	dir := uri.Dir(script)
	if dir == "." {
		dir = ""
	}
	snap = snap.With(servervars.Overrides{
		servervars.ScriptName: uri.LeadingSlash(strings.TrimLeft(dir, "/")),
	})

	s, err := r.site(path, snap, cfg)
	if err != nil {
		return "", err
	}
	r.metrics.Resolution(kindBase)
	return s, nil
}

// PathInfo returns the path of the current request relative to the entry
// script. See uri.PathInfo.
func (r *Resolver) PathInfo(overrides servervars.Overrides, opts ...CallOption) string {
	snap := r.snapshot(overrides, newCallConfig(opts))
	return uri.PathInfo(snap.Get(servervars.RequestURI), snap.Get(servervars.ScriptName))
}

func (r *Resolver) site(path string, snap *servervars.Snapshot, cfg *callConfig) (string, error) {
	snap = snap.With(servervars.Overrides{
		servervars.RequestURI: snap.Get(servervars.ScriptName),
	})
	trusted := r.trusted(snap)

	p, err := r.current(snap, trusted, cfg)
	if err != nil {
		return "", err
	}
	if trusted {
		if prefix := strings.Trim(snap.Get(servervars.ForwardedPrefix), "/"); prefix != "" {
			p.Path = "/" + prefix + uri.LeadingSlash(p.Path)
		}
	}
	if path != "" {
		p.Path = uri.TrimTrailingSlash(p.Path) + "/" + strings.TrimLeft(path, "/")
	}

	s := p.String()
	r.logger.Debug("resolved site URL", slog.String("url", s))
	return s, nil
}

func (r *Resolver) snapshot(overrides servervars.Overrides, cfg *callConfig) *servervars.Snapshot {
	snap := servervars.New(r.env, nil)
	if cfg.ctx != nil {
		if o, ok := servervars.FromContext(cfg.ctx); ok {
			snap = snap.With(o)
		}
	}
	return snap.With(overrides)
}

func (r *Resolver) cacheFor(cfg *callConfig) *Cache {
	if cfg.ctx != nil {
		if c, ok := CacheFromContext(cfg.ctx); ok {
			return c
		}
	}
	return r.cache
}

func (r *Resolver) current(snap *servervars.Snapshot, trusted bool, cfg *callConfig) (Parts, error) {
	compute := func() (Parts, error) {
		return currentParts(snap, trusted)
	}

	c := r.cacheFor(cfg)
	if !cfg.cached || c == nil {
		return compute()
	}
	p, hit, err := c.GetOrCompute(compute)
	if err != nil {
		return Parts{}, err
	}
	r.metrics.CacheLookup(hit)
	return p, nil
}

// trusted reports whether the forwarded headers in snap may be used.
func (r *Resolver) trusted(snap *servervars.Snapshot) bool {
	if r.policy == nil || !hasForwarded(snap) {
		return true
	}

	ok, err := r.policy.Allows(snap.Map())
	if err != nil {
		r.logger.Warn("evaluating trust policy",
			slog.String("policy", r.policy.Source()),
			slog.String("error", err.Error()))
		ok = false
	}
	if !ok {
		r.metrics.Untrusted()
		r.logger.Debug("ignoring forwarded headers",
			slog.String("remote_addr", snap.Get(servervars.RemoteAddr)))
	}
	return ok
}

func hasForwarded(snap *servervars.Snapshot) bool {
	for _, k := range []string{servervars.ForwardedHost, servervars.ForwardedProto, servervars.ForwardedPrefix} {
		if _, ok := snap.Lookup(k); ok {
			return true
		}
	}
	return false
}

// currentParts derives the current URL. Scheme comes from HTTPS, or a
// trusted HTTP_X_FORWARDED_PROTO which also discards SERVER_PORT. The host is
// HTTP_X_FORWARDED_HOST when trusted, else HTTP_HOST, else SERVER_NAME; a
// port in the chosen host takes precedence over SERVER_PORT.
func currentParts(snap *servervars.Snapshot, trusted bool) (Parts, error) {
	vars, err := snap.Vars()
	if err != nil {
		return Parts{}, err
	}

	p := Parts{Scheme: "http", Port: defaultPorts["http"]}
	if v, ok := snap.Lookup(servervars.HTTPS); ok && v != "" && !strings.EqualFold(v, "off") {
		p.Scheme = "https"
		p.Port = defaultPorts["https"]
	}

	forwardedProto := false
	if trusted {
		switch proto := strings.ToLower(first(vars.ForwardedProto)); proto {
		case "http", "https":
			p.Scheme = proto
			p.Port = defaultPorts[proto]
			forwardedProto = true
		}
	}
	if vars.ServerPort != 0 && !forwardedProto {
		p.Port = vars.ServerPort
	}

	host := vars.HTTPHost
	if host == "" {
		host = vars.ServerName
	}
	if trusted {
		if fh := first(vars.ForwardedHost); fh != "" {
			host = fh
		}
	}
	host, port, ok := splitHostPort(host)
	if ok {
		p.Port = port
	}
	p.Host = host

	path, query, _ := strings.Cut(vars.RequestURI, "?")
	p.Path = uri.LeadingSlash(strings.TrimLeft(path, "/"))
	p.Query = query
	return p, nil
}

// first returns the first element of a comma separated header value.
func first(list string) string {
	v, _, _ := strings.Cut(list, ",")
	return strings.TrimSpace(v)
}

func splitHostPort(hostport string) (string, int, bool) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return strings.TrimSuffix(strings.TrimPrefix(hostport, "["), "]"), 0, false
	}
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return host, 0, false
	}
	return host, n, true
}

var defaultResolver = sync.OnceValue(func() *Resolver {
	return New()
})

// SiteURL resolves path against the entry script using the process
// environment with overrides applied. See Resolver.SiteURL.
func SiteURL(path string, overrides servervars.Overrides) (string, error) {
	return defaultResolver().SiteURL(path, overrides)
}

// BaseURL resolves path against the entry script's directory using the
// process environment with overrides applied. See Resolver.BaseURL.
func BaseURL(path string, overrides servervars.Overrides) (string, error) {
	return defaultResolver().BaseURL(path, overrides)
}
