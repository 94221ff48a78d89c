// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/toolhive-httputil/authz"
	"github.com/stacklok/toolhive-httputil/body"
	"github.com/stacklok/toolhive-httputil/httperr"
	"github.com/stacklok/toolhive-httputil/metrics"
	"github.com/stacklok/toolhive-httputil/recovery"
	"github.com/stacklok/toolhive-httputil/response"
	"github.com/stacklok/toolhive-httputil/siteurl"
)

const shutdownTimeout = 5 * time.Second

type server struct {
	resolver *siteurl.Resolver
	bodies   *body.Registry
	authz    *authz.Registry
	path     string
	token    string
	logger   *slog.Logger
}

// newHandler serves the report at every path below the script and
// redirects /go/{path} to the site URL of path. /metrics is not
// authenticated.
func newHandler(resolver *siteurl.Resolver, reg *prometheus.Registry, opts *options, logger *slog.Logger) http.Handler {
	s := &server{
		resolver: resolver,
		bodies: body.NewDefaultRegistry(
			body.WithLogger(logger),
			body.WithMetrics(metrics.NewBody(reg, metrics.DefaultNamespace)),
		),
		authz:  authz.NewDefaultRegistry(),
		path:   opts.path,
		token:  opts.token,
		logger: logger,
	}
	withVars := siteurl.Middleware(opts.script)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("GET /go/{path...}", withVars(s.authenticate(http.HandlerFunc(s.redirect))))
	mux.Handle("/", withVars(s.authenticate(http.HandlerFunc(s.report))))

	return recovery.New(recovery.WithLogger(logger))(mux)
}

func (s *server) authenticate(next http.Handler) http.Handler {
	if s.token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, err := s.authz.First(r.Header)
		if err == nil {
			bearer, ok := h.(authz.Bearer)
			if !ok || subtle.ConstantTimeCompare([]byte(bearer.Token), []byte(s.token)) != 1 {
				err = httperr.New("invalid credentials", http.StatusUnauthorized)
			}
		}
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			s.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) report(w http.ResponseWriter, r *http.Request) {
	rep, err := buildReport(s.resolver, nil, s.path, true, siteurl.InContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	b, err := s.bodies.WithContent(w.Header(), s.negotiate(r.Header.Get("Accept")), rep)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_, _ = w.Write(b)
}

func (s *server) redirect(w http.ResponseWriter, r *http.Request) {
	target, err := s.resolver.SiteURL(r.PathValue("path"), nil, siteurl.InContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := response.Redirect(w, target, http.StatusFound); err != nil {
		s.fail(w, r, err)
	}
}

// negotiate picks the first acceptable media type with a structured
// parser, falling back to JSON.
func (s *server) negotiate(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		mt := body.MediaType(part)
		if mt == "" || mt == "application/x-www-form-urlencoded" {
			continue
		}
		if _, ok := s.bodies.Find(mt); ok {
			return mt
		}
	}
	return "application/json"
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := httperr.Write(w, err)
	level := slog.LevelWarn
	if response.IsServerError(code) {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", code),
		slog.String("error", err.Error()),
	)
}

func serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
