// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/stacklok/toolhive-httputil/httperr"
)

type config struct {
	logger *slog.Logger
}

// Option configures the middleware returned by [New].
type Option func(*config)

// WithLogger logs every recovered panic with its value, the request and a
// stack trace at error level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Middleware is an HTTP middleware that recovers from panics.
// When a panic occurs, it returns a 500 Internal Server Error response
// to the client, preventing the panic from crashing the server.
// Panics are recovered silently; use [New] with [WithLogger] to record them.
func Middleware(next http.Handler) http.Handler {
	return New()(next)
}

// New returns a recovery middleware configured by opts.
//
// A panic with an error carrying an HTTP status through httperr is answered
// with that status. [http.ErrAbortHandler] is re-raised so the server can
// abort the response.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				err, ok := v.(error)
				if !ok {
					err = fmt.Errorf("%v", v)
				}
				if errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}
				code := httperr.Code(err)

				cfg.logger.ErrorContext(r.Context(), "recovered from panic",
					"panic", fmt.Sprint(v),
					"method", r.Method,
					"path", r.URL.Path,
					"status", code,
					"stack", string(debug.Stack()),
				)
				httperr.Write(w, err)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
