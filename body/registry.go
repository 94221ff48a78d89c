// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package body

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/stacklok/toolhive-httputil/httperr"
	"github.com/stacklok/toolhive-httputil/metrics"
)

// DefaultMaxBytes is the default limit on the size of a body read by Content.
const DefaultMaxBytes = 10 << 20

var (
	// ErrUnsupportedContent is returned when a value cannot be serialized
	// for the requested media type.
	ErrUnsupportedContent = errors.New("unsupported content")

	// ErrTooLarge is returned when a body exceeds the registry's size limit.
	ErrTooLarge = errors.New("body too large")
)

// Parser converts bodies of the media types it reports.
type Parser interface {
	// Types returns the media types handled by the parser.
	Types() []string
	// Parse decodes a body. contentType is the full Content-Type value.
	Parse(r io.Reader, contentType string) (any, error)
	// Unparse encodes v as a body of contentType.
	Unparse(v any, contentType string) ([]byte, error)
}

// Registry maps media types to parsers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	parsers  map[string]Parser
	logger   *slog.Logger
	metrics  *metrics.Body
	maxBytes int64
}

// Option configures a Registry.
type Option func(*Registry)

// WithParsers registers parsers at construction time.
func WithParsers(parsers ...Parser) Option {
	return func(r *Registry) {
		for _, p := range parsers {
			r.register(p)
		}
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Body) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithMaxBytes limits the size of bodies read by Content.
func WithMaxBytes(n int64) Option {
	return func(r *Registry) {
		r.maxBytes = n
	}
}

// NewRegistry returns an empty registry configured by opts.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		parsers:  make(map[string]Parser),
		logger:   slog.New(slog.DiscardHandler),
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry returns a registry with the JSON, form and YAML
// parsers registered. Later options may replace them.
func NewDefaultRegistry(opts ...Option) *Registry {
	defaults := WithParsers(NewJSONParser(), FormParser{}, YAMLParser{})
	return NewRegistry(append([]Option{defaults}, opts...)...)
}

// Register adds p for each of its media types, replacing earlier parsers.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(p)
}

func (r *Registry) register(p Parser) {
	for _, t := range p.Types() {
		r.parsers[strings.ToLower(t)] = p
	}
}

// Find returns the parser for contentType. Parameters are ignored and a
// structured syntax suffix (+json, +yaml) falls back to application/json or
// application/yaml.
func (r *Registry) Find(contentType string) (Parser, bool) {
	mt := MediaType(contentType)
	if mt == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.parsers[mt]; ok {
		return p, true
	}
	if i := strings.LastIndexByte(mt, '+'); i >= 0 {
		p, ok := r.parsers["application/"+mt[i+1:]]
		return p, ok
	}
	return nil, false
}

// Content reads the body r according to the Content-Type in h. Without a
// Content-Type or a matching parser the body is returned as a string.
func (r *Registry) Content(h http.Header, body io.Reader) (any, error) {
	data, err := io.ReadAll(io.LimitReader(body, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, httperr.WithCode(
			fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, r.maxBytes),
			http.StatusRequestEntityTooLarge)
	}

	contentType := h.Get("Content-Type")
	p, ok := r.Find(contentType)
	if !ok {
		return string(data), nil
	}

	mt := MediaType(contentType)
	v, err := p.Parse(bytes.NewReader(data), contentType)
	r.metrics.Result(mt, err)
	if err != nil {
		r.logger.Debug("failed to parse body",
			slog.String("media_type", mt),
			slog.String("error", err.Error()))
		return nil, httperr.WithCode(fmt.Errorf("parsing %s body: %w", mt, err), http.StatusBadRequest)
	}
	return v, nil
}

// WithContent serializes v for mediaType and sets the Content-Type of h.
// Without a matching parser v must be a string, a []byte or a fmt.Stringer.
func (r *Registry) WithContent(h http.Header, mediaType string, v any) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if p, ok := r.Find(mediaType); ok {
		b, err = p.Unparse(v, mediaType)
	} else {
		b, err = raw(v)
	}
	if err != nil {
		return nil, err
	}
	h.Set("Content-Type", mediaType)
	return b, nil
}

func raw(v any) ([]byte, error) {
	switch t := v.(type) {
	case string:
		return []byte(t), nil
	case []byte:
		return t, nil
	case fmt.Stringer:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("%w: %T without a parser", ErrUnsupportedContent, v)
	}
}

// MediaType returns the lower-cased media type of a Content-Type value
// without parameters.
func MediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
