// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package uri

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/stacklok/toolhive-httputil/httperr"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9\-_]+)\}`)

// braceUnescaper restores placeholders that url.URL.String escaped.
var braceUnescaper = strings.NewReplacer("%7B", "{", "%7b", "{", "%7D", "}", "%7d", "}")

type expandConfig struct {
	encode bool
}

// ExpandOption configures Expand and MapReplace.
type ExpandOption func(*expandConfig)

// Raw inserts replacement values without URL-encoding them.
func Raw() ExpandOption {
	return func(c *expandConfig) {
		c.encode = false
	}
}

// Expand replaces {name} placeholders in template with values from
// replacements. Names consist of letters, digits, '-' and '_'. Placeholders
// without a replacement are left untouched. Values are formatted with
// fmt.Sprint and query-escaped unless Raw is given.
//
//	Expand("https://example.com/collection/{id}/{id2}", map[string]any{"id": 20, "id2": 30})
//	// "https://example.com/collection/20/30"
func Expand(template string, replacements map[string]any, opts ...ExpandOption) string {
	cfg := &expandConfig{encode: true}
	for _, opt := range opts {
		opt(cfg)
	}

	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return template
	}

	seen := make(map[string]bool, len(matches))
	out := template
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true

		v, ok := replacements[name]
		if !ok {
			continue
		}
		s := fmt.Sprint(v)
		if cfg.encode {
			s = url.QueryEscape(s)
		}
		out = strings.ReplaceAll(out, m[0], s)
	}
	return out
}

// MapReplace expands template, which must be a string, a url.URL or a
// *url.URL, and builds the result with factory. Any other template type is
// a programming error reported as ErrInvalidArgument.
func MapReplace(factory Factory, template any, replacements map[string]any, opts ...ExpandOption) (*url.URL, error) {
	if factory == nil {
		return nil, httperr.Errorf(http.StatusInternalServerError, "%w: MapReplace requires a URI factory", ErrInvalidArgument)
	}

	var s string
	switch t := template.(type) {
	case string:
		s = t
	case *url.URL:
		if t == nil {
			return nil, httperr.Errorf(http.StatusInternalServerError, "%w: template URL is nil", ErrInvalidArgument)
		}
		s = braceUnescaper.Replace(t.String())
	case url.URL:
		s = braceUnescaper.Replace(t.String())
	default:
		return nil, httperr.Errorf(http.StatusInternalServerError,
			"%w: template must be a string or URL, got %T", ErrInvalidArgument, template)
	}

	u, err := factory.CreateURI(Expand(s, replacements, opts...))
	if err != nil {
		return nil, fmt.Errorf("creating URI from template: %w", err)
	}
	return u, nil
}
