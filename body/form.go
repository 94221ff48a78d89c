// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package body

import (
	"fmt"
	"io"
	"net/url"

	"github.com/stacklok/toolhive-httputil/params"
)

// FormParser handles application/x-www-form-urlencoded with the bracket
// syntax of the params package.
type FormParser struct{}

// Types implements Parser.
func (FormParser) Types() []string {
	return []string{"application/x-www-form-urlencoded"}
}

// Parse decodes a form body into params.Params.
func (FormParser) Parse(r io.Reader, _ string) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading form: %w", err)
	}
	return params.Decode(string(data)), nil
}

// Unparse encodes params.Params, string-keyed maps, url.Values or an
// already encoded string.
func (FormParser) Unparse(v any, _ string) ([]byte, error) {
	switch t := v.(type) {
	case params.Params:
		return []byte(t.Encode()), nil
	case map[string]any:
		return []byte(params.FromMap(t).Encode()), nil
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return []byte(params.FromMap(m).Encode()), nil
	case url.Values:
		return []byte(t.Encode()), nil
	case string:
		return []byte(t), nil
	default:
		return nil, fmt.Errorf("%w: cannot form-encode %T", ErrUnsupportedContent, v)
	}
}
