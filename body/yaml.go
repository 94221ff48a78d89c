// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package body

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLParser handles YAML documents.
type YAMLParser struct{}

// Types implements Parser.
func (YAMLParser) Types() []string {
	return []string{"application/yaml", "application/x-yaml", "text/yaml"}
}

// Parse decodes the first YAML document of r. An empty body yields nil.
func (YAMLParser) Parse(r io.Reader, _ string) (any, error) {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	return v, nil
}

// Unparse encodes v as YAML.
func (YAMLParser) Unparse(v any, _ string) ([]byte, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return b, nil
}
