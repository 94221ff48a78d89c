// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package body

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaViolation is wrapped by SchemaError.
var ErrSchemaViolation = errors.New("document does not match schema")

// SchemaError lists every schema violation of a document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchemaViolation, strings.Join(e.Violations, "; "))
}

// Unwrap returns ErrSchemaViolation.
func (*SchemaError) Unwrap() error {
	return ErrSchemaViolation
}

// CompileSchema compiles a JSON schema document.
func CompileSchema(schema []byte) (*gojsonschema.Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compiling JSON schema: %w", err)
	}
	return s, nil
}

// JSONParser handles application/json.
type JSONParser struct {
	schema *gojsonschema.Schema
}

// JSONOption configures a JSONParser.
type JSONOption func(*JSONParser)

// WithSchema validates parsed documents against s.
func WithSchema(s *gojsonschema.Schema) JSONOption {
	return func(p *JSONParser) {
		p.schema = s
	}
}

// NewJSONParser returns a JSONParser configured by opts.
func NewJSONParser(opts ...JSONOption) *JSONParser {
	p := &JSONParser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Types implements Parser.
func (*JSONParser) Types() []string {
	return []string{"application/json"}
}

// Parse decodes a JSON document. Numbers are returned as json.Number.
func (p *JSONParser) Parse(r io.Reader, _ string) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decoding JSON: unexpected data after document")
	}

	if p.schema != nil {
		result, err := p.schema.Validate(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, fmt.Errorf("validating JSON: %w", err)
		}
		if !result.Valid() {
			violations := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				violations = append(violations, e.String())
			}
			return nil, &SchemaError{Violations: violations}
		}
	}
	return v, nil
}

// Unparse encodes v as JSON.
func (*JSONParser) Unparse(v any, _ string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return b, nil
}
