// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package body

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-httputil/params"
)

const personSchema = `{
	"type": "object",
	"required": ["name", "age"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	}
}`

func TestJSONParser_Schema(t *testing.T) {
	t.Parallel()

	schema, err := CompileSchema([]byte(personSchema))
	require.NoError(t, err)
	p := NewJSONParser(WithSchema(schema))

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		v, err := p.Parse(strings.NewReader(`{"name": "ann", "age": 30}`), "application/json")
		require.NoError(t, err)
		assert.Equal(t, "ann", v.(map[string]any)["name"])
	})

	t.Run("every violation is reported", func(t *testing.T) {
		t.Parallel()
		_, err := p.Parse(strings.NewReader(`{"name": 5, "age": -1}`), "application/json")
		require.ErrorIs(t, err, ErrSchemaViolation)

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Len(t, schemaErr.Violations, 2)
	})

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()
		_, err := p.Parse(strings.NewReader(`{"name": "ann"}`), "application/json")
		require.ErrorIs(t, err, ErrSchemaViolation)
		assert.Contains(t, err.Error(), "age")
	})
}

func TestJSONParser_Errors(t *testing.T) {
	t.Parallel()

	p := NewJSONParser()

	_, err := p.Parse(strings.NewReader(`{} {}`), "")
	assert.Error(t, err)

	_, err = p.Parse(strings.NewReader(``), "")
	assert.Error(t, err)

	_, err = p.Unparse(make(chan int), "")
	assert.Error(t, err)

	_, err = CompileSchema([]byte(`{"type": 12}`))
	assert.Error(t, err)
}

func TestFormParser_Unparse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		want    string
		wantErr bool
	}{
		{name: "params", value: params.Of("b", "2", "a", "1"), want: "b=2&a=1"},
		{name: "map sorted", value: map[string]any{"b": 2, "a": true}, want: "a=1&b=2"},
		{name: "string map", value: map[string]string{"q": "a b"}, want: "q=a+b"},
		{name: "url values", value: url.Values{"x": {"1", "2"}}, want: "x=1&x=2"},
		{name: "encoded string", value: "already=encoded", want: "already=encoded"},
		{name: "unsupported", value: 3.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FormParser{}.Unparse(tt.value, "")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedContent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestYAMLParser(t *testing.T) {
	t.Parallel()

	p := YAMLParser{}

	v, err := p.Parse(strings.NewReader(""), "application/yaml")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = p.Parse(strings.NewReader("a: [1, 2"), "application/yaml")
	assert.Error(t, err)

	b, err := p.Unparse(map[string]any{"name": "demo"}, "application/yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: demo\n", string(b))
}
