// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_SetGetDelete(t *testing.T) {
	t.Parallel()

	var p Params
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, p.Keys(), "existing keys keep their position")

	v, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	assert.True(t, p.Has("b"))

	old, ok := p.Delete("a")
	assert.True(t, ok)
	assert.Equal(t, "3", old)
	assert.False(t, p.Has("a"))

	_, ok = p.Delete("missing")
	assert.False(t, ok)
}

func TestFromMap(t *testing.T) {
	t.Parallel()

	p := FromMap(map[string]any{"z": 1, "a": 2, "m": 3})
	assert.Equal(t, []string{"a", "m", "z"}, p.Keys())
}

func TestOf(t *testing.T) {
	t.Parallel()

	p := Of("b", 1, "a", 2)
	assert.Equal(t, Params{{Key: "b", Value: 1}, {Key: "a", Value: 2}}, p)

	assert.Panics(t, func() { Of("a") })
	assert.Panics(t, func() { Of(1, 2) })
}

func TestParams_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	p := Of("a", "1")
	c := p.Clone()
	c.Set("a", "2")

	v, _ := p.Get("a")
	assert.Equal(t, "1", v)
}
