// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package servervars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-httputil/env"
	"github.com/stacklok/toolhive-httputil/env/mocks"
)

func TestSnapshot_Lookup(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	base := mocks.NewMockReader(ctrl)
	base.EXPECT().LookupEnv(ServerName).Return("base.example", true)
	base.EXPECT().LookupEnv(HTTPS).Return("", false)

	snap := New(base, Overrides{HTTPHost: "override.example", ScriptName: ""})

	v, ok := snap.Lookup(HTTPHost)
	assert.True(t, ok)
	assert.Equal(t, "override.example", v)

	v, ok = snap.Lookup(ServerName)
	assert.True(t, ok)
	assert.Equal(t, "base.example", v)

	_, ok = snap.Lookup(HTTPS)
	assert.False(t, ok)

	v, ok = snap.Lookup(ScriptName)
	assert.True(t, ok, "an empty override is still set")
	assert.Empty(t, v)
}

func TestSnapshot_With(t *testing.T) {
	t.Parallel()

	base := env.NewMapReader(map[string]string{ServerName: "base", ServerPort: "80"})
	snap := New(base, Overrides{ServerPort: "8080"})
	next := snap.With(Overrides{ServerPort: "9090", ScriptName: "/index.php"})

	assert.Equal(t, "8080", snap.Get(ServerPort), "original snapshot must not change")
	assert.Empty(t, snap.Get(ScriptName))
	assert.Equal(t, "9090", next.Get(ServerPort))
	assert.Equal(t, "/index.php", next.Get(ScriptName))
	assert.Equal(t, "base", next.Get(ServerName))

	empty := New(base, nil).With(Overrides{HTTPS: "on"})
	assert.Equal(t, "on", empty.Get(HTTPS))
}

func TestSnapshot_Map(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	base := mocks.NewMockReader(ctrl)
	base.EXPECT().LookupEnv(gomock.Any()).DoAndReturn(func(key string) (string, bool) {
		if key == ServerName {
			return "localhost", true
		}
		return "", false
	}).Times(len(Keys))

	snap := New(base, Overrides{ServerName: "example.com", "CUSTOM": "x"})
	assert.Equal(t, map[string]string{ServerName: "example.com", "CUSTOM": "x"}, snap.Map())
}

func TestSnapshot_ImplementsReader(t *testing.T) {
	t.Parallel()

	var r env.Reader = New(env.NewMapReader(map[string]string{HTTPHost: "h"}), nil)
	assert.Equal(t, "h", r.Getenv(HTTPHost))
	_, ok := r.LookupEnv(HTTPS)
	assert.False(t, ok)
}

func TestNew_NilBaseReadsProcessEnvironment(t *testing.T) { //nolint:paralleltest // Modifies environment variables
	t.Setenv(ServerName, "process.example")

	snap := New(nil, nil)
	assert.Equal(t, "process.example", snap.Get(ServerName))
}
