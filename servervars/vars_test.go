// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package servervars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-httputil/env"
)

func TestSnapshot_Vars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vars    Overrides
		want    Vars
		wantErr bool
	}{
		{
			name: "full environment",
			vars: Overrides{
				HTTPS:           "on",
				HTTPHost:        "example.com",
				ServerName:      "localhost",
				ServerPort:      "3000",
				ScriptName:      "/public/index.php",
				RequestURI:      "/public/index.php/a?b=c",
				QueryString:     "b=c",
				ForwardedPrefix: "/app",
				ForwardedHost:   "www.example.com",
				ForwardedProto:  "https",
				RemoteAddr:      "10.0.0.1",
			},
			want: Vars{
				HTTPS:           "on",
				HTTPHost:        "example.com",
				ServerName:      "localhost",
				ServerPort:      3000,
				ScriptName:      "/public/index.php",
				RequestURI:      "/public/index.php/a?b=c",
				QueryString:     "b=c",
				ForwardedPrefix: "/app",
				ForwardedHost:   "www.example.com",
				ForwardedProto:  "https",
				RemoteAddr:      "10.0.0.1",
			},
		},
		{
			name: "empty environment",
			vars: Overrides{},
			want: Vars{},
		},
		{
			name:    "port is not a number",
			vars:    Overrides{ServerPort: "http"},
			wantErr: true,
		},
		{
			name:    "port out of range",
			vars:    Overrides{ServerPort: "70000"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap := New(env.NewMapReader(nil), tt.vars)
			got, err := snap.Vars()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidEnvironment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
