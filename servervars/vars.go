// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package servervars

import (
	"errors"
	"fmt"

	envparse "github.com/caarlos0/env/v11"
)

// ErrInvalidEnvironment is returned when a server variable cannot be
// converted to its typed form.
var ErrInvalidEnvironment = errors.New("invalid server environment")

// Vars is the typed form of a Snapshot. A zero ServerPort means the
// variable is unset.
type Vars struct {
	HTTPS           string `env:"HTTPS"`
	HTTPHost        string `env:"HTTP_HOST"`
	ServerName      string `env:"SERVER_NAME"`
	ServerPort      int    `env:"SERVER_PORT"`
	ScriptName      string `env:"SCRIPT_NAME"`
	RequestURI      string `env:"REQUEST_URI"`
	QueryString     string `env:"QUERY_STRING"`
	ForwardedPrefix string `env:"HTTP_X_FORWARDED_PREFIX"`
	ForwardedHost   string `env:"HTTP_X_FORWARDED_HOST"`
	ForwardedProto  string `env:"HTTP_X_FORWARDED_PROTO"`
	RemoteAddr      string `env:"REMOTE_ADDR"`
}

// Vars parses the snapshot into Vars.
func (s *Snapshot) Vars() (Vars, error) {
	var v Vars
	if err := envparse.ParseWithOptions(&v, envparse.Options{Environment: s.Map()}); err != nil {
		return Vars{}, fmt.Errorf("%w: %w", ErrInvalidEnvironment, err)
	}
	if v.ServerPort < 0 || v.ServerPort > 65535 {
		return Vars{}, fmt.Errorf("%w: %s %d out of range", ErrInvalidEnvironment, ServerPort, v.ServerPort)
	}
	return v, nil
}
