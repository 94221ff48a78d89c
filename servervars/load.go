// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package servervars

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/stacklok/toolhive-httputil/env"
)

// Load reads server variables from dotenv files. Later files override
// earlier ones. With no paths it reads ".env" from the working directory.
func Load(paths ...string) (*env.MapReader, error) {
	vars, err := godotenv.Read(paths...)
	if err != nil {
		return nil, fmt.Errorf("reading server variables: %w", err)
	}
	return env.NewMapReader(vars), nil
}
