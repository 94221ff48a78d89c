// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package env

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=env.go -destination=mocks/mock_reader.go -package=mocks Reader

import (
	"maps"
	"os"
)

// Reader defines an interface for environment variable access.
// LookupEnv distinguishes an unset variable from one set to the empty string.
type Reader interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
}

// OSReader implements Reader using the standard os package
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key
func (*OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// LookupEnv returns the value of the environment variable named by the key
// and whether it was present.
func (*OSReader) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapReader implements Reader over a fixed set of variables, such as a
// CGI-style request snapshot or a parsed dotenv file.
type MapReader struct {
	vars map[string]string
}

// NewMapReader returns a MapReader holding a copy of vars.
func NewMapReader(vars map[string]string) *MapReader {
	return &MapReader{vars: maps.Clone(vars)}
}

// Getenv returns the value stored for key, or the empty string.
func (m *MapReader) Getenv(key string) string {
	return m.vars[key]
}

// LookupEnv returns the value stored for key and whether it was present.
func (m *MapReader) LookupEnv(key string) (string, bool) {
	v, ok := m.vars[key]
	return v, ok
}
