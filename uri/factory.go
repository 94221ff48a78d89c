// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package uri

import (
	"errors"
	"net/url"
)

// ErrInvalidArgument is returned when a function receives an argument of the
// wrong kind or is missing a required collaborator.
var ErrInvalidArgument = errors.New("invalid argument")

// Factory creates URI values from strings.
type Factory interface {
	CreateURI(raw string) (*url.URL, error)
}

// Parser is a Factory backed by url.Parse.
type Parser struct{}

// CreateURI parses raw with url.Parse.
func (Parser) CreateURI(raw string) (*url.URL, error) {
	return url.Parse(raw)
}
