// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package authz parses and builds Authorization header values.

A Registry maps scheme names to constructors. Scheme names are matched
case-insensitively and reported in canonical form ("Basic", "Bearer").
Unregistered schemes are returned as Generic values.

	reg := authz.NewDefaultRegistry()

	a, err := reg.First(r.Header)
	switch v := a.(type) {
	case authz.Basic:
	    check(v.User, v.Password)
	case authz.Bearer:
	    verify(v.Token)
	}

Custom schemes are registered at startup:

	err := reg.Register("Digest", func(credentials string) (authz.Header, error) {
	    return parseDigest(credentials)
	})
*/
package authz
