// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package params encodes and decodes the key/value strings carried in the query
and fragment components of a URI.

The wire format is application/x-www-form-urlencoded with bracket notation for
nested values, the format produced by HTML forms and most server-side
frameworks:

	a=1&b%5B0%5D=2&b%5B1%5D=3      // {"a": "1", "b": ["2", "3"]}
	user%5Bname%5D=ann             // {"user": {"name": "ann"}}

# Basic Usage

	p := params.Decode("page=2&sort=name")
	v, ok := p.Get("page") // "2", true

	q := params.Merge("page=2", params.Of("page", 3, "size", 20))
	// "page=3&size=20"

	q, old, ok := params.Remove(q, "size")
	// "page=3", "20", true

# Ordering

Params keeps insertion order. Merge keeps existing keys where they are and
appends new ones in the order given, so re-encoding is deterministic and
stable for signing or caching.

# Malformed Input

Decoding never fails: bad percent escapes are kept as-is and pairs with an
empty name are dropped.
*/
package params
