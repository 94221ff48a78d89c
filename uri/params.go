// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package uri

import (
	"maps"
	"net/url"
	"slices"

	"github.com/stacklok/toolhive-httputil/params"
)

// WithQueryParam returns a copy of u with key set in its query.
func WithQueryParam(u *url.URL, key string, value any, opts ...params.MergeOption) *url.URL {
	return WithQueryParams(u, params.Params{{Key: key, Value: value}}, opts...)
}

// WithQueryParams returns a copy of u with p merged into its query.
// See params.Merge for the merge rules.
func WithQueryParams(u *url.URL, p params.Params, opts ...params.MergeOption) *url.URL {
	c := clone(u)
	c.RawQuery = params.Merge(c.RawQuery, p, opts...)
	c.ForceQuery = false
	return c
}

// WithoutQueryParam returns a copy of u without key in its query, along with
// the removed value.
func WithoutQueryParam(u *url.URL, key string) (*url.URL, any, bool) {
	c := clone(u)
	q, v, ok := params.Remove(c.RawQuery, key)
	c.RawQuery = q
	return c, v, ok
}

// QueryParams decodes the query of u.
func QueryParams(u *url.URL) params.Params {
	return params.Decode(u.RawQuery)
}

// QueryParam returns a single decoded query value of u.
func QueryParam(u *url.URL, key string) (any, bool) {
	return params.Get(u.RawQuery, key)
}

// CopyQueryParams copies the named query parameters of src into dst. A name
// missing from src removes it from the result.
func CopyQueryParams(src, dst *url.URL, keys ...string) *url.URL {
	mapping := make(map[string]string, len(keys))
	for _, k := range keys {
		mapping[k] = k
	}
	return CopyQueryParamsAs(src, dst, mapping)
}

// CopyQueryParamsAs copies query parameters of src into dst under new names.
// mapping goes from source name to target name; targets are written in
// sorted order.
func CopyQueryParamsAs(src, dst *url.URL, mapping map[string]string) *url.URL {
	from := QueryParams(src)
	byTarget := make(map[string]string, len(mapping))
	for source, target := range mapping {
		byTarget[target] = source
	}

	copies := make(params.Params, 0, len(mapping))
	for _, target := range slices.Sorted(maps.Keys(byTarget)) {
		v, _ := from.Get(byTarget[target])
		copies = append(copies, params.Param{Key: target, Value: v})
	}
	return WithQueryParams(dst, copies)
}

// WithFragmentParam returns a copy of u with key set in its fragment.
func WithFragmentParam(u *url.URL, key string, value any, opts ...params.MergeOption) *url.URL {
	return WithFragmentParams(u, params.Params{{Key: key, Value: value}}, opts...)
}

// WithFragmentParams returns a copy of u with p merged into its fragment.
func WithFragmentParams(u *url.URL, p params.Params, opts ...params.MergeOption) *url.URL {
	c := clone(u)
	setFragment(c, params.Merge(c.EscapedFragment(), p, opts...))
	return c
}

// WithoutFragmentParam returns a copy of u without key in its fragment, along
// with the removed value.
func WithoutFragmentParam(u *url.URL, key string) (*url.URL, any, bool) {
	c := clone(u)
	f, v, ok := params.Remove(c.EscapedFragment(), key)
	if ok {
		setFragment(c, f)
	}
	return c, v, ok
}

// FragmentParams decodes the fragment of u.
func FragmentParams(u *url.URL) params.Params {
	return params.Decode(u.EscapedFragment())
}

// FragmentParam returns a single decoded fragment value of u.
func FragmentParam(u *url.URL, key string) (any, bool) {
	return params.Get(u.EscapedFragment(), key)
}

// setFragment stores an already encoded fragment so that String emits it
// verbatim.
func setFragment(u *url.URL, encoded string) {
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		decoded = encoded
	}
	u.Fragment = decoded
	u.RawFragment = encoded
}
