// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package uri

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestLeadingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"a", "/a"},
		{"/a", "/a"},
		{"a/", "/a/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LeadingSlash(tt.in), "LeadingSlash(%q)", tt.in)
		assert.Equal(t, LeadingSlash(tt.in), LeadingSlash(LeadingSlash(tt.in)), "idempotent for %q", tt.in)
	}
}

func TestTrimTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/", ""},
		{"a/", "a"},
		{"/a/b", "/a/b"},
		{"a//", "a/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TrimTrailingSlash(tt.in), "TrimTrailingSlash(%q)", tt.in)
	}

	// Idempotence holds for inputs with at most one trailing slash.
	for _, in := range []string{"", "/", "a", "a/", "/x/y/"} {
		once := TrimTrailingSlash(in)
		assert.Equal(t, once, TrimTrailingSlash(once), "idempotent for %q", in)
	}
}

func TestDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/", "/"},
		{"/index.php", "/"},
		{"/webapp/index.php", "/webapp"},
		{"/webapp", "/"},
		{"/webapp/", "/"},
		{"/a/b/c.php", "/a/b"},
		{"index.php", "."},
		{"a//b", "a"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Dir(tt.in), "Dir(%q)", tt.in)
	}
}

func TestAppendPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{"plain", "https://example.com/api", []string{"users"}, "https://example.com/api/users"},
		{"base trailing slash", "https://example.com/api/", []string{"users"}, "https://example.com/api/users"},
		{"segment leading slash", "https://example.com/api/", []string{"/users"}, "https://example.com/api/users"},
		{"many segments", "https://example.com/api", []string{"v1/", "/users/", "7"}, "https://example.com/api/v1/users/7"},
		{"last trailing slash kept", "https://example.com", []string{"dir/"}, "https://example.com/dir/"},
		{"empty base path", "https://example.com", []string{"a"}, "https://example.com/a"},
		{"query preserved", "https://example.com/a?x=1", []string{"b"}, "https://example.com/a/b?x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := mustParse(t, tt.base)
			got := AppendPath(u, tt.segments...)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.base, u.String(), "input URL must not change")
		})
	}
}

func TestPrependPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{"plain", "https://example.com/users", []string{"/api"}, "https://example.com/api/users"},
		{"prefix trailing slash", "https://example.com/users", []string{"/api/"}, "https://example.com/api/users"},
		{"path without slash", "https://example.com", []string{"/api/"}, "https://example.com/api/"},
		{"many segments", "https://example.com/users", []string{"/api/", "v1/"}, "https://example.com/api/v1/users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PrependPath(mustParse(t, tt.base), tt.segments...)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAppendPrependPath_NoDoubleOrMissingSlash(t *testing.T) {
	t.Parallel()

	forms := func(s string) []string {
		return []string{s, "/" + s, s + "/", "/" + s + "/"}
	}

	for _, base := range forms("base") {
		for _, seg := range forms("seg") {
			for _, seg2 := range forms("more") {
				u := &url.URL{Path: base}

				appended := AppendPath(u, seg, seg2).Path
				assert.NotContains(t, appended, "//", "AppendPath(%q, %q, %q)", base, seg, seg2)
				assert.Contains(t, appended, "base/seg/more", "AppendPath(%q, %q, %q)", base, seg, seg2)

				prepended := PrependPath(u, seg, seg2).Path
				assert.NotContains(t, prepended, "//", "PrependPath(%q, %q, %q)", base, seg, seg2)
				assert.Contains(t, prepended, "seg/more/base", "PrependPath(%q, %q, %q)", base, seg, seg2)
			}
		}
	}
}

func TestPathInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		requestURI string
		scriptName string
		want       string
	}{
		{"/some/path", "/", "/some/path"},
		{"/some/path", "/index.php", "/some/path"},
		{"/webapp/some/path", "/webapp/index.php", "/some/path"},
		{"/index.php/some/path", "/index.php", "/some/path"},
		{"/webapp/index.php/some/path", "/webapp/index.php", "/some/path"},
		{"/webapp/some/path", "/webapp", "/some/path"},
		{"/webapp/index.php/some/path?var=data", "/webapp/index.php", "/some/path"},
		{"/webapp/index.php", "/webapp/index.php", "/"},
		{"/other/path", "/webapp/index.php", "/other/path"},
		{"/?q=1", "/index.php", "/"},
		{"", "/index.php", "/"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s in %s", tt.requestURI, tt.scriptName), func(t *testing.T) {
			t.Parallel()
			got := PathInfo(tt.requestURI, tt.scriptName)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(got, "/") && !strings.HasPrefix(got, "//"))
		})
	}
}

func TestSegments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, Segments(mustParse(t, "https://example.com/a/b/c")))
	assert.Equal(t, []string{""}, Segments(mustParse(t, "https://example.com/")))
	assert.Equal(t, []string{"a", ""}, Segments(mustParse(t, "/a/")))
}
