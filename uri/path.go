// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package uri

import (
	"net/url"
	"strings"
)

// LeadingSlash returns p with a leading slash. The empty path becomes "/".
func LeadingSlash(p string) string {
	if p == "" || p[0] != '/' {
		return "/" + p
	}
	return p
}

// TrimTrailingSlash removes a single trailing slash from p.
func TrimTrailingSlash(p string) string {
	return strings.TrimSuffix(p, "/")
}

// Dir returns the directory part of a slash separated path, following the
// conventions of a CGI SCRIPT_NAME: Dir("/app/index.php") is "/app",
// Dir("/index.php") is "/" and Dir("index.php") is ".".
func Dir(p string) string {
	if p == "" {
		return ""
	}
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		return "/"
	}
	i := strings.LastIndexByte(trimmed, '/')
	if i < 0 {
		return "."
	}
	if d := strings.TrimRight(trimmed[:i], "/"); d != "" {
		return d
	}
	return "/"
}

// AppendPath returns a copy of u with segments appended to its path. Exactly
// one slash separates the existing path from the first segment and each
// segment from the next. A trailing slash on the last segment is kept.
func AppendPath(u *url.URL, segments ...string) *url.URL {
	var suffix strings.Builder
	for i, s := range segments {
		s = LeadingSlash(s)
		if i < len(segments)-1 {
			s = TrimTrailingSlash(s)
		}
		suffix.WriteString(s)
	}

	c := clone(u)
	c.Path = TrimTrailingSlash(c.Path) + suffix.String()
	c.RawPath = ""
	return c
}

// PrependPath returns a copy of u with segments placed in front of its path,
// in argument order. The first segment is kept relative if it has no leading
// slash.
func PrependPath(u *url.URL, segments ...string) *url.URL {
	var prefix strings.Builder
	for i, s := range segments {
		if i > 0 {
			s = LeadingSlash(s)
		}
		prefix.WriteString(TrimTrailingSlash(s))
	}

	c := clone(u)
	c.Path = prefix.String() + LeadingSlash(c.Path)
	c.RawPath = ""
	return c
}

// PathInfo returns the part of requestURI a front controller dispatches on.
//
// When requestURI starts with scriptName that prefix is removed; otherwise,
// when it starts with the directory of scriptName (the script is hidden by a
// rewrite rule) the directory is removed. The query string is dropped and the
// result always has exactly one leading slash:
//
//	PathInfo("/webapp/index.php/some/path?var=data", "/webapp/index.php") // "/some/path"
//	PathInfo("/webapp/some/path", "/webapp/index.php")                    // "/some/path"
func PathInfo(requestURI, scriptName string) string {
	info := requestURI
	if strings.HasPrefix(requestURI, scriptName) {
		info = requestURI[len(scriptName):]
	} else if dir := Dir(scriptName); strings.HasPrefix(requestURI, dir) {
		info = requestURI[len(dir):]
	}

	if i := strings.IndexByte(info, '?'); i >= 0 {
		info = info[:i]
	}

	return "/" + strings.TrimLeft(info, "/")
}

// Segments splits the path of u on slashes after removing the leading one.
func Segments(u *url.URL) []string {
	return strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
}

func clone(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	c := *u
	return &c
}
