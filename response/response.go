// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package response

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/stacklok/toolhive-httputil/httperr"
	"github.com/stacklok/toolhive-httputil/uri"
)

// IsInfo reports whether code is 1xx.
func IsInfo(code int) bool { return code >= 100 && code < 200 }

// IsSuccess reports whether code is 2xx.
func IsSuccess(code int) bool { return code >= 200 && code < 300 }

// IsRedirect reports whether code is 3xx.
func IsRedirect(code int) bool { return code >= 300 && code < 400 }

// IsClientError reports whether code is 4xx.
func IsClientError(code int) bool { return code >= 400 && code < 500 }

// IsServerError reports whether code is 5xx or above.
func IsServerError(code int) bool { return code >= 500 }

// IsError reports whether code is 4xx or above.
func IsError(code int) bool { return code >= 400 }

// Redirect replies with a redirect to location, a string, url.URL or
// *url.URL. A zero code means 307 Temporary Redirect. Unlike http.Redirect
// the location is sent verbatim and no body is written.
func Redirect(w http.ResponseWriter, location any, code int) error {
	var loc string
	switch l := location.(type) {
	case string:
		loc = l
	case *url.URL:
		if l == nil {
			return httperr.Errorf(http.StatusInternalServerError, "%w: nil redirect location", uri.ErrInvalidArgument)
		}
		loc = l.String()
	case url.URL:
		loc = l.String()
	default:
		return httperr.Errorf(http.StatusInternalServerError,
			"%w: redirect location must be a string or URL, got %T", uri.ErrInvalidArgument, location)
	}

	if code == 0 {
		code = http.StatusTemporaryRedirect
	}
	if !IsRedirect(code) {
		return httperr.Errorf(http.StatusInternalServerError,
			"%w: %d is not a redirect status", uri.ErrInvalidArgument, code)
	}

	w.Header().Set("Location", loc)
	w.WriteHeader(code)
	return nil
}

// ServeFile writes the file at path with a Content-Type derived from its
// extension, or sniffed from its content, and a Content-Disposition of
// inline or attachment. filename, when set, is sent as the download name.
func ServeFile(w http.ResponseWriter, r *http.Request, path, filename string, attachment bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return httperr.WithCode(fmt.Errorf("opening %s: %w", path, err), http.StatusNotFound)
		}
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return httperr.Errorf(http.StatusNotFound, "%s is a directory", path)
	}

	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	params := map[string]string{}
	if filename != "" {
		params["filename"] = filename
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, params))

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return nil
}
